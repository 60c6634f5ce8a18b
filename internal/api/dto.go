package api

import (
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/models"
)

// ScoreRequest is the request body for scoring a single note.
type ScoreRequest struct {
	Content string `json:"content" example:"# Retry Pattern\nI am keeping this because..." validate:"required"`
}

// ScoreResponse is the scored note (aliased from the domain layer).
type ScoreResponse = models.NoteEvaluation

// EvaluateRequest is the request body for evaluating one strategy's notes
// against a scenario's ground truth.
type EvaluateRequest struct {
	Scenario models.TestScenario          `json:"scenario" validate:"required"`
	Notes    []models.ExtractedNoteResult `json:"notes" validate:"required"`
	Timing   models.Timing                `json:"timing"`
}

// EvaluateResponse is the computed metrics (aliased from the domain layer).
type EvaluateResponse = models.ExtractionMetrics

// RunListResponse wraps the run-history listing.
type RunListResponse struct {
	Runs []history.RunRow `json:"runs" validate:"required"`
}
