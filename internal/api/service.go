package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/starford/vitalis/internal/accuracy"
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/models"
	"github.com/starford/vitalis/internal/notefields"
	"github.com/starford/vitalis/internal/parser"
	"github.com/starford/vitalis/internal/rubric"
)

var errHistoryDisabled = errors.New("api: run history is not configured")

// ScorePublisher receives per-note score notifications. The SSE broker
// satisfies this in serve mode.
type ScorePublisher interface {
	PublishScore(noteTitle string, total int)
}

// Service coordinates scoring, accuracy evaluation, and run history for the
// API layer.
type Service struct {
	evaluator *rubric.Evaluator
	calc      *accuracy.Calculator
	store     history.Store
	scores    ScorePublisher
}

// NewService creates an API service. store and scores may be nil; the
// corresponding endpoints degrade gracefully.
func NewService(cfg rubric.Config, store history.Store, scores ScorePublisher) (*Service, error) {
	evaluator, err := rubric.NewEvaluator(cfg)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	return &Service{
		evaluator: evaluator,
		calc:      accuracy.NewCalculator(),
		store:     store,
		scores:    scores,
	}, nil
}

// Score parses raw Markdown into a note, recovers its quality fields, and
// runs the rubric over it.
func (s *Service) Score(_ context.Context, markdown []byte) (*models.NoteEvaluation, error) {
	note, err := parser.ParseNote(markdown)
	if err != nil {
		return nil, fmt.Errorf("api: parse note: %w", err)
	}
	recovered := notefields.Recover(note)
	score := s.evaluator.Evaluate(recovered)
	if s.scores != nil {
		s.scores.PublishScore(recovered.Title, score.Total)
	}
	return &models.NoteEvaluation{Note: recovered, Score: score}, nil
}

// Evaluate computes extraction-accuracy metrics for one scenario and one
// strategy's notes.
func (s *Service) Evaluate(_ context.Context, scenario models.TestScenario, notes []models.ExtractedNoteResult, timing models.Timing) models.ExtractionMetrics {
	return s.calc.Calculate(scenario, notes, timing)
}

// Runs lists recent runs from the history store.
func (s *Service) Runs(_ context.Context, limit int) ([]history.RunRow, error) {
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	return s.store.Recent(limit)
}

// Run fetches one run by id.
func (s *Service) Run(_ context.Context, runID string) (*history.RunRow, error) {
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	return s.store.Get(runID)
}
