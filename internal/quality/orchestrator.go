// Package quality runs the NVQ rubric over a batch of extracted notes and
// reduces the scores into batch-level diagnostics and recommendations.
package quality

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/vitalis/internal/models"
	"github.com/starford/vitalis/internal/notefields"
	"github.com/starford/vitalis/internal/rubric"
)

// Orchestrator converts raw extracted notes into scored evaluations. Notes
// are independent, so the scoring map runs in parallel; the metrics reducer
// is the only barrier.
type Orchestrator struct {
	evaluator *rubric.Evaluator
}

// New builds an orchestrator for one rubric configuration.
func New(cfg rubric.Config) (*Orchestrator, error) {
	evaluator, err := rubric.NewEvaluator(cfg)
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}
	return &Orchestrator{evaluator: evaluator}, nil
}

// Evaluate recovers quality fields, scores every note, matches notes to the
// declared expectations, and reduces the batch into NoteQualityMetrics.
func (o *Orchestrator) Evaluate(ctx context.Context, notes []models.ExtractedNoteResult, expectations []models.QualityExpectation) (*models.QualityEvaluationResults, error) {
	evaluations := make([]models.NoteEvaluation, len(notes))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, raw := range notes {
		g.Go(func() error {
			recovered := notefields.Recover(raw)
			evaluations[i] = models.NoteEvaluation{
				Note:  recovered,
				Score: o.evaluator.Evaluate(recovered),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unmet := matchExpectations(evaluations, expectations)

	return &models.QualityEvaluationResults{
		Evaluations:       evaluations,
		Metrics:           reduceMetrics(evaluations),
		Recommendations:   recommendations(evaluations),
		UnmetExpectations: unmet,
	}, nil
}

// matchExpectations assigns each evaluation the first expectation it
// satisfies and returns the names of expectations no note met. A note
// matches when its title contains the pattern and its content contains every
// required substring; an empty requirement list matches on title alone.
func matchExpectations(evaluations []models.NoteEvaluation, expectations []models.QualityExpectation) []string {
	met := make(map[string]bool, len(expectations))

	for i := range evaluations {
		ev := &evaluations[i]
		for _, exp := range expectations {
			if !noteMatches(&ev.Note, exp) {
				continue
			}
			ev.Expectation = exp.Name
			ev.MeetsExpectation = ev.Score.Total >= exp.MinScore
			if ev.MeetsExpectation {
				met[exp.Name] = true
			}
			break
		}
	}

	var unmet []string
	for _, exp := range expectations {
		if !met[exp.Name] {
			unmet = append(unmet, exp.Name)
		}
	}
	return unmet
}

func noteMatches(note *models.QualityExtractedNote, exp models.QualityExpectation) bool {
	title := strings.ToLower(note.Title)
	if !strings.Contains(title, strings.ToLower(exp.TitlePattern)) {
		return false
	}
	content := strings.ToLower(note.Content)
	if note.MergedContent != "" {
		content = strings.ToLower(note.MergedContent)
	}
	for _, required := range exp.MustContain {
		if !strings.Contains(content, strings.ToLower(required)) {
			return false
		}
	}
	return true
}
