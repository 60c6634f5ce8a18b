// Package runner drives a full evaluation run: load every scenario fixture,
// score each strategy's extraction results, pick the best strategy, run the
// quality rubric over its notes, and emit the report artifacts.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/starford/vitalis/internal/accuracy"
	"github.com/starford/vitalis/internal/checksum"
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/models"
	"github.com/starford/vitalis/internal/quality"
	"github.com/starford/vitalis/internal/report"
	"github.com/starford/vitalis/internal/rubric"
	"github.com/starford/vitalis/internal/scenario"
)

// Publisher receives run lifecycle events. The SSE broker satisfies this in
// serve mode; batch runs pass nil.
type Publisher interface {
	Publish(event string, payload any)
}

// Option is a functional option for configuring the runner.
type Option func(*Runner)

// WithReportDir enables writing the JSON report artifact into dir.
func WithReportDir(dir string) Option {
	return func(r *Runner) { r.reportDir = dir }
}

// WithHistory records each finished run in the history store.
func WithHistory(store history.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithPublisher emits run.started and run.completed events.
func WithPublisher(pub Publisher) Option {
	return func(r *Runner) { r.pub = pub }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithSynonyms configures tag synonym groups for reuse evaluation.
func WithSynonyms(syn map[string][]string) Option {
	return func(r *Runner) { r.calc.Synonyms = syn }
}

// Runner evaluates scenario fixtures end to end.
type Runner struct {
	loader    *scenario.Loader
	calc      *accuracy.Calculator
	quality   *quality.Orchestrator
	store     history.Store
	pub       Publisher
	logger    *slog.Logger
	reportDir string
}

// Outcome is the product of one run.
type Outcome struct {
	Report     *models.TestReport
	ReportPath string
}

// New builds a runner over the given fixture loader and rubric configuration.
func New(loader *scenario.Loader, cfg rubric.Config, opts ...Option) (*Runner, error) {
	orch, err := quality.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}
	r := &Runner{
		loader:  loader,
		calc:    accuracy.NewCalculator(),
		quality: orch,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run loads every scenario, evaluates every strategy found across them, and
// assembles the report. The run fails only on I/O or configuration problems;
// poor extraction results produce a failing report, not an error.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	fixtures, err := r.loader.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("runner: no scenarios found")
	}

	runID := uuid.NewString()
	r.publish("run.started", map[string]any{"run_id": runID, "scenarios": len(fixtures)})
	r.logger.Info("evaluation run started",
		slog.String("run_id", runID),
		slog.Int("scenarios", len(fixtures)))

	var raw []byte
	for _, f := range fixtures {
		raw = append(raw, f.Raw...)
	}

	strategies := r.scoreStrategies(fixtures)
	if len(strategies) == 0 {
		return nil, fmt.Errorf("runner: no strategy results in any scenario")
	}

	best := bestStrategy(strategies)
	summary := report.Summarize(best, strategies[best].Aggregate)

	qualityResults, err := r.evaluateQuality(ctx, fixtures, best)
	if err != nil {
		return nil, err
	}

	rep := &models.TestReport{
		RunID:         runID,
		Timestamp:     time.Now().UTC(),
		InputChecksum: checksum.Sum(raw),
		Summary:       summary,
		Strategies:    strategies,
		Quality:       qualityResults,
	}

	outcome := &Outcome{Report: rep}
	if r.reportDir != "" {
		path, err := report.Write(r.reportDir, rep)
		if err != nil {
			return nil, err
		}
		outcome.ReportPath = path
	}
	if r.store != nil {
		if err := r.store.Insert(history.FromReport(rep)); err != nil {
			r.logger.Warn("history insert failed", slog.String("error", err.Error()))
		}
	}

	r.publish("run.completed", rep.Summary)
	r.logger.Info("evaluation run completed",
		slog.String("run_id", runID),
		slog.String("best_strategy", summary.BestStrategy),
		slog.Float64("f1", summary.OverallF1),
		slog.Bool("passed", summary.Passed))
	return outcome, nil
}

// scoreStrategies computes per-scenario metrics and the cross-scenario
// aggregate for every strategy that produced results anywhere.
func (r *Runner) scoreStrategies(fixtures []*scenario.Fixture) map[string]models.StrategyResult {
	out := make(map[string]models.StrategyResult)

	for _, name := range strategyNames(fixtures) {
		result := models.StrategyResult{
			Strategy:  name,
			Scenarios: make(map[string]models.ExtractionMetrics),
		}
		var all []models.ExtractionMetrics
		for _, f := range fixtures {
			run, ok := f.Results[name]
			if !ok {
				continue
			}
			m := r.calc.Calculate(f.Scenario, run.Notes, run.Timing)
			result.Scenarios[f.Scenario.Name] = m
			all = append(all, m)
		}
		result.Aggregate = accuracy.Aggregate(all)
		out[name] = result
	}
	return out
}

// evaluateQuality scores the best strategy's notes from every scenario
// against the scenarios' combined quality expectations.
func (r *Runner) evaluateQuality(ctx context.Context, fixtures []*scenario.Fixture, best string) (*models.QualityEvaluationResults, error) {
	var notes []models.ExtractedNoteResult
	var expectations []models.QualityExpectation
	for _, f := range fixtures {
		if run, ok := f.Results[best]; ok {
			notes = append(notes, run.Notes...)
		}
		expectations = append(expectations, f.Scenario.Expectations...)
	}
	return r.quality.Evaluate(ctx, notes, expectations)
}

func (r *Runner) publish(event string, payload any) {
	if r.pub != nil {
		r.pub.Publish(event, payload)
	}
}

// strategyNames is the sorted union of strategy names across all fixtures.
func strategyNames(fixtures []*scenario.Fixture) []string {
	seen := make(map[string]struct{})
	for _, f := range fixtures {
		for name := range f.Results {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bestStrategy picks the highest aggregate F1. Ties go to the first name in
// sorted order so the choice is deterministic.
func bestStrategy(strategies map[string]models.StrategyResult) string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if strategies[name].Aggregate.DuplicateDetection.F1 > strategies[best].Aggregate.DuplicateDetection.F1 {
			best = name
		}
	}
	return best
}
