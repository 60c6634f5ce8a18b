package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/vitalis/internal/apperr"
	"github.com/starford/vitalis/internal/models"
)

// RunRow is one stored run summary.
type RunRow struct {
	RunID                 string    `json:"run_id"`
	CreatedAt             time.Time `json:"created_at"`
	BestStrategy          string    `json:"best_strategy"`
	F1                    float64   `json:"f1"`
	ConsolidationAccuracy float64   `json:"consolidation_accuracy"`
	TagReuseRate          float64   `json:"tag_reuse_rate"`
	MeanNVQ               float64   `json:"mean_nvq"`
	PassingRate           float64   `json:"passing_rate"`
	Passed                bool      `json:"passed"`
	InputChecksum         string    `json:"input_checksum"`
}

// FromReport builds the history row for a finished run.
func FromReport(r *models.TestReport) RunRow {
	row := RunRow{
		RunID:                 r.RunID,
		CreatedAt:             r.Timestamp,
		BestStrategy:          r.Summary.BestStrategy,
		F1:                    r.Summary.OverallF1,
		ConsolidationAccuracy: r.Summary.ConsolidationAccuracy,
		TagReuseRate:          r.Summary.TagReuseRate,
		Passed:                r.Summary.Passed,
		InputChecksum:         r.InputChecksum,
	}
	if r.Quality != nil {
		row.MeanNVQ = r.Quality.Metrics.MeanScore
		row.PassingRate = r.Quality.Metrics.PassingRate
	}
	return row
}

// Insert stores one run summary. Run ids are unique; inserting the same id
// twice is a conflict.
func (db *DB) Insert(run RunRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs (run_id, created_at, best_strategy, f1, consolidation_accuracy,
			tag_reuse_rate, mean_nvq, passing_rate, passed, input_checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CreatedAt, run.BestStrategy, run.F1, run.ConsolidationAccuracy,
		run.TagReuseRate, run.MeanNVQ, run.PassingRate, boolToInt(run.Passed), run.InputChecksum)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (db *DB) Recent(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT run_id, created_at, best_strategy, f1, consolidation_accuracy,
			tag_reuse_rate, mean_nvq, passing_rate, passed, input_checksum
		FROM runs
		ORDER BY created_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		row, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Get returns one run by id, or apperr.ErrNotFound.
func (db *DB) Get(runID string) (*RunRow, error) {
	row, err := scanRun(db.conn.QueryRow(`
		SELECT run_id, created_at, best_strategy, f1, consolidation_accuracy,
			tag_reuse_rate, mean_nvq, passing_rate, passed, input_checksum
		FROM runs WHERE run_id = ?
	`, runID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	return &row, nil
}

// StrategyTrend compares the two newest runs won by one strategy.
type StrategyTrend struct {
	Strategy string  `json:"strategy"`
	Runs     int     `json:"runs"`
	LatestF1 float64 `json:"latest_f1"`
	DeltaF1  float64 `json:"delta_f1"`
}

// Trends returns one entry per best strategy: how many runs it won, the F1 of
// its newest win, and the delta against the win before that. A strategy with a
// single run has a zero delta.
func (db *DB) Trends() ([]StrategyTrend, error) {
	rows, err := db.conn.Query(`
		SELECT best_strategy, f1
		FROM runs
		ORDER BY best_strategy, created_at DESC, run_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("history: trends: %w", err)
	}
	defer rows.Close()

	var out []StrategyTrend
	for rows.Next() {
		var strategy string
		var f1 float64
		if err := rows.Scan(&strategy, &f1); err != nil {
			return nil, fmt.Errorf("history: trends: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Strategy != strategy {
			out = append(out, StrategyTrend{Strategy: strategy, Runs: 1, LatestF1: f1})
			continue
		}
		cur := &out[len(out)-1]
		if cur.Runs == 1 {
			cur.DeltaF1 = cur.LatestF1 - f1
		}
		cur.Runs++
	}
	return out, rows.Err()
}

func scanRun(scan func(...any) error) (RunRow, error) {
	var row RunRow
	var passed int
	err := scan(&row.RunID, &row.CreatedAt, &row.BestStrategy, &row.F1,
		&row.ConsolidationAccuracy, &row.TagReuseRate, &row.MeanNVQ,
		&row.PassingRate, &passed, &row.InputChecksum)
	row.Passed = passed != 0
	return row, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
