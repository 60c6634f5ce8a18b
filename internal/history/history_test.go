package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/vitalis/internal/apperr"
	"github.com/starford/vitalis/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndGet(t *testing.T) {
	db := openTestDB(t)

	row := RunRow{
		RunID:                 "run-1",
		CreatedAt:             time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		BestStrategy:          "two-pass",
		F1:                    0.85,
		ConsolidationAccuracy: 0.9,
		TagReuseRate:          0.75,
		MeanNVQ:               7.5,
		PassingRate:           0.8,
		Passed:                true,
		InputChecksum:         "abc",
	}
	if err := db.Insert(row); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := db.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BestStrategy != "two-pass" || got.F1 != 0.85 || !got.Passed {
		t.Errorf("row = %+v", got)
	}
	if got.InputChecksum != "abc" {
		t.Errorf("checksum = %q", got.InputChecksum)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsert_DuplicateRunID(t *testing.T) {
	db := openTestDB(t)
	row := RunRow{RunID: "dup", CreatedAt: time.Now()}
	if err := db.Insert(row); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := db.Insert(row); err == nil {
		t.Error("second insert must fail on primary key")
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		err := db.Insert(RunRow{RunID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	rows, err := db.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 || rows[0].RunID != "new" || rows[1].RunID != "mid" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestTrends(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inserts := []RunRow{
		{RunID: "a1", CreatedAt: base, BestStrategy: "baseline", F1: 0.5},
		{RunID: "a2", CreatedAt: base.Add(time.Hour), BestStrategy: "baseline", F1: 0.6},
		{RunID: "a3", CreatedAt: base.Add(2 * time.Hour), BestStrategy: "baseline", F1: 0.8},
		{RunID: "b1", CreatedAt: base.Add(3 * time.Hour), BestStrategy: "two-pass", F1: 0.9},
	}
	for _, row := range inserts {
		if err := db.Insert(row); err != nil {
			t.Fatalf("insert %s: %v", row.RunID, err)
		}
	}

	trends, err := db.Trends()
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("trends = %+v", trends)
	}
	baseline := trends[0]
	if baseline.Strategy != "baseline" || baseline.Runs != 3 || baseline.LatestF1 != 0.8 {
		t.Errorf("baseline = %+v", baseline)
	}
	// Delta compares the two newest wins: 0.8 against 0.6.
	if diff := baseline.DeltaF1 - 0.2; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("baseline delta = %v", baseline.DeltaF1)
	}
	twoPass := trends[1]
	if twoPass.Strategy != "two-pass" || twoPass.Runs != 1 || twoPass.DeltaF1 != 0 {
		t.Errorf("two-pass = %+v", twoPass)
	}
}

func TestFromReport(t *testing.T) {
	r := &models.TestReport{
		RunID:         "run-9",
		Timestamp:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		InputChecksum: "deadbeef",
		Summary: models.ReportSummary{
			BestStrategy:          "baseline",
			OverallF1:             0.7,
			ConsolidationAccuracy: 0.5,
			TagReuseRate:          1,
			Passed:                true,
		},
		Quality: &models.QualityEvaluationResults{
			Metrics: models.NoteQualityMetrics{MeanScore: 6.5, PassingRate: 0.5},
		},
	}

	row := FromReport(r)
	if row.RunID != "run-9" || row.BestStrategy != "baseline" || row.MeanNVQ != 6.5 {
		t.Errorf("row = %+v", row)
	}
	if row.PassingRate != 0.5 || !row.Passed {
		t.Errorf("row = %+v", row)
	}
}

func TestFromReport_NoQuality(t *testing.T) {
	row := FromReport(&models.TestReport{RunID: "run-x"})
	if row.MeanNVQ != 0 || row.PassingRate != 0 {
		t.Errorf("quality-less report must leave NVQ fields zero: %+v", row)
	}
}
