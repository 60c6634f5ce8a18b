package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/vitalis/internal/models"
)

// Filename returns the report file name for a run.
func Filename(runID string) string {
	return fmt.Sprintf("extraction-accuracy-%s.json", runID)
}

// Write dumps the full report as indented JSON into dir, one file per run,
// via tmp file → fsync → rename so a crashed run never leaves a truncated
// report behind. Returns the path of the written file.
func Write(dir string, r *models.TestReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: mkdir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal: %w", err)
	}
	data = append(data, '\n')

	dest := filepath.Join(dir, Filename(r.RunID))
	tmp, err := os.CreateTemp(dir, ".vitalis-tmp-*")
	if err != nil {
		return "", fmt.Errorf("report: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("report: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("report: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("report: close temp: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("report: rename: %w", err)
	}
	success = true
	return dest, nil
}
