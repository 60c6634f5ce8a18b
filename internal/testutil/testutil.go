// Package testutil provides shared test helpers for setting up history
// databases and scenario fixture directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/vitalis/internal/history"
)

// TestDB creates a temporary history database that is automatically cleaned up.
func TestDB(t *testing.T) *history.DB {
	t.Helper()
	db, err := history.Open(filepath.Join(t.TempDir(), "vitalis-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// WriteScenario writes one fixture file under root/<scenario>/<file>,
// creating directories as needed.
func WriteScenario(t *testing.T, root, scenario, file, content string) {
	t.Helper()
	path := filepath.Join(root, scenario, file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
