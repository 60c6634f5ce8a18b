// Package scenario loads test-scenario fixtures and per-strategy extraction
// results from a rooted directory.
//
// Layout:
//
//	<root>/<scenario>/scenario.yaml        ground truth (YAML or JSON)
//	<root>/<scenario>/results/<strategy>.json   one extraction run per strategy
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/vitalis/internal/models"
)

// scenarioFileNames are probed in order inside each scenario directory.
var scenarioFileNames = []string{"scenario.yaml", "scenario.yml", "scenario.json"}

// resultFile is the on-disk shape of one strategy's extraction output.
// Timing is measured by whatever drove the extraction, never computed here.
type resultFile struct {
	Notes  []models.ExtractedNoteResult `json:"notes" yaml:"notes"`
	Timing models.Timing                `json:"timing" yaml:"timing"`
}

// StrategyRun is one strategy's extracted batch for one scenario.
type StrategyRun struct {
	Notes  []models.ExtractedNoteResult
	Timing models.Timing
}

// Fixture is a fully loaded scenario: ground truth plus every strategy's
// results, with the raw bytes retained for input checksumming.
type Fixture struct {
	Scenario models.TestScenario
	Results  map[string]StrategyRun
	Raw      []byte
}

// Loader reads fixtures from a root directory. Paths are resolved against
// the root and rejected when they escape it.
type Loader struct {
	root string
}

// NewLoader creates a loader rooted at dir. The directory must exist.
func NewLoader(dir string) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scenario: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario: root is not a directory: %s", abs)
	}
	return &Loader{root: abs}, nil
}

// safePath resolves rel against the root and rejects directory traversal.
func (l *Loader) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("scenario: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(l.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("scenario: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, l.root+string(os.PathSeparator)) && abs != l.root {
		return "", fmt.Errorf("scenario: path escapes root: %s", rel)
	}
	return abs, nil
}

// List returns the names of every scenario directory under the root, sorted
// for deterministic run order.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("scenario: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := l.scenarioFile(e.Name()); err == nil {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (l *Loader) scenarioFile(name string) (string, error) {
	for _, fn := range scenarioFileNames {
		abs, err := l.safePath(filepath.Join(name, fn))
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
	}
	return "", fmt.Errorf("scenario: no scenario file in %s", name)
}

// Load reads one scenario and all of its strategy result files.
func (l *Loader) Load(name string) (*Fixture, error) {
	scenarioPath, err := l.scenarioFile(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", name, err)
	}

	fixture := &Fixture{Results: make(map[string]StrategyRun)}
	fixture.Raw = append(fixture.Raw, data...)

	if err := unmarshal(scenarioPath, data, &fixture.Scenario); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", name, err)
	}
	if fixture.Scenario.Name == "" {
		fixture.Scenario.Name = name
	}

	resultsDir, err := l.safePath(filepath.Join(name, "results"))
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fixture, nil
		}
		return nil, fmt.Errorf("scenario: read results of %s: %w", name, err)
	}

	// Deterministic order keeps the input checksum stable.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(resultsDir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scenario: read result %s: %w", e.Name(), err)
		}
		var rf resultFile
		if err := unmarshal(path, raw, &rf); err != nil {
			return nil, fmt.Errorf("scenario: parse result %s: %w", e.Name(), err)
		}
		strategy := strings.TrimSuffix(e.Name(), ext)
		fixture.Results[strategy] = StrategyRun{Notes: rf.Notes, Timing: rf.Timing}
		fixture.Raw = append(fixture.Raw, raw...)
	}
	return fixture, nil
}

// LoadAll loads every scenario under the root in name order.
func (l *Loader) LoadAll() ([]*Fixture, error) {
	names, err := l.List()
	if err != nil {
		return nil, err
	}
	out := make([]*Fixture, 0, len(names))
	for _, name := range names {
		f, err := l.Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func unmarshal(path string, data []byte, target any) error {
	if filepath.Ext(path) == ".json" {
		return json.Unmarshal(data, target)
	}
	return yaml.Unmarshal(data, target)
}
