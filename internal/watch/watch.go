// Package watch re-triggers evaluation when scenario fixtures change on
// disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Trigger is called after a debounce window with no further fixture changes.
type Trigger func()

// fixtureFile reports whether a path looks like scenario input.
func fixtureFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Watch starts an fsnotify watcher on the scenario root and calls trigger
// after fixture changes settle. A burst of writes within the debounce window
// coalesces into a single trigger.
//
// New directories created at runtime are automatically added to the watch
// list so freshly dropped scenarios are picked up.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, trigger Trigger) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	scheduleTrigger := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(debounce)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: fixtures settled, re-evaluating")
			trigger()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleTrigger()
					continue
				}
			}

			if !fixtureFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: fixture changed",
					slog.String("path", ev.Name),
					slog.String("op", ev.Op.String()))
				scheduleTrigger()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
