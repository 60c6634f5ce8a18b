package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_TriggersOnFixtureWrite(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, root, 50*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(root, "scenario.yaml"), []byte("name: x\n"), 0o644)

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		return triggers.Load() >= 1
	}, "fixture write did not trigger")
}

func TestWatch_BurstCoalesces(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, root, 200*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(root, "scenario.yaml"), []byte("name: x\n"), 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		return triggers.Load() >= 1
	}, "burst did not trigger")

	// Allow any stragglers to land, then assert the burst coalesced.
	time.Sleep(400 * time.Millisecond)
	if n := triggers.Load(); n != 1 {
		t.Errorf("triggers = %d, want 1 for a coalesced burst", n)
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, root, 50*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644)

	time.Sleep(300 * time.Millisecond)
	if n := triggers.Load(); n != 0 {
		t.Errorf("triggers = %d, want 0 for non-fixture file", n)
	}
}

func TestWatch_NewScenarioDirWatched(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, root, 50*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(root, "new-scenario")
	_ = os.MkdirAll(sub, 0o755)
	time.Sleep(200 * time.Millisecond)

	before := triggers.Load()
	_ = os.WriteFile(filepath.Join(sub, "scenario.yaml"), []byte("name: y\n"), 0o644)

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		return triggers.Load() > before
	}, "fixture in new subdir did not trigger")
}
