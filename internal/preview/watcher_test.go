package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatch_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, quietLogger(), func() { rebuilds.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(dir, "a.md"), []byte{byte('a' + i)}, 0o644)
	}

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "no rebuild after change")

	time.Sleep(2 * Debounce)
	if n := rebuilds.Load(); n != 1 {
		t.Errorf("rebuilds = %d, want 1 for a burst of writes", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}

func TestWatch_NewDirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	go Watch(ctx, []string{dir}, quietLogger(), func() { rebuilds.Add(1) })
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(dir, "guides")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "no rebuild after mkdir")

	before := rebuilds.Load()
	time.Sleep(50 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(sub, "intro.md"), []byte("x"), 0o644)

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() > before
	}, "change inside new directory not seen")
}

func TestWatch_SkipsMissingRootsAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{filepath.Join(dir, "absent"), dir}, quietLogger(), func() { rebuilds.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, ".swp"), []byte("x"), 0o644)
	time.Sleep(3 * Debounce)
	if n := rebuilds.Load(); n != 0 {
		t.Errorf("rebuilds = %d, want 0 for hidden file", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
}
