package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchNotifiesOnChange(t *testing.T) {
	dir := t.TempDir()

	dw, err := NewDirectoryWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dw.Close()

	if err := dw.Watch(dir); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "novo.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-dw.Notify():
		if changed != dir {
			t.Errorf("Expected notification for %q, got %q", dir, changed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No change notification")
	}
}

func TestWatchIdempotent(t *testing.T) {
	dir := t.TempDir()

	dw, err := NewDirectoryWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dw.Close()

	if err := dw.Watch(dir); err != nil {
		t.Fatal(err)
	}
	if err := dw.Watch(dir); err != nil {
		t.Errorf("Second Watch should be a no-op, got %v", err)
	}
}

func TestSwitchTo(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	dw, err := NewDirectoryWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dw.Close()

	if err := dw.Watch(first); err != nil {
		t.Fatal(err)
	}
	if err := dw.SwitchTo(second); err != nil {
		t.Fatal(err)
	}

	// A change in the old directory is no longer reported.
	if err := os.WriteFile(filepath.Join(first, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(second, "b.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-dw.Notify():
		if changed != second {
			t.Errorf("Expected notification for %q, got %q", second, changed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No change notification")
	}
}

func TestCloseReleasesConsumer(t *testing.T) {
	dir := t.TempDir()

	dw, err := NewDirectoryWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dw.Watch(dir); err != nil {
		t.Fatal(err)
	}

	// Shutdown waits for the consumer goroutine, so ranging over
	// Notify() must terminate once the watcher is closed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range dw.Notify() {
		}
	}()

	if err := dw.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Consumer did not exit after Close")
	}
}

func TestUnwatchMissingIsNoop(t *testing.T) {
	dw, err := NewDirectoryWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dw.Close()

	dw.Unwatch("/never/watched")
}
