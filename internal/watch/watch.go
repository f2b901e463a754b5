// Package watch notifies the explorer when the directory it is showing
// changes on disk, so the listing auto-refreshes while other users work
// on the same share. Events are debounced per directory.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/logging"
)

// DirectoryWatcher watches directories and emits their paths on the
// notify channel once changes settle.
type DirectoryWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	mu       sync.Mutex
	watching map[string]bool
	notify   chan string
	done     chan struct{}
	debounce time.Duration
}

// NewDirectoryWatcher starts a watcher. A non-positive debounce uses
// the default settle interval. logger may be nil.
func NewDirectoryWatcher(debounce time.Duration, logger *logging.Logger) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = constants.WatcherDebounce
	}

	dw := &DirectoryWatcher{
		watcher:  w,
		logger:   logger,
		watching: make(map[string]bool),
		notify:   make(chan string, 10),
		done:     make(chan struct{}),
		debounce: debounce,
	}

	go dw.run()
	return dw, nil
}

func (dw *DirectoryWatcher) run() {
	// Only run sends on notify, so consumers ranging over Notify()
	// terminate when the watcher shuts down.
	defer close(dw.notify)

	lastEvent := make(map[string]time.Time)
	pending := make(map[string]bool)
	ticker := time.NewTicker(dw.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}

			// fsnotify reports the changed file; map it back to the
			// watched directory containing it.
			parentDir := filepath.Dir(event.Name)

			dw.mu.Lock()
			if dw.watching[parentDir] {
				lastEvent[parentDir] = time.Now()
				pending[parentDir] = true
			} else if dw.watching[event.Name] {
				lastEvent[event.Name] = time.Now()
				pending[event.Name] = true
			}
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.logger != nil {
				dw.logger.Debug().Err(err).Msg("fsnotify error")
			}

		case <-ticker.C:
			now := time.Now()
			for dir, isPending := range pending {
				if !isPending || now.Sub(lastEvent[dir]) < dw.debounce {
					continue
				}
				select {
				case dw.notify <- dir:
				default:
					// Channel full; the consumer will refresh on the
					// next settled burst anyway.
				}
				delete(pending, dir)
				delete(lastEvent, dir)
			}
		}
	}
}

// Watch adds a directory to the watch list.
func (dw *DirectoryWatcher) Watch(path string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.watching[path] {
		return nil
	}
	if err := dw.watcher.Add(path); err != nil {
		return err
	}
	dw.watching[path] = true
	return nil
}

// Unwatch removes a directory from the watch list. Removal errors are
// ignored; the path may already be gone.
func (dw *DirectoryWatcher) Unwatch(path string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if !dw.watching[path] {
		return
	}
	_ = dw.watcher.Remove(path)
	delete(dw.watching, path)
}

// SwitchTo makes path the only watched directory, for following the
// explorer's current path.
func (dw *DirectoryWatcher) SwitchTo(path string) error {
	dw.mu.Lock()
	for old := range dw.watching {
		if old != path {
			_ = dw.watcher.Remove(old)
			delete(dw.watching, old)
		}
	}
	already := dw.watching[path]
	dw.mu.Unlock()

	if already {
		return nil
	}
	return dw.Watch(path)
}

// Notify returns the channel carrying settled-change directory paths.
func (dw *DirectoryWatcher) Notify() <-chan string {
	return dw.notify
}

// Close shuts down the watcher.
func (dw *DirectoryWatcher) Close() error {
	close(dw.done)
	return dw.watcher.Close()
}
