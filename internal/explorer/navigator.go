// Package explorer implements the client-folder browser: breadcrumb
// navigation over a network share, the right-click context menu, file
// operations with listing refresh, and the saved-folder registry.
package explorer

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/shares"
)

// View identifies which screen the explorer shows.
type View string

const (
	// ViewList is the top-level saved-folder list.
	ViewList View = "list"
	// ViewExplorer is the navigable directory listing.
	ViewExplorer View = "explorer"
)

// DirectoryLister fetches directory entries. *shares.Share implements it.
type DirectoryLister interface {
	ListDirectory(path string, opts shares.ListOptions) ([]shares.DirEntry, error)
}

// Navigator holds the current path and the history of parent paths. The
// current path is only ever a path whose listing was fetched
// successfully; a failed fetch leaves the navigator untouched.
type Navigator struct {
	mu      sync.Mutex
	lister  DirectoryLister
	bus     *events.EventBus
	opts    shares.ListOptions
	view    View
	current string
	history []string
	entries []shares.DirEntry
}

// NewNavigator creates a navigator in list view. bus may be nil.
func NewNavigator(lister DirectoryLister, bus *events.EventBus) *Navigator {
	return &Navigator{
		lister: lister,
		bus:    bus,
		opts:   shares.DefaultListOptions(),
		view:   ViewList,
	}
}

// OpenRoot clears history and enters explorer view at path. On a fetch
// failure the navigator stays in list view and the error is returned.
func (n *Navigator) OpenRoot(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	entries, err := n.lister.ListDirectory(path, n.opts)
	if err != nil {
		return err
	}

	n.history = n.history[:0]
	n.current = path
	n.entries = entries
	n.view = ViewExplorer

	n.publishView()
	n.publishListing()
	return nil
}

// EnterChild descends into the named child of the current path. The old
// current path is pushed onto history only after the child's listing
// fetch succeeds.
func (n *Navigator) EnterChild(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	newPath := joinChild(n.current, name)
	entries, err := n.lister.ListDirectory(newPath, n.opts)
	if err != nil {
		return err
	}

	n.history = append(n.history, n.current)
	n.current = newPath
	n.entries = entries

	n.publishListing()
	return nil
}

// GoBack pops the most recent parent path. With an empty history it
// exits to the list view instead; that is a normal transition, never an
// error. A failed re-fetch does not commit the pop, so back-navigation
// can be retried.
func (n *Navigator) GoBack() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.history) == 0 {
		n.view = ViewList
		n.publishView()
		return nil
	}

	prev := n.history[len(n.history)-1]
	entries, err := n.lister.ListDirectory(prev, n.opts)
	if err != nil {
		return err
	}

	n.history = n.history[:len(n.history)-1]
	n.current = prev
	n.entries = entries

	n.publishListing()
	return nil
}

// Refresh re-fetches the current listing without touching history.
func (n *Navigator) Refresh() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.refreshLocked()
}

func (n *Navigator) refreshLocked() error {
	if n.view != ViewExplorer || n.current == "" {
		return nil
	}
	entries, err := n.lister.ListDirectory(n.current, n.opts)
	if err != nil {
		return err
	}
	n.entries = entries
	n.publishListing()
	return nil
}

// CurrentPath returns the path whose listing is shown.
func (n *Navigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns a copy of the parent-path stack, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

// CurrentView reports whether the explorer or the saved-folder list is
// showing.
func (n *Navigator) CurrentView() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Entries returns the last successfully fetched listing.
func (n *Navigator) Entries() []shares.DirEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]shares.DirEntry, len(n.entries))
	copy(out, n.entries)
	return out
}

// SetListOptions changes sorting and hidden-file filtering and
// re-fetches the current listing.
func (n *Navigator) SetListOptions(opts shares.ListOptions) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opts = opts
	return n.refreshLocked()
}

func (n *Navigator) publishView() {
	if n.bus == nil {
		return
	}
	n.bus.Publish(&events.ViewChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventViewChanged, Time: time.Now()},
		View:      string(n.view),
		Path:      n.current,
	})
}

func (n *Navigator) publishListing() {
	if n.bus == nil {
		return
	}
	n.bus.Publish(&events.ListingChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventListingChanged, Time: time.Now()},
		Path:      n.current,
		Entries:   len(n.entries),
	})
}

// joinChild appends name to parent using the parent's own separator
// convention, so UNC paths keep backslashes on any platform.
func joinChild(parent, name string) string {
	if strings.Contains(parent, `\`) {
		return strings.TrimRight(parent, `\`) + `\` + name
	}
	return filepath.Join(parent, name)
}

// splitParent returns the parent directory and base name of path,
// honoring the path's own separator convention.
func splitParent(path string) (parent, base string) {
	if strings.Contains(path, `\`) {
		trimmed := strings.TrimRight(path, `\`)
		idx := strings.LastIndex(trimmed, `\`)
		if idx < 0 {
			return "", trimmed
		}
		return trimmed[:idx], trimmed[idx+1:]
	}
	return filepath.Dir(path), filepath.Base(path)
}
