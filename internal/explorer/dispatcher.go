package explorer

import (
	"errors"
	"sync"
	"time"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/shares"
	"github.com/utildesk/utildesk/internal/store"
)

// ErrCopyInProgress is returned when a drop arrives while a previous
// copy-in is still running.
var ErrCopyInProgress = errors.New("cópia em andamento, aguarde a conclusão")

// FileOps is the filesystem surface the dispatcher drives.
// *shares.Share implements it.
type FileOps interface {
	Root() string
	CreateDirectory(parentPath, folderName string) error
	RenameEntry(oldPath, newName string) error
	MoveEntry(sourcePath, destFolder string) error
	DeleteEntry(path string, isDir bool) error
	CopyPaths(sourcePaths []string, destDir string, progress shares.ProgressFunc) (shares.CopyResult, error)
}

// FolderRegistry is the saved-folder lookup surface needed for the
// rename cascade. *store.Store implements it.
type FolderRegistry interface {
	FindSavedFolderByPath(path string) (store.SavedFolder, bool, error)
	UpdateSavedFolder(id int64, name, path string) error
}

// Dispatcher executes file operations and refreshes the current listing
// afterward. Errors come back verbatim from the filesystem layer; there
// is no retry and nothing to roll back.
type Dispatcher struct {
	fs       FileOps
	registry FolderRegistry
	nav      *Navigator
	bus      *events.EventBus

	mu   sync.Mutex
	busy bool
}

// NewDispatcher wires a dispatcher. registry, nav and bus may be nil
// when the corresponding behavior (cascade, refresh, events) is not
// needed.
func NewDispatcher(fs FileOps, registry FolderRegistry, nav *Navigator, bus *events.EventBus) *Dispatcher {
	return &Dispatcher{fs: fs, registry: registry, nav: nav, bus: bus}
}

// Rename renames the entry at path. When the renamed path matches a
// saved-folder shortcut, the shortcut's name and path follow the
// rename, so the list view stays consistent with the share.
func (d *Dispatcher) Rename(path, newName string) error {
	if err := d.fs.RenameEntry(path, newName); err != nil {
		return err
	}

	if d.registry != nil {
		if folder, ok, err := d.registry.FindSavedFolderByPath(path); err == nil && ok {
			parent, _ := splitParent(folder.Path)
			newPath := joinChild(parent, newName)
			if err := d.registry.UpdateSavedFolder(folder.ID, newName, newPath); err != nil {
				return err
			}
			d.publishFolders()
		} else if err != nil {
			return err
		}
	}

	return d.refresh()
}

// Move moves the entry at sourcePath into the named top-level folder
// under the share root.
func (d *Dispatcher) Move(sourcePath, destFolderName string) error {
	dest := joinChild(d.fs.Root(), destFolderName)
	if err := d.fs.MoveEntry(sourcePath, dest); err != nil {
		return err
	}
	return d.refresh()
}

// MoveTo moves the entry at sourcePath into an absolute destination
// directory, for drag-to-folder moves inside the explorer.
func (d *Dispatcher) MoveTo(sourcePath, destDir string) error {
	if err := d.fs.MoveEntry(sourcePath, destDir); err != nil {
		return err
	}
	return d.refresh()
}

// Delete removes the entry at path. The caller is responsible for user
// confirmation; this call is irreversible.
func (d *Dispatcher) Delete(path string, isDir bool) error {
	if err := d.fs.DeleteEntry(path, isDir); err != nil {
		return err
	}
	return d.refresh()
}

// CreateDirectory creates a folder under parentPath.
func (d *Dispatcher) CreateDirectory(parentPath, name string) error {
	if err := d.fs.CreateDirectory(parentPath, name); err != nil {
		return err
	}
	return d.refresh()
}

// CopyIn ingests dropped paths into destDir. Only one copy runs at a
// time; drops during an active copy return ErrCopyInProgress. The
// listing is refreshed when the copy finishes even if some sources
// failed.
func (d *Dispatcher) CopyIn(sourcePaths []string, destDir string) (shares.CopyResult, error) {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return shares.CopyResult{}, ErrCopyInProgress
	}
	d.busy = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	var lastReport time.Time
	result, err := d.fs.CopyPaths(sourcePaths, destDir, func(p shares.CopyProgress) {
		if d.bus == nil {
			return
		}
		now := time.Now()
		if now.Sub(lastReport) < constants.ProgressThrottleInterval && p.BytesCurrent < p.BytesTotal {
			return
		}
		lastReport = now
		d.bus.Publish(&events.CopyProgressEvent{
			BaseEvent:    events.BaseEvent{EventType: events.EventCopyProgress, Time: now},
			Source:       p.Source,
			Index:        p.Index,
			Total:        p.Total,
			BytesCurrent: p.BytesCurrent,
			BytesTotal:   p.BytesTotal,
		})
	})

	if d.bus != nil {
		d.bus.Publish(&events.CopyDoneEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventCopyDone, Time: time.Now()},
			DestDir:   destDir,
			Copied:    result.Copied,
			Failed:    result.Failed,
		})
	}

	if refreshErr := d.refresh(); err == nil {
		err = refreshErr
	}
	return result, err
}

// Busy reports whether a copy-in is running.
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

func (d *Dispatcher) refresh() error {
	if d.nav == nil {
		return nil
	}
	return d.nav.Refresh()
}

func (d *Dispatcher) publishFolders() {
	if d.bus == nil {
		return
	}
	d.bus.Publish(&events.FoldersChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventFoldersChanged, Time: time.Now()},
	})
}
