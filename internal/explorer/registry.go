package explorer

import (
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/store"
)

// Registry is the saved-folder shortcut service. It wraps the store
// rows and publishes change events; it never issues filesystem calls,
// so removing a shortcut leaves the directory alone.
type Registry struct {
	store *store.Store
	bus   *events.EventBus
}

// NewRegistry creates a registry over the store. bus may be nil.
func NewRegistry(st *store.Store, bus *events.EventBus) *Registry {
	return &Registry{store: st, bus: bus}
}

// List returns all shortcuts sorted by name.
func (r *Registry) List() ([]store.SavedFolder, error) {
	return r.store.ListSavedFolders()
}

// Add saves a shortcut unless one with the same path already exists.
func (r *Registry) Add(name, path string) (store.SavedFolder, error) {
	folder, err := r.store.InsertSavedFolder(name, path)
	if err != nil {
		return store.SavedFolder{}, err
	}
	r.publishChanged()
	return folder, nil
}

// Remove deletes the shortcut row by id.
func (r *Registry) Remove(id int64) error {
	if err := r.store.DeleteSavedFolder(id); err != nil {
		return err
	}
	r.publishChanged()
	return nil
}

func (r *Registry) publishChanged() {
	if r.bus == nil {
		return
	}
	count := 0
	if folders, err := r.store.ListSavedFolders(); err == nil {
		count = len(folders)
	}
	r.bus.Publish(&events.FoldersChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventFoldersChanged, Time: time.Now()},
		Count:     count,
	})
}
