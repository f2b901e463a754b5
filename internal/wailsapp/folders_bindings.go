// Package wailsapp provides saved-folder registry Wails bindings.
package wailsapp

import (
	"github.com/utildesk/utildesk/internal/store"
)

// SavedFolderDTO is the JSON-safe version of store.SavedFolder.
type SavedFolderDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt string `json:"createdAt"`
}

func savedFolderToDTO(f store.SavedFolder) SavedFolderDTO {
	return SavedFolderDTO{
		ID:        f.ID,
		Name:      f.Name,
		Path:      f.Path,
		CreatedAt: f.CreatedAt,
	}
}

// ListSavedFolders returns the saved folders sorted by name.
func (a *App) ListSavedFolders() ([]SavedFolderDTO, error) {
	if a.registry == nil {
		return nil, ErrNoStore
	}
	folders, err := a.registry.List()
	if err != nil {
		return nil, err
	}
	dtos := make([]SavedFolderDTO, 0, len(folders))
	for _, f := range folders {
		dtos = append(dtos, savedFolderToDTO(f))
	}
	return dtos, nil
}

// AddSavedFolder registers a top-level client folder under the given
// display name. Registering the same path twice is a no-op.
func (a *App) AddSavedFolder(name, path string) (SavedFolderDTO, error) {
	if a.registry == nil {
		return SavedFolderDTO{}, ErrNoStore
	}
	folder, err := a.registry.Add(name, path)
	if err != nil {
		a.logError("folders", err.Error())
		return SavedFolderDTO{}, err
	}
	return savedFolderToDTO(folder), nil
}

// RemoveSavedFolder removes a folder from the registry. The directory
// on the share is never touched.
func (a *App) RemoveSavedFolder(id int64) error {
	if a.registry == nil {
		return ErrNoStore
	}
	if err := a.registry.Remove(id); err != nil {
		a.logError("folders", err.Error())
		return err
	}
	return nil
}
