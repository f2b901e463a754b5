// Package wailsapp provides file-operation and context-menu Wails bindings.
package wailsapp

import (
	"errors"
	"fmt"

	"github.com/utildesk/utildesk/internal/explorer"
	"github.com/utildesk/utildesk/internal/pathutil"
)

// ContextMenuDTO describes the single open context menu. Kind is
// "saved_folder" or "entry"; only the matching payload field is set.
type ContextMenuDTO struct {
	Open        bool            `json:"open"`
	X           int             `json:"x"`
	Y           int             `json:"y"`
	Kind        string          `json:"kind,omitempty"`
	SavedFolder *SavedFolderDTO `json:"savedFolder,omitempty"`
	Entry       *DirEntryDTO    `json:"entry,omitempty"`
	EntryPath   string          `json:"entryPath,omitempty"`
}

// OpenEntryMenu opens the context menu for a listing entry, replacing
// any menu already open.
func (a *App) OpenEntryMenu(x, y int, name string) error {
	if a.menu == nil || a.nav == nil {
		return ErrNoShare
	}
	current := a.nav.CurrentPath()
	for _, e := range a.nav.Entries() {
		if e.Name == name {
			a.menu.Open(x, y, explorer.EntryTarget{
				Entry:    e,
				FullPath: current + pathSeparatorFor(current) + e.Name,
			})
			return nil
		}
	}
	return fmt.Errorf("item '%s' não está na listagem atual", name)
}

// OpenSavedFolderMenu opens the context menu for a saved folder.
func (a *App) OpenSavedFolderMenu(x, y int, id int64) error {
	if a.menu == nil || a.registry == nil {
		return ErrNoStore
	}
	folders, err := a.registry.List()
	if err != nil {
		return err
	}
	for _, f := range folders {
		if f.ID == id {
			a.menu.Open(x, y, explorer.SavedFolderTarget{Folder: f})
			return nil
		}
	}
	return fmt.Errorf("pasta salva %d não encontrada", id)
}

// CloseContextMenu dismisses the context menu.
func (a *App) CloseContextMenu() {
	if a.menu != nil {
		a.menu.Close()
	}
}

// GetContextMenu returns the current context menu state.
func (a *App) GetContextMenu() ContextMenuDTO {
	if a.menu == nil {
		return ContextMenuDTO{}
	}
	state, ok := a.menu.Current()
	if !ok {
		return ContextMenuDTO{}
	}

	dto := ContextMenuDTO{Open: true, X: state.X, Y: state.Y}
	switch t := state.Target.(type) {
	case explorer.SavedFolderTarget:
		dto.Kind = "saved_folder"
		f := savedFolderToDTO(t.Folder)
		dto.SavedFolder = &f
	case explorer.EntryTarget:
		dto.Kind = "entry"
		e := dirEntryToDTO(t.Entry)
		dto.Entry = &e
		dto.EntryPath = t.FullPath
	}
	return dto
}

// RenameEntry renames a file or directory. When the renamed directory
// is a saved folder the registry row is updated to the new name and
// path in the same operation.
func (a *App) RenameEntry(path, newName string) error {
	if a.dispatcher == nil {
		return ErrNoShare
	}
	if err := a.dispatcher.Rename(path, newName); err != nil {
		a.logError("explorer", err.Error())
		return err
	}
	return nil
}

// MoveEntry moves a file or directory into another top-level client
// folder of the share.
func (a *App) MoveEntry(sourcePath, destFolderName string) error {
	if a.dispatcher == nil {
		return ErrNoShare
	}
	if err := a.dispatcher.Move(sourcePath, destFolderName); err != nil {
		a.logError("explorer", err.Error())
		return err
	}
	return nil
}

// DeleteEntry deletes a file or directory. Directories are removed
// recursively.
func (a *App) DeleteEntry(path string, isDir bool) error {
	if a.dispatcher == nil {
		return ErrNoShare
	}
	if err := a.dispatcher.Delete(path, isDir); err != nil {
		a.logError("explorer", err.Error())
		return err
	}
	return nil
}

// CreateDirectory creates a subdirectory in the current directory.
func (a *App) CreateDirectory(name string) error {
	if a.dispatcher == nil || a.nav == nil {
		return ErrNoShare
	}
	current := a.nav.CurrentPath()
	if current == "" {
		return fmt.Errorf("nenhuma pasta aberta")
	}
	if err := a.dispatcher.CreateDirectory(current, name); err != nil {
		a.logError("explorer", err.Error())
		return err
	}
	return nil
}

// CopyResultDTO reports the outcome of a drag-and-drop ingestion.
type CopyResultDTO struct {
	Copied int    `json:"copied"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}

// CopyIntoCurrent copies dropped OS paths into the current directory.
// Only one copy runs at a time; a drop while one is active fails with
// a busy error. Partial failures are reported, not rolled back.
func (a *App) CopyIntoCurrent(sourcePaths []string) CopyResultDTO {
	if a.dispatcher == nil || a.nav == nil {
		return CopyResultDTO{Error: ErrNoShare.Error()}
	}
	current := a.nav.CurrentPath()
	if current == "" {
		return CopyResultDTO{Error: "nenhuma pasta aberta"}
	}

	resolved := make([]string, 0, len(sourcePaths))
	for _, p := range sourcePaths {
		abs, err := pathutil.ResolveAbsolutePath(p)
		if err != nil {
			abs = p
		}
		resolved = append(resolved, abs)
	}

	result, err := a.dispatcher.CopyIn(resolved, current)
	dto := CopyResultDTO{Copied: result.Copied, Failed: result.Failed, Error: result.FirstErr}
	if err != nil {
		dto.Error = err.Error()
		if !errors.Is(err, explorer.ErrCopyInProgress) {
			a.logError("explorer", err.Error())
		}
		return dto
	}
	if a.notifier != nil {
		a.notifier.CopyFinished(result.Copied, result.Failed)
	}
	return dto
}

// IsCopyBusy reports whether a drag-and-drop copy is running.
func (a *App) IsCopyBusy() bool {
	return a.dispatcher != nil && a.dispatcher.Busy()
}
