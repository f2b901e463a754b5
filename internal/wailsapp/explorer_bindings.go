// Package wailsapp provides explorer-related Wails bindings.
package wailsapp

import (
	"fmt"

	"github.com/utildesk/utildesk/internal/explorer"
	"github.com/utildesk/utildesk/internal/pathutil"
	"github.com/utildesk/utildesk/internal/shares"
)

// DirEntryDTO is the JSON-safe version of shares.DirEntry.
type DirEntryDTO struct {
	Name      string `json:"name"`
	IsDir     bool   `json:"isDir"`
	SizeBytes int64  `json:"sizeBytes"`
	Modified  string `json:"modified"`
	Extension string `json:"extension,omitempty"`
}

func dirEntryToDTO(e shares.DirEntry) DirEntryDTO {
	return DirEntryDTO{
		Name:      e.Name,
		IsDir:     e.IsDir,
		SizeBytes: e.SizeBytes,
		Modified:  e.Modified,
		Extension: e.Extension,
	}
}

// ExplorerStateDTO is the full explorer view state the frontend renders
// after any navigation call.
type ExplorerStateDTO struct {
	View        string        `json:"view"`
	CurrentPath string        `json:"currentPath"`
	DisplayPath string        `json:"displayPath"`
	Breadcrumbs []string      `json:"breadcrumbs"`
	HistoryLen  int           `json:"historyLen"`
	Entries     []DirEntryDTO `json:"entries"`
	CopyBusy    bool          `json:"copyBusy"`
}

// GetExplorerState returns the current explorer view state.
func (a *App) GetExplorerState() ExplorerStateDTO {
	state := ExplorerStateDTO{View: string(explorer.ViewList)}
	if a.nav == nil {
		return state
	}

	state.View = string(a.nav.CurrentView())
	state.CurrentPath = a.nav.CurrentPath()
	state.HistoryLen = len(a.nav.History())
	if a.share != nil && state.CurrentPath != "" {
		state.DisplayPath = pathutil.DisplayPath(a.share.Root(), state.CurrentPath)
		state.Breadcrumbs = pathutil.Breadcrumbs(a.share.Root(), state.CurrentPath)
	}

	entries := a.nav.Entries()
	state.Entries = make([]DirEntryDTO, 0, len(entries))
	for _, e := range entries {
		state.Entries = append(state.Entries, dirEntryToDTO(e))
	}
	if a.dispatcher != nil {
		state.CopyBusy = a.dispatcher.Busy()
	}
	return state
}

// ListNetworkFolders returns the top-level folder names of the share
// for the "add saved folder" picker.
func (a *App) ListNetworkFolders() ([]string, error) {
	if a.share == nil {
		return nil, ErrNoShare
	}
	return a.share.ListNetworkFolders()
}

// OpenFolder enters explorer view at the given saved-folder path. On
// error the view is unchanged and the message is surfaced to the user.
func (a *App) OpenFolder(path string) (ExplorerStateDTO, error) {
	if a.nav == nil {
		return a.GetExplorerState(), ErrNoShare
	}
	if err := a.nav.OpenRoot(path); err != nil {
		a.logError("explorer", err.Error())
		return a.GetExplorerState(), err
	}
	a.switchWatcher()
	return a.GetExplorerState(), nil
}

// EnterChild descends into the named child directory.
func (a *App) EnterChild(name string) (ExplorerStateDTO, error) {
	if a.nav == nil {
		return a.GetExplorerState(), ErrNoShare
	}
	if err := a.nav.EnterChild(name); err != nil {
		a.logError("explorer", err.Error())
		return a.GetExplorerState(), err
	}
	a.switchWatcher()
	return a.GetExplorerState(), nil
}

// GoBack pops one level of history. With no history left the explorer
// returns to the saved-folder list; that transition never fails.
func (a *App) GoBack() (ExplorerStateDTO, error) {
	if a.nav == nil {
		return a.GetExplorerState(), ErrNoShare
	}
	if err := a.nav.GoBack(); err != nil {
		a.logError("explorer", err.Error())
		return a.GetExplorerState(), err
	}
	a.switchWatcher()
	return a.GetExplorerState(), nil
}

// RefreshListing re-fetches the current directory.
func (a *App) RefreshListing() (ExplorerStateDTO, error) {
	if a.nav == nil {
		return a.GetExplorerState(), ErrNoShare
	}
	if err := a.nav.Refresh(); err != nil {
		a.logError("explorer", err.Error())
		return a.GetExplorerState(), err
	}
	return a.GetExplorerState(), nil
}

// SetSortOptions changes the listing sort and re-sorts the current
// view. Field is "name", "size" or "modified".
func (a *App) SetSortOptions(field string, ascending bool, includeHidden bool) error {
	if a.nav == nil {
		return ErrNoShare
	}
	opts := shares.ListOptions{
		SortField:     field,
		Ascending:     ascending,
		IncludeHidden: includeHidden,
	}
	if err := a.nav.SetListOptions(opts); err != nil {
		return err
	}
	if a.config != nil {
		a.configMu.Lock()
		a.config.SortField = field
		a.config.SortAscending = ascending
		a.saveConfig()
		a.configMu.Unlock()
	}
	return nil
}

// OpenEntry opens a file in the current directory with the OS default
// application.
func (a *App) OpenEntry(name string) error {
	if a.share == nil || a.nav == nil {
		return ErrNoShare
	}
	current := a.nav.CurrentPath()
	if current == "" {
		return fmt.Errorf("nenhuma pasta aberta")
	}
	return a.share.OpenFile(current + pathSeparatorFor(current) + name)
}

// switchWatcher moves the directory watcher to the navigator's current
// path, or stops watching when the explorer returns to list view.
func (a *App) switchWatcher() {
	if a.watcher == nil || a.nav == nil {
		return
	}
	current := a.nav.CurrentPath()
	if current == "" || a.nav.CurrentView() == explorer.ViewList {
		return
	}
	if err := a.watcher.SwitchTo(current); err != nil {
		wailsLogger.Warn().Err(err).Str("path", current).Msg("Failed to watch directory")
	}
}

// pathSeparatorFor follows the separator convention of the path itself
// so UNC paths keep backslashes.
func pathSeparatorFor(path string) string {
	for _, r := range path {
		if r == '\\' {
			return `\`
		}
		if r == '/' {
			return "/"
		}
	}
	return "/"
}
