// Package wailsapp provides clipboard-history Wails bindings.
package wailsapp

import (
	"github.com/utildesk/utildesk/internal/store"
)

// ClipboardEntryDTO is the JSON-safe version of store.ClipboardEntry.
type ClipboardEntryDTO struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	CapturedAt string `json:"capturedAt"`
}

func clipboardEntryToDTO(e store.ClipboardEntry) ClipboardEntryDTO {
	return ClipboardEntryDTO{
		ID:         e.ID,
		Content:    e.Content,
		CapturedAt: e.CapturedAt,
	}
}

// GetClipboardHistory returns captured clipboard entries, newest first.
func (a *App) GetClipboardHistory() ([]ClipboardEntryDTO, error) {
	if a.clip == nil {
		return nil, ErrNoStore
	}
	entries, err := a.clip.History()
	if err != nil {
		return nil, err
	}
	dtos := make([]ClipboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, clipboardEntryToDTO(e))
	}
	return dtos, nil
}

// CopyClipboardEntry puts a history entry back on the system clipboard.
func (a *App) CopyClipboardEntry(id int64) error {
	if a.clip == nil {
		return ErrNoStore
	}
	return a.clip.CopyToClipboard(id)
}

// DeleteClipboardEntry removes one history entry.
func (a *App) DeleteClipboardEntry(id int64) error {
	if a.clip == nil {
		return ErrNoStore
	}
	return a.clip.Delete(id)
}

// ClearClipboardHistory removes every history entry.
func (a *App) ClearClipboardHistory() error {
	if a.clip == nil {
		return ErrNoStore
	}
	return a.clip.Clear()
}
