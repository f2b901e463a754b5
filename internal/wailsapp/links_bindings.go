// Package wailsapp provides quick-link Wails bindings.
package wailsapp

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/utildesk/utildesk/internal/store"
)

// QuickLinkDTO is the JSON-safe version of store.QuickLink.
type QuickLinkDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}

func quickLinkToDTO(l store.QuickLink) QuickLinkDTO {
	return QuickLinkDTO{
		ID:        l.ID,
		Title:     l.Title,
		URL:       l.URL,
		CreatedAt: l.CreatedAt,
	}
}

// ListQuickLinks returns all quick links, newest first.
func (a *App) ListQuickLinks() ([]QuickLinkDTO, error) {
	if a.links == nil {
		return nil, ErrNoStore
	}
	list, err := a.links.List()
	if err != nil {
		return nil, err
	}
	dtos := make([]QuickLinkDTO, 0, len(list))
	for _, l := range list {
		dtos = append(dtos, quickLinkToDTO(l))
	}
	return dtos, nil
}

// AddQuickLink saves a quick link. URLs without a scheme get https.
func (a *App) AddQuickLink(title, url string) (QuickLinkDTO, error) {
	if a.links == nil {
		return QuickLinkDTO{}, ErrNoStore
	}
	link, err := a.links.Add(title, url)
	if err != nil {
		return QuickLinkDTO{}, err
	}
	return quickLinkToDTO(link), nil
}

// UpdateQuickLink edits a quick link's title and URL.
func (a *App) UpdateQuickLink(id int64, title, url string) error {
	if a.links == nil {
		return ErrNoStore
	}
	return a.links.Update(id, title, url)
}

// DeleteQuickLink removes a quick link.
func (a *App) DeleteQuickLink(id int64) error {
	if a.links == nil {
		return ErrNoStore
	}
	return a.links.Delete(id)
}

// OpenQuickLink opens the link in the default browser.
func (a *App) OpenQuickLink(url string) {
	runtime.BrowserOpenURL(a.ctx, url)
}
