// Package links manages the quick-link shortcuts shown on the home
// view.
package links

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/store"
)

// Service owns the quick-link list.
type Service struct {
	store *store.Store
	bus   *events.EventBus
}

// NewService wires a quick-link service. bus may be nil.
func NewService(st *store.Store, bus *events.EventBus) *Service {
	return &Service{store: st, bus: bus}
}

// List returns all links, newest first.
func (s *Service) List() ([]store.QuickLink, error) {
	return s.store.ListQuickLinks()
}

// Add creates a link. A missing scheme defaults to https.
func (s *Service) Add(title, rawURL string) (store.QuickLink, error) {
	title = strings.TrimSpace(title)
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return store.QuickLink{}, err
	}
	if title == "" {
		title = normalized
	}

	link, err := s.store.InsertQuickLink(title, normalized)
	if err != nil {
		return store.QuickLink{}, err
	}
	s.publishChanged()
	return link, nil
}

// Update rewrites title and url of an existing link.
func (s *Service) Update(id int64, title, rawURL string) error {
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return err
	}
	if err := s.store.UpdateQuickLink(id, strings.TrimSpace(title), normalized); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

// Delete removes a link.
func (s *Service) Delete(id int64) error {
	if err := s.store.DeleteQuickLink(id); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("URL não pode ser vazia")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("URL inválida: %s", raw)
	}
	return u.String(), nil
}

func (s *Service) publishChanged() {
	if s.bus == nil {
		return
	}
	count := 0
	if links, err := s.store.ListQuickLinks(); err == nil {
		count = len(links)
	}
	s.bus.Publish(&events.LinksChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventLinksChanged, Time: time.Now()},
		Count:     count,
	})
}
