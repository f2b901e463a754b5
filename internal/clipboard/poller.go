// Package clipboard captures OS clipboard text into a bounded history
// and copies entries back on request. A periodic poll is the only
// portable way to observe clipboard writes, so the poller compares the
// current text against the newest stored entry each tick.
package clipboard

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	atotto "github.com/atotto/clipboard"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/logging"
	"github.com/utildesk/utildesk/internal/store"
)

// SystemClipboard abstracts the OS clipboard for testing.
type SystemClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type osClipboard struct{}

func (osClipboard) ReadAll() (string, error)   { return atotto.ReadAll() }
func (osClipboard) WriteAll(text string) error { return atotto.WriteAll(text) }

// Service polls the clipboard and persists a capped history.
type Service struct {
	store  *store.Store
	bus    *events.EventBus
	logger *logging.Logger
	system SystemClipboard
	limit  int

	mu       sync.Mutex
	interval time.Duration
}

// NewService wires a clipboard service with the default interval and
// history limit. bus and logger may be nil.
func NewService(st *store.Store, bus *events.EventBus, logger *logging.Logger) *Service {
	return &Service{
		store:    st,
		bus:      bus,
		logger:   logger,
		system:   osClipboard{},
		interval: constants.ClipboardPollInterval,
		limit:    constants.ClipboardHistoryLimit,
	}
}

// SetSystem replaces the OS clipboard, for tests.
func (s *Service) SetSystem(system SystemClipboard) { s.system = system }

// SetInterval overrides the poll interval. A running poller picks the
// change up on its next tick.
func (s *Service) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// Interval returns the current poll interval.
func (s *Service) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Run polls until ctx is canceled. Read errors are logged and the poll
// continues; a clipboard may be temporarily unreadable while another
// application holds it.
func (s *Service) Run(ctx context.Context) {
	interval := s.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Poll(); err != nil && s.logger != nil {
				s.logger.Debug().Err(err).Msg("clipboard poll failed")
			}
			if cur := s.Interval(); cur != interval {
				interval = cur
				ticker.Reset(interval)
			}
		}
	}
}

// Poll captures the current clipboard text when it differs from the
// newest stored entry.
func (s *Service) Poll() error {
	text, err := s.system.ReadAll()
	if err != nil {
		return err
	}
	text = strings.TrimRight(text, "\n")
	if text == "" || len(text) > constants.ClipboardEntryMaxBytes {
		return nil
	}

	latest, ok, err := s.store.LatestClipboardEntry()
	if err != nil {
		return err
	}
	if ok && latest.Content == text {
		return nil
	}

	if err := s.store.InsertClipboardEntry(text, s.limit); err != nil {
		return err
	}
	s.publishCaptured(text)
	return nil
}

// History returns the stored entries, newest first.
func (s *Service) History() ([]store.ClipboardEntry, error) {
	return s.store.ListClipboardEntries(s.limit)
}

// CopyToClipboard writes a stored entry back to the OS clipboard.
func (s *Service) CopyToClipboard(id int64) error {
	entries, err := s.store.ListClipboardEntries(s.limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == id {
			return s.system.WriteAll(e.Content)
		}
	}
	return store.ErrNotFound
}

// Delete removes one entry from the history.
func (s *Service) Delete(id int64) error {
	return s.store.DeleteClipboardEntry(id)
}

// Clear wipes the whole history.
func (s *Service) Clear() error {
	return s.store.ClearClipboardHistory()
}

func (s *Service) publishCaptured(text string) {
	if s.bus == nil {
		return
	}
	preview := truncatePreview(text, 80)
	s.bus.Publish(&events.ClipboardCapturedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventClipboardCaptured, Time: time.Now()},
		Preview:   preview,
	})
}

// truncatePreview cuts text to at most max bytes without splitting a
// UTF-8 sequence.
func truncatePreview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
