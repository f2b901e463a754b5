// Package wailsapp provides the event bridge between Go EventBus and Wails runtime.
package wailsapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/utildesk/utildesk/internal/events"
)

// EventBridge forwards events from the internal EventBus to the Wails
// runtime so the frontend can subscribe with EventsOn.
type EventBridge struct {
	ctx          context.Context
	eventBus     *events.EventBus
	subscription <-chan events.Event

	// Throttling for high-frequency copy progress events
	lastProgress     map[string]time.Time
	progressInterval time.Duration

	stopC   chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge(ctx context.Context, eventBus *events.EventBus) *EventBridge {
	return &EventBridge{
		ctx:              ctx,
		eventBus:         eventBus,
		lastProgress:     make(map[string]time.Time),
		progressInterval: 100 * time.Millisecond,
		stopC:            make(chan struct{}),
	}
}

// Start begins forwarding events. Calling Start twice is a no-op.
func (eb *EventBridge) Start() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		wailsLogger.Warn().Msg("Event bridge already started, ignoring duplicate Start()")
		return nil
	}

	eb.subscription = eb.eventBus.SubscribeAll()
	if eb.subscription == nil {
		return fmt.Errorf("event bridge: failed to subscribe to event bus")
	}

	eb.started = true
	eb.wg.Add(1)
	go eb.forwardLoop()

	wailsLogger.Debug().Msg("Event bridge started")
	return nil
}

// Stop stops forwarding events.
func (eb *EventBridge) Stop() {
	eb.mu.Lock()
	if !eb.started {
		eb.mu.Unlock()
		wailsLogger.Warn().Msg("Event bridge not started or already stopped")
		return
	}
	eb.started = false
	eb.lastProgress = make(map[string]time.Time)
	sub := eb.subscription
	eb.mu.Unlock()

	close(eb.stopC)
	eb.wg.Wait()
	eb.eventBus.UnsubscribeAll(sub)

	wailsLogger.Debug().Msg("Event bridge stopped")
}

func (eb *EventBridge) forwardLoop() {
	defer eb.wg.Done()

	for {
		select {
		case event, ok := <-eb.subscription:
			if !ok {
				return
			}
			eb.forwardEvent(event)

		case <-eb.stopC:
			return
		}
	}
}

func (eb *EventBridge) forwardEvent(event events.Event) {
	switch e := event.(type) {
	case *events.LogEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:log", logEventToDTO(e))

	case *events.ErrorEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:error", errorEventToDTO(e))

	case *events.ListingChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:listing_changed", listingChangedToDTO(e))

	case *events.ViewChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:view_changed", viewChangedToDTO(e))

	case *events.CopyProgressEvent:
		// Throttle per source file, but always deliver the final byte
		// so progress bars reach 100%.
		if e.BytesCurrent < e.BytesTotal && eb.shouldThrottle(e.Source) {
			return
		}
		runtime.EventsEmit(eb.ctx, "utildesk:copy_progress", copyProgressToDTO(e))

	case *events.CopyDoneEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:copy_done", copyDoneToDTO(e))

	case *events.FoldersChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:folders_changed", countDTO(e.Timestamp(), e.Count))

	case *events.TasksChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:tasks_changed", countDTO(e.Timestamp(), e.Count))

	case *events.LinksChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:links_changed", countDTO(e.Timestamp(), e.Count))

	case *events.ClipboardCapturedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:clipboard_captured", clipboardCapturedToDTO(e))

	case *events.TimerTickEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:timer_tick", timerTickToDTO(e))

	case *events.TimerDoneEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:timer_done", timerDoneToDTO(e))

	case *events.ConfigChangedEvent:
		runtime.EventsEmit(eb.ctx, "utildesk:config_changed", configChangedToDTO(e))
	}
}

func (eb *EventBridge) shouldThrottle(key string) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	now := time.Now()
	if last, ok := eb.lastProgress[key]; ok {
		if now.Sub(last) < eb.progressInterval {
			return true
		}
	}
	eb.lastProgress[key] = now
	return false
}

// DTO conversion functions for JSON-safe serialization

// LogEventDTO is the JSON-safe version of events.LogEvent.
type LogEventDTO struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

func logEventToDTO(e *events.LogEvent) LogEventDTO {
	dto := LogEventDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Level:     e.Level.String(),
		Source:    e.Source,
		Message:   e.Message,
	}
	if e.Error != nil {
		dto.Error = e.Error.Error()
	}
	return dto
}

// ErrorEventDTO is the JSON-safe version of events.ErrorEvent.
type ErrorEventDTO struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

func errorEventToDTO(e *events.ErrorEvent) ErrorEventDTO {
	msg := e.Message
	if msg == "" && e.Error != nil {
		msg = e.Error.Error()
	}
	return ErrorEventDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Source:    e.Source,
		Message:   msg,
	}
}

// ListingChangedDTO is the JSON-safe version of events.ListingChangedEvent.
type ListingChangedDTO struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Entries   int    `json:"entries"`
}

func listingChangedToDTO(e *events.ListingChangedEvent) ListingChangedDTO {
	return ListingChangedDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Path:      e.Path,
		Entries:   e.Entries,
	}
}

// ViewChangedDTO is the JSON-safe version of events.ViewChangedEvent.
type ViewChangedDTO struct {
	Timestamp string `json:"timestamp"`
	View      string `json:"view"`
	Path      string `json:"path,omitempty"`
}

func viewChangedToDTO(e *events.ViewChangedEvent) ViewChangedDTO {
	return ViewChangedDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		View:      e.View,
		Path:      e.Path,
	}
}

// CopyProgressDTO is the JSON-safe version of events.CopyProgressEvent.
type CopyProgressDTO struct {
	Timestamp    string `json:"timestamp"`
	Source       string `json:"source"`
	Index        int    `json:"index"`
	Total        int    `json:"total"`
	BytesCurrent int64  `json:"bytesCurrent"`
	BytesTotal   int64  `json:"bytesTotal"`
}

func copyProgressToDTO(e *events.CopyProgressEvent) CopyProgressDTO {
	return CopyProgressDTO{
		Timestamp:    e.Timestamp().Format(time.RFC3339Nano),
		Source:       e.Source,
		Index:        e.Index,
		Total:        e.Total,
		BytesCurrent: e.BytesCurrent,
		BytesTotal:   e.BytesTotal,
	}
}

// CopyDoneDTO is the JSON-safe version of events.CopyDoneEvent.
type CopyDoneDTO struct {
	Timestamp string `json:"timestamp"`
	DestDir   string `json:"destDir"`
	Copied    int    `json:"copied"`
	Failed    int    `json:"failed"`
}

func copyDoneToDTO(e *events.CopyDoneEvent) CopyDoneDTO {
	return CopyDoneDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		DestDir:   e.DestDir,
		Copied:    e.Copied,
		Failed:    e.Failed,
	}
}

// CountDTO carries a timestamp and an item count for the *_changed
// events that only tell the frontend to re-fetch.
type CountDTO struct {
	Timestamp string `json:"timestamp"`
	Count     int    `json:"count"`
}

func countDTO(ts time.Time, count int) CountDTO {
	return CountDTO{
		Timestamp: ts.Format(time.RFC3339Nano),
		Count:     count,
	}
}

// ClipboardCapturedDTO is the JSON-safe version of events.ClipboardCapturedEvent.
type ClipboardCapturedDTO struct {
	Timestamp string `json:"timestamp"`
	Preview   string `json:"preview"`
}

func clipboardCapturedToDTO(e *events.ClipboardCapturedEvent) ClipboardCapturedDTO {
	return ClipboardCapturedDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Preview:   e.Preview,
	}
}

// TimerTickDTO is the JSON-safe version of events.TimerTickEvent.
type TimerTickDTO struct {
	Timestamp   string `json:"timestamp"`
	TimerID     int64  `json:"timerId"`
	RemainingMs int64  `json:"remainingMs"`
}

func timerTickToDTO(e *events.TimerTickEvent) TimerTickDTO {
	return TimerTickDTO{
		Timestamp:   e.Timestamp().Format(time.RFC3339Nano),
		TimerID:     e.TimerID,
		RemainingMs: e.Remaining.Milliseconds(),
	}
}

// TimerDoneDTO is the JSON-safe version of events.TimerDoneEvent.
type TimerDoneDTO struct {
	Timestamp string `json:"timestamp"`
	TimerID   int64  `json:"timerId"`
	Label     string `json:"label"`
}

func timerDoneToDTO(e *events.TimerDoneEvent) TimerDoneDTO {
	return TimerDoneDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		TimerID:   e.TimerID,
		Label:     e.Label,
	}
}

// ConfigChangedDTO is the JSON-safe version of events.ConfigChangedEvent.
type ConfigChangedDTO struct {
	Timestamp string `json:"timestamp"`
	Key       string `json:"key"`
}

func configChangedToDTO(e *events.ConfigChangedEvent) ConfigChangedDTO {
	return ConfigChangedDTO{
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Key:       e.Key,
	}
}
