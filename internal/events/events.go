// Package events provides the internal publish/subscribe bus that
// decouples backend components from the GUI. The Wails event bridge
// subscribes to all events and forwards them to the frontend.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/utildesk/utildesk/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventLog   EventType = "log"
	EventError EventType = "error"

	// Explorer events
	EventListingChanged EventType = "listing_changed" // Directory listing refreshed
	EventViewChanged    EventType = "view_changed"    // Explorer entered or exited
	EventCopyProgress   EventType = "copy_progress"   // Drag-and-drop ingestion progress
	EventCopyDone       EventType = "copy_done"       // Ingestion finished

	// Registry and store events
	EventFoldersChanged EventType = "folders_changed" // Saved-folder registry mutated
	EventTasksChanged   EventType = "tasks_changed"
	EventLinksChanged   EventType = "links_changed"

	// Clipboard and timer events
	EventClipboardCaptured EventType = "clipboard_captured"
	EventTimerTick         EventType = "timer_tick"
	EventTimerDone         EventType = "timer_done"

	// Configuration change events
	EventConfigChanged EventType = "config_changed"
)

// LogLevel defines log severity levels
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// LogEvent represents log messages surfaced to the frontend activity view
type LogEvent struct {
	BaseEvent
	Level   LogLevel
	Message string
	Source  string
	Error   error
}

// ErrorEvent represents recoverable error conditions shown as banners
type ErrorEvent struct {
	BaseEvent
	Source  string
	Message string
	Error   error
}

// ListingChangedEvent is published after a directory listing refresh
type ListingChangedEvent struct {
	BaseEvent
	Path    string
	Entries int
}

// ViewChangedEvent is published when the explorer switches between the
// saved-folder list view and the directory view
type ViewChangedEvent struct {
	BaseEvent
	View string // "list" or "explorer"
	Path string // current path when View == "explorer"
}

// CopyProgressEvent reports drag-and-drop ingestion progress
type CopyProgressEvent struct {
	BaseEvent
	Source       string
	Index        int // 1-based index of the source being copied
	Total        int // total number of sources in this drop
	BytesCurrent int64
	BytesTotal   int64
}

// CopyDoneEvent reports completed drag-and-drop ingestion
type CopyDoneEvent struct {
	BaseEvent
	DestDir string
	Copied  int
	Failed  int
}

// FoldersChangedEvent is published after any saved-folder registry mutation
type FoldersChangedEvent struct {
	BaseEvent
	Count int
}

// TasksChangedEvent is published after any todo mutation
type TasksChangedEvent struct {
	BaseEvent
	Count int
}

// LinksChangedEvent is published after any quick-link mutation
type LinksChangedEvent struct {
	BaseEvent
	Count int
}

// ClipboardCapturedEvent is published when the poller stores a new entry
type ClipboardCapturedEvent struct {
	BaseEvent
	Preview string // truncated content preview
}

// TimerTickEvent carries countdown updates once per second
type TimerTickEvent struct {
	BaseEvent
	TimerID   int64
	Remaining time.Duration
}

// TimerDoneEvent is published when a countdown reaches zero
type TimerDoneEvent struct {
	BaseEvent
	TimerID int64
	Label   string
}

// ConfigChangedEvent is published when persisted settings change.
// Subscribers re-read the values they care about.
type ConfigChangedEvent struct {
	BaseEvent
	Key string
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with the specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Publishing never blocks;
// events are dropped when a subscriber's buffer is full.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	for _, ch := range eb.all {
		close(ch)
	}
}

// Unsubscribe removes a subscription channel from a specific event type.
// This prevents memory leaks from abandoned subscriptions.
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a subscription channel from all event types
func (eb *EventBus) UnsubscribeAll(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	for eventType, subscribers := range eb.subscribers {
		for i, subCh := range subscribers {
			if subCh == ch {
				subscribers[i] = subscribers[len(subscribers)-1]
				eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
				break
			}
		}
	}

	for i, subCh := range eb.all {
		if subCh == ch {
			eb.all[i] = eb.all[len(eb.all)-1]
			eb.all = eb.all[:len(eb.all)-1]
			break
		}
	}
}

// PublishLog is a convenience method for publishing log events
func (eb *EventBus) PublishLog(level LogLevel, message, source string, err error) {
	eb.Publish(&LogEvent{
		BaseEvent: BaseEvent{EventType: EventLog, Time: time.Now()},
		Level:     level,
		Message:   message,
		Source:    source,
		Error:     err,
	})
}

// PublishError is a convenience method for publishing error banners
func (eb *EventBus) PublishError(source, message string, err error) {
	eb.Publish(&ErrorEvent{
		BaseEvent: BaseEvent{EventType: EventError, Time: time.Now()},
		Source:    source,
		Message:   message,
		Error:     err,
	})
}

// DroppedEventCount returns the total number of events dropped due to
// full subscriber buffers.
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}
