package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventListingChanged)

	bus.Publish(&ListingChangedEvent{
		BaseEvent: BaseEvent{EventType: EventListingChanged, Time: time.Now()},
		Path:      `\\SRV\Shared\Docs`,
		Entries:   12,
	})

	select {
	case received := <-ch:
		ev, ok := received.(*ListingChangedEvent)
		if !ok {
			t.Fatal("Expected ListingChangedEvent")
		}
		if ev.Path != `\\SRV\Shared\Docs` {
			t.Errorf("Expected path %q, got %q", `\\SRV\Shared\Docs`, ev.Path)
		}
		if ev.Entries != 12 {
			t.Errorf("Expected 12 entries, got %d", ev.Entries)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventLog)
	ch2 := bus.Subscribe(EventLog)

	bus.PublishLog(InfoLevel, "hello", "test", nil)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			logEv, ok := received.(*LogEvent)
			if !ok {
				t.Fatalf("subscriber %d: expected LogEvent", i)
			}
			if logEv.Message != "hello" {
				t.Errorf("subscriber %d: expected message 'hello', got %q", i, logEv.Message)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.SubscribeAll()

	bus.PublishLog(WarnLevel, "one", "test", nil)
	bus.Publish(&TimerDoneEvent{
		BaseEvent: BaseEvent{EventType: EventTimerDone, Time: time.Now()},
		TimerID:   7,
		Label:     "coffee",
	})

	types := make(map[EventType]bool)
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			types[ev.Type()] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("Timeout waiting for events")
		}
	}

	if !types[EventLog] || !types[EventTimerDone] {
		t.Errorf("Expected both event types, got %v", types)
	}
}

func TestEventBus_TypeFiltering(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventTasksChanged)

	bus.PublishLog(InfoLevel, "ignored", "test", nil)
	bus.Publish(&TasksChangedEvent{
		BaseEvent: BaseEvent{EventType: EventTasksChanged, Time: time.Now()},
		Count:     3,
	})

	select {
	case received := <-ch:
		if received.Type() != EventTasksChanged {
			t.Errorf("Expected tasks_changed, got %s", received.Type())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}

	select {
	case ev := <-ch:
		t.Errorf("Unexpected extra event: %s", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_DropWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(EventLog)

	// First fills the buffer, second is dropped.
	bus.PublishLog(InfoLevel, "first", "test", nil)
	bus.PublishLog(InfoLevel, "second", "test", nil)

	if got := bus.DroppedEventCount(); got != 1 {
		t.Errorf("Expected 1 dropped event, got %d", got)
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventLog)
	bus.Unsubscribe(EventLog, ch)

	bus.PublishLog(InfoLevel, "after unsubscribe", "test", nil)

	select {
	case ev := <-ch:
		t.Errorf("Received event after unsubscribe: %v", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventLog)
	bus.Close()

	// Must not panic.
	bus.PublishLog(InfoLevel, "late", "test", nil)

	if _, ok := <-ch; ok {
		t.Error("Expected closed channel")
	}
}
