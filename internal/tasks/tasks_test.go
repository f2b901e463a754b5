package tasks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/store"
)

func newTestService(t *testing.T, bus *events.EventBus) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, bus)
}

func TestAddAndList(t *testing.T) {
	svc := newTestService(t, nil)

	todo, err := svc.Add("  pagar boleto  ")
	if err != nil {
		t.Fatal(err)
	}
	if todo.Title != "pagar boleto" {
		t.Errorf("Expected trimmed title, got %q", todo.Title)
	}

	if _, err := svc.Add("   "); err == nil {
		t.Error("Expected error for blank title")
	}

	todos, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 {
		t.Fatalf("Expected 1 todo, got %d", len(todos))
	}
}

func TestSetDone(t *testing.T) {
	svc := newTestService(t, nil)
	todo, err := svc.Add("revisar contrato")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SetDone(todo.ID, true); err != nil {
		t.Fatal(err)
	}
	todos, _ := svc.List()
	if !todos[0].Done || todos[0].CompletedAt == "" {
		t.Errorf("Expected completed todo, got %+v", todos[0])
	}

	if err := svc.SetDone(todo.ID, false); err != nil {
		t.Fatal(err)
	}
	todos, _ = svc.List()
	if todos[0].Done || todos[0].CompletedAt != "" {
		t.Errorf("Expected reopened todo, got %+v", todos[0])
	}
}

func TestReorderPublishesEvent(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventTasksChanged)

	svc := newTestService(t, bus)
	a, _ := svc.Add("a")
	b, _ := svc.Add("b")

	if err := svc.Reorder([]int64{b.ID, a.ID}); err != nil {
		t.Fatal(err)
	}
	todos, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if todos[0].ID != b.ID || todos[1].ID != a.ID {
		t.Errorf("Unexpected order: %+v", todos)
	}

	received := 0
	for received < 3 {
		select {
		case <-ch:
			received++
		case <-time.After(time.Second):
			t.Fatalf("Expected 3 change events, got %d", received)
		}
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.Delete(999); err == nil {
		t.Error("Expected error deleting a missing todo")
	}
}
