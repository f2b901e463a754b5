// Package tasks is the todo-list service: store CRUD plus change
// events so the task view re-renders after every mutation.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/store"
)

// Service owns the todo list.
type Service struct {
	store *store.Store
	bus   *events.EventBus
}

// NewService wires a task service. bus may be nil.
func NewService(st *store.Store, bus *events.EventBus) *Service {
	return &Service{store: st, bus: bus}
}

// List returns all todos in display order.
func (s *Service) List() ([]store.Todo, error) {
	return s.store.ListTodos()
}

// Add creates a todo at the end of the list.
func (s *Service) Add(title string) (store.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.Todo{}, fmt.Errorf("título não pode ser vazio")
	}
	todo, err := s.store.InsertTodo(title)
	if err != nil {
		return store.Todo{}, err
	}
	s.publishChanged()
	return todo, nil
}

// SetDone toggles completion.
func (s *Service) SetDone(id int64, done bool) error {
	if err := s.store.SetTodoDone(id, done); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

// Rename changes a todo's title.
func (s *Service) Rename(id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("título não pode ser vazio")
	}
	if err := s.store.UpdateTodoTitle(id, title); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

// Delete removes a todo.
func (s *Service) Delete(id int64) error {
	if err := s.store.DeleteTodo(id); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

// Reorder applies the drag-and-drop ordering from the task view.
func (s *Service) Reorder(ids []int64) error {
	if err := s.store.ReorderTodos(ids); err != nil {
		return err
	}
	s.publishChanged()
	return nil
}

func (s *Service) publishChanged() {
	if s.bus == nil {
		return
	}
	count := 0
	if todos, err := s.store.ListTodos(); err == nil {
		count = len(todos)
	}
	s.bus.Publish(&events.TasksChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventTasksChanged, Time: time.Now()},
		Count:     count,
	})
}
