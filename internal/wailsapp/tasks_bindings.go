// Package wailsapp provides todo-list Wails bindings.
package wailsapp

import (
	"github.com/utildesk/utildesk/internal/store"
)

// TodoDTO is the JSON-safe version of store.Todo.
type TodoDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt,omitempty"`
	SortOrder   int64  `json:"sortOrder"`
}

func todoToDTO(t store.Todo) TodoDTO {
	return TodoDTO{
		ID:          t.ID,
		Title:       t.Title,
		Done:        t.Done,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		SortOrder:   t.SortOrder,
	}
}

// ListTodos returns all todos in display order.
func (a *App) ListTodos() ([]TodoDTO, error) {
	if a.tasks == nil {
		return nil, ErrNoStore
	}
	todos, err := a.tasks.List()
	if err != nil {
		return nil, err
	}
	dtos := make([]TodoDTO, 0, len(todos))
	for _, t := range todos {
		dtos = append(dtos, todoToDTO(t))
	}
	return dtos, nil
}

// AddTodo creates a todo from the given title.
func (a *App) AddTodo(title string) (TodoDTO, error) {
	if a.tasks == nil {
		return TodoDTO{}, ErrNoStore
	}
	todo, err := a.tasks.Add(title)
	if err != nil {
		return TodoDTO{}, err
	}
	return todoToDTO(todo), nil
}

// SetTodoDone marks a todo completed or pending.
func (a *App) SetTodoDone(id int64, done bool) error {
	if a.tasks == nil {
		return ErrNoStore
	}
	return a.tasks.SetDone(id, done)
}

// RenameTodo changes a todo title.
func (a *App) RenameTodo(id int64, title string) error {
	if a.tasks == nil {
		return ErrNoStore
	}
	return a.tasks.Rename(id, title)
}

// DeleteTodo removes a todo.
func (a *App) DeleteTodo(id int64) error {
	if a.tasks == nil {
		return ErrNoStore
	}
	return a.tasks.Delete(id)
}

// ReorderTodos persists a drag-reordered todo list. The slice carries
// todo IDs in their new display order.
func (a *App) ReorderTodos(ids []int64) error {
	if a.tasks == nil {
		return ErrNoStore
	}
	return a.tasks.Reorder(ids)
}
