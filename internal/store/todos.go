package store

import (
	"database/sql"
	"fmt"
)

// Todo is a persisted task row.
type Todo struct {
	ID          int64
	Title       string
	Done        bool
	CreatedAt   string
	CompletedAt string // empty when not completed
	SortOrder   int64
}

// ListTodos returns all todos ordered by sort_order.
func (s *Store) ListTodos() ([]Todo, error) {
	rows, err := s.db.Query(`SELECT id, title, done, created_at,
		COALESCE(completed_at, ''), sort_order
		FROM todos ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var t Todo
		var done int
		if err := rows.Scan(&t.ID, &t.Title, &done, &t.CreatedAt, &t.CompletedAt, &t.SortOrder); err != nil {
			return nil, err
		}
		t.Done = done != 0
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// InsertTodo creates a new todo at the end of the list and returns it.
func (s *Store) InsertTodo(title string) (Todo, error) {
	res, err := s.db.Exec(`INSERT INTO todos (title, sort_order)
		VALUES (?, COALESCE((SELECT MAX(sort_order) FROM todos), 0) + 1)`, title)
	if err != nil {
		return Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Todo{}, err
	}
	return s.GetTodo(id)
}

// GetTodo returns a single todo by id.
func (s *Store) GetTodo(id int64) (Todo, error) {
	var t Todo
	var done int
	err := s.db.QueryRow(`SELECT id, title, done, created_at,
		COALESCE(completed_at, ''), sort_order FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &done, &t.CreatedAt, &t.CompletedAt, &t.SortOrder)
	if err == sql.ErrNoRows {
		return Todo{}, fmt.Errorf("todo %d not found", id)
	}
	if err != nil {
		return Todo{}, err
	}
	t.Done = done != 0
	return t, nil
}

// SetTodoDone toggles completion. completed_at is stamped when done and
// cleared when reopened.
func (s *Store) SetTodoDone(id int64, done bool) error {
	var res sql.Result
	var err error
	if done {
		res, err = s.db.Exec(`UPDATE todos SET done = 1, completed_at = datetime('now') WHERE id = ?`, id)
	} else {
		res, err = s.db.Exec(`UPDATE todos SET done = 0, completed_at = NULL WHERE id = ?`, id)
	}
	if err != nil {
		return err
	}
	return requireRow(res, "todo", id)
}

// UpdateTodoTitle renames a todo.
func (s *Store) UpdateTodoTitle(id int64, title string) error {
	res, err := s.db.Exec(`UPDATE todos SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return err
	}
	return requireRow(res, "todo", id)
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(id int64) error {
	res, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "todo", id)
}

// ReorderTodos rewrites sort_order to match the given id sequence.
// Ids absent from the sequence keep their position after the listed ones.
func (s *Store) ReorderTodos(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE todos SET sort_order = ? WHERE id = ?`, i+1, id); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func requireRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", kind, id)
	}
	return nil
}
