package store

import (
	"database/sql"
	"fmt"
)

// QuickLink is a persisted shortcut to a URL.
type QuickLink struct {
	ID        int64
	Title     string
	URL       string
	CreatedAt string
}

// ListQuickLinks returns all quick links, newest first.
func (s *Store) ListQuickLinks() ([]QuickLink, error) {
	rows, err := s.db.Query(`SELECT id, title, url, created_at
		FROM quick_links ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []QuickLink
	for rows.Next() {
		var l QuickLink
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// InsertQuickLink creates a quick link and returns it.
func (s *Store) InsertQuickLink(title, url string) (QuickLink, error) {
	res, err := s.db.Exec(`INSERT INTO quick_links (title, url) VALUES (?, ?)`, title, url)
	if err != nil {
		return QuickLink{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return QuickLink{}, err
	}
	var l QuickLink
	err = s.db.QueryRow(`SELECT id, title, url, created_at FROM quick_links WHERE id = ?`, id).
		Scan(&l.ID, &l.Title, &l.URL, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return QuickLink{}, fmt.Errorf("quick link %d not found", id)
	}
	return l, err
}

// UpdateQuickLink updates title and url of an existing link.
func (s *Store) UpdateQuickLink(id int64, title, url string) error {
	res, err := s.db.Exec(`UPDATE quick_links SET title = ?, url = ? WHERE id = ?`, title, url, id)
	if err != nil {
		return err
	}
	return requireRow(res, "quick link", id)
}

// DeleteQuickLink removes a link.
func (s *Store) DeleteQuickLink(id int64) error {
	res, err := s.db.Exec(`DELETE FROM quick_links WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "quick link", id)
}
