package store

// ClipboardEntry is a captured clipboard snapshot.
type ClipboardEntry struct {
	ID         int64
	Content    string
	CapturedAt string
}

// ListClipboardEntries returns up to limit entries, newest first.
func (s *Store) ListClipboardEntries(limit int) ([]ClipboardEntry, error) {
	rows, err := s.db.Query(`SELECT id, content, captured_at
		FROM clipboard_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ClipboardEntry
	for rows.Next() {
		var e ClipboardEntry
		if err := rows.Scan(&e.ID, &e.Content, &e.CapturedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestClipboardEntry returns the most recent entry, or ok=false when
// the history is empty.
func (s *Store) LatestClipboardEntry() (ClipboardEntry, bool, error) {
	entries, err := s.ListClipboardEntries(1)
	if err != nil {
		return ClipboardEntry{}, false, err
	}
	if len(entries) == 0 {
		return ClipboardEntry{}, false, nil
	}
	return entries[0], true, nil
}

// InsertClipboardEntry stores a snapshot and prunes history beyond keep
// entries.
func (s *Store) InsertClipboardEntry(content string, keep int) error {
	if _, err := s.db.Exec(`INSERT INTO clipboard_history (content) VALUES (?)`, content); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM clipboard_history WHERE id NOT IN
		(SELECT id FROM clipboard_history ORDER BY id DESC LIMIT ?)`, keep)
	return err
}

// DeleteClipboardEntry removes a single entry.
func (s *Store) DeleteClipboardEntry(id int64) error {
	res, err := s.db.Exec(`DELETE FROM clipboard_history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "clipboard entry", id)
}

// ClearClipboardHistory removes all entries.
func (s *Store) ClearClipboardHistory() error {
	_, err := s.db.Exec(`DELETE FROM clipboard_history`)
	return err
}
