package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// SavedFolder is a user-curated shortcut to a network directory. The
// registry row is independent of the filesystem: deleting it never
// touches the underlying directory.
type SavedFolder struct {
	ID        int64
	Name      string
	Path      string
	CreatedAt string
}

// ListSavedFolders returns all saved folders sorted by name
// (case-insensitive).
func (s *Store) ListSavedFolders() ([]SavedFolder, error) {
	rows, err := s.db.Query(`SELECT id, folder_name, folder_path, created_at
		FROM saved_folders ORDER BY folder_name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []SavedFolder
	for rows.Next() {
		var f SavedFolder
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// InsertSavedFolder adds a shortcut unless one with the same path
// already exists. Returns the stored row either way.
func (s *Store) InsertSavedFolder(name, path string) (SavedFolder, error) {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO saved_folders (folder_name, folder_path)
		VALUES (?, ?)`, name, path); err != nil {
		return SavedFolder{}, err
	}
	return s.GetSavedFolderByPath(path)
}

// GetSavedFolderByPath looks up a shortcut by its exact path.
func (s *Store) GetSavedFolderByPath(path string) (SavedFolder, error) {
	var f SavedFolder
	err := s.db.QueryRow(`SELECT id, folder_name, folder_path, created_at
		FROM saved_folders WHERE folder_path = ?`, path).
		Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return SavedFolder{}, fmt.Errorf("saved folder not found: %s", path)
	}
	return f, err
}

// FindSavedFolderByPath is like GetSavedFolderByPath but case-insensitive
// and reports existence instead of an error, for rename cascades.
func (s *Store) FindSavedFolderByPath(path string) (SavedFolder, bool, error) {
	var f SavedFolder
	err := s.db.QueryRow(`SELECT id, folder_name, folder_path, created_at
		FROM saved_folders WHERE LOWER(folder_path) = ?`, strings.ToLower(path)).
		Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return SavedFolder{}, false, nil
	}
	if err != nil {
		return SavedFolder{}, false, err
	}
	return f, true, nil
}

// UpdateSavedFolder rewrites name and path of a shortcut. Used by the
// rename cascade when the underlying directory is renamed.
func (s *Store) UpdateSavedFolder(id int64, name, path string) error {
	res, err := s.db.Exec(`UPDATE saved_folders SET folder_name = ?, folder_path = ? WHERE id = ?`,
		name, path, id)
	if err != nil {
		return err
	}
	return requireRow(res, "saved folder", id)
}

// DeleteSavedFolder removes a shortcut row only.
func (s *Store) DeleteSavedFolder(id int64) error {
	res, err := s.db.Exec(`DELETE FROM saved_folders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "saved folder", id)
}
