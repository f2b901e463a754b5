// Package shares implements the filesystem collaborator for the
// client-folder explorer: directory listing, file operations and
// drag-and-drop ingestion, all confined to a configured share root.
package shares

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ModifiedDisplayFormat is the timestamp layout shown in listings.
const ModifiedDisplayFormat = "02/01/2006 15:04"

// DirEntry is one row of a directory listing. Entries are produced
// fresh on every listing call and never persisted.
type DirEntry struct {
	Name      string
	IsDir     bool
	SizeBytes int64  // 0 for directories
	Modified  string // formatted with ModifiedDisplayFormat
	Extension string // lowercase, without dot; empty for directories
}

// ListOptions configures ListDirectory.
type ListOptions struct {
	// IncludeHidden includes dot-files in results.
	IncludeHidden bool

	// SortField orders entries by "name", "size" or "modified".
	// Directories always sort before files regardless of field.
	SortField string

	// Ascending controls sort direction within each group.
	Ascending bool
}

// DefaultListOptions sorts by name ascending, hidden files excluded.
func DefaultListOptions() ListOptions {
	return ListOptions{SortField: "name", Ascending: true}
}

// listItem pairs an entry with its raw mod time for sorting.
type listItem struct {
	entry   DirEntry
	modTime time.Time
}

func newListItem(name string, isDir bool, size int64, modTime time.Time) listItem {
	e := DirEntry{
		Name:  name,
		IsDir: isDir,
	}
	if !isDir {
		e.SizeBytes = size
		e.Extension = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	}
	if !modTime.IsZero() {
		e.Modified = modTime.Format(ModifiedDisplayFormat)
	}
	return listItem{entry: e, modTime: modTime}
}

// sortItems orders directories first, then by the configured field.
// Ties resolve by case-insensitive name.
func sortItems(items []listItem, opts ListOptions) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.entry.IsDir != b.entry.IsDir {
			return a.entry.IsDir
		}
		var before bool
		switch opts.SortField {
		case "size":
			if a.entry.SizeBytes != b.entry.SizeBytes {
				before = a.entry.SizeBytes < b.entry.SizeBytes
			} else {
				return nameLess(a.entry.Name, b.entry.Name)
			}
		case "modified":
			if !a.modTime.Equal(b.modTime) {
				before = a.modTime.Before(b.modTime)
			} else {
				return nameLess(a.entry.Name, b.entry.Name)
			}
		default:
			an, bn := strings.ToLower(a.entry.Name), strings.ToLower(b.entry.Name)
			if an == bn {
				return false
			}
			before = an < bn
		}
		if !opts.Ascending {
			return !before
		}
		return before
	})
}

func nameLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// IsHiddenName reports whether a filename (not path) is hidden.
// Special entries "." and ".." are not considered hidden.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
