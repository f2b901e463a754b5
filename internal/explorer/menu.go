package explorer

import (
	"sync"

	"github.com/utildesk/utildesk/internal/shares"
	"github.com/utildesk/utildesk/internal/store"
)

// MenuTarget is what a right-click refers to: either a saved-folder
// shortcut in the list view or a filesystem entry in the explorer view.
type MenuTarget interface {
	menuTarget()
}

// SavedFolderTarget points at a registry shortcut.
type SavedFolderTarget struct {
	Folder store.SavedFolder
}

func (SavedFolderTarget) menuTarget() {}

// EntryTarget points at a listed filesystem entry.
type EntryTarget struct {
	Entry    shares.DirEntry
	FullPath string
}

func (EntryTarget) menuTarget() {}

// MenuState captures an open context menu: where it was opened and what
// it refers to.
type MenuState struct {
	X, Y   int
	Target MenuTarget
}

// Menu is the context-menu state machine. At most one menu is open;
// opening a new one replaces the previous.
type Menu struct {
	mu   sync.Mutex
	open bool
	cur  MenuState
}

// NewMenu creates a closed menu.
func NewMenu() *Menu {
	return &Menu{}
}

// Open opens the menu at screen coordinates for the given target,
// replacing any menu already open.
func (m *Menu) Open(x, y int, target MenuTarget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.cur = MenuState{X: x, Y: y, Target: target}
}

// Close discards the current menu, if any. Used for clicks outside the
// menu's bounds.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.cur = MenuState{}
}

// Current returns the open menu state, if one is open.
func (m *Menu) Current() (MenuState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur, m.open
}

// Take closes the menu and returns its target, for carrying over into
// an action dialog. Returns false if no menu was open.
func (m *Menu) Take() (MenuTarget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil, false
	}
	target := m.cur.Target
	m.open = false
	m.cur = MenuState{}
	return target, true
}
