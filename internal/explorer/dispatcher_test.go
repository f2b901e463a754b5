package explorer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/shares"
	"github.com/utildesk/utildesk/internal/store"
)

// fakeFS records the filesystem calls the dispatcher issues.
type fakeFS struct {
	root        string
	renames     [][2]string
	moves       [][2]string
	deletes     []string
	mkdirs      [][2]string
	copyBlock   chan struct{} // when set, CopyPaths waits on it
	copyResult  shares.CopyResult
	copyCalls   int
	deleteCalls int
}

func (f *fakeFS) Root() string { return f.root }

func (f *fakeFS) CreateDirectory(parentPath, folderName string) error {
	f.mkdirs = append(f.mkdirs, [2]string{parentPath, folderName})
	return nil
}

func (f *fakeFS) RenameEntry(oldPath, newName string) error {
	f.renames = append(f.renames, [2]string{oldPath, newName})
	return nil
}

func (f *fakeFS) MoveEntry(sourcePath, destFolder string) error {
	f.moves = append(f.moves, [2]string{sourcePath, destFolder})
	return nil
}

func (f *fakeFS) DeleteEntry(path string, isDir bool) error {
	f.deleteCalls++
	f.deletes = append(f.deletes, path)
	return nil
}

func (f *fakeFS) CopyPaths(sourcePaths []string, destDir string, progress shares.ProgressFunc) (shares.CopyResult, error) {
	f.copyCalls++
	if f.copyBlock != nil {
		<-f.copyBlock
	}
	if progress != nil {
		for i, src := range sourcePaths {
			progress(shares.CopyProgress{Source: src, Index: i + 1, Total: len(sourcePaths), BytesCurrent: 1, BytesTotal: 1})
		}
	}
	return f.copyResult, nil
}

func newTestRegistryStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRename_SavedFolderCascade(t *testing.T) {
	st := newTestRegistryStore(t)
	if _, err := st.InsertSavedFolder("Acme", `\\SRV\Clientes$\Acme`); err != nil {
		t.Fatal(err)
	}

	fs := &fakeFS{root: `\\SRV\Clientes$`}
	d := NewDispatcher(fs, st, nil, nil)

	if err := d.Rename(`\\SRV\Clientes$\Acme`, "Acme Corp"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if len(fs.renames) != 1 || fs.renames[0][1] != "Acme Corp" {
		t.Errorf("Unexpected rename calls: %v", fs.renames)
	}

	folder, err := st.GetSavedFolderByPath(`\\SRV\Clientes$\Acme Corp`)
	if err != nil {
		t.Fatalf("Cascaded row missing: %v", err)
	}
	if folder.Name != "Acme Corp" {
		t.Errorf("Expected cascaded name, got %q", folder.Name)
	}
	if _, ok, _ := st.FindSavedFolderByPath(`\\SRV\Clientes$\Acme`); ok {
		t.Error("Old path should no longer match a registry row")
	}
}

func TestRename_NoRegistryMatchLeavesRowsAlone(t *testing.T) {
	st := newTestRegistryStore(t)
	if _, err := st.InsertSavedFolder("Beta", `\\SRV\Clientes$\Beta`); err != nil {
		t.Fatal(err)
	}

	fs := &fakeFS{root: `\\SRV\Clientes$`}
	d := NewDispatcher(fs, st, nil, nil)

	if err := d.Rename(`\\SRV\Clientes$\Beta\interno.txt`, "externo.txt"); err != nil {
		t.Fatal(err)
	}

	folder, err := st.GetSavedFolderByPath(`\\SRV\Clientes$\Beta`)
	if err != nil || folder.Name != "Beta" {
		t.Errorf("Registry row changed unexpectedly: %+v err=%v", folder, err)
	}
}

func TestRegistryRemove_NeverTouchesFilesystem(t *testing.T) {
	st := newTestRegistryStore(t)
	folder, err := st.InsertSavedFolder("Gamma", `\\SRV\Clientes$\Gamma`)
	if err != nil {
		t.Fatal(err)
	}

	fs := &fakeFS{root: `\\SRV\Clientes$`}
	reg := NewRegistry(st, nil)
	// The dispatcher shares the same fake fs; removing a shortcut goes
	// through the registry only.
	_ = NewDispatcher(fs, st, nil, nil)

	if err := reg.Remove(folder.ID); err != nil {
		t.Fatal(err)
	}
	if fs.deleteCalls != 0 {
		t.Errorf("Registry removal issued %d filesystem deletes", fs.deleteCalls)
	}
	if folders, _ := st.ListSavedFolders(); len(folders) != 0 {
		t.Errorf("Expected empty registry, got %d rows", len(folders))
	}
}

func TestMove_ResolvesUnderRoot(t *testing.T) {
	fs := &fakeFS{root: `\\SRV\Clientes$`}
	d := NewDispatcher(fs, nil, nil, nil)

	if err := d.Move(`\\SRV\Clientes$\Acme\doc.pdf`, "Beta"); err != nil {
		t.Fatal(err)
	}
	if len(fs.moves) != 1 || fs.moves[0][1] != `\\SRV\Clientes$\Beta` {
		t.Errorf("Unexpected move destination: %v", fs.moves)
	}
}

func TestCopyIn_BusyBlocksSecondDrop(t *testing.T) {
	fs := &fakeFS{root: "/share", copyBlock: make(chan struct{})}
	d := NewDispatcher(fs, nil, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := d.CopyIn([]string{"/tmp/a"}, "/share/dest"); err != nil {
			t.Errorf("First CopyIn failed: %v", err)
		}
	}()

	// Wait for the first copy to be in flight.
	for i := 0; i < 100 && !d.Busy(); i++ {
		time.Sleep(time.Millisecond)
	}
	if !d.Busy() {
		t.Fatal("Dispatcher never became busy")
	}

	if _, err := d.CopyIn([]string{"/tmp/b"}, "/share/dest"); err != ErrCopyInProgress {
		t.Errorf("Expected ErrCopyInProgress, got %v", err)
	}

	close(fs.copyBlock)
	<-done

	if d.Busy() {
		t.Error("Busy flag should clear after completion")
	}
	if fs.copyCalls != 1 {
		t.Errorf("Expected exactly one copy call, got %d", fs.copyCalls)
	}
}

func TestCopyIn_PublishesProgressAndDone(t *testing.T) {
	fs := &fakeFS{root: "/share", copyResult: shares.CopyResult{Copied: 1, Failed: 1, FirstErr: "x"}}
	bus := events.NewEventBus(10)
	defer bus.Close()
	doneCh := bus.Subscribe(events.EventCopyDone)
	progCh := bus.Subscribe(events.EventCopyProgress)

	d := NewDispatcher(fs, nil, nil, bus)

	result, err := d.CopyIn([]string{"/tmp/a", "/tmp/b"}, "/share/dest")
	if err != nil {
		t.Fatal(err)
	}
	if result.Copied != 1 || result.Failed != 1 {
		t.Errorf("Unexpected result %+v", result)
	}

	select {
	case ev := <-doneCh:
		done := ev.(*events.CopyDoneEvent)
		if done.Copied != 1 || done.Failed != 1 || done.DestDir != "/share/dest" {
			t.Errorf("Unexpected done event %+v", done)
		}
	case <-time.After(time.Second):
		t.Fatal("No copy-done event")
	}

	select {
	case <-progCh:
	case <-time.After(time.Second):
		t.Fatal("No progress event")
	}
}

func TestDispatcher_RefreshesListing(t *testing.T) {
	lister := newFakeLister("/share", "/share/sub")
	nav := NewNavigator(lister, nil)
	if err := nav.OpenRoot("/share"); err != nil {
		t.Fatal(err)
	}

	fs := &fakeFS{root: "/share"}
	d := NewDispatcher(fs, nil, nav, nil)

	before := len(lister.calls)
	if err := d.CreateDirectory("/share", "nova"); err != nil {
		t.Fatal(err)
	}
	if len(lister.calls) != before+1 {
		t.Error("Expected a listing refresh after CreateDirectory")
	}
	if err := d.Delete("/share/sub", true); err != nil {
		t.Fatal(err)
	}
	if len(lister.calls) != before+2 {
		t.Error("Expected a listing refresh after Delete")
	}
}
