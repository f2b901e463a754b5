package wailsapp

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/utildesk/utildesk/internal/clipboard"
	"github.com/utildesk/utildesk/internal/config"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/explorer"
	"github.com/utildesk/utildesk/internal/links"
	"github.com/utildesk/utildesk/internal/logging"
	"github.com/utildesk/utildesk/internal/shares"
	"github.com/utildesk/utildesk/internal/store"
	"github.com/utildesk/utildesk/internal/tasks"
)

// newTestApp builds an App over a temp database and a temp share root,
// without the Wails runtime.
func newTestApp(t *testing.T) *App {
	t.Helper()

	if wailsLogger == nil {
		wailsLogger = logging.NewLogger("gui")
	}

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	bus := events.NewEventBus(0)
	share := shares.NewShare(dir, nil)
	nav := explorer.NewNavigator(share, bus)

	app := NewApp()
	app.bus = bus
	app.store = st
	app.share = share
	app.nav = nav
	app.menu = explorer.NewMenu()
	app.dispatcher = explorer.NewDispatcher(share, st, nav, bus)
	app.registry = explorer.NewRegistry(st, bus)
	app.tasks = tasks.NewService(st, bus)
	app.links = links.NewService(st, bus)
	app.clip = clipboard.NewService(st, bus, nil)
	return app
}

func TestGetExplorerState_StartsInListView(t *testing.T) {
	app := newTestApp(t)

	state := app.GetExplorerState()
	if state.View != "list" {
		t.Errorf("View = %q, want list", state.View)
	}
	if state.CurrentPath != "" {
		t.Errorf("CurrentPath = %q, want empty", state.CurrentPath)
	}
	if state.HistoryLen != 0 {
		t.Errorf("HistoryLen = %d, want 0", state.HistoryLen)
	}
}

func TestSavedFolderRoundTrip(t *testing.T) {
	app := newTestApp(t)

	folder, err := app.AddSavedFolder("Acme", `\\SRV\Clientes$\Acme`)
	if err != nil {
		t.Fatalf("AddSavedFolder failed: %v", err)
	}
	if folder.Name != "Acme" {
		t.Errorf("Name = %q", folder.Name)
	}

	list, err := app.ListSavedFolders()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Path != `\\SRV\Clientes$\Acme` {
		t.Errorf("list = %+v", list)
	}

	if err := app.RemoveSavedFolder(folder.ID); err != nil {
		t.Fatalf("RemoveSavedFolder failed: %v", err)
	}
	list, err = app.ListSavedFolders()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("list after remove = %+v", list)
	}
}

func TestContextMenu_SingleMenuReplaced(t *testing.T) {
	app := newTestApp(t)

	folder, err := app.AddSavedFolder("Acme", `\\SRV\Clientes$\Acme`)
	if err != nil {
		t.Fatal(err)
	}

	if err := app.OpenSavedFolderMenu(10, 20, folder.ID); err != nil {
		t.Fatalf("OpenSavedFolderMenu failed: %v", err)
	}

	menu := app.GetContextMenu()
	if !menu.Open {
		t.Fatal("menu should be open")
	}
	if menu.Kind != "saved_folder" {
		t.Errorf("Kind = %q", menu.Kind)
	}
	if menu.SavedFolder == nil || menu.SavedFolder.Name != "Acme" {
		t.Errorf("SavedFolder = %+v", menu.SavedFolder)
	}
	if menu.X != 10 || menu.Y != 20 {
		t.Errorf("coords = (%d,%d)", menu.X, menu.Y)
	}

	app.CloseContextMenu()
	if app.GetContextMenu().Open {
		t.Error("menu should be closed")
	}
}

func TestOpenSavedFolderMenu_UnknownID(t *testing.T) {
	app := newTestApp(t)

	if err := app.OpenSavedFolderMenu(0, 0, 42); err == nil {
		t.Fatal("expected error for unknown saved folder")
	}
}

func TestTodoBindings(t *testing.T) {
	app := newTestApp(t)

	todo, err := app.AddTodo("  Enviar nota  ")
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	if todo.Title != "Enviar nota" {
		t.Errorf("Title = %q, want trimmed", todo.Title)
	}

	if err := app.SetTodoDone(todo.ID, true); err != nil {
		t.Fatal(err)
	}
	list, err := app.ListTodos()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Done {
		t.Errorf("list = %+v", list)
	}
}

func TestQuickLinkBindings_DefaultsScheme(t *testing.T) {
	app := newTestApp(t)

	link, err := app.AddQuickLink("Portal", "portal.example.com")
	if err != nil {
		t.Fatalf("AddQuickLink failed: %v", err)
	}
	if link.URL != "https://portal.example.com" {
		t.Errorf("URL = %q, want https default", link.URL)
	}
}

func TestCopyIntoCurrent_NoFolderOpen(t *testing.T) {
	app := newTestApp(t)

	result := app.CopyIntoCurrent([]string{"/tmp/whatever"})
	if result.Error == "" {
		t.Fatal("expected error with no folder open")
	}
	if result.Copied != 0 {
		t.Errorf("Copied = %d", result.Copied)
	}
}

func TestValidateCNPJDigits(t *testing.T) {
	app := newTestApp(t)
	app.cnpj = nil // validation is local, the client is not needed

	if msg := app.ValidateCNPJDigits("11.222.333/0001-81"); msg != "" {
		t.Errorf("valid CNPJ rejected: %s", msg)
	}
	if msg := app.ValidateCNPJDigits("11.222.333/0001-82"); msg == "" {
		t.Error("invalid CNPJ accepted")
	}
}

func TestQueryNfe_RequiresCertificate(t *testing.T) {
	app := newTestApp(t)

	_, err := app.QueryNfe("35260311222333000181550010000123451000123456")
	if err != ErrNoCertificate {
		t.Errorf("err = %v, want ErrNoCertificate", err)
	}
}

func TestPathSeparatorFor(t *testing.T) {
	cases := map[string]string{
		`\\SRV\Clientes$\Acme`: `\`,
		"/mnt/clientes/Acme":   "/",
		"relative":             "/",
	}
	for in, want := range cases {
		if got := pathSeparatorFor(in); got != want {
			t.Errorf("pathSeparatorFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigConcurrentAccess(t *testing.T) {
	app := newTestApp(t)
	app.config = &config.Config{SortField: "name", SortAscending: true}
	app.configPath = filepath.Join(t.TempDir(), "config.csv")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func(asc bool) {
			defer wg.Done()
			if err := app.SetSortOptions("size", asc, false); err != nil {
				t.Errorf("SetSortOptions failed: %v", err)
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = app.UpdateConfig(ConfigDTO{SortField: "modified", ClipboardPollSeconds: 2})
		}()
		go func() {
			defer wg.Done()
			_ = app.GetConfig()
		}()
	}
	wg.Wait()

	got := app.GetConfig()
	if got.SortField != "size" && got.SortField != "modified" {
		t.Errorf("SortField = %q after concurrent updates", got.SortField)
	}
}
