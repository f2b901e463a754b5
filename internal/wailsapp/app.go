// Package wailsapp provides the Wails-based GUI for UtilDesk.
// All public methods on App are exposed to the frontend as callable
// functions.
package wailsapp

import (
	"context"
	"embed"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/utildesk/utildesk/internal/certs"
	"github.com/utildesk/utildesk/internal/clipboard"
	"github.com/utildesk/utildesk/internal/config"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/explorer"
	"github.com/utildesk/utildesk/internal/fiscal"
	"github.com/utildesk/utildesk/internal/links"
	"github.com/utildesk/utildesk/internal/logging"
	"github.com/utildesk/utildesk/internal/notify"
	"github.com/utildesk/utildesk/internal/pdf"
	"github.com/utildesk/utildesk/internal/shares"
	"github.com/utildesk/utildesk/internal/store"
	"github.com/utildesk/utildesk/internal/tasks"
	"github.com/utildesk/utildesk/internal/timers"
	"github.com/utildesk/utildesk/internal/version"
	"github.com/utildesk/utildesk/internal/watch"
)

// Assets holds the embedded frontend files, passed in from main package.
var Assets embed.FS

// wailsLogger is the package-level logger for GUI mode.
var wailsLogger *logging.Logger

// App is the main Wails application struct.
type App struct {
	ctx context.Context

	// configMu guards config field access; bindings run on concurrent
	// Wails goroutines.
	configMu   sync.Mutex
	config     *config.Config
	configPath string

	bus   *events.EventBus
	store *store.Store
	share *shares.Share

	nav        *explorer.Navigator
	menu       *explorer.Menu
	dispatcher *explorer.Dispatcher
	registry   *explorer.Registry

	tasks    *tasks.Service
	links    *links.Service
	clip     *clipboard.Service
	timers   *timers.Service
	pdf      *pdf.Service
	cnpj     *fiscal.CNPJClient
	certs    *certs.Inventory
	notifier *notify.Notifier
	watcher  *watch.DirectoryWatcher

	// nfe is loaded on demand when the user picks a certificate.
	nfeMu   sync.Mutex
	nfe     *fiscal.NfeClient
	nfeCNPJ string

	eventBridge *EventBridge

	clipCancel context.CancelFunc
	watchDone  chan struct{}
}

// NewApp creates a new Wails application instance.
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved so we
// can call the Wails runtime methods.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if a.bus != nil {
		a.eventBridge = NewEventBridge(ctx, a.bus)
		if err := a.eventBridge.Start(); err != nil {
			wailsLogger.Error().Err(err).Msg("Failed to start event bridge")
		}
	}

	if a.clip != nil && a.config != nil && a.config.ClipboardPollSeconds > 0 {
		a.clip.SetInterval(time.Duration(a.config.ClipboardPollSeconds) * time.Second)
		pollCtx, cancel := context.WithCancel(context.Background())
		a.clipCancel = cancel
		go a.clip.Run(pollCtx)
	}

	if a.watcher != nil {
		a.watchDone = make(chan struct{})
		go a.watchLoop()
	}

	wailsLogger.Info().Msg("Wails application started")
}

// watchLoop refreshes the explorer listing when the watched directory
// changes on disk.
func (a *App) watchLoop() {
	defer close(a.watchDone)
	for path := range a.watcher.Notify() {
		if a.nav == nil {
			continue
		}
		if a.nav.CurrentPath() != path {
			continue
		}
		if err := a.nav.Refresh(); err != nil {
			wailsLogger.Warn().Err(err).Str("path", path).Msg("Refresh after directory change failed")
		}
	}
}

// domReady is called after the frontend DOM is ready.
func (a *App) domReady(ctx context.Context) {
	wailsLogger.Debug().Msg("Frontend DOM ready")
}

// beforeClose is called when the window close is requested.
// Return true to prevent closing.
func (a *App) beforeClose(ctx context.Context) bool {
	return false
}

// shutdown is called at application termination.
func (a *App) shutdown(ctx context.Context) {
	wailsLogger.Info().Msg("Wails application shutting down")

	if a.eventBridge != nil {
		a.eventBridge.Stop()
	}
	if a.clipCancel != nil {
		a.clipCancel()
	}
	if a.timers != nil {
		a.timers.CancelAll()
	}
	if a.watcher != nil {
		a.watcher.Close()
		if a.watchDone != nil {
			<-a.watchDone
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			wailsLogger.Warn().Err(err).Msg("Failed to close store")
		}
	}
}

// logInfo publishes an informational message to the activity view.
func (a *App) logInfo(source, message string) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(&events.LogEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventLog, Time: time.Now()},
		Level:     events.InfoLevel,
		Source:    source,
		Message:   message,
	})
}

// logError publishes an error banner to the frontend.
func (a *App) logError(source, message string) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(&events.ErrorEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventError, Time: time.Now()},
		Source:    source,
		Message:   message,
	})
}

// Run launches the Wails GUI application.
func Run(args []string) error {
	wailsLogger = logging.NewLogger("gui")

	if os.Getenv("UTILDESK_DEBUG") != "" {
		logging.SetGlobalLevel(zerolog.DebugLevel)
		wailsLogger.Info().Msg("Debug logging enabled via UTILDESK_DEBUG")
	} else {
		logging.SetGlobalLevel(zerolog.WarnLevel)
	}

	if runtime.GOOS == "linux" {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return fmt.Errorf("GUI mode requires a display. No display detected.\n" +
				"DISPLAY and WAYLAND_DISPLAY are not set.\n" +
				"Use 'utildesk' subcommands for CLI mode")
		}
	}

	configPath := config.GetDefaultConfigPath()
	cfg, err := config.LoadConfigCSV(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app, err := buildApp(cfg, configPath)
	if err != nil {
		return err
	}

	err = wails.Run(&options.App{
		Title:     fmt.Sprintf("UtilDesk %s", version.Version),
		Width:     1300,
		Height:    700,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: Assets,
		},
		BackgroundColour: &options.RGBA{R: 248, G: 250, B: 252, A: 1},
		OnStartup:        app.startup,
		OnDomReady:       app.domReady,
		OnBeforeClose:    app.beforeClose,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "UtilDesk",
				Message: fmt.Sprintf("Versão %s\n\nUtilitários de escritório e explorador de pastas de clientes.", version.Version),
			},
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
		},
	})

	if err != nil {
		return fmt.Errorf("wails application error: %w", err)
	}
	return nil
}

// buildApp wires every service the bindings expose. The store and the
// watcher are the only constructors that can fail.
func buildApp(cfg *config.Config, configPath string) (*App, error) {
	bus := events.NewEventBus(0)

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = config.GetDefaultDatabasePath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shareLogger := logging.NewLogger("gui")
	share := shares.NewShare(cfg.NetworkBasePath, shareLogger)
	nav := explorer.NewNavigator(share, bus)
	// In list view this only records the options, it cannot fail.
	_ = nav.SetListOptions(sortOptionsFromConfig(cfg))

	notifier := notify.NewNotifier(cfg.NotificationsEnabled, shareLogger)

	watcher, err := watch.NewDirectoryWatcher(0, shareLogger)
	if err != nil {
		wailsLogger.Warn().Err(err).Msg("Directory watcher unavailable, listings refresh manually")
		watcher = nil
	}

	app := NewApp()
	app.config = cfg
	app.configPath = configPath
	app.bus = bus
	app.store = st
	app.share = share
	app.nav = nav
	app.menu = explorer.NewMenu()
	app.dispatcher = explorer.NewDispatcher(share, st, nav, bus)
	app.registry = explorer.NewRegistry(st, bus)
	app.tasks = tasks.NewService(st, bus)
	app.links = links.NewService(st, bus)
	app.clip = clipboard.NewService(st, bus, shareLogger)
	app.timers = timers.NewService(bus, notifier)
	app.pdf = pdf.NewService(shareLogger)
	app.cnpj = fiscal.NewCNPJClient(shareLogger)
	app.certs = certs.NewInventory(cfg.CertificateDir, shareLogger)
	app.notifier = notifier
	app.watcher = watcher
	return app, nil
}

func sortOptionsFromConfig(cfg *config.Config) shares.ListOptions {
	opts := shares.DefaultListOptions()
	if cfg.SortField != "" {
		opts.SortField = cfg.SortField
	}
	opts.Ascending = cfg.SortAscending
	return opts
}
