// Package cli provides the command-line interface for utildesk.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/config"
	"github.com/utildesk/utildesk/internal/logging"
	"github.com/utildesk/utildesk/internal/store"
	"github.com/utildesk/utildesk/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command for CLI mode.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "utildesk",
		Short: "UtilDesk - utilitários de escritório e explorador de pastas de clientes",
		Long: `UtilDesk ` + version.Version + ` - Built: ` + version.BuildTime + `
Desktop utility belt: client-folder explorer over a network share,
todo list, quick links, clipboard history, timers, PDF tools and
CNPJ/NFe lookups.

Run without arguments (or with --gui) to open the graphical interface.
Subcommands expose the same features for scripting.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose || debug {
				logging.SetGlobalLevel(-1) // zerolog.DebugLevel
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newFoldersCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newPDFCmd())
	rootCmd.AddCommand(newCNPJCmd())
	rootCmd.AddCommand(newNfeCmd())
	rootCmd.AddCommand(newCertsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "UtilDesk %s (built %s)\n", version.Version, version.BuildTime)
		},
	}
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig loads the config file named by --config, falling back to
// the default location.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return config.LoadConfigCSV(path)
}

// openStore opens the database named by the config.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = config.GetDefaultDatabasePath()
	}
	return store.Open(dbPath)
}
