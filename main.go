// UtilDesk - office utility belt with a client-folder explorer.
//
// - No args + display available → GUI mode
// - No args + no display → CLI help
// - --gui → GUI mode
// - --cli → CLI mode (force)
// - CLI subcommands/flags → CLI mode
//
// Build with: wails build
package main

import (
	"embed"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/utildesk/utildesk/internal/cli"
	"github.com/utildesk/utildesk/internal/wailsapp"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if isCLIMode() {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// Suppress GTK ibus input method warnings on Linux. Wails uses its
	// own webview input handling; ibus is unnecessary.
	if runtime.GOOS == "linux" && os.Getenv("GTK_IM_MODULE") == "" {
		os.Setenv("GTK_IM_MODULE", "none")
	}
	wailsapp.Assets = assets
	if err := wailsapp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCLIMode determines whether to run in CLI mode based on arguments
// and environment.
//
// CLI mode when:
// - --cli flag is present (force CLI mode)
// - CLI subcommands are present (share, folders, tasks, pdf, ...)
// - CLI flags are present (--help, --version, -h, -v)
// - No display available (DISPLAY/WAYLAND_DISPLAY not set on Linux)
//
// GUI mode when:
// - --gui flag is present (force GUI mode)
// - No arguments and display is available
func isCLIMode() bool {
	if slices.Contains(os.Args, "--cli") {
		return true
	}
	if slices.Contains(os.Args, "--gui") {
		return false
	}

	cliPatterns := []string{
		// Subcommands
		"share", "folders", "tasks", "pdf", "cnpj", "nfe", "certs",
		// Flags
		"--help", "-h", "--version", "-v",
	}

	for _, arg := range os.Args[1:] {
		for _, pattern := range cliPatterns {
			if arg == pattern || strings.HasPrefix(arg, pattern+" ") {
				return true
			}
		}
	}

	if len(os.Args) == 1 {
		if runtime.GOOS == "linux" {
			return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
		}
		return false
	}

	// Unknown arguments: let the CLI report them
	return true
}
