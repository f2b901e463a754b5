// Package config loads and persists the application configuration.
// The file format is CSV key,value pairs so users can edit it with a
// plain text editor or a spreadsheet.
package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/utildesk/utildesk/internal/constants"
)

// Config holds file-level application configuration. UI preferences
// (theme, movable window mode) live in the settings table of the store;
// this file carries what must be known before the store is open.
type Config struct {
	// NetworkBasePath is the root of the client-folder share. Every
	// explorer operation is validated to stay under this path.
	NetworkBasePath string

	// DatabasePath overrides the default store location when set.
	DatabasePath string

	// CertificateDir is scanned for PFX/PEM certificates used by the
	// certificate inventory and NFe lookups.
	CertificateDir string

	// ClipboardPollSeconds is the clipboard poll interval. 0 disables
	// the poller.
	ClipboardPollSeconds int

	// NotificationsEnabled toggles desktop notifications.
	NotificationsEnabled bool

	// SortField and SortAscending are the persisted explorer sort
	// preferences ("name", "size", "modified").
	SortField     string
	SortAscending bool
}

// DefaultNetworkBasePath returns the platform default for the client
// share root. The Windows UNC default matches the deployed share; other
// platforms get a mount-point style path.
func DefaultNetworkBasePath() string {
	if runtime.GOOS == "windows" {
		return `\\SRV-ADDS\Clientes$`
	}
	return "/mnt/clientes"
}

func defaults() *Config {
	return &Config{
		NetworkBasePath:      DefaultNetworkBasePath(),
		ClipboardPollSeconds: 2,
		NotificationsEnabled: true,
		SortField:            "name",
		SortAscending:        true,
	}
}

// LoadConfigCSV loads configuration from a CSV file of key,value rows.
// Missing file or empty path returns the defaults.
func LoadConfigCSV(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Tolerate rows with trailing fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		key := strings.TrimSpace(strings.ToLower(record[0]))
		value := strings.TrimSpace(record[1])

		switch key {
		case "network_base_path":
			if value != "" {
				cfg.NetworkBasePath = value
			}
		case "database_path":
			cfg.DatabasePath = value
		case "certificate_dir":
			cfg.CertificateDir = value
		case "clipboard_poll_seconds":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				cfg.ClipboardPollSeconds = n
			}
		case "notifications_enabled":
			cfg.NotificationsEnabled = parseBool(value, cfg.NotificationsEnabled)
		case "sort_field":
			switch value {
			case "name", "size", "modified":
				cfg.SortField = value
			}
		case "sort_ascending":
			cfg.SortAscending = parseBool(value, cfg.SortAscending)
		}
	}

	return cfg, nil
}

// SaveConfigCSV writes the configuration back to a CSV file, creating
// parent directories as needed.
func SaveConfigCSV(cfg *Config, path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermission); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	records := [][]string{
		{"network_base_path", cfg.NetworkBasePath},
		{"database_path", cfg.DatabasePath},
		{"certificate_dir", cfg.CertificateDir},
		{"clipboard_poll_seconds", strconv.Itoa(cfg.ClipboardPollSeconds)},
		{"notifications_enabled", strconv.FormatBool(cfg.NotificationsEnabled)},
		{"sort_field", cfg.SortField},
		{"sort_ascending", strconv.FormatBool(cfg.SortAscending)},
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	default:
		return fallback
	}
}
