package config

import (
	"os"
	"path/filepath"
)

const appDirName = "utildesk"

// GetDefaultConfigPath returns the default config file location inside
// the user config directory. Empty string when the directory cannot be
// determined; callers fall back to defaults.
func GetDefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, "config.csv")
}

// GetDefaultDatabasePath returns the default SQLite store location.
func GetDefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, "utildesk.db")
}

// GetTempDir returns the directory used for generated artifacts
// (DANFE HTML files, PDF outputs without an explicit destination).
func GetTempDir() string {
	return filepath.Join(os.TempDir(), appDirName)
}
