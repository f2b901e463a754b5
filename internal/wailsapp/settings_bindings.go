// Package wailsapp provides configuration and settings Wails bindings.
package wailsapp

import (
	"time"

	"github.com/utildesk/utildesk/internal/config"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/store"
	"github.com/utildesk/utildesk/internal/version"
)

// AppInfoDTO contains application version information.
type AppInfoDTO struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime"`
}

// GetAppInfo returns version and build time.
func (a *App) GetAppInfo() AppInfoDTO {
	return AppInfoDTO{
		Version:   version.Version,
		BuildTime: version.BuildTime,
	}
}

// ConfigDTO is the JSON-safe configuration structure.
type ConfigDTO struct {
	NetworkBasePath      string `json:"networkBasePath"`
	DatabasePath         string `json:"databasePath"`
	CertificateDir       string `json:"certificateDir"`
	ClipboardPollSeconds int    `json:"clipboardPollSeconds"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	SortField            string `json:"sortField"`
	SortAscending        bool   `json:"sortAscending"`
}

// GetConfig returns the current configuration.
func (a *App) GetConfig() ConfigDTO {
	if a.config == nil {
		return ConfigDTO{}
	}
	a.configMu.Lock()
	defer a.configMu.Unlock()
	return ConfigDTO{
		NetworkBasePath:      a.config.NetworkBasePath,
		DatabasePath:         a.config.DatabasePath,
		CertificateDir:       a.config.CertificateDir,
		ClipboardPollSeconds: a.config.ClipboardPollSeconds,
		NotificationsEnabled: a.config.NotificationsEnabled,
		SortField:            a.config.SortField,
		SortAscending:        a.config.SortAscending,
	}
}

// UpdateConfig applies a configuration update and persists it. Changes
// to the share root and the database path take effect on restart.
func (a *App) UpdateConfig(cfg ConfigDTO) error {
	if a.config == nil {
		return nil
	}

	a.configMu.Lock()
	a.config.NetworkBasePath = cfg.NetworkBasePath
	a.config.DatabasePath = cfg.DatabasePath
	a.config.CertificateDir = cfg.CertificateDir
	a.config.ClipboardPollSeconds = cfg.ClipboardPollSeconds
	a.config.NotificationsEnabled = cfg.NotificationsEnabled
	a.config.SortField = cfg.SortField
	a.config.SortAscending = cfg.SortAscending
	a.saveConfig()
	a.configMu.Unlock()

	if a.notifier != nil {
		a.notifier.SetEnabled(cfg.NotificationsEnabled)
	}
	if a.clip != nil && cfg.ClipboardPollSeconds > 0 {
		a.clip.SetInterval(time.Duration(cfg.ClipboardPollSeconds) * time.Second)
	}

	a.publishConfigChanged("config")
	return nil
}

// saveConfig writes the config CSV; failures are logged, not fatal.
// Callers hold configMu.
func (a *App) saveConfig() {
	if a.config == nil || a.configPath == "" {
		return
	}
	if err := config.SaveConfigCSV(a.config, a.configPath); err != nil {
		wailsLogger.Warn().Err(err).Str("path", a.configPath).Msg("Failed to save config")
	}
}

func (a *App) publishConfigChanged(key string) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(&events.ConfigChangedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventConfigChanged, Time: time.Now()},
		Key:       key,
	})
}

// GetUISetting reads a persisted UI preference (theme, movable window
// mode) from the settings table, with a fallback default.
func (a *App) GetUISetting(key, fallback string) (string, error) {
	if a.store == nil {
		return fallback, ErrNoStore
	}
	return a.store.GetSetting(key, fallback)
}

// SetUISetting persists a UI preference and notifies subscribers.
func (a *App) SetUISetting(key, value string) error {
	if a.store == nil {
		return ErrNoStore
	}
	if err := a.store.SetSetting(key, value); err != nil {
		return err
	}
	a.publishConfigChanged(key)
	return nil
}

// GetMovableWindowMode reports whether the frameless window drag region
// is enabled.
func (a *App) GetMovableWindowMode() (bool, error) {
	v, err := a.GetUISetting(store.SettingMovableWindow, "false")
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetMovableWindowMode persists the window drag-region flag.
func (a *App) SetMovableWindowMode(enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return a.SetUISetting(store.SettingMovableWindow, v)
}

// GetAllUISettings returns every persisted UI preference.
func (a *App) GetAllUISettings() (map[string]string, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	return a.store.AllSettings()
}
