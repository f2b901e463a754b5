package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCSV_Defaults(t *testing.T) {
	cfg, err := LoadConfigCSV("")
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if cfg.NetworkBasePath == "" {
		t.Error("Expected default network base path")
	}
	if cfg.ClipboardPollSeconds != 2 {
		t.Errorf("Expected poll interval 2, got %d", cfg.ClipboardPollSeconds)
	}
	if !cfg.NotificationsEnabled {
		t.Error("Expected notifications enabled by default")
	}
	if cfg.SortField != "name" || !cfg.SortAscending {
		t.Errorf("Expected default sort name/ascending, got %s/%v", cfg.SortField, cfg.SortAscending)
	}
}

func TestLoadConfigCSV_MissingFile(t *testing.T) {
	cfg, err := LoadConfigCSV(filepath.Join(t.TempDir(), "nonexistent.csv"))
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if cfg.NetworkBasePath != DefaultNetworkBasePath() {
		t.Errorf("Expected default base path, got %q", cfg.NetworkBasePath)
	}
}

func TestLoadConfigCSV_Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.csv")
	content := "network_base_path,/srv/clientes\n" +
		"clipboard_poll_seconds,5\n" +
		"notifications_enabled,false\n" +
		"sort_field,modified\n" +
		"sort_ascending,false\n" +
		"certificate_dir,/etc/certs\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigCSV(path)
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if cfg.NetworkBasePath != "/srv/clientes" {
		t.Errorf("Expected /srv/clientes, got %q", cfg.NetworkBasePath)
	}
	if cfg.ClipboardPollSeconds != 5 {
		t.Errorf("Expected poll interval 5, got %d", cfg.ClipboardPollSeconds)
	}
	if cfg.NotificationsEnabled {
		t.Error("Expected notifications disabled")
	}
	if cfg.SortField != "modified" || cfg.SortAscending {
		t.Errorf("Expected modified/descending, got %s/%v", cfg.SortField, cfg.SortAscending)
	}
	if cfg.CertificateDir != "/etc/certs" {
		t.Errorf("Expected /etc/certs, got %q", cfg.CertificateDir)
	}
}

func TestLoadConfigCSV_InvalidValuesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.csv")
	content := "clipboard_poll_seconds,abc\n" +
		"sort_field,bogus\n" +
		"notifications_enabled,maybe\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigCSV(path)
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if cfg.ClipboardPollSeconds != 2 {
		t.Errorf("Expected default poll interval, got %d", cfg.ClipboardPollSeconds)
	}
	if cfg.SortField != "name" {
		t.Errorf("Expected default sort field, got %q", cfg.SortField)
	}
	if !cfg.NotificationsEnabled {
		t.Error("Expected default notifications setting")
	}
}

func TestSaveConfigCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.csv")

	want := defaults()
	want.NetworkBasePath = `\\SRV\Clientes$`
	want.ClipboardPollSeconds = 10
	want.SortField = "size"
	want.SortAscending = false

	if err := SaveConfigCSV(want, path); err != nil {
		t.Fatalf("SaveConfigCSV failed: %v", err)
	}

	got, err := LoadConfigCSV(path)
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if got.NetworkBasePath != want.NetworkBasePath {
		t.Errorf("base path: got %q want %q", got.NetworkBasePath, want.NetworkBasePath)
	}
	if got.ClipboardPollSeconds != want.ClipboardPollSeconds {
		t.Errorf("poll: got %d want %d", got.ClipboardPollSeconds, want.ClipboardPollSeconds)
	}
	if got.SortField != "size" || got.SortAscending {
		t.Errorf("sort: got %s/%v", got.SortField, got.SortAscending)
	}
}
