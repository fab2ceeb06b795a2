// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("expected default backend URL http://localhost:8000, got %s", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout() != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Backend.Timeout())
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("expected file storage backend, got %s", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("expected defaults, got backend URL %s", cfg.Backend.URL)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
url = "http://studypi.local:8000"
timeout_secs = 120

[storage]
backend = "sqlite"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Backend.URL != "http://studypi.local:8000" {
		t.Errorf("backend URL not loaded, got %s", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 120 {
		t.Errorf("timeout not loaded, got %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage backend not loaded, got %s", cfg.Storage.Backend)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme not loaded, got %s", cfg.UI.Theme)
	}
	// Unspecified fields fall back to defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDYBUDDY_BACKEND_URL", "http://10.0.0.5:9000")
	t.Setenv("STUDYBUDDY_THEME", "auto")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Backend.URL != "http://10.0.0.5:9000" {
		t.Errorf("env override not applied, got %s", cfg.Backend.URL)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("env override not applied, got theme %s", cfg.UI.Theme)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "not a url"
	cfg.Storage.Backend = "redis"
	cfg.UI.Theme = "solarized"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var errs ValidateErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidateErrors, got %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 validation errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(err.Error(), "storage.backend") {
		t.Errorf("error should name the failing field: %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://example.com:8000"
	cfg.Storage.Backend = "sqlite"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file should be 0600, got %o", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Backend.URL != cfg.Backend.URL {
		t.Errorf("round-trip lost backend URL, got %s", loaded.Backend.URL)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("round-trip lost storage backend, got %s", loaded.Storage.Backend)
	}
}

func TestStoragePathPerBackend(t *testing.T) {
	cfg := Default()

	path, err := cfg.StoragePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "chats.json" {
		t.Errorf("file backend should use chats.json, got %s", path)
	}

	cfg.Storage.Backend = "sqlite"
	path, err = cfg.StoragePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "chats.db" {
		t.Errorf("sqlite backend should use chats.db, got %s", path)
	}

	cfg.Storage.Path = "/tmp/custom.json"
	path, err = cfg.StoragePath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/custom.json" {
		t.Errorf("explicit path should win, got %s", path)
	}
}
