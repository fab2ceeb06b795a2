// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Shared wiring for CLI commands and the TUI launcher.

package cli

import (
	"fmt"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/session"
	"github.com/jeranaias/studybuddy-tui/internal/storage"
)

// OpenStore opens the chat store selected by configuration.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteStore(path)
	default:
		return storage.NewFileStore(path), nil
	}
}

// OpenSessions opens the chat store and loads the session manager.
func OpenSessions(cfg *config.Config) (*session.Manager, storage.Store, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	mgr := session.NewManager(store)
	mgr.Load()
	return mgr, store, nil
}

// CloseStore closes the store if the backend holds resources open.
func CloseStore(store storage.Store) {
	if closer, ok := store.(interface{ Close() error }); ok {
		closer.Close()
	}
}
