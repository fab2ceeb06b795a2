// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for studybuddy.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/studybuddy-tui/internal/model"
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// blobSchema is the key/value table holding serialized blobs. The session
// collection lives under a single key, matching the file store's
// whole-blob contract.
const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// SQLiteStore persists the session collection as one blob in a SQLite
// key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(blobSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads all sessions. A missing row or malformed blob yields an
// empty list.
func (s *SQLiteStore) Load() ([]model.Session, error) {
	var data []byte
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", StorageKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session blob: %w", err)
	}
	return decodeSessions(data), nil
}

// Save overwrites the blob with the given collection.
func (s *SQLiteStore) Save(sessions []model.Session) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO blobs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		StorageKey, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write session blob: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
