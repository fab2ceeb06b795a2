// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for studybuddy.
package storage

import (
	"os"

	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists the session collection as a single JSON file.
// Writes are atomic (temp file + fsync + rename), so the blob on disk is
// always a complete snapshot.
type FileStore struct {
	// Path is the location of the blob, e.g. ~/.studybuddy/chats.json.
	Path string
}

// NewFileStore creates a file store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads all sessions. A missing or malformed file yields an empty
// list.
func (s *FileStore) Load() ([]model.Session, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Session{}, nil
		}
		return nil, err
	}
	return decodeSessions(data), nil
}

// Save overwrites the blob with the given collection.
func (s *FileStore) Save(sessions []model.Session) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.Path, data, 0644)
}
