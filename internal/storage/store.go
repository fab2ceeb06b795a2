// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for studybuddy.
package storage

import (
	"encoding/json"

	"github.com/jeranaias/studybuddy-tui/internal/logging"
	"github.com/jeranaias/studybuddy-tui/internal/model"
)

// StorageKey identifies the session collection in key-based backends.
const StorageKey = "ml-study-buddy-chats"

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store reads and writes the complete session collection as one blob.
//
// Load returns an empty list when nothing has been stored yet or when the
// stored blob is malformed; parse failures are logged, never surfaced.
// Errors are reserved for I/O failures.
type Store interface {
	Load() ([]model.Session, error)
	Save(sessions []model.Session) error
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// encodeSessions serializes the collection. Indented output keeps the
// file store blob human-inspectable.
func encodeSessions(sessions []model.Session) ([]byte, error) {
	if sessions == nil {
		sessions = []model.Session{}
	}
	return json.MarshalIndent(sessions, "", "  ")
}

// decodeSessions deserializes a stored blob, degrading malformed data to
// an empty collection.
func decodeSessions(data []byte) []model.Session {
	if len(data) == 0 {
		return []model.Session{}
	}
	var sessions []model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		logging.L().Warn("discarding malformed session data", "err", err)
		return []model.Session{}
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions
}
