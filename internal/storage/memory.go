// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for studybuddy.
package storage

import (
	"sync"

	"github.com/jeranaias/studybuddy-tui/internal/model"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store for tests. It serializes through the
// same codec as the durable backends so round-trip behavior matches, and
// it can inject failures deterministically.
type MemStore struct {
	mu   sync.Mutex
	data []byte

	// Error injection for tests.
	LoadErr error
	SaveErr error

	// SaveCount counts completed Save calls.
	SaveCount int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load reads all sessions from the in-memory blob.
func (s *MemStore) Load() ([]model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return decodeSessions(s.data), nil
}

// Save overwrites the in-memory blob.
func (s *MemStore) Save(sessions []model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}
	s.data = data
	s.SaveCount++
	return nil
}

// SetRaw replaces the stored blob with arbitrary bytes, bypassing the
// codec. Used to simulate corruption.
func (s *MemStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}
