// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/studybuddy-tui/internal/model"
)

func sampleSessions(t *testing.T) []model.Session {
	t.Helper()
	s := model.NewSession()
	s.AddMessage(model.NewUserMessage("What is backpropagation?"))
	s.AddMessage(model.NewAssistantMessage("Backpropagation is...", []model.Source{
		{Title: "ml-notes.pdf", URL: "#", Snippet: "Retrieved from: ml-notes.pdf"},
	}))
	return []model.Session{*s}
}

// roundTrip exercises the shared Store contract against any backend.
func roundTrip(t *testing.T, store Store) {
	t.Helper()

	// Fresh store is empty, not an error.
	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	want := sampleSessions(t)
	require.NoError(t, store.Save(want))

	got, err = store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Messages, 2)

	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Title, got[0].Title)
	for i := range want[0].Messages {
		assert.Equal(t, want[0].Messages[i].ID, got[0].Messages[i].ID)
		assert.Equal(t, want[0].Messages[i].Role, got[0].Messages[i].Role)
		assert.Equal(t, want[0].Messages[i].Content, got[0].Messages[i].Content)
		assert.True(t, want[0].Messages[i].Timestamp.Equal(got[0].Messages[i].Timestamp),
			"timestamps must reconstruct to the same instant")
	}
	assert.Equal(t, want[0].Messages[1].Sources, got[0].Messages[1].Sources)

	// Save is whole-blob: an empty save wipes everything.
	require.NoError(t, store.Save(nil))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

// =============================================================================
// FILE STORE TESTS
// =============================================================================

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "chats.json"))
	roundTrip(t, store)
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreMalformedBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	got, err := store.Load()
	require.NoError(t, err, "malformed data must not surface as an error")
	assert.Empty(t, got)

	// Mutations proceed as if starting fresh.
	require.NoError(t, store.Save(sampleSessions(t)))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// =============================================================================
// SQLITE STORE TESTS
// =============================================================================

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "studybuddy.db"))
	require.NoError(t, err)
	defer store.Close()

	roundTrip(t, store)
}

func TestSQLiteStoreMalformedBlob(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "studybuddy.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec("INSERT INTO blobs (key, value) VALUES (?, ?)", StorageKey, []byte("][garbage"))
	require.NoError(t, err)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studybuddy.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(sampleSessions(t)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// =============================================================================
// MEMORY STORE TESTS
// =============================================================================

func TestMemStoreRoundTrip(t *testing.T) {
	roundTrip(t, NewMemStore())
}

func TestMemStoreCorruption(t *testing.T) {
	store := NewMemStore()
	store.SetRaw([]byte("not a session list"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemStoreSaveCount(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Save(nil))
	require.NoError(t, store.Save(nil))
	assert.Equal(t, 2, store.SaveCount)
}
