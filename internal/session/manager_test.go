// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"testing"

	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/storage"
)

func newLoadedManager(t *testing.T) (*Manager, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	m := NewManager(store)
	m.Load()
	return m, store
}

// persistedCount reads the store directly and returns the message count
// of the session with the given id, or -1 if absent.
func persistedCount(t *testing.T, store *storage.MemStore, id string) int {
	t.Helper()
	sessions, err := store.Load()
	if err != nil {
		t.Fatalf("store.Load failed: %v", err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return len(s.Messages)
		}
	}
	return -1
}

// =============================================================================
// LOADING TESTS
// =============================================================================

func TestManagerLoaded(t *testing.T) {
	store := storage.NewMemStore()
	m := NewManager(store)

	if m.Loaded() {
		t.Error("Loaded should be false before Load")
	}
	m.Load()
	if !m.Loaded() {
		t.Error("Loaded should be true after Load")
	}
}

func TestManagerLoadFailureDegradesToEmpty(t *testing.T) {
	store := storage.NewMemStore()
	store.LoadErr = errStorage
	m := NewManager(store)
	m.Load()

	if !m.Loaded() {
		t.Error("Loaded should be true even after a handled failure")
	}
	if len(m.Sessions()) != 0 {
		t.Error("failed load should present an empty session list")
	}

	// Mutations proceed as if starting fresh.
	store.LoadErr = nil
	m.AddMessage(model.NewUserMessage("hello"))
	if len(m.Sessions()) != 1 {
		t.Errorf("got %d sessions, want 1", len(m.Sessions()))
	}
}

func TestManagerLoadMalformedBlob(t *testing.T) {
	store := storage.NewMemStore()
	store.SetRaw([]byte("corrupt ]["))
	m := NewManager(store)
	m.Load()

	if !m.Loaded() {
		t.Error("Loaded should be true")
	}
	if len(m.Sessions()) != 0 {
		t.Error("malformed blob should present an empty session list")
	}
}

// =============================================================================
// CREATE / ADD TESTS
// =============================================================================

func TestCreateNewChat(t *testing.T) {
	m, store := newLoadedManager(t)

	id := m.CreateNewChat()
	if id == "" {
		t.Fatal("CreateNewChat should return an id")
	}
	if m.CurrentSessionID() != id {
		t.Errorf("CurrentSessionID = %q, want %q", m.CurrentSessionID(), id)
	}
	if len(m.Messages()) != 0 {
		t.Error("new chat should have no messages")
	}

	// An empty session is never written to storage.
	if store.SaveCount != 0 {
		t.Errorf("SaveCount = %d, want 0", store.SaveCount)
	}
	if len(m.Sessions()) != 0 {
		t.Error("empty session should not appear in the list projection")
	}
}

func TestAddMessagePersistsEveryCall(t *testing.T) {
	m, store := newLoadedManager(t)
	id := m.CreateNewChat()

	// Persisted length equals in-memory length after every call.
	for i := 1; i <= 5; i++ {
		m.AddMessage(model.NewUserMessage("message"))
		if got := len(m.Messages()); got != i {
			t.Fatalf("in-memory count = %d, want %d", got, i)
		}
		if got := persistedCount(t, store, id); got != i {
			t.Fatalf("persisted count = %d, want %d", got, i)
		}
	}
}

func TestAddMessageLazilyCreatesSession(t *testing.T) {
	m, _ := newLoadedManager(t)

	if m.CurrentSessionID() != "" {
		t.Fatal("no session should be current initially")
	}
	m.AddMessage(model.NewUserMessage("first"))

	if m.CurrentSessionID() == "" {
		t.Error("AddMessage should lazily create a session")
	}
	if len(m.Sessions()) != 1 {
		t.Errorf("got %d sessions, want 1", len(m.Sessions()))
	}
}

func TestAddMessageDerivesTitleOnce(t *testing.T) {
	m, _ := newLoadedManager(t)
	m.CreateNewChat()

	long := strings.Repeat("x", 120)
	m.AddMessage(model.NewUserMessage(long))

	title := m.Sessions()[0].Title
	if title != strings.Repeat("x", 50)+"..." {
		t.Errorf("Title = %q, want first 50 runes + ellipsis", title)
	}

	m.AddMessage(model.NewUserMessage("a different question"))
	if m.Sessions()[0].Title != title {
		t.Error("title should be preserved after the first user message")
	}
}

func TestUpdateLastMessage(t *testing.T) {
	m, store := newLoadedManager(t)
	id := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("q"))

	pending := true
	placeholder := model.NewAssistantMessage("", nil)
	placeholder.Pending = pending
	m.AddMessage(placeholder)

	content := "the answer"
	done := false
	m.UpdateLastMessage(model.MessageUpdate{Content: &content, Pending: &done})

	msgs := m.Messages()
	if msgs[len(msgs)-1].Content != "the answer" {
		t.Errorf("last message content = %q", msgs[len(msgs)-1].Content)
	}
	if persistedCount(t, store, id) != 2 {
		t.Error("update should persist without adding messages")
	}
}

func TestUpdateLastMessageNoMessages(t *testing.T) {
	m, store := newLoadedManager(t)
	m.CreateNewChat()

	content := "x"
	m.UpdateLastMessage(model.MessageUpdate{Content: &content})
	if store.SaveCount != 0 {
		t.Error("update with no messages should not persist")
	}
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestSessionsSortedByUpdateDescending(t *testing.T) {
	m, _ := newLoadedManager(t)

	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("first session"))
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("second session"))
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("third session"))

	metas := m.Sessions()
	if len(metas) != 3 {
		t.Fatalf("got %d sessions", len(metas))
	}
	for i := 0; i < len(metas)-1; i++ {
		if metas[i].Timestamp.Before(metas[i+1].Timestamp) {
			t.Errorf("sessions[%d] older than sessions[%d]", i, i+1)
		}
	}
	if metas[0].Title != "third session" {
		t.Errorf("most recent session should be first, got %q", metas[0].Title)
	}
}

func TestTouchedSessionMovesToFront(t *testing.T) {
	m, _ := newLoadedManager(t)

	first := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("first"))
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("second"))

	m.SelectSession(first)
	m.AddMessage(model.NewUserMessage("follow-up"))

	if m.Sessions()[0].ID != first {
		t.Error("updated session should sort to the front")
	}
}

func TestOrderingStableAcrossReads(t *testing.T) {
	m, _ := newLoadedManager(t)
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("a"))
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("b"))

	before := m.Sessions()
	for i := 0; i < 10; i++ {
		after := m.Sessions()
		for j := range before {
			if after[j].ID != before[j].ID {
				t.Fatal("session order changed with no intervening mutation")
			}
		}
	}
}

// =============================================================================
// SELECT / DELETE TESTS
// =============================================================================

func TestSelectSessionLoadsMessages(t *testing.T) {
	m, _ := newLoadedManager(t)

	first := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("alpha"))
	m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("beta"))

	if !m.SelectSession(first) {
		t.Fatal("SelectSession should resolve a persisted id")
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "alpha" {
		t.Errorf("SelectSession should load that session's messages, got %v", msgs)
	}
}

func TestSelectSessionUnknownID(t *testing.T) {
	m, _ := newLoadedManager(t)

	current := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("hello"))

	if m.SelectSession("chat-does-not-exist") {
		t.Error("SelectSession should report unknown ids")
	}
	if m.CurrentSessionID() != current {
		t.Errorf("unknown id must not change the selection, got %q", m.CurrentSessionID())
	}
	if len(m.Messages()) != 1 {
		t.Error("unknown id must not clear the message view")
	}
}

func TestDeleteCurrentSession(t *testing.T) {
	m, _ := newLoadedManager(t)

	keep := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("keep me"))
	doomed := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("delete me"))

	m.DeleteSession(doomed)

	if m.CurrentSessionID() != "" {
		t.Error("deleting the current session should clear the current id")
	}
	if len(m.Messages()) != 0 {
		t.Error("deleting the current session should clear messages")
	}

	metas := m.Sessions()
	if len(metas) != 1 || metas[0].ID != keep {
		t.Errorf("other sessions should be unaffected, got %v", metas)
	}
}

func TestDeleteOtherSessionKeepsCurrent(t *testing.T) {
	m, _ := newLoadedManager(t)

	other := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("other"))
	current := m.CreateNewChat()
	m.AddMessage(model.NewUserMessage("current"))

	m.DeleteSession(other)

	if m.CurrentSessionID() != current {
		t.Error("deleting another session should not change the current id")
	}
	if len(m.Messages()) != 1 {
		t.Error("current messages should survive")
	}
}

func TestDeleteUnpersistedSessionTouchesNothing(t *testing.T) {
	m, store := newLoadedManager(t)

	id := m.CreateNewChat()
	m.DeleteSession(id)

	if store.SaveCount != 0 {
		t.Errorf("SaveCount = %d, deleting an unpersisted session must not write", store.SaveCount)
	}
	if m.CurrentSessionID() != "" {
		t.Error("current id should still be cleared")
	}
}

// =============================================================================
// PERSISTENCE FAILURE TESTS
// =============================================================================

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	m, store := newLoadedManager(t)
	store.SaveErr = errStorage

	m.AddMessage(model.NewUserMessage("still visible"))

	if len(m.Messages()) != 1 {
		t.Error("in-memory view should survive a failed save")
	}
	if len(m.Sessions()) != 1 {
		t.Error("projection should survive a failed save")
	}
}

var errStorage = &storageError{}

type storageError struct{}

func (e *storageError) Error() string { return "storage unavailable" }
