// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the in-memory view of chat sessions synchronized
// with durable storage.
package session

import (
	"sort"
	"sync"

	"github.com/jeranaias/studybuddy-tui/internal/logging"
	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/storage"
)

// =============================================================================
// MANAGER
// =============================================================================

// Manager bridges the UI and the persistent store. All methods are safe
// for concurrent use, though the UI event loop is effectively the single
// caller.
type Manager struct {
	mu    sync.Mutex
	store storage.Store

	// The full persisted collection, mirrored in memory. Mutations edit
	// this mirror and write the whole blob back.
	all []model.Session

	// Projections derived from all, sorted most-recently-updated first.
	metas []model.SessionMeta

	// The active session, held as a detached copy so collection edits
	// can reslice all freely. Synced into all by id on every mutation.
	currentID string
	current   *model.Session

	loaded bool
}

// NewManager creates a manager backed by the given store. Call Load
// before rendering session data.
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the session collection from storage. Any failure degrades
// to an empty collection; after Load returns, Loaded reports true either
// way.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.store.Load()
	if err != nil {
		logging.L().Warn("failed to load sessions, starting fresh", "err", err)
		sessions = []model.Session{}
	}
	m.all = sessions
	m.rebuildMetas()
	m.loaded = true
}

// Loaded reports whether the first load attempt has completed. Consumers
// must not render session data before this is true.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// =============================================================================
// VIEW ACCESSORS
// =============================================================================

// Sessions returns the list projections, sorted descending by last
// update. Ties keep their existing order across repeated calls.
func (m *Manager) Sessions() []model.SessionMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SessionMeta, len(m.metas))
	copy(out, m.metas)
	return out
}

// CurrentSessionID returns the active session id, or "" when none is
// selected.
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Messages returns the active session's messages in append order.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return []model.Message{}
	}
	out := make([]model.Message, len(m.current.Messages))
	copy(out, m.current.Messages)
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateNewChat starts a fresh session, makes it current, and clears the
// message view. The empty session is not persisted; storage is first
// touched when a message is added.
func (m *Manager) CreateNewChat() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft := model.NewSession()
	m.currentID = draft.ID
	m.current = draft
	return draft.ID
}

// AddMessage appends a message to the current session, lazily creating
// one if needed, and persists the updated collection.
func (m *Manager) AddMessage(msg model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		draft := model.NewSession()
		m.currentID = draft.ID
		m.current = draft
	}

	m.current.AddMessage(msg)
	m.upsertCurrent()
	m.persist()
	m.rebuildMetas()
}

// UpdateLastMessage merges a partial update into the most recently
// appended message of the current session, then persists. No-op when
// there are no messages.
func (m *Manager) UpdateLastMessage(update model.MessageUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !m.current.UpdateLastMessage(update) {
		return
	}
	m.upsertCurrent()
	m.persist()
	m.rebuildMetas()
}

// DeleteSession removes a session from the persisted collection. If it
// was the current session, the current id and message view are cleared.
// Deleting a session that was never persisted leaves storage untouched.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	persisted := false
	for i, s := range m.all {
		if s.ID == id {
			m.all = append(m.all[:i], m.all[i+1:]...)
			persisted = true
			break
		}
	}

	if m.currentID == id {
		m.currentID = ""
		m.current = nil
	}

	if persisted {
		m.persist()
		m.rebuildMetas()
	}
}

// SelectSession makes the given session current and loads its messages
// into the view. Returns false and leaves the selection unchanged when no
// session has that id.
func (m *Manager) SelectSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.all {
		if m.all[i].ID == id {
			m.currentID = id
			m.current = m.all[i].Clone()
			return true
		}
	}
	return false
}

// =============================================================================
// INTERNAL
// =============================================================================

// upsertCurrent syncs the detached current session into the collection
// mirror. New sessions go to the front, matching their fresh updatedAt.
func (m *Manager) upsertCurrent() {
	snapshot := *m.current.Clone()
	for i := range m.all {
		if m.all[i].ID == snapshot.ID {
			m.all[i] = snapshot
			return
		}
	}
	m.all = append([]model.Session{snapshot}, m.all...)
}

// persist writes the whole collection back. Write failures are logged
// and swallowed: the in-memory view stays authoritative for this run.
func (m *Manager) persist() {
	if err := m.store.Save(m.all); err != nil {
		logging.L().Error("failed to persist sessions", "err", err)
	}
}

// rebuildMetas recomputes and re-sorts the list projection. The sort is
// stable so sessions with identical timestamps keep their order across
// renders.
func (m *Manager) rebuildMetas() {
	metas := make([]model.SessionMeta, 0, len(m.all))
	for i := range m.all {
		metas = append(metas, m.all[i].Meta())
	}
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].Timestamp.After(metas[j].Timestamp)
	})
	m.metas = metas
}
