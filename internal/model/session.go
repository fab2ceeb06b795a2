// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/studybuddy-tui/internal/util"
)

const (
	// TitleMaxRunes is where session titles derived from the first user
	// message get cut off.
	TitleMaxRunes = 50

	// PreviewMaxRunes is where sidebar previews of the last message get
	// cut off.
	PreviewMaxRunes = 100

	// DefaultTitle is used when a title cannot be derived.
	DefaultTitle = "New Chat"
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds a complete conversation thread with history and metadata.
// This is the persisted form; message timestamps serialize as RFC 3339.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a new empty session with a generated ID.
// Empty sessions live in memory only; they are not persisted until the
// first message is added.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateSessionID(),
		Title:     DefaultTitle,
		Messages:  make([]Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateSessionID creates a collision-resistant session ID.
func GenerateSessionID() string {
	return "chat-" + uuid.NewString()
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the session. Messages are append-only:
// there is no reordering and no removal of individual messages.
//
// If the session was empty and the message is from the user, the session
// title is derived from its content.
func (s *Session) AddMessage(msg Message) {
	if len(s.Messages) == 0 && msg.Role == RoleUser {
		s.Title = DeriveTitle(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	s.touch()
}

// UpdateLastMessage merges a partial update into the most recently
// appended message. It is a no-op on an empty session.
func (s *Session) UpdateLastMessage(update MessageUpdate) bool {
	if len(s.Messages) == 0 {
		return false
	}
	update.Apply(&s.Messages[len(s.Messages)-1])
	s.touch()
	return true
}

// LastMessage returns the most recent message, or nil if empty.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// touch advances UpdatedAt. UpdatedAt never moves backwards, even if the
// wall clock does.
func (s *Session) touch() {
	if now := time.Now(); now.After(s.UpdatedAt) {
		s.UpdatedAt = now
	}
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a session title from the first user message: content
// at or under TitleMaxRunes is kept verbatim, longer content is cut to
// TitleMaxRunes runes with an ellipsis appended. Newlines are flattened.
func DeriveTitle(content string) string {
	content = util.Flatten(content)
	runes := []rune(content)
	if len(runes) <= TitleMaxRunes {
		return content
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// =============================================================================
// LIST PROJECTION
// =============================================================================

// SessionMeta is the lightweight sidebar projection of a session.
// It is recomputed on every mutation and never persisted.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"messageCount"`
}

// Meta returns the list projection for the session. The preview is the
// last message's content truncated to PreviewMaxRunes.
func (s *Session) Meta() SessionMeta {
	preview := ""
	if last := s.LastMessage(); last != nil {
		preview = last.Preview(PreviewMaxRunes)
	}
	return SessionMeta{
		ID:           s.ID,
		Title:        s.Title,
		Preview:      preview,
		Timestamp:    s.UpdatedAt,
		MessageCount: len(s.Messages),
	}
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]Message, len(s.Messages)),
	}
	copy(clone.Messages, s.Messages)
	for i, msg := range s.Messages {
		if msg.Sources != nil {
			sources := make([]Source, len(msg.Sources))
			copy(sources, msg.Sources)
			clone.Messages[i].Sources = sources
		}
	}
	return clone
}
