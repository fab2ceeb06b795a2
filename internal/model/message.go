// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/studybuddy-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Study Buddy"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citation reference attached to an assistant message, as
// returned by the RAG backend.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// SourcesFromIdentifiers maps raw backend source identifiers into display
// sources. Identifiers that are well-formed absolute links become the URL;
// everything else gets the "#" placeholder.
func SourcesFromIdentifiers(identifiers []string) []Source {
	if len(identifiers) == 0 {
		return nil
	}
	sources := make([]Source, 0, len(identifiers))
	for _, id := range identifiers {
		url := "#"
		if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
			url = id
		}
		sources = append(sources, Source{
			Title:   id,
			URL:     url,
			Snippet: "Retrieved from: " + id,
		})
	}
	return sources
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a session.
//
// Messages are immutable once created, except that the orchestrator may fill
// in Content and clear Pending on the last appended message while a response
// is being generated.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Citations for assistant messages (absent on user messages).
	Sources []Source `json:"sources,omitempty"`

	// Pending marks a message whose content is still being generated.
	// Never persisted.
	Pending bool `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        generateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with sources.
func NewAssistantMessage(content string, sources []Source) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Sources = sources
	return msg
}

// Preview returns a truncated single-line preview of the message content.
func (m Message) Preview(maxRunes int) string {
	return util.TruncateRunesNoEllipsis(util.Flatten(m.Content), maxRunes)
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasSources returns true if the message carries citations.
func (m Message) HasSources() bool {
	return len(m.Sources) > 0
}

// =============================================================================
// MESSAGE UPDATES
// =============================================================================

// MessageUpdate holds a partial update merged into an existing message.
// Nil fields are left untouched.
type MessageUpdate struct {
	Content *string
	Sources []Source
	Pending *bool
}

// Apply merges the update into the message in place.
func (u MessageUpdate) Apply(m *Message) {
	if u.Content != nil {
		m.Content = *u.Content
	}
	if u.Sources != nil {
		m.Sources = u.Sources
	}
	if u.Pending != nil {
		m.Pending = *u.Pending
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a collision-resistant message ID.
// Timestamp-derived ids collide when messages land in the same
// millisecond, so a UUID is used instead.
func generateMessageID() string {
	return "msg-" + uuid.NewString()
}
