// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/studybuddy-tui/internal/rag"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// QueryResultMsg carries a successful text or image query answer.
type QueryResultMsg struct {
	Answer        string
	Sources       []string
	ExtractedText string
}

// QueryErrorMsg carries a failed query. Question is kept so the fallback
// answer can echo it back.
type QueryErrorMsg struct {
	Question string
	Err      error
}

// TranscriptionMsg carries the result of an audio transcription.
type TranscriptionMsg struct {
	Text string
	Err  error
}

// VoiceResultMsg carries the result of a voice query.
type VoiceResultMsg struct {
	Response *rag.VoiceQueryResponse
	Err      error
}

// HealthMsg carries a backend health probe result. Health is nil when
// the backend was unreachable.
type HealthMsg struct {
	Health *rag.HealthResponse
}

// SessionClearedMsg reports a backend-side session memory clear.
type SessionClearedMsg struct {
	SessionID string
	Err       error
}

// healthTickMsg schedules the next periodic health probe.
type healthTickMsg struct{}

// toastTickMsg prunes expired toasts.
type toastTickMsg struct{}
