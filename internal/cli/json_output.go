// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for the --json flag.
//
// Every command wraps its result in the same envelope so scripted callers
// can check "success" uniformly. Human-readable chatter goes to stderr in
// JSON mode.

package cli

import (
	"encoding/json"
	"os"
	"time"
)

// JSONResponse is the envelope for all --json command output.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to stdout with indentation.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA
// =============================================================================

// AskData is the payload for "ask --json".
type AskData struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ExtractedText string   `json:"extracted_text,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
}

// StatusData is the payload for "status --json".
type StatusData struct {
	Backend       string `json:"backend"`
	Status        string `json:"status"`
	DocumentCount int    `json:"document_count"`
	IndexLoaded   bool   `json:"index_loaded"`
}

// SessionListData is the payload for "sessions list --json".
type SessionListData struct {
	Sessions []SessionListEntry `json:"sessions"`
}

// SessionListEntry is one chat in the sessions list.
type SessionListEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TranscribeData is the payload for "transcribe --json".
type TranscribeData struct {
	File          string `json:"file"`
	Transcription string `json:"transcription"`
}
