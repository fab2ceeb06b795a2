// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rag provides the HTTP client for the Study Buddy RAG backend.
package rag

// =============================================================================
// REQUEST TYPES
// =============================================================================

// QueryRequest is the request body for the /query endpoint.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// HealthResponse is the response from /health.
type HealthResponse struct {
	Status        string `json:"status"`
	DocumentCount int    `json:"document_count"`
	IndexLoaded   bool   `json:"index_loaded"`
}

// QueryResponse is the response from /query. Sources are raw document
// identifiers; mapping them into display objects is the caller's job.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// ImageQueryResponse is the response from /query-image.
type ImageQueryResponse struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ExtractedText string   `json:"extracted_text"`
}

// TranscribeResponse is the response from /transcribe.
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// VoiceQueryResponse is the response from /voice-query. AudioURL is empty
// when the backend was asked not to generate audio.
type VoiceQueryResponse struct {
	TextResponse        string   `json:"text_response"`
	Sources             []string `json:"sources"`
	TranscribedQuestion string   `json:"transcribed_question"`
	AudioURL            string   `json:"audio_url"`
}

// apiError is the backend's error envelope (FastAPI style).
type apiError struct {
	Detail string `json:"detail"`
}
