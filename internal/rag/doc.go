// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rag provides the HTTP client for the Study Buddy RAG backend.
//
// The backend owns all of the intelligence: document retrieval, answer
// synthesis, OCR, and speech transcription. This package is a thin typed
// wrapper over its REST endpoints:
//
//	GET    /health
//	POST   /query
//	POST   /query-image   (multipart)
//	POST   /transcribe    (multipart)
//	POST   /voice-query   (multipart)
//	DELETE /session/{id}
//
// Each operation is a single request: no retries, no cancellation beyond
// the caller's context. Failures surface as a *ClientError carrying the
// backend's detail message when one is available, otherwise the HTTP
// status text.
package rag
