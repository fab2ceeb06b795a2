// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A Session is a single conversation thread: an ordered, append-only list of
// Messages plus identity and timestamps. A SessionMeta is the lightweight
// projection used for sidebar listings; it is always derived, never stored.
//
// Messages carry optional Sources: citation references returned by the RAG
// backend alongside an answer.
package model
