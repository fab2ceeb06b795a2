// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the in-memory view of chat sessions synchronized
// with durable storage.
//
// The Manager is the single source of truth for what the UI shows: the
// sorted session list, the current session id, and the current session's
// messages. Every mutation persists the complete session collection and
// recomputes the list projection, so the in-memory view and the stored
// blob never drift apart.
//
// Storage read failures degrade to an empty session list and are logged;
// they never propagate to callers. Storage write failures keep the
// in-memory state intact so the conversation on screen survives a broken
// disk.
package session
