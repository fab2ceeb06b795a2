// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the studybuddy TUI.
//
// The Bubble Tea model in this package drives the conversation state
// machine: idle until the user submits a question, generating while the
// RAG backend is answering, and back to idle when the answer (or a
// fallback) lands in the session. All backend calls run as tea.Cmds so
// the event loop never blocks.
//
// Persistence goes through the session manager on every mutation, so
// killing the terminal mid-conversation loses at most the in-flight
// answer.
package chat
