// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the studybuddy
// TUI: message bubbles, markdown rendering, the backend status bar, the
// thinking spinner, the welcome screen, and transient error toasts.
//
// Components are pure renderers. They hold no application state beyond
// what their owner sets on them, and render to strings for composition
// by the chat model.
package components
