// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/session"
	"github.com/jeranaias/studybuddy-tui/internal/ui/components"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the orchestrator state for the in-flight request.
type State int

const (
	// StateReady accepts new submissions.
	StateReady State = iota
	// StateGenerating has a backend request outstanding. Submissions are
	// suppressed until the answer (or fallback) lands.
	StateGenerating
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Question currently awaiting an answer (echoed in the fallback).
	pendingQuestion string

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Wiring
	sessions *session.Manager
	client   *rag.Client
	cfg      *config.Config

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   components.Spinner
	statusBar *components.StatusBar
	welcome   *components.Welcome
	msgList   *components.MessageList
	markdown  *components.MarkdownRenderer

	// Backend health (nil = unreachable)
	health *rag.HealthResponse

	// Transient notifications
	toasts []components.Toast

	// Overlays
	showSessions  bool
	sessionCursor int
	showHelp      bool

	// Key bindings
	keyMap KeyMap

	ready bool
}

// New creates a new chat model.
func New(theme *styles.Theme, client *rag.Client, sessions *session.Manager, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your ML course material..."
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	md := components.NewMarkdownRenderer(80)
	ml := components.NewMessageList(theme)
	ml.ShowSources = cfg.UI.ShowSources
	if cfg.UI.Markdown {
		ml.Markdown = md
	}

	return Model{
		state:     StateReady,
		theme:     theme,
		sessions:  sessions,
		client:    client,
		cfg:       cfg,
		input:     ti,
		spinner:   components.NewSpinner(theme),
		statusBar: components.NewStatusBar(theme),
		welcome:   components.NewWelcome(theme),
		msgList:   ml,
		markdown:  md,
		keyMap:    DefaultKeyMap(),
	}
}

// Init starts the background health probe and input cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		healthCmd(m.client),
		healthTickCmd(),
		toastTickCmd(),
	)
}

// State returns the current orchestrator state.
func (m Model) State() State {
	return m.state
}

// Health returns the last known backend health (nil = unreachable).
func (m Model) Health() *rag.HealthResponse {
	return m.health
}

// pushToast appends a notification.
func (m *Model) pushToast(toast components.Toast) {
	m.toasts = append(m.toasts, toast)
}

// pruneToasts drops expired notifications.
func (m *Model) pruneToasts() {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
