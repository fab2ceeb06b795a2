// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Suggestion is a starter prompt shown on the welcome screen.
type Suggestion struct {
	Title  string
	Prompt string
}

// Suggestions are the starter prompts offered before the first message.
var Suggestions = []Suggestion{
	{"Explain Neural Networks", "Explain how neural networks work with a simple analogy"},
	{"PyTorch Tutorial", "Show me how to build a simple CNN in PyTorch for image classification"},
	{"Transformers Deep Dive", "Explain the transformer architecture and self-attention mechanism"},
	{"ML Project Ideas", "Suggest some interesting machine learning project ideas for beginners"},
	{"Optimize Models", "What are the best practices for optimizing deep learning model performance?"},
}

// Welcome renders the empty-conversation welcome screen.
type Welcome struct {
	Width  int
	Height int
	theme  *styles.Theme
}

// NewWelcome creates the welcome screen component.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		Width:  80,
		Height: 24,
		theme:  theme,
	}
}

// SetSize updates the layout dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// View renders the welcome box with starter suggestions.
func (w *Welcome) View() string {
	var sb strings.Builder

	sb.WriteString(w.theme.WelcomeTitle.Render("ML Study Buddy"))
	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Ask anything about your machine learning course material."))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Try one of these to get started:"))
	sb.WriteString("\n")

	for i, s := range Suggestions {
		sb.WriteString("\n")
		key := w.theme.ShortcutKey.Render(toKey(i + 1))
		sb.WriteString("  " + key + " " + w.theme.WelcomeSuggestion.Render(s.Title))
	}

	sb.WriteString("\n\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Type /help for commands."))

	box := w.theme.WelcomeBox.Render(sb.String())

	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
}

// toKey renders a 1-based suggestion index as its shortcut label.
func toKey(n int) string {
	return "[" + string(rune('0'+n)) + "]"
}
