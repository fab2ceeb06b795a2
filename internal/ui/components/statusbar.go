// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom status line: backend health on the left,
// key shortcuts on the right.
type StatusBar struct {
	Width        int
	Health       *rag.HealthResponse
	SessionCount int
	theme        *styles.Theme
}

// NewStatusBar creates the status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.Width = width
}

// SetHealth updates the backend health shown in the bar. A nil health
// means the backend is unreachable.
func (sb *StatusBar) SetHealth(health *rag.HealthResponse) {
	sb.Health = health
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	left := sb.renderBackendStatus()
	right := sb.renderShortcuts()

	gap := sb.Width - runewidth.StringWidth(stripForWidth(left)) - runewidth.StringWidth(stripForWidth(right)) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Width(sb.Width).Render(left + strings.Repeat(" ", gap) + right)
}

func (sb *StatusBar) renderBackendStatus() string {
	if sb.Health == nil {
		return sb.theme.BackendOffline.Render("backend offline")
	}

	status := sb.theme.BackendOnline.Render("backend " + sb.Health.Status)
	docs := sb.theme.ShortcutDesc.Render(strconv.Itoa(sb.Health.DocumentCount) + " docs")

	parts := []string{status, docs}
	if !sb.Health.IndexLoaded {
		parts = append(parts, styles.RenderWarning("index not loaded"))
	}
	if sb.SessionCount > 0 {
		parts = append(parts, sb.theme.ShortcutDesc.Render(strconv.Itoa(sb.SessionCount)+" chats"))
	}
	return strings.Join(parts, "  ")
}

func (sb *StatusBar) renderShortcuts() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"ctrl+n", "new"},
		{"ctrl+s", "sessions"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, sb.theme.ShortcutKey.Render(s.key)+" "+sb.theme.ShortcutDesc.Render(s.desc))
	}
	return strings.Join(parts, "  ")
}

// stripForWidth drops ANSI escape sequences so width math uses only the
// visible characters.
func stripForWidth(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
