// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the vertical space taken by the header, input box and
// status bar around the conversation viewport.
const chromeHeight = 7

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

// refreshViewport re-renders the conversation into the viewport and
// scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	messages := m.sessions.Messages()
	if len(messages) == 0 {
		m.viewport.SetContent(m.welcome.View())
		return
	}
	m.viewport.SetContent(m.msgList.View(messages))
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	if m.showSessions {
		return m.renderWithOverlay(m.renderSessionPicker())
	}
	if m.showHelp {
		return m.renderWithOverlay(m.renderHelp())
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.viewport.View())

	if m.spinner.Active() {
		sections = append(sections, m.spinner.View())
	} else if len(m.toasts) > 0 {
		sections = append(sections, m.renderToasts())
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, m.theme.InputContainer.Width(m.width-2).Render(m.input.View()))

	m.statusBar.SessionCount = len(m.sessions.Sessions())
	sections = append(sections, m.statusBar.View())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("ML Study Buddy")
	subtitle := m.theme.HeaderSubtitle.Render("terminal chat over your course material")
	return m.theme.Container.Render(title + "  " + subtitle)
}

func (m Model) renderToasts() string {
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		parts = append(parts, t.View())
	}
	return m.theme.Container.Render(strings.Join(parts, "  "))
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderWithOverlay(overlay string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
}

func (m Model) renderSessionPicker() string {
	metas := m.sessions.Sessions()

	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Sessions"))
	sb.WriteString("\n\n")

	if len(metas) == 0 {
		sb.WriteString(m.theme.SessionMeta.Render("no saved chats yet"))
	}

	for i, meta := range metas {
		line := meta.Title
		if meta.Preview != "" {
			line += "  " + meta.Preview
		}

		if i == m.sessionCursor {
			sb.WriteString(m.theme.SessionItemSelected.Render("> " + line))
		} else {
			sb.WriteString(m.theme.SessionItem.Render("  " + line))
		}
		if meta.ID == m.sessions.CurrentSessionID() {
			sb.WriteString(m.theme.SessionMeta.Render("  (current)"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.theme.SessionMeta.Render("enter select - d delete - esc close"))

	return m.theme.SessionList.Width(minWidth(m.width-8, 70)).Render(sb.String())
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(helpText)
	sb.WriteString("\n\nKeys: ")

	var keys []string
	for _, b := range m.keyMap.ShortHelp() {
		keys = append(keys, m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	sb.WriteString(strings.Join(keys, "  "))

	return m.theme.SessionList.Width(minWidth(m.width-8, 70)).Render(sb.String())
}

func minWidth(a, b int) int {
	if a < b {
		return a
	}
	return b
}
