// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message as a styled bubble. User
// messages sit right-aligned in blue, assistant answers left-aligned in
// indigo with a sources footer.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	ShowSources   bool
	Markdown      *MarkdownRenderer
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for a message.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowSources:   true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrapped)

	header := b.renderHeader()

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(
		lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - Indigo tones, left-aligned, sources footer
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content

	if b.Message.Pending && content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	if b.Markdown != nil && !b.Message.Pending {
		b.Markdown.SetWidth(maxContentWidth)
		content = b.Markdown.Render(content)
	} else {
		content = wordWrap(content, maxContentWidth)
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		Background(styles.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4).
		Render(content)

	parts := []string{b.renderHeader(), bubble}

	if b.ShowSources && len(b.Message.Sources) > 0 {
		parts = append(parts, b.renderSources())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader builds the sender + timestamp line above a bubble.
func (b *MessageBubble) renderHeader() string {
	sender := b.theme.SenderLabel.Render(b.Message.Role.DisplayName())
	if !b.ShowTimestamp {
		return sender
	}
	ts := formatClock(b.Message.Timestamp)
	if ts == "" {
		return sender
	}
	return sender + " " + b.theme.Timestamp.Render(ts)
}

// renderSources builds the retrieval sources footer under an answer.
func (b *MessageBubble) renderSources() string {
	var sb strings.Builder
	sb.WriteString(b.theme.SourceHeader.Render("Sources"))

	for _, src := range b.Message.Sources {
		sb.WriteString("\n")
		line := "  - " + src.Title
		if src.URL != "" && src.URL != "#" {
			line += " (" + src.URL + ")"
		}
		sb.WriteString(b.theme.SourceItem.Render(line))
	}
	return sb.String()
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a conversation as a vertical stack of bubbles.
type MessageList struct {
	Width       int
	ShowSources bool
	Markdown    *MarkdownRenderer
	theme       *styles.Theme
}

// NewMessageList creates a message list renderer.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width:       80,
		ShowSources: true,
		theme:       theme,
	}
}

// View renders all messages separated by blank lines.
func (ml *MessageList) View(messages []model.Message) string {
	if len(messages) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(messages))
	for _, msg := range messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowSources = ml.ShowSources
		bubble.Markdown = ml.Markdown
		rendered = append(rendered, bubble.View())
	}
	return strings.Join(rendered, "\n\n")
}
