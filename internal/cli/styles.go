// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
)
