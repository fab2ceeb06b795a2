// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant answers as terminal markdown.
// Glamour renderers are bound to a word-wrap width, so the renderer is
// rebuilt when the viewport width changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	mr := &MarkdownRenderer{}
	mr.SetWidth(width)
	return mr
}

// SetWidth rebuilds the underlying renderer for a new wrap width.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	if mr.renderer != nil && mr.width == width {
		return
	}
	mr.width = width

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Render falls back to highlighting code fences only when the
		// terminal profile cannot be set up.
		mr.renderer = nil
		return
	}
	mr.renderer = renderer
}

// Render renders markdown content for terminal display.
// When glamour is unavailable the text passes through as-is, except
// fenced code blocks, which still get chroma highlighting.
func (mr *MarkdownRenderer) Render(content string) string {
	mr.mu.Lock()
	renderer := mr.renderer
	width := mr.width
	mr.mu.Unlock()

	if renderer == nil {
		return ParseCodeBlocks(content, width)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return ParseCodeBlocks(content, width)
	}
	return strings.TrimRight(rendered, "\n")
}
