// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Rendering through an initialized style must preserve the content.
	out := theme.UserBubble.Render("hello")
	if !strings.Contains(out, "hello") {
		t.Errorf("rendered output should contain the message, got %q", out)
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("expected 120x40, got %dx%d", theme.Width, theme.Height)
	}
}

func TestStatusIndicatorsInRenderers(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("message")
			if !strings.Contains(out, tt.indicator) {
				t.Errorf("output should contain indicator %q, got %q", tt.indicator, out)
			}
			if !strings.Contains(out, "message") {
				t.Errorf("output should contain the message, got %q", out)
			}
		})
	}
}
