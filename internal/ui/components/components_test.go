// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

func TestUserBubbleContainsContent(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewUserMessage("What is backpropagation?")

	bubble := NewMessageBubble(msg, theme)
	bubble.SetWidth(80)
	out := bubble.View()

	if !strings.Contains(out, "backpropagation?") {
		t.Errorf("bubble should contain message content, got %q", out)
	}
	if !strings.Contains(out, "You") {
		t.Errorf("bubble should contain sender label, got %q", out)
	}
}

func TestAssistantBubbleShowsSources(t *testing.T) {
	theme := styles.NewTheme()
	sources := model.SourcesFromIdentifiers([]string{
		"https://example.com/lecture1.pdf",
		"notes-week-3",
	})
	msg := model.NewAssistantMessage("Gradient descent minimizes loss.", sources)

	bubble := NewMessageBubble(msg, theme)
	bubble.SetWidth(100)
	out := bubble.View()

	if !strings.Contains(out, "Sources") {
		t.Errorf("bubble should contain sources header, got %q", out)
	}
	if !strings.Contains(out, "notes-week-3") {
		t.Errorf("bubble should list source titles, got %q", out)
	}
	if !strings.Contains(out, "https://example.com/lecture1.pdf") {
		t.Errorf("URL sources should show the link, got %q", out)
	}
}

func TestAssistantBubbleHidesSources(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewAssistantMessage("answer", model.SourcesFromIdentifiers([]string{"doc-1"}))

	bubble := NewMessageBubble(msg, theme)
	bubble.ShowSources = false
	out := bubble.View()

	if strings.Contains(out, "Sources") {
		t.Errorf("sources should be hidden, got %q", out)
	}
}

func TestPendingBubbleShowsPlaceholder(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewAssistantMessage("", nil)
	msg.Pending = true

	bubble := NewMessageBubble(msg, theme)
	out := bubble.View()

	if !strings.Contains(out, "...") {
		t.Errorf("pending bubble should show placeholder, got %q", out)
	}
}

func TestMessageListOrdering(t *testing.T) {
	theme := styles.NewTheme()
	msgs := []model.Message{
		model.NewUserMessage("first question"),
		model.NewAssistantMessage("first answer", nil),
	}

	ml := NewMessageList(theme)
	out := ml.View(msgs)

	qIdx := strings.Index(out, "first question")
	aIdx := strings.Index(out, "first answer")
	if qIdx == -1 || aIdx == -1 {
		t.Fatalf("list should contain both messages, got %q", out)
	}
	if qIdx > aIdx {
		t.Error("question should render before answer")
	}
}

func TestStatusBarOffline(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewStatusBar(theme)
	sb.SetWidth(100)

	out := sb.View()
	if !strings.Contains(out, "backend offline") {
		t.Errorf("nil health should render offline, got %q", out)
	}
}

func TestStatusBarOnline(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewStatusBar(theme)
	sb.SetWidth(120)
	sb.SetHealth(&rag.HealthResponse{Status: "healthy", DocumentCount: 17, IndexLoaded: true})
	sb.SessionCount = 3

	out := sb.View()
	if !strings.Contains(out, "backend healthy") {
		t.Errorf("expected backend status, got %q", out)
	}
	if !strings.Contains(out, "17 docs") {
		t.Errorf("expected document count, got %q", out)
	}
	if !strings.Contains(out, "3 chats") {
		t.Errorf("expected session count, got %q", out)
	}
}

func TestStatusBarWarnsOnUnloadedIndex(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewStatusBar(theme)
	sb.SetWidth(120)
	sb.SetHealth(&rag.HealthResponse{Status: "healthy", IndexLoaded: false})

	if out := sb.View(); !strings.Contains(out, "index not loaded") {
		t.Errorf("expected index warning, got %q", out)
	}
}

func TestToastExpiry(t *testing.T) {
	toast := NewStatusToast("saved")
	if toast.IsExpired() {
		t.Error("fresh toast should not be expired")
	}

	toast.CreatedAt = time.Now().Add(-time.Minute)
	if !toast.IsExpired() {
		t.Error("old toast should be expired")
	}
}

func TestToastView(t *testing.T) {
	toast := NewErrorToast("query failed")
	out := toast.View()
	if !strings.Contains(out, "query failed") {
		t.Errorf("toast should contain message, got %q", out)
	}
	if !strings.Contains(out, styles.StatusIndicators.Error) {
		t.Errorf("error toast should carry the error indicator, got %q", out)
	}
}

func TestWelcomeListsSuggestions(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(100, 40)

	out := w.View()
	for _, s := range Suggestions {
		if !strings.Contains(out, s.Title) {
			t.Errorf("welcome screen should list %q", s.Title)
		}
	}
}

func TestParseCodeBlocks(t *testing.T) {
	text := "before\n```python\nprint('hi')\n```\nafter"
	out := ParseCodeBlocks(text, 80)

	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("surrounding text should survive, got %q", out)
	}
	if strings.Contains(out, "```") {
		t.Errorf("fences should be consumed, got %q", out)
	}
}

func TestMarkdownRendererFallback(t *testing.T) {
	mr := NewMarkdownRenderer(80)
	out := mr.Render("# Heading\n\nbody text")
	if !strings.Contains(out, "body text") {
		t.Errorf("rendered markdown should keep body text, got %q", out)
	}
}

func TestMarkdownRendererWithoutGlamourHighlightsFences(t *testing.T) {
	// Simulate glamour setup failing: prose passes through untouched
	// but fenced code still goes through the chroma path.
	mr := &MarkdownRenderer{width: 80}

	out := mr.Render("see this:\n```go\nfmt.Println(1)\n```")
	if !strings.Contains(out, "see this:") {
		t.Errorf("prose should pass through, got %q", out)
	}
	if strings.Contains(out, "```") {
		t.Errorf("fences should still be rendered, got %q", out)
	}
	if !strings.Contains(out, "Println") {
		t.Errorf("code should survive highlighting, got %q", out)
	}
}
