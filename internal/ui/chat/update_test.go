// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/session"
	"github.com/jeranaias/studybuddy-tui/internal/storage"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) (Model, *session.Manager) {
	t.Helper()

	mgr := session.NewManager(storage.NewMemStore())
	mgr.Load()

	cfg := config.Default()
	m := New(styles.NewTheme(), rag.NewClient(), mgr, cfg)

	// Simulate the initial resize so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), mgr
}

func lastMessage(t *testing.T, mgr *session.Manager) model.Message {
	t.Helper()
	msgs := mgr.Messages()
	if len(msgs) == 0 {
		t.Fatal("no messages in session")
	}
	return msgs[len(msgs)-1]
}

func TestSubmitEntersGenerating(t *testing.T) {
	m, mgr := newTestModel(t)

	m.input.SetValue("What is backpropagation?")
	updated, cmd := m.handleSubmit()
	m = updated.(Model)

	if m.State() != StateGenerating {
		t.Errorf("expected StateGenerating, got %v", m.State())
	}
	if cmd == nil {
		t.Error("submit should produce a backend command")
	}

	msgs := mgr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected user message plus placeholder, got %d messages", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "What is backpropagation?" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant || !msgs[1].Pending {
		t.Errorf("expected pending assistant placeholder, got %+v", msgs[1])
	}
}

func TestSubmitWhileGeneratingIsSuppressed(t *testing.T) {
	m, mgr := newTestModel(t)

	m.input.SetValue("first")
	updated, _ := m.handleSubmit()
	m = updated.(Model)

	m.input.SetValue("second")
	updated, cmd := m.handleSubmit()
	m = updated.(Model)

	if cmd != nil {
		t.Error("second submit should not fire a backend command")
	}
	if len(mgr.Messages()) != 2 {
		t.Errorf("second submit should not add messages, got %d", len(mgr.Messages()))
	}
}

func TestQueryResultFillsPlaceholder(t *testing.T) {
	m, mgr := newTestModel(t)

	m.input.SetValue("What is a tensor?")
	updated, _ := m.handleSubmit()
	m = updated.(Model)

	updated, _ = m.Update(QueryResultMsg{
		Answer:  "A multidimensional array.",
		Sources: []string{"https://example.com/l1.pdf", "week-2-notes"},
	})
	m = updated.(Model)

	if m.State() != StateReady {
		t.Errorf("expected StateReady after result, got %v", m.State())
	}

	last := lastMessage(t, mgr)
	if last.Pending {
		t.Error("placeholder should no longer be pending")
	}
	if last.Content != "A multidimensional array." {
		t.Errorf("unexpected content %q", last.Content)
	}
	if len(last.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(last.Sources))
	}
	if last.Sources[0].URL != "https://example.com/l1.pdf" {
		t.Errorf("http identifier should keep its URL, got %q", last.Sources[0].URL)
	}
	if last.Sources[1].URL != "#" {
		t.Errorf("non-URL identifier should get placeholder link, got %q", last.Sources[1].URL)
	}
}

func TestBackendFailureRecordsFallback(t *testing.T) {
	m, mgr := newTestModel(t)

	m.input.SetValue("What is backpropagation?")
	updated, _ := m.handleSubmit()
	m = updated.(Model)

	updated, _ = m.Update(QueryErrorMsg{
		Question: "What is backpropagation?",
		Err:      errors.New("connection refused"),
	})
	m = updated.(Model)

	if m.State() != StateReady {
		t.Errorf("expected StateReady after failure, got %v", m.State())
	}

	last := lastMessage(t, mgr)
	if !strings.Contains(last.Content, "Unable to connect to the RAG backend") {
		t.Errorf("fallback should contain the canned explanation, got %q", last.Content)
	}
	if !strings.Contains(last.Content, "What is backpropagation?") {
		t.Errorf("fallback should echo the question, got %q", last.Content)
	}
	if len(last.Sources) != 0 {
		t.Errorf("fallback should carry no sources, got %d", len(last.Sources))
	}
	if last.Pending {
		t.Error("fallback message should not be pending")
	}
}

func TestFallbackIsPersisted(t *testing.T) {
	store := storage.NewMemStore()
	mgr := session.NewManager(store)
	mgr.Load()
	m := New(styles.NewTheme(), rag.NewClient(), mgr, config.Default())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	m.input.SetValue("q")
	updated, _ = m.handleSubmit()
	m = updated.(Model)
	updated, _ = m.Update(QueryErrorMsg{Question: "q", Err: errors.New("down")})
	m = updated.(Model)

	// A fresh manager reading the same store must see the fallback.
	reloaded := session.NewManager(store)
	reloaded.Load()
	sessions := reloaded.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(sessions))
	}
	reloaded.SelectSession(sessions[0].ID)
	last := lastMessage(t, reloaded)
	if !strings.Contains(last.Content, "Unable to connect to the RAG backend") {
		t.Errorf("fallback should survive persistence, got %q", last.Content)
	}
}

func TestVoiceResultAppendsPair(t *testing.T) {
	m, mgr := newTestModel(t)

	updated, _ := m.Update(VoiceResultMsg{
		Response: &rag.VoiceQueryResponse{
			TextResponse:        "Overfitting is memorizing.",
			TranscribedQuestion: "what is overfitting",
			Sources:             []string{"lecture-5"},
		},
	})
	m = updated.(Model)

	msgs := mgr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected question/answer pair, got %d messages", len(msgs))
	}
	if msgs[0].Content != "what is overfitting" {
		t.Errorf("user message should be the transcription, got %q", msgs[0].Content)
	}
	if msgs[1].Content != "Overfitting is memorizing." {
		t.Errorf("unexpected answer %q", msgs[1].Content)
	}
}

func TestTranscriptionFillsInput(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(TranscriptionMsg{Text: "explain dropout"})
	m = updated.(Model)

	if m.input.Value() != "explain dropout" {
		t.Errorf("transcription should land in the input, got %q", m.input.Value())
	}
}

func TestHealthMsgUpdatesStatus(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(HealthMsg{Health: &rag.HealthResponse{Status: "healthy", DocumentCount: 9}})
	m = updated.(Model)

	if m.Health() == nil || m.Health().DocumentCount != 9 {
		t.Errorf("health not recorded: %+v", m.Health())
	}

	updated, _ = m.Update(HealthMsg{Health: nil})
	m = updated.(Model)
	if m.Health() != nil {
		t.Error("nil health should mark backend unreachable")
	}
}

func TestUnknownSlashCommandToasts(t *testing.T) {
	m, _ := newTestModel(t)

	m.input.SetValue("/frobnicate")
	updated, _ := m.handleSubmit()
	m = updated.(Model)

	if len(m.toasts) == 0 {
		t.Fatal("unknown command should raise a toast")
	}
	if !strings.Contains(m.toasts[0].Message, "frobnicate") {
		t.Errorf("toast should name the command, got %q", m.toasts[0].Message)
	}
}

func TestDeleteCommandAlsoClearsBackend(t *testing.T) {
	m, mgr := newTestModel(t)

	mgr.AddMessage(model.NewUserMessage("hello"))

	m.input.SetValue("/delete")
	updated, cmd := m.handleSubmit()
	m = updated.(Model)

	if len(mgr.Sessions()) != 0 {
		t.Errorf("session should be deleted locally, %d remain", len(mgr.Sessions()))
	}
	if cmd == nil {
		t.Error("delete should also request a backend-side clear")
	}
}

func TestSessionPickerDeleteAlsoClearsBackend(t *testing.T) {
	m, mgr := newTestModel(t)

	mgr.AddMessage(model.NewUserMessage("hello"))
	m.showSessions = true
	m.sessionCursor = 0

	updated, cmd := m.handleSessionPickerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = updated.(Model)

	if len(mgr.Sessions()) != 0 {
		t.Errorf("picker delete should remove the session, %d remain", len(mgr.Sessions()))
	}
	if cmd == nil {
		t.Error("picker delete should also request a backend-side clear")
	}
}

func TestParseSlashCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantOK   bool
		wantName string
		wantArgs int
	}{
		{"/new", true, "new", 0},
		{"/image notes.png what is this", true, "image", 4},
		{"  /HELP  ", true, "help", 0},
		{"plain question", false, "", 0},
		{"/", false, "", 0},
	}

	for _, tt := range tests {
		cmd, ok := parseSlashCommand(tt.input)
		if ok != tt.wantOK {
			t.Errorf("parseSlashCommand(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if cmd.name != tt.wantName {
			t.Errorf("parseSlashCommand(%q) name = %q, want %q", tt.input, cmd.name, tt.wantName)
		}
		if len(cmd.args) != tt.wantArgs {
			t.Errorf("parseSlashCommand(%q) args = %d, want %d", tt.input, len(cmd.args), tt.wantArgs)
		}
	}
}

func TestNewChatClearsView(t *testing.T) {
	m, mgr := newTestModel(t)

	mgr.AddMessage(model.NewUserMessage("hello"))
	if len(mgr.Messages()) != 1 {
		t.Fatal("setup failed")
	}

	updated, _ := m.startNewChat()
	m = updated.(Model)

	if len(mgr.Messages()) != 0 {
		t.Errorf("new chat should start empty, got %d messages", len(mgr.Messages()))
	}
}
