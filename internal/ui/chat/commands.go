// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studybuddy-tui/internal/rag"
)

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// healthInterval is how often the backend is probed in the background.
const healthInterval = 30 * time.Second

// queryCmd sends a text question to the backend.
func queryCmd(client *rag.Client, question, sessionID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Query(context.Background(), question, sessionID)
		if err != nil {
			return QueryErrorMsg{Question: question, Err: err}
		}
		return QueryResultMsg{Answer: resp.Answer, Sources: resp.Sources}
	}
}

// queryImageCmd uploads an image (plus optional question) to the backend.
func queryImageCmd(client *rag.Client, imagePath, question, sessionID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.QueryImage(context.Background(), imagePath, question, sessionID)
		if err != nil {
			return QueryErrorMsg{Question: question, Err: err}
		}
		return QueryResultMsg{
			Answer:        resp.Answer,
			Sources:       resp.Sources,
			ExtractedText: resp.ExtractedText,
		}
	}
}

// transcribeCmd uploads an audio file for transcription only.
func transcribeCmd(client *rag.Client, audioPath string) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Transcribe(context.Background(), audioPath)
		return TranscriptionMsg{Text: text, Err: err}
	}
}

// voiceQueryCmd uploads an audio file as a spoken question.
func voiceQueryCmd(client *rag.Client, audioPath, sessionID string, generateAudio bool) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.VoiceQuery(context.Background(), audioPath, sessionID, generateAudio)
		return VoiceResultMsg{Response: resp, Err: err}
	}
}

// healthCmd probes backend health once.
func healthCmd(client *rag.Client) tea.Cmd {
	return func() tea.Msg {
		health, err := client.Health(context.Background())
		if err != nil {
			return HealthMsg{Health: nil}
		}
		return HealthMsg{Health: health}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// toastTickCmd schedules toast expiry checks.
func toastTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

// clearSessionCmd asks the backend to drop its memory for a session.
func clearSessionCmd(client *rag.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := client.ClearSession(context.Background(), sessionID)
		return SessionClearedMsg{SessionID: sessionID, Err: err}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// slashCommand is a parsed /command invocation.
type slashCommand struct {
	name string
	args []string
}

// parseSlashCommand splits "/image notes.png what is this" into name and
// arguments. Returns ok=false for plain chat input.
func parseSlashCommand(input string) (slashCommand, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return slashCommand{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return slashCommand{}, false
	}
	return slashCommand{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// helpText describes the available slash commands.
const helpText = `Commands:
  /new                    start a new chat
  /sessions               open the session picker
  /delete                 delete the current session
  /image <path> [query]   ask about an image (OCR + retrieval)
  /voice <path>           ask a spoken question from an audio file
  /transcribe <path>      transcribe an audio file into the input
  /clear                  clear the backend's memory for this session
  /health                 probe the backend
  /help                   show this help
  /quit                   exit`
