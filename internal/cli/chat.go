// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL.
//
// Command: chat
//
// A line-oriented alternative to the TUI that shares the same chat store,
// so conversations started here show up in the TUI session picker and
// vice versa.
//
// Examples:
//   studybuddy chat                   Start a new chat
//   studybuddy chat --session ID      Continue a saved chat
//
// Interactive commands:
//   /help          Show available commands
//   /new           Start a new chat
//   /sessions      List saved chats
//   /sources       Toggle the source footer
//   /status        Show backend health
//   /quit          Exit (Ctrl+D also exits)

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput provides line editing and history for the REPL.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a ChatInput with history loaded from the config dir.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	input := &ChatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	input.loadHistory()
	return input
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Read reads one line with the given prompt, appending non-empty input to
// history.
func (c *ChatInput) Read(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and releases the terminal.
func (c *ChatInput) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the interactive REPL.
func HandleChatCommand(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires a terminal; use \"studybuddy ask\" for piped input")
	}

	cfg := config.Global()
	mgr, store, err := OpenSessions(cfg)
	if err != nil {
		return err
	}
	defer CloseStore(store)

	if args.SessionID != "" {
		if !mgr.SelectSession(args.SessionID) {
			return fmt.Errorf("no saved chat with id %s", args.SessionID)
		}
	}

	client := newBackendClient(args)
	input := NewChatInput()
	defer input.Close()

	showSources := cfg.UI.ShowSources

	if !args.Quiet {
		fmt.Println(headingStyle.Render("ML Study Buddy"))
		fmt.Println(mutedStyle.Render("Ask about your course material. /help for commands, Ctrl+D to exit."))
		fmt.Println()
	}

	for {
		text, err := input.Read(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+D or Ctrl+C ends the session.
			fmt.Println()
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			done, err := handleReplCommand(text, mgr, client, &showSources)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		askInRepl(mgr, client, text, showSources)
	}
}

// handleReplCommand dispatches /commands. Returns done=true to exit.
func handleReplCommand(text string, mgr *session.Manager, client *rag.Client, showSources *bool) (bool, error) {
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "help", "h":
		fmt.Println(mutedStyle.Render(`  /new        start a new chat
  /sessions   list saved chats
  /sources    toggle the source footer
  /status     show backend health
  /quit       exit`))
		return false, nil

	case "new", "n":
		mgr.CreateNewChat()
		fmt.Println(successStyle.Render("Started a new chat."))
		return false, nil

	case "sessions", "s":
		metas := mgr.Sessions()
		if len(metas) == 0 {
			fmt.Println(mutedStyle.Render("No saved chats."))
			return false, nil
		}
		for _, meta := range metas {
			marker := "  "
			if meta.ID == mgr.CurrentSessionID() {
				marker = "* "
			}
			fmt.Printf("%s%s  %s (%d messages)\n",
				marker,
				mutedStyle.Render(shortID(meta.ID)),
				meta.Title,
				meta.MessageCount)
		}
		return false, nil

	case "sources":
		*showSources = !*showSources
		if *showSources {
			fmt.Println(successStyle.Render("Source footer on."))
		} else {
			fmt.Println(mutedStyle.Render("Source footer off."))
		}
		return false, nil

	case "status":
		health, err := client.Health(context.Background())
		if err != nil {
			fmt.Println(errorStyle.Render("Backend offline: " + err.Error()))
			return false, nil
		}
		fmt.Printf("%s %s, %d documents indexed\n",
			successStyle.Render("Backend "+health.Status+":"),
			client.BaseURL(),
			health.DocumentCount)
		return false, nil

	case "quit", "q", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command: /%s", fields[0])
	}
}

// askInRepl sends one question and records the exchange in the session.
// Backend failures still record an assistant message explaining the
// failure, matching the TUI behavior.
func askInRepl(mgr *session.Manager, client *rag.Client, question string, showSources bool) {
	mgr.AddMessage(model.NewUserMessage(question))

	resp, err := client.Query(context.Background(), question, mgr.CurrentSessionID())
	if err != nil {
		fallback := "**Unable to connect to the RAG backend**\n\n" +
			"Your question was: \"" + question + "\""
		mgr.AddMessage(model.NewAssistantMessage(fallback, nil))
		fmt.Println(errorStyle.Render("Backend unavailable: " + err.Error()))
		return
	}

	mgr.AddMessage(model.NewAssistantMessage(resp.Answer, model.SourcesFromIdentifiers(resp.Sources)))

	fmt.Println()
	displayAnswer(resp.Answer)
	if showSources {
		displaySources(resp.Sources)
	}
	fmt.Println()
}

// shortID abbreviates a session id for list output. Ids look like
// "chat-<uuid>", so 13 characters keeps the prefix plus eight hex
// digits of the uuid.
func shortID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}
