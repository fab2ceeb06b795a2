// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Saved chat management command.
//
// Command: sessions [subcommand]
//
// Examples:
//   studybuddy sessions list
//   studybuddy sessions list --json
//   studybuddy sessions show a1b2c3d4
//   studybuddy sessions export a1b2c3d4 > chat.json
//   studybuddy sessions export a1b2c3d4 --format markdown > chat.md
//   studybuddy sessions delete a1b2c3d4
//
// IDs may be abbreviated to any unique prefix.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/model"
)

// HandleSessionsCommand dispatches sessions subcommands.
func HandleSessionsCommand(args Args) error {
	parser := NewArgParser(args.Raw)
	jsonMode := args.JSON || parser.BoolFlag("json")

	cfg := config.Global()
	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer CloseStore(store)

	sessions, err := store.Load()
	if err != nil {
		return fmt.Errorf("load chats: %w", err)
	}

	switch parser.Subcommand() {
	case "", "list", "ls":
		return listSessions(sessions, jsonMode)

	case "show":
		sess, err := findSession(sessions, parser.Positional(1))
		if err != nil {
			return err
		}
		return showSession(sess)

	case "export":
		sess, err := findSession(sessions, parser.Positional(1))
		if err != nil {
			return err
		}
		return exportSession(sess, parser.FlagOrDefault("format", "json"))

	case "delete", "rm":
		sess, err := findSession(sessions, parser.Positional(1))
		if err != nil {
			return err
		}
		kept := sessions[:0]
		for _, s := range sessions {
			if s.ID != sess.ID {
				kept = append(kept, s)
			}
		}
		if err := store.Save(kept); err != nil {
			return fmt.Errorf("save chats: %w", err)
		}
		// Best-effort backend cleanup. The local copy is already gone,
		// so an unreachable backend only gets a note.
		client := newBackendClient(args)
		if cerr := client.ClearSession(context.Background(), sess.ID); cerr != nil && !args.Quiet {
			fmt.Println(mutedStyle.Render("backend memory not cleared: " + cerr.Error()))
		}
		if !args.Quiet {
			fmt.Println(successStyle.Render("Deleted: " + sess.Title))
		}
		return nil

	default:
		return fmt.Errorf("unknown sessions subcommand: %s", parser.Subcommand())
	}
}

// listSessions prints the chat list, newest first. The persisted blob
// keeps insertion order, so the list is re-sorted here.
func listSessions(sessions []model.Session, jsonMode bool) error {
	sortByUpdatedDesc(sessions)
	if jsonMode {
		entries := make([]SessionListEntry, 0, len(sessions))
		for _, s := range sessions {
			meta := s.Meta()
			entries = append(entries, SessionListEntry{
				ID:           s.ID,
				Title:        s.Title,
				Preview:      meta.Preview,
				MessageCount: len(s.Messages),
				UpdatedAt:    s.UpdatedAt,
			})
		}
		return NewJSONResponse("sessions", SessionListData{Sessions: entries}).Print()
	}

	if len(sessions) == 0 {
		fmt.Println(mutedStyle.Render("No saved chats."))
		return nil
	}

	for _, s := range sessions {
		fmt.Printf("%s  %s\n",
			mutedStyle.Render(shortID(s.ID)),
			valueStyle.Render(s.Title))
		fmt.Printf("          %s\n",
			mutedStyle.Render(fmt.Sprintf("%d messages, updated %s",
				len(s.Messages), s.UpdatedAt.Format("Jan 2 15:04"))))
	}
	return nil
}

// showSession prints a full transcript.
func showSession(sess *model.Session) error {
	fmt.Println(headingStyle.Render(sess.Title))
	fmt.Println(mutedStyle.Render(sess.ID))
	fmt.Println()

	for _, msg := range sess.Messages {
		fmt.Printf("%s %s\n",
			promptStyle.Render(msg.Role.DisplayName()+":"),
			mutedStyle.Render(msg.Timestamp.Format("Jan 2 15:04")))
		if IsStdoutTTY() && msg.Role == model.RoleAssistant {
			fmt.Print(renderMarkdown(msg.Content))
		} else {
			fmt.Println(msg.Content)
		}
		for _, src := range msg.Sources {
			fmt.Println(sourceStyle.Render("  - " + src.Title))
		}
		fmt.Println()
	}
	return nil
}

// sortByUpdatedDesc orders sessions most-recently-updated first. The sort
// is stable so equal timestamps keep their stored order.
func sortByUpdatedDesc(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

// exportSession writes a chat to stdout as JSON or markdown.
func exportSession(sess *model.Session, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sess)

	case "markdown", "md":
		var sb strings.Builder
		sb.WriteString("# " + sess.Title + "\n\n")
		sb.WriteString("Exported " + sess.UpdatedAt.Format("2006-01-02 15:04") + "\n\n")
		for _, msg := range sess.Messages {
			sb.WriteString("## " + msg.Role.DisplayName() + "\n\n")
			sb.WriteString(msg.Content + "\n\n")
			for _, src := range msg.Sources {
				sb.WriteString("- " + src.Title + "\n")
			}
			if len(msg.Sources) > 0 {
				sb.WriteString("\n")
			}
		}
		_, err := fmt.Print(sb.String())
		return err

	default:
		return fmt.Errorf("unknown export format: %s (json, markdown)", format)
	}
}

// findSession resolves an id or unique prefix to a session.
func findSession(sessions []model.Session, id string) (*model.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}

	var match *model.Session
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
		if strings.HasPrefix(sessions[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous session id prefix: %s", id)
			}
			match = &sessions[i]
		}
	}

	if match == nil {
		return nil, fmt.Errorf("no saved chat with id %s", id)
	}
	return match, nil
}
