// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Command: ask [question]
//
// Examples:
//   studybuddy ask "What is backpropagation?"
//   studybuddy ask --image lecture-notes.png "What does this diagram show?"
//   cat question.txt | studybuddy ask
//   studybuddy ask --json "Explain dropout" | jq -r .data.answer
//
// Flags:
//   -i, --image PATH   Ask about an image (OCR + retrieval)
//   --session ID       Continue an existing backend session
//   --json             Output response as JSON

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
)

// markdownRenderer renders answers for terminal display. Nil when
// initialization fails; output falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the raw
// content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayAnswer prints an answer, rendering markdown only on a TTY so
// piped output stays plain.
func displayAnswer(answer string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(answer))
	} else {
		fmt.Println(answer)
	}
}

// displaySources prints the source footer for an answer.
func displaySources(sources []string) {
	if len(sources) == 0 {
		return
	}
	fmt.Println(labelStyle.Render("Sources:"))
	for _, src := range sources {
		fmt.Println(sourceStyle.Render("  - " + src))
	}
}

// newBackendClient builds a rag client from config plus CLI overrides.
func newBackendClient(args Args) *rag.Client {
	cfg := config.Global()
	clientCfg := &rag.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		Timeout:           cfg.Backend.Timeout(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	}
	if args.Backend != "" {
		clientCfg.BaseURL = args.Backend
	}
	return rag.NewClientWithConfig(clientCfg)
}

// HandleAskCommand handles the "ask" command: a single question to the
// backend with the answer printed to stdout.
func HandleAskCommand(args Args) error {
	question := args.Query

	// Piped input is an alternative question source.
	if question == "" && !IsTTY() {
		reader := bufio.NewReader(os.Stdin)
		data, err := io.ReadAll(reader)
		if err == nil && len(data) > 0 {
			question = strings.TrimSpace(string(data))
		}
	}

	if question == "" && args.Image == "" {
		err := fmt.Errorf("no question provided. Usage: studybuddy ask \"your question\"")
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	client := newBackendClient(args)
	ctx := context.Background()
	start := time.Now()

	// Image questions go through the OCR endpoint.
	if args.Image != "" {
		q := question
		if q == "" {
			q = "What does this image show?"
		}

		resp, err := client.QueryImage(ctx, args.Image, q, args.SessionID)
		if err != nil {
			if args.JSON {
				NewJSONErrorResponse("ask", err).Print()
			}
			return err
		}

		if args.JSON {
			return NewJSONResponse("ask", AskData{
				Question:      q,
				Answer:        resp.Answer,
				Sources:       resp.Sources,
				ExtractedText: resp.ExtractedText,
				DurationMs:    time.Since(start).Milliseconds(),
			}).Print()
		}

		displayAnswer(resp.Answer)
		if resp.ExtractedText != "" && !args.Quiet {
			fmt.Println(mutedStyle.Render("Extracted text: " + resp.ExtractedText))
		}
		displaySources(resp.Sources)
		return nil
	}

	resp, err := client.Query(ctx, question, args.SessionID)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("ask", AskData{
			Question:   question,
			Answer:     resp.Answer,
			Sources:    resp.Sources,
			DurationMs: time.Since(start).Milliseconds(),
		}).Print()
	}

	displayAnswer(resp.Answer)
	displaySources(resp.Sources)

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "%s %v\n",
			labelStyle.Render("Time:"),
			time.Since(start).Round(time.Millisecond))
	}

	return nil
}
