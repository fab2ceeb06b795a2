// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend health check command.
//
// Command: status
//
// Examples:
//   studybuddy status
//   studybuddy status --json
//   studybuddy status --backend http://10.0.0.5:8000

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// HandleStatusCommand handles the "status" command: a single /health call
// and a short report. Exit status is non-zero when the backend is down.
func HandleStatusCommand(args Args) error {
	client := newBackendClient(args)

	health, err := client.Health(context.Background())
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("status", err).Print()
		} else {
			fmt.Println(styles.RenderError("Backend unreachable: " + client.BaseURL()))
			fmt.Println(mutedStyle.Render("  " + err.Error()))
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("status", StatusData{
			Backend:       client.BaseURL(),
			Status:        health.Status,
			DocumentCount: health.DocumentCount,
			IndexLoaded:   health.IndexLoaded,
		}).Print()
	}

	fmt.Println(styles.RenderSuccess("Backend " + health.Status))
	fmt.Printf("  %s %s\n", labelStyle.Render("URL:"), valueStyle.Render(client.BaseURL()))
	fmt.Printf("  %s %d\n", labelStyle.Render("Documents:"), health.DocumentCount)
	if health.IndexLoaded {
		fmt.Printf("  %s %s\n", labelStyle.Render("Index:"), successStyle.Render("loaded"))
	} else {
		fmt.Printf("  %s %s\n", labelStyle.Render("Index:"), styles.RenderWarning("not loaded"))
	}

	return nil
}
