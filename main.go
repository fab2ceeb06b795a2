// studybuddy - Terminal client for the ML course RAG backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studybuddy-tui/internal/cli"
	"github.com/jeranaias/studybuddy-tui/internal/config"
	"github.com/jeranaias/studybuddy-tui/internal/logging"
	"github.com/jeranaias/studybuddy-tui/internal/rag"
	"github.com/jeranaias/studybuddy-tui/internal/ui/chat"
	"github.com/jeranaias/studybuddy-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "studybuddy: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)

	case cli.CmdAsk:
		exitOnError(cli.HandleAskCommand(args))

	case cli.CmdChat:
		exitOnError(cli.HandleChatCommand(args))

	case cli.CmdStatus:
		exitOnError(cli.HandleStatusCommand(args))

	case cli.CmdSessions:
		exitOnError(cli.HandleSessionsCommand(args))

	case cli.CmdTranscribe:
		exitOnError(cli.HandleTranscribeCommand(args))

	case cli.CmdVersion:
		cli.PrintVersion()

	case cli.CmdHelp:
		cli.PrintUsage()

	default:
		fmt.Fprintf(os.Stderr, "studybuddy: unknown command %q\n\n", args.Query)
		cli.PrintUsage()
		os.Exit(1)
	}
}

// setup loads configuration and opens the log file. A broken config file
// is fatal; a missing one is not.
func setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	if logPath, err := cfg.LogPath(); err == nil {
		if err := logging.Init(logPath); err == nil {
			logging.SetLevel(cfg.Logging.Level)
		}
	}

	return nil
}

// runTUI launches the full-screen interface.
func runTUI(args cli.Args) {
	cfg := config.Global()

	sessions, store, err := cli.OpenSessions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "studybuddy: %v\n", err)
		os.Exit(1)
	}
	defer cli.CloseStore(store)

	clientCfg := &rag.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		Timeout:           cfg.Backend.Timeout(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	}
	if args.Backend != "" {
		clientCfg.BaseURL = args.Backend
	}
	client := rag.NewClientWithConfig(clientCfg)

	theme := styles.NewTheme()
	model := chat.New(theme, client, sessions, cfg)

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Hot-reload config edits while the TUI runs. Reload failures are
	// logged and the previous config stays active.
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		logging.SetLevel(updated.Logging.Level)
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "studybuddy: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
