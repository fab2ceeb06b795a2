// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line entry points for studybuddy.
//
// Running studybuddy with no command launches the TUI. Everything else is
// a one-shot command against the RAG backend or the local chat store:
//
//   studybuddy                        Launch the TUI
//   studybuddy ask "question"         One-shot question, markdown answer
//   studybuddy chat                   Interactive REPL (shares TUI storage)
//   studybuddy status                 Backend health check
//   studybuddy sessions [subcommand]  Manage saved chats
//   studybuddy transcribe FILE        Transcribe an audio file
//   studybuddy version                Print version information
package cli

import (
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================

// Build-time variables set via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies which CLI command was requested.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdSessions
	CmdTranscribe
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed command-line arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Backend string // backend URL override (--backend)

	// Command-specific
	Query     string // joined positional args for ask/transcribe
	Image     string // --image PATH for ask
	SessionID string // --session ID to continue an existing chat

	// Raw args remaining after the command name
	Raw []string
}

const usageText = `studybuddy %s - terminal client for the ML course RAG backend

Usage:
  studybuddy                         Launch the TUI
  studybuddy ask "question"          Ask a one-shot question
  studybuddy ask --image notes.png   Ask about an image (OCR + retrieval)
  studybuddy chat                    Interactive chat REPL
  studybuddy status                  Check backend health
  studybuddy sessions list           List saved chats
  studybuddy sessions show ID        Print a saved chat
  studybuddy sessions export ID      Export a chat as JSON
  studybuddy sessions delete ID      Delete a saved chat
  studybuddy transcribe FILE         Transcribe an audio file
  studybuddy version                 Print version information

Global flags:
  --backend URL    Override the backend URL
  --json           Machine-readable JSON output
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output

Configuration lives in ~/.studybuddy/config.toml. Environment overrides:
STUDYBUDDY_BACKEND_URL, STUDYBUDDY_STORAGE, STUDYBUDDY_THEME,
STUDYBUDDY_LOG_LEVEL.
`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("studybuddy version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "status", "health":
		return CmdStatus, args

	case "sessions", "session":
		return CmdSessions, args

	case "transcribe":
		args.Query = strings.Join(remaining, " ")
		return CmdTranscribe, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		args.Query = cmd
		return CmdUnknown, args
	}
}

// parseGlobalFlags extracts flags that apply to every command. Returns the
// arguments that were not consumed.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--json":
			args.JSON = true
		case arg == "--backend":
			if i+1 < len(argv) {
				args.Backend = argv[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--backend="):
			args.Backend = strings.TrimPrefix(arg, "--backend=")
		default:
			remaining = append(remaining, arg)
		}
		i++
	}

	return remaining, args
}

// parseAskArgs handles ask-specific flags and joins the rest into the query.
func parseAskArgs(args *Args, argv []string) {
	positional := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "-i" || arg == "--image":
			if i+1 < len(argv) {
				args.Image = argv[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--image="):
			args.Image = strings.TrimPrefix(arg, "--image=")
		case arg == "--session":
			if i+1 < len(argv) {
				args.SessionID = argv[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--session="):
			args.SessionID = strings.TrimPrefix(arg, "--session=")
		default:
			positional = append(positional, arg)
		}
		i++
	}

	args.Query = strings.Join(positional, " ")
}

// parseChatArgs handles chat-specific flags.
func parseChatArgs(args *Args, argv []string) {
	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "--session":
			if i+1 < len(argv) {
				args.SessionID = argv[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--session="):
			args.SessionID = strings.TrimPrefix(arg, "--session=")
		}
		i++
	}
}
