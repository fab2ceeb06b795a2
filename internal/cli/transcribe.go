// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcribe.go - Audio transcription command.
//
// Command: transcribe FILE
//
// Examples:
//   studybuddy transcribe lecture.wav
//   studybuddy transcribe question.mp3 --json

package cli

import (
	"context"
	"fmt"
	"os"
)

// HandleTranscribeCommand handles the "transcribe" command: upload one
// audio file, print the transcription.
func HandleTranscribeCommand(args Args) error {
	path := args.Query
	if path == "" {
		err := fmt.Errorf("no file provided. Usage: studybuddy transcribe FILE")
		if args.JSON {
			NewJSONErrorResponse("transcribe", err).Print()
		}
		return err
	}

	if _, err := os.Stat(path); err != nil {
		err := fmt.Errorf("cannot read audio file: %w", err)
		if args.JSON {
			NewJSONErrorResponse("transcribe", err).Print()
		}
		return err
	}

	client := newBackendClient(args)
	text, err := client.Transcribe(context.Background(), path)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("transcribe", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("transcribe", TranscribeData{
			File:          path,
			Transcription: text,
		}).Print()
	}

	fmt.Println(text)
	return nil
}
