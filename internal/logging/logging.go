// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the application logger.
//
// The TUI owns stdout and stderr, so diagnostics go to a log file under
// the config directory instead. Failures that the UI deliberately absorbs
// (malformed stored data, unreachable backend) are still recorded here.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger = log.New(io.Discard)
	closer io.Closer
)

// Init directs the application log to a file, creating parent directories
// as needed. Until Init is called (or if it fails), logging is a no-op.
func Init(path string) error {
	f, err := openLogFile(path)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
	}
	closer = f
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
	})
	return nil
}

// L returns the application logger.
func L() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetLevel applies a named level (debug, info, warn, error). Unknown
// names are ignored.
func SetLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(parsed)
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
	}
	logger = log.New(io.Discard)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
