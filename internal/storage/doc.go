// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for studybuddy.
//
// All sessions are persisted together as a single serialized collection
// under one storage key. Every save overwrites the whole blob
// (last-writer-wins); there is no partial-write protection across
// processes and no schema migration. Concurrent writers (two running
// instances) are an accepted limitation, not something this package
// defends against.
//
// # Backends
//
//   - FileStore: one JSON file, written atomically with fsync
//   - SQLiteStore: a key/value table in a SQLite database
//   - MemStore: in-memory double for tests
//
// # Failure policy
//
// Malformed stored data is treated as empty state: it is logged and an
// empty session list is returned. Callers never see a parse error.
package storage
