// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the small string key-value stores that threadchat
// persists its conversation state into.
//
// Three backends share the Backend interface:
//
//   - FileBackend: a single JSON document, replaced atomically on each write
//   - SQLiteBackend: a kv table in a SQLite database (pure Go driver)
//   - MemoryBackend: process-local map for ephemeral sessions and tests
//
// Write takes a batch of entries and applies all of them or none of them.
package kv
