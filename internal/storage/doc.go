// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists threadchat conversation state in a kv.Backend.
//
// The state is kept under a fixed set of keys, each holding a JSON value
// (except currentThreadId, which is the raw thread ID):
//
//	currentThreadId  active thread ID
//	chatHistory      ["id", ...] newest first
//	chatMessages     {"id": [{"content": "...", "isUser": true}, ...]}
//	chatTitles       {"id": "title"}
//	hasInitialized   "true" once the first run has completed
//	schemaVersion    layout version, stamped by migrations
//
// # Usage
//
//	store := storage.New(backend, storage.WithLogger(logger))
//	res, err := store.Load()
//	...
//	if err := store.Save(res.State); err != nil {
//		// *StorageError; keep going in memory
//	}
//
// Save always writes the four conversation keys in one batch.
package storage
