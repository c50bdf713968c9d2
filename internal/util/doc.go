// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across threadchat.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// String Utilities:
//   - TruncateWidth: Display-width aware truncation with ellipsis
//   - SingleLine: Collapse whitespace for one-line previews
//
// # Usage
//
//	// Write the key-value document without ever leaving a partial file
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Fit a thread title into a sidebar column
//	label := util.TruncateWidth(title, 24)
package util
