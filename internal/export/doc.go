// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a single chat thread to a standalone file.
//
// # Supported Formats
//
//   - HTML: replies rendered exactly as the chat shows them, with
//     highlighted code and an embedded stylesheet
//   - Markdown: human-readable transcript
//   - JSON: the stored message log
//
// # Usage
//
//	thread, err := export.FromState(state, id)
//	exporter, err := export.ForFormat("html", opts)
//	path, err := export.ExportToFile(thread, exporter, opts)
package export
