// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports a thread using the same message encoding the store
// persists, so the log can be inspected or re-imported by hand.
type JSONExporter struct{}

type jsonThread struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Messages []model.Message `json:"messages"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a thread to JSON format. Empty threads are allowed.
func (e *JSONExporter) Export(thread *Thread) ([]byte, error) {
	if thread == nil {
		return nil, ErrNilThread
	}
	msgs := thread.Messages
	if msgs == nil {
		msgs = []model.Message{}
	}
	return json.MarshalIndent(jsonThread{ID: thread.ID, Title: thread.Title, Messages: msgs}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
