// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// AUTHOR TYPE
// =============================================================================

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// String returns the string representation of the author.
func (a Author) String() string {
	return string(a)
}

// DisplayName returns the label used when flattening a transcript.
func (a Author) DisplayName() string {
	if a == AuthorUser {
		return "User"
	}
	return "Assistant"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one immutable entry in a thread's log.
type Message struct {
	Content string
	Author  Author
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(content string) Message {
	return Message{Content: content, Author: AuthorUser}
}

// NewAssistantMessage creates an assistant-authored message.
func NewAssistantMessage(content string) Message {
	return Message{Content: content, Author: AuthorAssistant}
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Author == AuthorUser
}

// IsMarkup reports whether the content is pre-formatted markup rather than
// plain text or Markdown: its first non-whitespace character opens a tag.
func (m Message) IsMarkup() bool {
	return LooksLikeMarkup(m.Content)
}

// LooksLikeMarkup applies the markup heuristic to raw content.
func LooksLikeMarkup(content string) bool {
	return strings.HasPrefix(strings.TrimLeft(content, " \t\r\n"), "<")
}

// wireMessage is the persisted shape, {"content": "...", "isUser": true}.
type wireMessage struct {
	Content string `json:"content"`
	IsUser  bool   `json:"isUser"`
}

// MarshalJSON keeps the persisted layout stable regardless of the Go field names.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{Content: m.Content, IsUser: m.IsUser()})
}

// UnmarshalJSON decodes the persisted layout.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Content = w.Content
	m.Author = AuthorAssistant
	if w.IsUser {
		m.Author = AuthorUser
	}
	return nil
}
