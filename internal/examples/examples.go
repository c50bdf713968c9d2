// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package examples holds the built-in, read-only demonstration
// conversations. They are never persisted and their IDs can never collide
// with real thread IDs.
package examples

import (
	"sort"
	"strings"

	"github.com/jeranaias/threadchat/internal/model"
)

// Welcome is the assistant-authored first message of every new thread.
const Welcome = `
<h3 style="margin: 0 0 15px 0; color: #00ED64;">👋 Hello!</h3>
<p style="margin: 0 0 15px 0;">I am a chat bot powered by <strong>MongoDB</strong>, <strong>AWS</strong> and <strong>BuildShip</strong> that helps you find out more about the AWS re:Invent 2024 agenda.</p>
<p style="margin: 0;">How can I help you?</p>`

// Placeholder replaces the input prompt while an example is shown.
const Placeholder = "This is an example chat - start a new chat to ask questions"

// IDPrefix marks example thread IDs. Real IDs are base-36 and never contain ':'.
const IDPrefix = "example:"

// Conversation is a static example.
type Conversation struct {
	Name     string
	Label    string
	Messages []model.Message
}

// ID returns the pseudo thread ID used to mark the example as selected.
func (c Conversation) ID() model.ThreadID {
	return model.ThreadID(IDPrefix + c.Name)
}

var registry = map[string]Conversation{
	"mongodb": {Name: "mongodb", Label: "MongoDB sessions", Messages: mongodbMessages},
	"aws":     {Name: "aws", Label: "DevOps on AWS", Messages: awsMessages},
}

// Lookup returns the named example. The returned messages are a copy.
func Lookup(name string) (Conversation, bool) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Conversation{}, false
	}
	c.Messages = append([]model.Message(nil), c.Messages...)
	return c, true
}

// All returns every example, ordered by name.
func All() []Conversation {
	names := Names()
	out := make([]Conversation, 0, len(names))
	for _, name := range names {
		c, _ := Lookup(name)
		out = append(out, c)
	}
	return out
}

// Names returns the example names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsExampleID reports whether id refers to an example rather than a thread.
func IsExampleID(id model.ThreadID) bool {
	return strings.HasPrefix(id.String(), IDPrefix)
}
