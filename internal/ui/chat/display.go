// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// programDisplay turns controller output into Bubble Tea messages.
type programDisplay struct {
	sender Sender
}

// NewDisplay returns a chatctl.Display that forwards to sender. Its methods
// block until the program accepts the message, so they must not be called
// from Update.
func NewDisplay(sender Sender) chatctl.Display {
	return &programDisplay{sender: sender}
}

func (d *programDisplay) Clear() {
	d.sender.Send(clearMsg{})
}

func (d *programDisplay) ShowMessage(msg model.Message, frag render.Fragment) {
	d.sender.Send(showMessageMsg{Message: msg, Kind: frag.Kind})
}

func (d *programDisplay) SetLoading(thread model.ThreadID, loading bool) {
	d.sender.Send(loadingMsg{Thread: thread, Loading: loading})
}

func (d *programDisplay) SetInput(enabled bool, placeholder string) {
	d.sender.Send(inputMsg{Enabled: enabled, Placeholder: placeholder})
}

func (d *programDisplay) ShowThreads(threads []chatctl.ThreadItem, examples []chatctl.ExampleItem) {
	d.sender.Send(threadsMsg{
		Threads:  append([]chatctl.ThreadItem(nil), threads...),
		Examples: append([]chatctl.ExampleItem(nil), examples...),
	})
}
