// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// =============================================================================
// DISPLAY MESSAGES
// =============================================================================

// clearMsg empties the message area.
type clearMsg struct{}

// showMessageMsg appends one message.
type showMessageMsg struct {
	Message model.Message
	Kind    render.FragmentKind
}

// loadingMsg toggles the waiting indicator for a thread.
type loadingMsg struct {
	Thread  model.ThreadID
	Loading bool
}

// inputMsg enables or disables the input.
type inputMsg struct {
	Enabled     bool
	Placeholder string
}

// threadsMsg replaces the sidebar lists.
type threadsMsg struct {
	Threads  []chatctl.ThreadItem
	Examples []chatctl.ExampleItem
}

// =============================================================================
// COMMAND RESULTS
// =============================================================================

// startedMsg reports the controller's Start result.
type startedMsg struct {
	Err error
}

// errMsg reports a failed action.
type errMsg struct {
	Err error
}

// statusMsg shows a short note in the status bar.
type statusMsg struct {
	Text string
}
