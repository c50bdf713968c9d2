// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// Controller is the subset of *chatctl.Controller the UI drives.
type Controller interface {
	Start(ctx context.Context) error
	SendMessage(ctx context.Context, text string) error
	NewThread() (model.ThreadID, error)
	SelectThread(id model.ThreadID) error
	ClearAll(confirm chatctl.Confirmer) (bool, error)
	ViewExample(name string) error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func startCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{Err: ctrl.Start(ctx)}
	}
}

// sendCmd blocks for the whole request; Bubble Tea runs it off the event loop.
func sendCmd(ctx context.Context, ctrl Controller, text string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.SendMessage(ctx, text); err != nil {
			return errMsg{Err: err}
		}
		return nil
	}
}

func newThreadCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		if _, err := ctrl.NewThread(); err != nil {
			return errMsg{Err: err}
		}
		return statusMsg{Text: "Started a new chat"}
	}
}

func selectThreadCmd(ctrl Controller, id model.ThreadID) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.SelectThread(id); err != nil {
			return errMsg{Err: err}
		}
		return nil
	}
}

func viewExampleCmd(ctrl Controller, name string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.ViewExample(name); err != nil {
			return errMsg{Err: err}
		}
		return nil
	}
}

// clearAllCmd runs after the user already confirmed in the UI.
func clearAllCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		cleared, err := ctrl.ClearAll(chatctl.ConfirmFunc(func(string) bool { return true }))
		if err != nil {
			return errMsg{Err: err}
		}
		if !cleared {
			return nil
		}
		return statusMsg{Text: "All conversations cleared"}
	}
}

func copyCmd(write func(string) error, msg model.Message) tea.Cmd {
	return func() tea.Msg {
		text := msg.Content
		if msg.IsMarkup() {
			text = render.PlainText(text)
		}
		if err := write(text); err != nil {
			return errMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return statusMsg{Text: "Reply copied to clipboard"}
	}
}
