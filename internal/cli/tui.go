// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/storage"
	"github.com/jeranaias/threadchat/internal/ui/chat"
)

// runTUI opens the full-screen chat. Logging goes to the file only because
// the program owns the terminal.
func runTUI(ctx context.Context, opts *globalOptions) error {
	if err := RequiresTTY("run the chat screen"); err != nil {
		return err
	}

	a, err := newApp(opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	// Query the terminal background before the alternate screen takes over.
	style := render.ResolveStyle(a.cfg.Render.TerminalStyle)

	ctrl := a.newController(nil)
	defer a.flush(ctrl)
	p := chat.NewProgram(ctx, ctrl, chat.Options{
		TerminalStyle: style,
		RenderMode:    a.cfg.RenderMode(),
		SidebarWidth:  a.cfg.UI.SidebarWidth,
		ConfirmClear:  a.cfg.UI.ConfirmClear,
		ShowExamples:  a.cfg.UI.ShowExamples,
	})
	ctrl.SetDisplay(chat.NewDisplay(p))

	if a.cfg.Storage.Watch && !opts.ephemeral {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := a.store.Watch(watchCtx, func() {
			a.logger.Info("conversations changed on disk, reloading")
			if err := ctrl.Reload(); err != nil {
				a.logger.Warn("reload failed", zap.Error(err))
			}
		})
		if err != nil && !errors.Is(err, storage.ErrWatchUnsupported) {
			a.logger.Warn("cannot watch storage for changes", zap.Error(err))
		}
	}

	a.logger.Info("chat screen starting", zap.String("terminal_style", style))
	return p.Run()
}
