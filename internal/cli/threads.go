// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// =============================================================================
// THREADS
// =============================================================================

func newThreadsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "threads",
		Aliases: []string{"thread"},
		Short:   "List and print saved threads",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List threads, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return listThreads(a, opts)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <number|id>",
		Short: "Print one thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return showThread(a, opts, args[0])
			})
		},
	})
	return cmd
}

// loadState reads persisted conversations without the side effects of a
// controller start. A fresh store yields an empty thread list.
func loadState(a *app) (*model.State, error) {
	res, err := a.store.Load()
	if res.State == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("storage problem while reading", zap.Error(err))
	}
	if res.Fresh {
		return &model.State{}, nil
	}
	return res.State, nil
}

// threadItems lists st's threads the way the controller does.
func threadItems(st *model.State) []chatctl.ThreadItem {
	items := make([]chatctl.ThreadItem, 0, len(st.Index))
	for _, id := range st.Index {
		items = append(items, chatctl.ThreadItem{
			ID:     id,
			Title:  st.Title(id),
			Active: id == st.Active,
		})
	}
	return items
}

func listThreads(a *app, opts *globalOptions) error {
	return outputJSON(opts.out, opts.jsonOut, "threads list", func() (interface{}, error) {
		st, err := loadState(a)
		if err != nil {
			return nil, err
		}

		rows := make([]ThreadSummary, 0, len(st.Index))
		for _, id := range st.Index {
			rows = append(rows, ThreadSummary{
				ID:       id.String(),
				Title:    st.Title(id),
				Messages: len(st.Messages(id)),
				Active:   id == st.Active,
			})
		}
		if !opts.jsonOut {
			printThreadList(opts.out, threadItems(st))
		}
		return rows, nil
	})
}

func showThread(a *app, opts *globalOptions, arg string) error {
	return outputJSON(opts.out, opts.jsonOut, "threads show", func() (interface{}, error) {
		st, err := loadState(a)
		if err != nil {
			return nil, err
		}
		id, err := resolveThread(arg, threadItems(st))
		if err != nil {
			return nil, err
		}

		msgs := st.Messages(id)
		detail := ThreadDetail{ID: id.String(), Title: st.Title(id), Messages: make([]MessageData, 0, len(msgs))}
		for _, m := range msgs {
			detail.Messages = append(detail.Messages, MessageData{Author: m.Author.String(), Content: m.Content})
		}
		if !opts.jsonOut {
			printTranscript(opts.out, detail.Title, msgs, a.cfg.Render.WrapWidth, a.cfg.RenderMode())
		}
		return detail, nil
	})
}

// printTranscript prints a titled message list, styled when stdout is a
// terminal.
func printTranscript(w io.Writer, title string, msgs []model.Message, wrap int, mode render.Mode) {
	var term *render.TerminalRenderer
	if IsStdoutTTY() && ColorsEnabled() {
		if tr, err := render.NewTerminalRenderer(min(GetTerminalWidth()-2, wrap), render.TerminalStyleAuto, render.WithTerminalMode(mode)); err == nil {
			term = tr
		}
	}

	fmt.Fprintln(w, TitleStyle.Render(render.StripControl(title)))
	fmt.Fprintln(w, RenderSeparator(min(GetTerminalWidth()-2, 70)))
	for _, m := range msgs {
		fmt.Fprintln(w, formatMessage(m, term))
	}
}

// =============================================================================
// CLEAR
// =============================================================================

func newClearCommand(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return clearAll(cmd.Context(), a, opts, yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func clearAll(ctx context.Context, a *app, opts *globalOptions, yes bool) error {
	// No titles: starting must not reach the endpoint just to clear.
	ctrl := chatctl.New(chatctl.Config{
		Store:    a.store,
		Replier:  a.client,
		Renderer: a.renderer,
		Logger:   a.logger.Named("chat"),
	})
	return outputJSON(opts.out, opts.jsonOut, "clear", func() (interface{}, error) {
		if err := ctrl.Start(ctx); err != nil {
			return nil, err
		}

		var confirmErr error
		confirm := chatctl.ConfirmFunc(func(prompt string) bool {
			ok, err := RequireConfirmation(prompt, ConfirmationOptions{
				Yes:      yes,
				JSONMode: opts.jsonOut,
				In:       opts.in,
				Out:      opts.errOut,
			})
			confirmErr = err
			return ok
		})

		cleared, err := ctrl.ClearAll(confirm)
		if err != nil {
			return nil, err
		}
		if !cleared {
			if confirmErr != nil {
				return nil, confirmErr
			}
			fmt.Fprintln(opts.out, DimStyle.Render("Cancelled."))
			return map[string]bool{"cleared": false}, nil
		}
		if err := ctrl.LastSaveError(); err != nil {
			return nil, err
		}
		if !opts.jsonOut {
			fmt.Fprintln(opts.out, SuccessStyle.Render("All conversations cleared."))
		}
		return map[string]bool{"cleared": true}, nil
	})
}
