// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/render"
)

func newExamplesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "examples",
		Aliases: []string{"example"},
		Short:   "Browse the built-in example conversations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List examples",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputJSON(opts.out, opts.jsonOut, "examples list", func() (interface{}, error) {
				all := examples.All()
				rows := make([]ExampleSummary, 0, len(all))
				for _, e := range all {
					rows = append(rows, ExampleSummary{Name: e.Name, Label: e.Label, Messages: len(e.Messages)})
				}
				if !opts.jsonOut {
					printExampleList(opts.out)
				}
				return rows, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "show <name>",
		Short:     "Print an example",
		Args:      cobra.ExactArgs(1),
		ValidArgs: examples.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputJSON(opts.out, opts.jsonOut, "examples show", func() (interface{}, error) {
				conv, ok := examples.Lookup(args[0])
				if !ok {
					return nil, fmt.Errorf("unknown example %q (have %v)", args[0], examples.Names())
				}
				detail := ThreadDetail{ID: conv.ID().String(), Title: conv.Label, Messages: make([]MessageData, 0, len(conv.Messages))}
				for _, m := range conv.Messages {
					detail.Messages = append(detail.Messages, MessageData{Author: m.Author.String(), Content: m.Content})
				}
				if !opts.jsonOut {
					printTranscript(opts.out, conv.Label, conv.Messages, 100, render.ModeMarkdown)
				}
				return detail, nil
			})
		},
	})
	return cmd
}
