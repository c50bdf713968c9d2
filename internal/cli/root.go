// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree. Streams default to the process's
// standard streams.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "threadchat",
		Short: "Chat with an assistant across persistent threads",
		Long: `threadchat keeps several conversations with a remote assistant,
saves them between runs, and names each thread from its first exchange.

Run without a subcommand to open the full-screen chat.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureColors()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.threadchat/config.toml)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep conversations in memory only")
	flags.StringVar(&opts.endpoint, "endpoint", "", "assistant endpoint URL")
	flags.BoolVar(&opts.jsonOut, "json", false, "machine-readable output where supported")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "also log to stderr")

	root.AddCommand(
		newChatCommand(opts),
		newThreadsCommand(opts),
		newExportCommand(opts),
		newClearCommand(opts),
		newExamplesCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

// withApp opens the application for one command and closes it afterwards.
func withApp(opts *globalOptions, fn func(a *app) error) (err error) {
	a, err := newApp(opts, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
