// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/export"
	"github.com/jeranaias/threadchat/internal/model"
)

type exportFlags struct {
	format   string
	outDir   string
	theme    string
	open     bool
	noHeader bool
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export <number|id|example:name>",
		Short: "Export a thread to HTML, Markdown or JSON",
		Long: `Export one thread to a file.

The thread is named by its number in "threads list", a unique ID prefix,
or example:<name> for a built-in example.`,
		Example: `  threadchat export 1 --format html --out ~/exports
  threadchat export example:aws --format md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return exportThread(a, opts, f, args[0])
			})
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "md", "output format: "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringVarP(&f.outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&f.theme, "theme", "light", "HTML theme: light or dark")
	cmd.Flags().BoolVar(&f.open, "open", false, "open the file after exporting")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "omit title and export metadata")
	return cmd
}

func exportThread(a *app, opts *globalOptions, f exportFlags, arg string) error {
	return outputJSON(opts.out, opts.jsonOut, "export", func() (interface{}, error) {
		thread, err := resolveExportThread(a, arg)
		if err != nil {
			return nil, err
		}

		eo := export.DefaultOptions()
		eo.OutputDir = f.outDir
		eo.OpenAfterExport = f.open
		eo.IncludeMetadata = !f.noHeader
		eo.Theme = f.theme
		eo.CodeStyle = a.cfg.Render.CodeStyle
		eo.Renderer = a.renderer

		exporter, err := export.ForFormat(f.format, eo)
		if err != nil {
			return nil, err
		}
		path, err := export.ExportToFile(thread, exporter, eo)
		if err != nil {
			return nil, err
		}

		a.logger.Info("thread exported",
			zap.String("thread", thread.ID),
			zap.String("format", f.format),
			zap.String("path", path))
		if !opts.jsonOut {
			fmt.Fprintf(opts.out, "%s %s\n", SuccessStyle.Render("Exported to"), path)
		}
		return map[string]string{"path": path, "mime_type": exporter.MimeType()}, nil
	})
}

// resolveExportThread finds a saved thread or an example by argument.
func resolveExportThread(a *app, arg string) (*export.Thread, error) {
	if examples.IsExampleID(model.ThreadID(arg)) {
		conv, ok := examples.Lookup(strings.TrimPrefix(arg, examples.IDPrefix))
		if !ok {
			return nil, fmt.Errorf("unknown example %q", arg)
		}
		return export.FromExample(conv), nil
	}

	st, err := loadState(a)
	if err != nil {
		return nil, err
	}
	id, err := resolveThread(arg, threadItems(st))
	if err != nil {
		return nil, err
	}
	return export.FromState(st, id)
}
