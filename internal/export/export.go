// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// Errors returned by exporters.
var (
	ErrNilThread     = errors.New("thread is nil")
	ErrEmptyThread   = errors.New("thread has no messages")
	ErrUnknownThread = errors.New("unknown thread")
	ErrUnknownFormat = errors.New("unsupported export format")
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Thread is one conversation prepared for export.
type Thread struct {
	ID       string
	Title    string
	Messages []model.Message
}

// FromState copies thread id out of st.
func FromState(st *model.State, id model.ThreadID) (*Thread, error) {
	if st == nil || !st.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownThread, id)
	}
	return &Thread{
		ID:       id.String(),
		Title:    st.Title(id),
		Messages: st.Messages(id),
	}, nil
}

// FromExample wraps a built-in example conversation.
func FromExample(conv examples.Conversation) *Thread {
	return &Thread{
		ID:       conv.ID().String(),
		Title:    conv.Label,
		Messages: conv.Messages,
	}
}

func (t *Thread) validate() error {
	if t == nil {
		return ErrNilThread
	}
	if len(t.Messages) == 0 {
		return ErrEmptyThread
	}
	return nil
}

// Exporter defines the interface for thread exporters.
type Exporter interface {
	// Export converts a thread to the target format and returns the content.
	Export(thread *Thread) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved (default: ".").
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata adds a header with the title, thread ID and export time.
	IncludeMetadata bool

	// Theme for HTML export ("light" or "dark", default "light").
	Theme string

	// CodeStyle is the chroma style embedded in HTML exports.
	CodeStyle string

	// Renderer formats assistant replies for HTML export. Nil means a
	// markdown renderer.
	Renderer *render.Renderer

	// Now stamps the export; nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "light",
		CodeStyle:       render.DefaultCodeStyle,
	}
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"html", "md", "json"}
}

// ExportToFile exports a thread to a file using the specified exporter.
// Returns the output file path or an error.
func ExportToFile(thread *Thread, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(thread)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(thread.Title),
		opts.now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Fprintf(os.Stderr, "Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "chat"
	}
	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
