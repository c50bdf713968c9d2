// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func sampleThread() *Thread {
	return &Thread{
		ID:    "abc123defg",
		Title: "Deploying: a Go service",
		Messages: []model.Message{
			model.NewAssistantMessage(examples.Welcome),
			model.NewUserMessage("How do I <deploy>?"),
			model.NewAssistantMessage("Use **ECS**.\n\n```go\nfmt.Println(\"hi\")\n```"),
		},
	}
}

func TestFromState(t *testing.T) {
	st := model.NewState()
	id := st.CreateThread()
	st.AppendMessage(id, "hello", model.AuthorUser)
	st.SetTitle(id, "Greeting")

	thread, err := FromState(st, id)
	require.NoError(t, err)
	assert.Equal(t, "Greeting", thread.Title)
	assert.Len(t, thread.Messages, 1)

	// The export holds a copy.
	thread.Messages[0].Content = "changed"
	assert.Equal(t, "hello", st.Messages(id)[0].Content)

	_, err = FromState(st, "missing")
	assert.True(t, errors.Is(err, ErrUnknownThread))
}

func TestFromExample(t *testing.T) {
	conv, ok := examples.Lookup("aws")
	require.True(t, ok)

	thread := FromExample(conv)
	assert.Equal(t, conv.Label, thread.Title)
	assert.True(t, strings.HasPrefix(thread.ID, examples.IDPrefix))
	assert.Equal(t, len(conv.Messages), len(thread.Messages))
}

func TestHTMLExporter(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = fixedNow
	out, err := NewHTMLExporter(opts).Export(sampleThread())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>Deploying: a Go service</title>")
	assert.Contains(t, page, "class=\"light-theme\"")
	assert.Contains(t, page, "2025-03-14T09:26:53Z")
	assert.Contains(t, page, "<strong>ECS</strong>")
	assert.Contains(t, page, "How do I &lt;deploy&gt;?", "user text must be escaped")
	assert.NotContains(t, page, "<deploy>")
	assert.Contains(t, page, "👋", "welcome markup is kept")
	assert.Contains(t, page, "chroma", "code style sheet is embedded")
	assert.Equal(t, 2, strings.Count(page, "assistant-message")-strings.Count(page, ".assistant-message"))
}

func TestHTMLExporter_LegacyRenderer(t *testing.T) {
	opts := DefaultOptions()
	opts.Renderer = render.New(render.WithMode(render.ModeLegacy))
	opts.Theme = "dark"
	out, err := NewHTMLExporter(opts).Export(&Thread{
		Title:    "Steps",
		Messages: []model.Message{model.NewAssistantMessage("1. one\n2. two")},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<strong>1.</strong>")
	assert.Contains(t, string(out), "class=\"dark-theme\"")
}

func TestMarkdownExporter(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = fixedNow
	out, err := NewMarkdownExporter(opts).Export(sampleThread())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: \"Deploying: a Go service\"\n"), md)
	assert.Contains(t, md, "# Deploying: a Go service")
	assert.Contains(t, md, "### User\n\nHow do I <deploy>?")
	assert.Contains(t, md, "```go\nfmt.Println(\"hi\")\n```")
	assert.NotContains(t, md, "<h3>", "markup is flattened")
	assert.Contains(t, md, "👋")
	assert.Equal(t, 3, strings.Count(md, "\n---\n\n"), "front matter close plus two separators")
}

func TestExporters_RejectEmpty(t *testing.T) {
	for _, e := range []Exporter{NewHTMLExporter(nil), NewMarkdownExporter(nil)} {
		_, err := e.Export(&Thread{Title: "x"})
		assert.ErrorIs(t, err, ErrEmptyThread)
		_, err = e.Export(nil)
		assert.ErrorIs(t, err, ErrNilThread)
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter().Export(&Thread{ID: "t1", Title: "Empty"})
	require.NoError(t, err)

	var decoded struct {
		ID       string            `json:"id"`
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "t1", decoded.ID)
	assert.NotNil(t, decoded.Messages)

	out, err = NewJSONExporter().Export(sampleThread())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"isUser": true`)
}

func TestForFormat(t *testing.T) {
	tests := map[string]string{
		"html":     ".html",
		"HTM":      ".html",
		"md":       ".md",
		"markdown": ".md",
		"json":     ".json",
	}
	for format, ext := range tests {
		e, err := ForFormat(format, nil)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.FileExtension(), format)
	}

	_, err := ForFormat("pdf", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = fixedNow

	path, err := ExportToFile(sampleThread(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_Deploying-_a_Go_service_20250314_092653.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### Assistant")
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":          "chat",
		"   ":       "chat",
		"a/b\\c:d":  "a-b-c-d",
		"New Chat":  "New_Chat",
		"tab\there": "tab_here",
		"bell\x07":  "bell-",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}
	assert.Equal(t, strings.Repeat("x", 50), sanitizeFilename(strings.Repeat("x", 80)))
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"line\nbreak"`, escapeYAML("line\nbreak"))
	assert.Equal(t, `"back\\slash"`, escapeYAML(`back\slash`))
}
