// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/patrickmn/go-cache"

	"github.com/jeranaias/threadchat/internal/model"
)

// Terminal styles accepted by NewTerminalRenderer.
const (
	TerminalStyleAuto  = "auto"
	TerminalStyleDark  = "dark"
	TerminalStyleLight = "light"
	TerminalStyleNoTTY = "notty"
)

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

// TerminalRenderer renders messages as ANSI text. Markdown output is cached
// by content hash since the same history is re-rendered on every redraw.
type TerminalRenderer struct {
	mu    sync.Mutex
	tr    *glamour.TermRenderer
	cache *cache.Cache
	width int
	mode  Mode
}

// TerminalOption configures a TerminalRenderer.
type TerminalOption func(*TerminalRenderer)

// WithTerminalMode selects how plain assistant text is shown: Markdown via
// glamour, or the legacy substitution rules flattened to text.
func WithTerminalMode(mode Mode) TerminalOption {
	return func(t *TerminalRenderer) {
		if mode != "" {
			t.mode = mode
		}
	}
}

// NewTerminalRenderer creates a renderer wrapping at width columns. style is
// one of the TerminalStyle constants; "auto" picks dark or light from the
// terminal background.
func NewTerminalRenderer(width int, style string, opts ...TerminalOption) (*TerminalRenderer, error) {
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(ResolveStyle(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	t := &TerminalRenderer{
		tr:    tr,
		cache: cache.New(30*time.Minute, 10*time.Minute),
		width: width,
		mode:  ModeMarkdown,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ResolveStyle maps a configured style to a concrete glamour style. "auto"
// queries the terminal background, so call it before a full-screen program
// takes over the terminal.
func ResolveStyle(style string) string {
	switch strings.ToLower(style) {
	case TerminalStyleDark, TerminalStyleLight, TerminalStyleNoTTY:
		return strings.ToLower(style)
	}
	if termenv.HasDarkBackground() {
		return TerminalStyleDark
	}
	return TerminalStyleLight
}

// Width returns the wrap width.
func (t *TerminalRenderer) Width() int {
	return t.width
}

// Mode returns how plain assistant text is rendered.
func (t *TerminalRenderer) Mode() Mode {
	return t.mode
}

// Render converts one message for the terminal. User text is returned as
// typed; markup is flattened to plain text; everything else follows the
// renderer's mode. Control sequences are stripped from every path.
func (t *TerminalRenderer) Render(content string, isUser bool) string {
	content = StripControl(content)
	if isUser {
		return content
	}
	if model.LooksLikeMarkup(content) {
		return PlainText(content)
	}
	if t.mode == ModeLegacy {
		return ansi.Wrap(PlainText(Legacy(content)), t.width, "")
	}

	key := contentKey(content)
	if cached, ok := t.cache.Get(key); ok {
		return cached.(string)
	}

	t.mu.Lock()
	out, err := t.tr.Render(content)
	t.mu.Unlock()
	if err != nil {
		return content
	}
	out = strings.TrimRight(out, "\n")
	t.cache.Set(key, out, cache.DefaultExpiration)
	return out
}

// RenderMessage is Render for a stored message.
func (t *TerminalRenderer) RenderMessage(m model.Message) string {
	return t.Render(m.Content, m.IsUser())
}

func contentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
