// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// TYPES
// =============================================================================

// Mode selects how plain-text assistant content is formatted.
type Mode string

const (
	// ModeMarkdown parses assistant text as Markdown.
	ModeMarkdown Mode = "markdown"

	// ModeLegacy applies the line-based substitution rules.
	ModeLegacy Mode = "legacy"
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMarkdown, "":
		return ModeMarkdown, nil
	case ModeLegacy:
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want markdown or legacy)", s)
	}
}

// FragmentKind records which path produced a Fragment.
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentMarkup
	FragmentMarkdown
	FragmentLegacy
)

// String returns a short name for the kind.
func (k FragmentKind) String() string {
	switch k {
	case FragmentText:
		return "text"
	case FragmentMarkup:
		return "markup"
	case FragmentMarkdown:
		return "markdown"
	case FragmentLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Fragment is sanitised HTML ready to be placed in a page.
type Fragment struct {
	Kind FragmentKind
	HTML string
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer converts message content into Fragments. It is safe for
// concurrent use.
type Renderer struct {
	mode   Mode
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMode selects the plain-text formatting mode.
func WithMode(mode Mode) Option {
	return func(r *Renderer) {
		r.mode = mode
	}
}

// New creates a renderer. Markdown mode is the default.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		mode:   ModeMarkdown,
		md:     newMarkdown(),
		policy: newPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the configured plain-text mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Render converts one message's content.
func (r *Renderer) Render(content string, isUser bool) Fragment {
	if isUser {
		return Fragment{Kind: FragmentText, HTML: escapeText(content)}
	}
	if model.LooksLikeMarkup(content) {
		return Fragment{Kind: FragmentMarkup, HTML: r.policy.Sanitize(content)}
	}
	if r.mode == ModeLegacy {
		return Fragment{Kind: FragmentLegacy, HTML: r.policy.Sanitize(Legacy(content))}
	}
	out, err := r.markdown(content)
	if err != nil {
		// Fall back to literal text rather than dropping the reply.
		return Fragment{Kind: FragmentText, HTML: escapeText(content)}
	}
	return Fragment{Kind: FragmentMarkdown, HTML: r.policy.Sanitize(out)}
}

// RenderMessage is Render for a stored message.
func (r *Renderer) RenderMessage(m model.Message) Fragment {
	return r.Render(m.Content, m.IsUser())
}

// Sanitize applies the output policy to arbitrary markup.
func (r *Renderer) Sanitize(markup string) string {
	return r.policy.Sanitize(markup)
}

// escapeText renders literal text: every markup character is escaped and
// line breaks are kept.
func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
