// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package title generates short thread headings by asking the assistant
// endpoint to summarise a conversation.
package title

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/threadchat/internal/assistant"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// Prompt prefixes the flattened transcript sent for summarisation.
const Prompt = "Summarise this chat into 5-6 words to be used as a heading: "

// Sender sends one message to the endpoint.
type Sender interface {
	Send(ctx context.Context, req assistant.Request) (string, error)
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator produces titles. A failed generation is never an error; it
// yields model.DefaultTitle.
type Generator struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used to record failed attempts.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTimeout bounds each generation request. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// New creates a generator that sends through sender.
func New(sender Sender, opts ...Option) *Generator {
	g := &Generator{
		sender:  sender,
		logger:  zap.NewNop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate summarises msgs into a heading.
func (g *Generator) Generate(ctx context.Context, msgs []model.Message) string {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reply, err := g.sender.Send(ctx, assistant.Request{Message: Prompt + Flatten(msgs)})
	if err != nil {
		g.logger.Warn("title generation failed", zap.Error(err))
		return model.DefaultTitle
	}

	title := Clean(reply)
	if title == "" {
		return model.DefaultTitle
	}
	return title
}

// Flatten renders msgs as a plain transcript, one "User: " or "Assistant: "
// entry per message separated by blank lines. Assistant markup is reduced to
// its text.
func Flatten(msgs []model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		content := m.Content
		if !m.IsUser() && strings.Contains(content, "<") {
			content = render.PlainText(content)
		}
		parts = append(parts, m.Author.DisplayName()+": "+content)
	}
	return strings.Join(parts, "\n\n")
}

// Clean strips control sequences and quote characters from a reply, then
// trims it.
func Clean(reply string) string {
	reply = render.StripControl(reply)
	reply = strings.NewReplacer(`"`, "", "'", "").Replace(reply)
	return strings.TrimSpace(reply)
}

// ShouldGenerate reports whether a thread is due a title: it has grown past
// its welcome message and still carries the default title.
func ShouldGenerate(msgs []model.Message, title string) bool {
	if len(msgs) <= 1 {
		return false
	}
	title = strings.TrimSpace(title)
	return title == "" || title == model.DefaultTitle
}

// =============================================================================
// BACKFILL
// =============================================================================

// Backfill generates titles for every thread in st that is due one, running
// at most limit requests at a time. It returns only the titles that came
// back different from the default; st is not modified.
func (g *Generator) Backfill(ctx context.Context, st *model.State, limit int) map[model.ThreadID]string {
	if limit <= 0 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		titles = make(map[model.ThreadID]string)
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, id := range st.Index {
		msgs := st.Messages(id)
		if !ShouldGenerate(msgs, st.Titles[id]) {
			continue
		}
		id := id
		eg.Go(func() error {
			t := g.Generate(egCtx, msgs)
			if t == model.DefaultTitle {
				return nil
			}
			mu.Lock()
			titles[id] = t
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return titles
}
