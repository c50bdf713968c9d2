// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/assistant"
	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/storage"
	"github.com/jeranaias/threadchat/internal/title"
)

// Fixed assistant replies.
const (
	ErrorReply   = "Error: Unable to reach assistant."
	EmptyReply   = "No response from assistant."
	ClearPrompt  = "Are you sure you want to clear all conversations? This cannot be undone."
	backfillSize = 4
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrExampleMode is returned by SendMessage while an example is shown.
	ErrExampleMode = errors.New("an example conversation is shown; start or select a thread to send messages")

	// ErrRequestInFlight is returned by SendMessage when the active thread
	// is still waiting for its previous reply.
	ErrRequestInFlight = errors.New("a reply is still pending for this thread")

	// ErrUnknownThread is returned when selecting an ID that is not indexed.
	ErrUnknownThread = errors.New("unknown thread")

	// ErrUnknownExample is returned by ViewExample for an unknown name.
	ErrUnknownExample = errors.New("unknown example")

	// ErrNotStarted is returned by operations that need Start to have run.
	ErrNotStarted = errors.New("controller not started")
)

// Replier sends a message to the assistant endpoint.
type Replier interface {
	Send(ctx context.Context, req assistant.Request) (string, error)
}

// TitleGenerator produces thread titles.
type TitleGenerator interface {
	Generate(ctx context.Context, msgs []model.Message) string
	Backfill(ctx context.Context, st *model.State, limit int) map[model.ThreadID]string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Config collects the controller's collaborators. Store, Replier and
// Renderer are required.
type Config struct {
	Store    *storage.Store
	Replier  Replier
	Titles   TitleGenerator
	Renderer *render.Renderer
	Display  Display
	Logger   *zap.Logger

	// TitleBackfill regenerates missing titles when the controller starts.
	TitleBackfill bool
}

// Controller is the chat state machine: which thread is active, and whether
// an example is being viewed instead.
type Controller struct {
	store    *storage.Store
	replier  Replier
	titles   TitleGenerator
	renderer *render.Renderer
	display  Display
	logger   *zap.Logger
	backfill bool

	mu      sync.Mutex
	state   *model.State
	example string // name of the example on show, "" when none
	titled  map[model.ThreadID]bool
	saveErr error
	pending bool // a save was deferred while an example was shown

	requests *inflight
}

// New creates a controller. Call Start before anything else.
func New(cfg Config) *Controller {
	c := &Controller{
		store:    cfg.Store,
		replier:  cfg.Replier,
		titles:   cfg.Titles,
		renderer: cfg.Renderer,
		display:  cfg.Display,
		logger:   cfg.Logger,
		backfill: cfg.TitleBackfill,
		titled:   make(map[model.ThreadID]bool),
		requests: newInflight(),
	}
	if c.display == nil {
		c.display = NopDisplay{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.renderer == nil {
		c.renderer = render.New()
	}
	return c
}

// SetDisplay replaces the display. Front ends that need the controller to
// build their display call this after New.
func (c *Controller) SetDisplay(d Display) {
	if d == nil {
		d = NopDisplay{}
	}
	c.mu.Lock()
	c.display = d
	c.mu.Unlock()
}

// Start loads persisted state and shows the active thread. A storage error
// is logged and the controller carries on in memory.
func (c *Controller) Start(ctx context.Context) error {
	res, err := c.store.Load()
	if err != nil {
		c.logger.Warn("storage unavailable, continuing in memory", zap.Error(err))
	}
	if res.State == nil {
		return err
	}

	c.mu.Lock()
	c.state = res.State
	if res.Fresh || res.Unavailable {
		c.state.AppendMessage(c.state.Active, examples.Welcome, model.AuthorAssistant)
		c.persistLocked()
	}
	c.mu.Unlock()

	c.logger.Info("controller started",
		zap.Bool("fresh", res.Fresh),
		zap.Bool("repaired", res.Repaired),
		zap.Bool("unavailable", res.Unavailable),
		zap.Int("threads", res.State.Len()))

	c.refresh()

	if c.backfill && !res.Fresh && !res.Unavailable {
		c.BackfillTitles(ctx)
	}
	return nil
}

// =============================================================================
// SENDING
// =============================================================================

// SendMessage sends text from the active thread and files the reply. Blank
// input is ignored. Endpoint and storage failures are not returned: the
// thread gets ErrorReply and persistence errors are logged.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return ErrNotStarted
	}
	if c.example != "" {
		c.mu.Unlock()
		return ErrExampleMode
	}
	id := c.state.Active
	reqCtx, gen, ok := c.requests.start(ctx, id)
	if !ok {
		c.mu.Unlock()
		return ErrRequestInFlight
	}

	c.state.AppendMessage(id, text, model.AuthorUser)
	c.persistLocked()
	userMsg := model.NewUserMessage(text)
	display := c.display
	c.mu.Unlock()

	display.ShowMessage(userMsg, c.renderer.RenderMessage(userMsg))
	display.SetLoading(id, true)

	reply, err := c.replier.Send(reqCtx, assistant.Request{Message: text, ThreadID: id.String()})
	c.requests.finish(id, gen)
	display.SetLoading(id, false)

	if err != nil {
		if assistant.IsCanceled(err) {
			c.logger.Info("request cancelled", zap.String("thread", id.String()))
			return nil
		}
		if assistant.IsUnavailable(err) {
			c.logger.Warn("assistant unavailable",
				zap.String("thread", id.String()),
				zap.Error(err))
		} else {
			c.logger.Error("request failed",
				zap.String("thread", id.String()),
				zap.Error(err))
		}
		reply = ErrorReply
	} else if reply == "" {
		reply = EmptyReply
	}

	c.mu.Lock()
	if !c.state.Has(id) {
		// The thread was cleared while the request was out.
		c.mu.Unlock()
		c.logger.Info("discarding reply for removed thread", zap.String("thread", id.String()))
		return nil
	}
	c.state.AppendMessage(id, reply, model.AuthorAssistant)
	c.persistLocked()

	visible := c.example == "" && c.state.Active == id
	msgs := c.state.Messages(id)
	wantTitle := err == nil && c.titles != nil && !c.titled[id] &&
		title.ShouldGenerate(msgs, c.state.Titles[id])
	if wantTitle {
		c.titled[id] = true
	}
	display = c.display
	c.mu.Unlock()

	if visible {
		replyMsg := model.NewAssistantMessage(reply)
		display.ShowMessage(replyMsg, c.renderer.RenderMessage(replyMsg))
	}

	if wantTitle {
		c.generateTitle(ctx, id, msgs)
	}
	c.showThreads()
	return nil
}

// generateTitle asks for a title and stores it if the thread still exists
// and has not been named meanwhile.
func (c *Controller) generateTitle(ctx context.Context, id model.ThreadID, msgs []model.Message) {
	t := c.titles.Generate(ctx, msgs)
	if t == model.DefaultTitle {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Has(id) || c.state.Title(id) != model.DefaultTitle {
		return
	}
	c.state.SetTitle(id, t)
	c.persistLocked()
	c.logger.Debug("thread titled", zap.String("thread", id.String()), zap.String("title", t))
}

// BackfillTitles generates titles for every thread that is due one.
func (c *Controller) BackfillTitles(ctx context.Context) {
	if c.titles == nil {
		return
	}
	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return
	}
	snap := c.state.Clone()
	for _, id := range snap.Index {
		c.titled[id] = true
	}
	c.mu.Unlock()

	found := c.titles.Backfill(ctx, snap, backfillSize)
	if len(found) == 0 {
		return
	}

	c.mu.Lock()
	for id, t := range found {
		if c.state.Has(id) && c.state.Title(id) == model.DefaultTitle {
			c.state.SetTitle(id, t)
		}
	}
	c.persistLocked()
	c.mu.Unlock()

	c.logger.Info("backfilled titles", zap.Int("count", len(found)))
	c.showThreads()
}

// =============================================================================
// THREAD NAVIGATION
// =============================================================================

// NewThread leaves example mode, creates a thread with the welcome message
// and makes it active.
func (c *Controller) NewThread() (model.ThreadID, error) {
	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return "", ErrNotStarted
	}
	c.example = ""
	id := c.state.CreateThread()
	c.persistLocked()
	c.state.AppendMessage(id, examples.Welcome, model.AuthorAssistant)
	c.persistLocked()
	c.mu.Unlock()

	c.logger.Debug("thread created", zap.String("thread", id.String()))
	c.refresh()
	return id, nil
}

// SelectThread leaves example mode and shows thread id.
func (c *Controller) SelectThread(id model.ThreadID) error {
	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return ErrNotStarted
	}
	if !c.state.Has(id) {
		c.mu.Unlock()
		return ErrUnknownThread
	}
	c.example = ""
	c.state.SetActive(id)
	c.persistLocked()
	c.mu.Unlock()

	c.refresh()
	return nil
}

// ClearAll discards every thread after confirm approves it, cancelling any
// outstanding requests, and starts over with one fresh thread. It reports
// whether the clear happened.
func (c *Controller) ClearAll(confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ClearPrompt) {
		return false, nil
	}

	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return false, ErrNotStarted
	}
	cancelled := c.requests.cancelAll()
	if err := c.store.ClearAll(); err != nil {
		c.logger.Warn("failed to clear storage", zap.Error(err))
	}
	c.example = ""
	c.titled = make(map[model.ThreadID]bool)
	id := c.state.Clear()
	c.state.AppendMessage(id, examples.Welcome, model.AuthorAssistant)
	c.persistLocked()
	c.mu.Unlock()

	c.logger.Info("cleared all conversations", zap.Int("cancelled_requests", cancelled))
	c.refresh()
	return true, nil
}

// ViewExample shows a built-in example conversation. Nothing is persisted
// and the active thread is left as it was.
func (c *Controller) ViewExample(name string) error {
	conv, ok := examples.Lookup(name)
	if !ok {
		return ErrUnknownExample
	}

	c.mu.Lock()
	c.example = conv.Name
	display := c.display
	c.mu.Unlock()

	display.Clear()
	display.SetInput(false, examples.Placeholder)
	for _, m := range conv.Messages {
		display.ShowMessage(m, c.renderer.RenderMessage(m))
	}
	c.showThreads()
	return nil
}

// Reload replaces the in-memory state with what is persisted, for use when
// another process has changed the store. The example view, if any, is kept.
// When the store cannot be read the current state is kept.
func (c *Controller) Reload() error {
	res, err := c.store.Load()
	if err != nil {
		c.logger.Warn("reload failed", zap.Error(err))
		if res.State == nil || res.Unavailable {
			return err
		}
	}

	c.mu.Lock()
	c.state = res.State
	if res.Fresh {
		c.state.AppendMessage(c.state.Active, examples.Welcome, model.AuthorAssistant)
		c.persistLocked()
	}
	inExample := c.example != ""
	c.mu.Unlock()

	if inExample {
		c.showThreads()
		return nil
	}
	c.refresh()
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Threads returns the thread list, newest first. Outside example mode
// exactly one item is active.
func (c *Controller) Threads() []ThreadItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadsLocked()
}

func (c *Controller) threadsLocked() []ThreadItem {
	if c.state == nil {
		return nil
	}
	items := make([]ThreadItem, 0, len(c.state.Index))
	for _, id := range c.state.Index {
		items = append(items, ThreadItem{
			ID:     id,
			Title:  c.state.Title(id),
			Active: c.example == "" && id == c.state.Active,
			Busy:   c.requests.busy(id),
		})
	}
	return items
}

// Examples returns the example list.
func (c *Controller) Examples() []ExampleItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.examplesLocked()
}

func (c *Controller) examplesLocked() []ExampleItem {
	all := examples.All()
	items := make([]ExampleItem, 0, len(all))
	for _, e := range all {
		items = append(items, ExampleItem{Name: e.Name, Label: e.Label, Active: e.Name == c.example})
	}
	return items
}

// ActiveThread returns the active thread ID.
func (c *Controller) ActiveThread() model.ThreadID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return ""
	}
	return c.state.Active
}

// ActiveMessages returns the messages currently on show: the example's when
// one is being viewed, otherwise the active thread's.
func (c *Controller) ActiveMessages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.example != "" {
		conv, _ := examples.Lookup(c.example)
		return conv.Messages
	}
	if c.state == nil {
		return nil
	}
	return c.state.Messages(c.state.Active)
}

// Messages returns one thread's messages.
func (c *Controller) Messages(id model.ThreadID) ([]model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil, ErrNotStarted
	}
	if !c.state.Has(id) {
		return nil, ErrUnknownThread
	}
	return c.state.Messages(id), nil
}

// Title returns one thread's title.
func (c *Controller) Title(id model.ThreadID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return model.DefaultTitle
	}
	return c.state.Title(id)
}

// ExampleMode reports whether an example is being viewed, and which.
func (c *Controller) ExampleMode() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.example, c.example != ""
}

// Busy reports whether thread id is waiting for a reply.
func (c *Controller) Busy(id model.ThreadID) bool {
	return c.requests.busy(id)
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() *model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return model.NewState()
	}
	return c.state.Clone()
}

// Flush writes any save deferred while an example was shown. Front ends
// call it before exiting.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || !c.pending {
		return nil
	}
	c.saveLocked()
	return c.saveErr
}

// LastSaveError returns the most recent persistence failure, or nil if the
// last save succeeded.
func (c *Controller) LastSaveError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveErr
}

// Renderer returns the HTML renderer in use.
func (c *Controller) Renderer() *render.Renderer {
	return c.renderer
}

// =============================================================================
// INTERNALS
// =============================================================================

// persistLocked saves the whole state. While an example is shown nothing is
// written; the save is deferred until the example is left or Flush runs.
func (c *Controller) persistLocked() {
	if c.example != "" {
		c.pending = true
		return
	}
	c.saveLocked()
}

// saveLocked writes the state. Failures are logged and kept for
// LastSaveError; the caller continues in memory.
func (c *Controller) saveLocked() {
	c.pending = false
	err := c.store.Save(c.state)
	switch {
	case err != nil && c.saveErr == nil && storage.IsQuotaExceeded(err):
		c.logger.Error("storage quota exceeded, new messages are kept in memory only", zap.Error(err))
	case err != nil && c.saveErr == nil:
		c.logger.Warn("failed to persist state", zap.Error(err))
	case err == nil && c.saveErr != nil:
		c.logger.Info("persistence recovered")
	}
	c.saveErr = err
}

// refresh redraws the active thread, the input surface and the lists.
func (c *Controller) refresh() {
	c.mu.Lock()
	display := c.display
	id := c.state.Active
	msgs := c.state.Messages(id)
	threads := c.threadsLocked()
	exs := c.examplesLocked()
	c.mu.Unlock()

	display.Clear()
	display.SetInput(true, DefaultPlaceholder)
	for _, m := range msgs {
		display.ShowMessage(m, c.renderer.RenderMessage(m))
	}
	display.SetLoading(id, c.requests.busy(id))
	display.ShowThreads(threads, exs)
}

func (c *Controller) showThreads() {
	c.mu.Lock()
	display := c.display
	threads := c.threadsLocked()
	exs := c.examplesLocked()
	c.mu.Unlock()
	display.ShowThreads(threads, exs)
}
