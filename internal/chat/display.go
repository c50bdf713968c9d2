// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// DefaultPlaceholder is the input prompt for a writable thread.
const DefaultPlaceholder = "Send a message..."

// ThreadItem is one entry of the thread list.
type ThreadItem struct {
	ID     model.ThreadID
	Title  string
	Active bool
	Busy   bool
}

// ExampleItem is one entry of the example list.
type ExampleItem struct {
	Name   string
	Label  string
	Active bool
}

// Display receives the controller's output.
type Display interface {
	// Clear empties the message area.
	Clear()

	// ShowMessage appends one message to the message area.
	ShowMessage(msg model.Message, frag render.Fragment)

	// SetLoading shows or hides the waiting indicator for a thread.
	SetLoading(thread model.ThreadID, loading bool)

	// SetInput enables or disables the input surface.
	SetInput(enabled bool, placeholder string)

	// ShowThreads replaces the thread and example lists.
	ShowThreads(threads []ThreadItem, examples []ExampleItem)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// =============================================================================
// NOP AND RECORDING DISPLAYS
// =============================================================================

// NopDisplay discards all output. Used by one-shot commands.
type NopDisplay struct{}

func (NopDisplay) Clear()                                     {}
func (NopDisplay) ShowMessage(model.Message, render.Fragment) {}
func (NopDisplay) SetLoading(model.ThreadID, bool)            {}
func (NopDisplay) SetInput(bool, string)                      {}
func (NopDisplay) ShowThreads([]ThreadItem, []ExampleItem)    {}

// Recorder is a Display that keeps what it was shown. It is safe for
// concurrent use.
type Recorder struct {
	mu          sync.Mutex
	Messages    []model.Message
	Fragments   []render.Fragment
	Loading     map[model.ThreadID]bool
	InputOn     bool
	Placeholder string
	Threads     []ThreadItem
	Examples    []ExampleItem
	Clears      int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Loading: make(map[model.ThreadID]bool), InputOn: true}
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = nil
	r.Fragments = nil
	r.Clears++
}

func (r *Recorder) ShowMessage(msg model.Message, frag render.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
	r.Fragments = append(r.Fragments, frag)
}

func (r *Recorder) SetLoading(thread model.ThreadID, loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Loading[thread] = loading
}

func (r *Recorder) SetInput(enabled bool, placeholder string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InputOn = enabled
	r.Placeholder = placeholder
}

func (r *Recorder) ShowThreads(threads []ThreadItem, examples []ExampleItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Threads = threads
	r.Examples = examples
}

// Shown returns a copy of the displayed messages.
func (r *Recorder) Shown() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Message(nil), r.Messages...)
}

// Input returns the input state.
func (r *Recorder) Input() (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.InputOn, r.Placeholder
}

// ThreadList returns the last thread list shown.
func (r *Recorder) ThreadList() []ThreadItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ThreadItem(nil), r.Threads...)
}
