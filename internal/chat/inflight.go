// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// IN-FLIGHT REQUESTS (THREAD-SAFE)
// =============================================================================

// inflight tracks the cancel function of each thread's outstanding request.
// Entries carry a generation so that a request finishing after ClearAll
// cannot remove the entry of a newer request.
type inflight struct {
	mu      sync.Mutex
	next    uint64
	entries map[model.ThreadID]inflightEntry
}

type inflightEntry struct {
	gen    uint64
	cancel context.CancelFunc
}

func newInflight() *inflight {
	return &inflight{entries: make(map[model.ThreadID]inflightEntry)}
}

// start registers a request for id and returns its context and generation.
// ok is false when id already has a request outstanding.
func (f *inflight) start(parent context.Context, id model.ThreadID) (ctx context.Context, gen uint64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.entries[id]; busy {
		return nil, 0, false
	}
	ctx, cancel := context.WithCancel(parent)
	f.next++
	f.entries[id] = inflightEntry{gen: f.next, cancel: cancel}
	return ctx, f.next, true
}

// finish releases the request registered as gen, if it is still registered.
func (f *inflight) finish(id model.ThreadID, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[id]; ok && e.gen == gen {
		e.cancel()
		delete(f.entries, id)
	}
}

// busy reports whether id has a request outstanding.
func (f *inflight) busy(id model.ThreadID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[id]
	return ok
}

// cancelAll aborts every outstanding request.
func (f *inflight) cancelAll() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.entries)
	for id, e := range f.entries {
		e.cancel()
		delete(f.entries, id)
	}
	return n
}
