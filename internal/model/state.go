// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// DefaultTitle is shown for any thread that has not been given a generated title.
const DefaultTitle = "New Chat"

// =============================================================================
// STATE
// =============================================================================

// State is the complete conversation state of the application.
//
// Index lists thread IDs, most recently created first. Every indexed ID has an
// entry in Conversations and Titles, and Active always references an indexed
// thread. State is not safe for concurrent use; the chat controller guards it.
type State struct {
	Index         []ThreadID
	Conversations map[ThreadID][]Message
	Titles        map[ThreadID]string
	Active        ThreadID
}

// NewState returns an empty state with no threads.
func NewState() *State {
	return &State{
		Index:         []ThreadID{},
		Conversations: make(map[ThreadID][]Message),
		Titles:        make(map[ThreadID]string),
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateThread adds a thread with an empty log and the default title, puts it
// at the front of the index and makes it active.
func (s *State) CreateThread() ThreadID {
	s.ensureMaps()

	id := NewThreadID()
	for s.known(id) {
		id = NewThreadID()
	}

	s.Conversations[id] = []Message{}
	s.Titles[id] = DefaultTitle
	s.Index = append([]ThreadID{id}, s.Index...)
	s.Active = id
	return id
}

// AppendMessage adds a message to the end of a thread's log. An unknown ID
// gets an empty log created for it first.
func (s *State) AppendMessage(id ThreadID, content string, author Author) {
	s.ensureMaps()
	s.Conversations[id] = append(s.Conversations[id], Message{Content: content, Author: author})
}

// SetTitle replaces a thread's title. Empty titles are ignored.
func (s *State) SetTitle(id ThreadID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	s.ensureMaps()
	s.Titles[id] = title
}

// SetActive moves the active pointer. Membership is the caller's concern.
func (s *State) SetActive(id ThreadID) {
	s.Active = id
}

// Clear discards every thread and starts over with one fresh active thread.
func (s *State) Clear() ThreadID {
	s.Index = []ThreadID{}
	s.Conversations = make(map[ThreadID][]Message)
	s.Titles = make(map[ThreadID]string)
	s.Active = ""
	return s.CreateThread()
}

// =============================================================================
// QUERIES
// =============================================================================

// Messages returns a copy of a thread's log.
func (s *State) Messages(id ThreadID) []Message {
	msgs := s.Conversations[id]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Title returns a thread's title, or DefaultTitle when none is set.
func (s *State) Title(id ThreadID) string {
	if t, ok := s.Titles[id]; ok && strings.TrimSpace(t) != "" {
		return t
	}
	return DefaultTitle
}

// Has reports whether id is in the thread index.
func (s *State) Has(id ThreadID) bool {
	for _, known := range s.Index {
		if known == id {
			return true
		}
	}
	return false
}

// Len returns the number of indexed threads.
func (s *State) Len() int {
	return len(s.Index)
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Index:         make([]ThreadID, len(s.Index)),
		Conversations: make(map[ThreadID][]Message, len(s.Conversations)),
		Titles:        make(map[ThreadID]string, len(s.Titles)),
		Active:        s.Active,
	}
	copy(c.Index, s.Index)
	for id, msgs := range s.Conversations {
		c.Conversations[id] = append(make([]Message, 0, len(msgs)), msgs...)
	}
	for id, t := range s.Titles {
		c.Titles[id] = t
	}
	return c
}

// Normalize repairs the structural invariants of a decoded state and reports
// whether anything had to change. Duplicate and empty IDs are dropped from the
// index, missing logs and titles are filled in, and a dangling active pointer
// falls back to the newest thread.
func (s *State) Normalize() bool {
	s.ensureMaps()
	changed := false

	seen := make(map[ThreadID]bool, len(s.Index))
	index := make([]ThreadID, 0, len(s.Index))
	for _, id := range s.Index {
		if id.IsZero() || seen[id] {
			changed = true
			continue
		}
		seen[id] = true
		index = append(index, id)
	}
	s.Index = index

	for _, id := range s.Index {
		if _, ok := s.Conversations[id]; !ok {
			s.Conversations[id] = []Message{}
			changed = true
		}
		if t, ok := s.Titles[id]; !ok || strings.TrimSpace(t) == "" {
			s.Titles[id] = DefaultTitle
			changed = true
		}
	}

	if len(s.Index) > 0 && !seen[s.Active] {
		s.Active = s.Index[0]
		changed = true
	}
	return changed
}

// known reports whether id appears anywhere in the state, indexed or not.
func (s *State) known(id ThreadID) bool {
	if _, ok := s.Conversations[id]; ok {
		return true
	}
	if _, ok := s.Titles[id]; ok {
		return true
	}
	return s.Has(id)
}

func (s *State) ensureMaps() {
	if s.Conversations == nil {
		s.Conversations = make(map[ThreadID][]Message)
	}
	if s.Titles == nil {
		s.Titles = make(map[ThreadID]string)
	}
}
