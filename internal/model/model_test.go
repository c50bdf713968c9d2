// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadID(t *testing.T) {
	seen := make(map[ThreadID]bool)
	for i := 0; i < 500; i++ {
		id := NewThreadID()
		require.Len(t, id.String(), threadIDLength)
		assert.True(t, IsThreadID(id.String()), "generated id %q", id)
		assert.NotContains(t, id.String(), ":")
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestIsThreadID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc123", true},
		{"k3j2h1", true},
		{"", false},
		{"example:mongodb", false},
		{"ABC", false},
		{"a b", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsThreadID(tt.in))
		})
	}
}

func TestMessageJSON(t *testing.T) {
	data, err := json.Marshal([]Message{NewUserMessage("hi"), NewAssistantMessage("hello")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"content":"hi","isUser":true},{"content":"hello","isUser":false}]`, string(data))

	var msgs []Message
	require.NoError(t, json.Unmarshal([]byte(`[{"content":"x","isUser":true},{"content":"y"}]`), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, AuthorUser, msgs[0].Author)
	assert.Equal(t, AuthorAssistant, msgs[1].Author)
}

func TestLooksLikeMarkup(t *testing.T) {
	assert.True(t, LooksLikeMarkup("<p>hi</p>"))
	assert.True(t, LooksLikeMarkup("  \n\t<div>"))
	assert.False(t, LooksLikeMarkup("1 < 2"))
	assert.False(t, LooksLikeMarkup(""))
	assert.True(t, NewAssistantMessage("<b>x</b>").IsMarkup())
}

func TestCreateThread(t *testing.T) {
	s := NewState()
	first := s.CreateThread()
	second := s.CreateThread()

	assert.NotEqual(t, first, second)
	assert.Equal(t, []ThreadID{second, first}, s.Index, "newest thread goes first")
	assert.Equal(t, second, s.Active)
	assert.Equal(t, DefaultTitle, s.Titles[second])
	assert.Empty(t, s.Conversations[second])
	assert.NotNil(t, s.Conversations[second])
}

func TestCreateThreadIsolation(t *testing.T) {
	s := NewState()
	a := s.CreateThread()
	s.AppendMessage(a, "one", AuthorUser)
	s.SetTitle(a, "First thread")
	before := s.Clone()

	s.CreateThread()

	assert.Equal(t, before.Conversations[a], s.Conversations[a])
	assert.Equal(t, before.Titles[a], s.Titles[a])
}

func TestAppendMessage(t *testing.T) {
	s := NewState()
	id := s.CreateThread()
	for i := 0; i < 5; i++ {
		s.AppendMessage(id, strings.Repeat("x", i+1), AuthorUser)
	}
	msgs := s.Messages(id)
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, strings.Repeat("x", i+1), m.Content)
	}
}

func TestAppendMessageUnknownThread(t *testing.T) {
	s := NewState()
	s.AppendMessage("ghost", "hello", AuthorAssistant)
	require.Len(t, s.Conversations["ghost"], 1)
	assert.False(t, s.Has("ghost"))
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewState()
	id := s.CreateThread()
	s.AppendMessage(id, "a", AuthorUser)
	msgs := s.Messages(id)
	msgs[0].Content = "changed"
	assert.Equal(t, "a", s.Conversations[id][0].Content)
}

func TestSetTitle(t *testing.T) {
	s := NewState()
	id := s.CreateThread()

	s.SetTitle(id, "")
	assert.Equal(t, DefaultTitle, s.Title(id))
	s.SetTitle(id, "   ")
	assert.Equal(t, DefaultTitle, s.Title(id))

	s.SetTitle(id, "Deploying to AWS")
	assert.Equal(t, "Deploying to AWS", s.Title(id))
	assert.Equal(t, DefaultTitle, s.Title("missing"))
}

func TestClear(t *testing.T) {
	s := NewState()
	a := s.CreateThread()
	s.AppendMessage(a, "hi", AuthorUser)
	s.CreateThread()

	fresh := s.Clear()
	assert.Equal(t, []ThreadID{fresh}, s.Index)
	assert.Equal(t, fresh, s.Active)
	assert.Len(t, s.Conversations, 1)
	assert.Empty(t, s.Conversations[fresh])
	assert.Equal(t, DefaultTitle, s.Titles[fresh])
}

func TestClone(t *testing.T) {
	s := NewState()
	id := s.CreateThread()
	s.AppendMessage(id, "a", AuthorUser)

	c := s.Clone()
	c.AppendMessage(id, "b", AuthorUser)
	c.SetTitle(id, "Other")
	c.Index[0] = "zzz"

	assert.Len(t, s.Conversations[id], 1)
	assert.Equal(t, DefaultTitle, s.Title(id))
	assert.Equal(t, id, s.Index[0])
}

func TestNormalize(t *testing.T) {
	s := &State{
		Index:         []ThreadID{"a", "b", "a", ""},
		Conversations: map[ThreadID][]Message{"a": {NewUserMessage("x")}},
		Titles:        map[ThreadID]string{"b": ""},
		Active:        "gone",
	}
	require.True(t, s.Normalize())
	assert.Equal(t, []ThreadID{"a", "b"}, s.Index)
	assert.NotNil(t, s.Conversations["b"])
	assert.Equal(t, DefaultTitle, s.Titles["a"])
	assert.Equal(t, DefaultTitle, s.Titles["b"])
	assert.Equal(t, ThreadID("a"), s.Active)

	assert.False(t, s.Normalize(), "second pass is a no-op")
}
