// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package title

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/threadchat/internal/assistant"
	"github.com/jeranaias/threadchat/internal/model"
)

// fakeSender records requests and answers from a function.
type fakeSender struct {
	mu    sync.Mutex
	reqs  []assistant.Request
	reply func(req assistant.Request) (string, error)
}

func (f *fakeSender) Send(ctx context.Context, req assistant.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.reply(req)
}

func conversation() []model.Message {
	return []model.Message{
		model.NewAssistantMessage("<h3>Hello!</h3><p>How can I help?</p>"),
		model.NewUserMessage("How do I create a MongoDB index?"),
		model.NewAssistantMessage("Use createIndex."),
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(conversation())
	want := "Assistant: Hello!\nHow can I help?\n\n" +
		"User: How do I create a MongoDB index?\n\n" +
		"Assistant: Use createIndex."
	assert.Equal(t, want, got)
}

func TestFlatten_UserMarkupIsKept(t *testing.T) {
	got := Flatten([]model.Message{model.NewUserMessage("is <b> valid?")})
	assert.Equal(t, "User: is <b> valid?", got)
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		`"Creating MongoDB Indexes"`: "Creating MongoDB Indexes",
		"  'AWS Lambda Basics'\n":    "AWS Lambda Basics",
		`Don't Panic: "A Guide"`:     "Dont Panic: A Guide",
		`""`:                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Clean(in), "Clean(%q)", in)
	}
}

func TestClean_StripsControlSequences(t *testing.T) {
	assert.Equal(t, "Lambda Tips", Clean("Lambda\x1b]0;pwned\x07 Tips\x1b[2J"))
}

func TestGenerate(t *testing.T) {
	f := &fakeSender{reply: func(assistant.Request) (string, error) {
		return `"MongoDB Index Creation Guide"`, nil
	}}
	got := New(f).Generate(context.Background(), conversation())
	assert.Equal(t, "MongoDB Index Creation Guide", got)

	require.Len(t, f.reqs, 1)
	assert.True(t, strings.HasPrefix(f.reqs[0].Message, Prompt))
	assert.Empty(t, f.reqs[0].ThreadID, "title requests carry no thread")
}

func TestGenerate_FallsBack(t *testing.T) {
	tests := map[string]func(assistant.Request) (string, error){
		"error":       func(assistant.Request) (string, error) { return "", errors.New("boom") },
		"empty reply": func(assistant.Request) (string, error) { return ` " ' `, nil },
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			got := New(&fakeSender{reply: reply}).Generate(context.Background(), conversation())
			assert.Equal(t, model.DefaultTitle, got)
		})
	}
}

func TestGenerate_HTTP500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "Should not be used"})
	}))
	defer srv.Close()

	client := assistant.NewClientWithConfig(&assistant.ClientConfig{URL: srv.URL, Timeout: time.Second})
	got := New(client).Generate(context.Background(), conversation())
	assert.Equal(t, "New Chat", got)
}

func TestShouldGenerate(t *testing.T) {
	welcome := []model.Message{model.NewAssistantMessage("<p>hi</p>")}
	assert.False(t, ShouldGenerate(nil, model.DefaultTitle))
	assert.False(t, ShouldGenerate(welcome, model.DefaultTitle))
	assert.True(t, ShouldGenerate(conversation(), model.DefaultTitle))
	assert.True(t, ShouldGenerate(conversation(), ""))
	assert.False(t, ShouldGenerate(conversation(), "Already Named"))
}

func TestBackfill(t *testing.T) {
	st := model.NewState()
	named := st.CreateThread()
	st.AppendMessage(named, "<p>hi</p>", model.AuthorAssistant)
	st.AppendMessage(named, "q", model.AuthorUser)
	st.SetTitle(named, "Existing")

	due := make([]model.ThreadID, 0, 5)
	for i := 0; i < 5; i++ {
		id := st.CreateThread()
		st.AppendMessage(id, "<p>hi</p>", model.AuthorAssistant)
		st.AppendMessage(id, "question "+string(rune('a'+i)), model.AuthorUser)
		due = append(due, id)
	}
	empty := st.CreateThread()

	var inFlight, peak int32
	f := &fakeSender{reply: func(req assistant.Request) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		if strings.Contains(req.Message, "question a") {
			return "", errors.New("down")
		}
		return "Title", nil
	}}

	before := st.Clone()
	titles := New(f).Backfill(context.Background(), st, 2)

	assert.Equal(t, before, st, "Backfill must not modify the state")
	assert.Len(t, f.reqs, 5)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Len(t, titles, 4, "failed generation is left out")
	assert.NotContains(t, titles, named)
	assert.NotContains(t, titles, empty)
	assert.NotContains(t, titles, due[0])
}
