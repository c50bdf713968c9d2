// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.Timeout = 2 * time.Second
	cfg.RequestsPerSecond = 0
	return NewClientWithConfig(cfg)
}

func TestSend_Success(t *testing.T) {
	var got map[string]interface{}
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		requestID = r.Header.Get("X-Request-ID")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"message":"Hi there"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Send(context.Background(), Request{Message: "Hello", ThreadID: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
	assert.Equal(t, map[string]interface{}{"message": "Hello", "threadId": "abc123"}, got)
	assert.Len(t, requestID, 36)
}

func TestSend_OmitsEmptyThreadID(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), Request{Message: "summarise"})
	require.NoError(t, err)
	assert.NotContains(t, raw, "threadId")
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{"server error", http.StatusInternalServerError, `{"message":"oops"}`, false},
		{"not found", http.StatusNotFound, ``, false},
		{"bad json", http.StatusOK, `<html>`, true},
		{"missing field", http.StatusOK, `{"reply":"x"}`, true},
		{"non-string message", http.StatusOK, `{"message":42}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Send(context.Background(), Request{Message: "x"})
			require.Error(t, err)
			assert.True(t, IsUnavailable(err))

			var netErr *NetworkError
			var badErr *MalformedResponseError
			if tt.malformed {
				assert.True(t, errors.As(err, &badErr))
			} else {
				require.True(t, errors.As(err, &netErr))
				assert.Equal(t, tt.status, netErr.Status)
			}
		})
	}
}

func TestSend_EmptyMessageIsNotAnError(t *testing.T) {
	for _, body := range []string{`{"message":""}`, `{"message":null}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			reply, err := newTestClient(srv.URL).Send(context.Background(), Request{Message: "x"})
			require.NoError(t, err)
			assert.Empty(t, reply)
		})
	}
}

func TestSend_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"` + strings.Repeat("a", 2048) + `"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.config.MaxResponseBytes = 1024
	_, err := c.Send(context.Background(), Request{Message: "x"})
	var badErr *MalformedResponseError
	assert.True(t, errors.As(err, &badErr))
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Send(context.Background(), Request{Message: "x"})
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.Status)
}

func TestSend_Canceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := newTestClient(srv.URL).Send(ctx, Request{Message: "x"})
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, DefaultEndpoint, c.URL())
	assert.Equal(t, 60*time.Second, c.httpClient.Timeout)
	assert.EqualValues(t, 1<<20, c.config.MaxResponseBytes)
}

func TestNetworkErrorMessage(t *testing.T) {
	assert.Equal(t, "assistant endpoint returned status 502", (&NetworkError{Status: 502}).Error())
	assert.Contains(t, (&NetworkError{Err: errors.New("dial tcp")}).Error(), "dial tcp")
	assert.False(t, IsUnavailable(errors.New("other")))
}
