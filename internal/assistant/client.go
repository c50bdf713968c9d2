// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/threadchat/internal/util"
)

// DefaultEndpoint is the hosted agent the widget was built against.
const DefaultEndpoint = "https://bzjj7l.buildship.run/AWSAgent"

// =============================================================================
// WIRE TYPES
// =============================================================================

// Request is the body sent to the endpoint.
type Request struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

// response is the body expected back. Message is a pointer so a missing
// field can be told apart from an empty reply.
// Message stays raw so that a missing field and an explicit null can be
// told apart.
type response struct {
	Message json.RawMessage `json:"message"`
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the endpoint client.
type ClientConfig struct {
	// URL of the endpoint (default: DefaultEndpoint)
	URL string

	// Timeout for a whole request (default: 60s)
	Timeout time.Duration

	// MaxResponseBytes caps the body read from the endpoint (default: 1 MiB)
	MaxResponseBytes int64

	// RequestsPerSecond and Burst configure the client-side rate limit
	// (defaults: 2/s, burst 4). Zero RequestsPerSecond disables limiting.
	RequestsPerSecond float64
	Burst             int

	// UserAgent sent with each request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:               DefaultEndpoint,
		Timeout:           60 * time.Second,
		MaxResponseBytes:  1 << 20,
		RequestsPerSecond: 2,
		Burst:             4,
		UserAgent:         "threadchat",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts messages to the endpoint. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client. Zero fields take their defaults.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	def := DefaultConfig()
	if config.URL == "" {
		config.URL = def.URL
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxResponseBytes == 0 {
		config.MaxResponseBytes = def.MaxResponseBytes
	}
	if config.Burst == 0 {
		config.Burst = def.Burst
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, config.Burst),
	}
}

// URL returns the endpoint URL.
func (c *Client) URL() string {
	return c.config.URL
}

// Send posts req and returns the reply text. There is no retry.
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &NetworkError{Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	// SECURITY: Bound the read so a misbehaving endpoint cannot exhaust memory.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		return "", &NetworkError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{Status: resp.StatusCode}
	}
	if int64(len(data)) > c.config.MaxResponseBytes {
		return "", &MalformedResponseError{
			Err: fmt.Errorf("response exceeds %d bytes", c.config.MaxResponseBytes),
		}
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &MalformedResponseError{Body: util.TruncateRunes(string(data), 200), Err: err}
	}
	if out.Message == nil {
		return "", &MalformedResponseError{Body: util.TruncateRunes(string(data), 200), Err: errMissingMessage}
	}
	// null is an empty reply, like "".
	var msg *string
	if err := json.Unmarshal(out.Message, &msg); err != nil {
		return "", &MalformedResponseError{Body: util.TruncateRunes(string(data), 200), Err: err}
	}
	if msg == nil {
		return "", nil
	}
	return *msg, nil
}

// IsCanceled reports whether err came from a cancelled context rather than
// the endpoint itself.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
