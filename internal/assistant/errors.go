// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// NetworkError reports an unreachable endpoint or a non-2xx status.
type NetworkError struct {
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("assistant endpoint returned status %d", e.Status)
	}
	if e.Err != nil {
		return "assistant endpoint unreachable: " + e.Err.Error()
	}
	return "assistant endpoint unreachable"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response body that is not the expected JSON.
type MalformedResponseError struct {
	Body string // truncated
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return "malformed assistant response: " + e.Err.Error()
	}
	return "malformed assistant response"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// errMissingMessage is wrapped when the response has no message field.
var errMissingMessage = errors.New(`missing "message" field`)

// IsUnavailable reports whether err means the assistant could not produce a
// reply. Both network and malformed-response failures count.
func IsUnavailable(err error) bool {
	var netErr *NetworkError
	var badErr *MalformedResponseError
	return errors.As(err, &netErr) || errors.As(err, &badErr)
}
