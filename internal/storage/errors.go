// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"

	"github.com/jeranaias/threadchat/internal/kv"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrWatchUnsupported is returned by Watch when the backend has no file on disk.
	ErrWatchUnsupported = errors.New("backend does not support change notification")

	// ErrUnavailable is returned by Save after a Load that could not read
	// the backend.
	ErrUnavailable = errors.New("persisted state could not be read; not overwriting it")

	// errCorrupt marks a stored value that was read but could not be decoded.
	errCorrupt = errors.New("corrupt value")
)

// StorageError reports a failed read or write of persisted state.
type StorageError struct {
	Op  string // "load", "save", "clear", "init"
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage " + e.Op + " failed"
	}
	return "storage " + e.Op + " failed: " + e.Err.Error()
}

// Unwrap returns the underlying backend error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a StorageError for the same operation. A
// target with an empty Op matches any StorageError.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}

// ErrStorage matches any *StorageError with errors.Is.
var ErrStorage = &StorageError{}

// IsQuotaExceeded reports whether err was caused by the backend running out of space.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, kv.ErrQuotaExceeded)
}
