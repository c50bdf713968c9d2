// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrQuotaExceeded is returned when a write would grow the store past its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("backend closed")

	// ErrUnknownKind is returned by Open for an unrecognised backend name.
	ErrUnknownKind = errors.New("unknown storage backend")
)

// DefaultQuota mirrors the per-origin limit browsers place on local storage.
const DefaultQuota int64 = 5 << 20

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Write stores every entry in one all-or-nothing batch.
	Write(entries map[string]string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(keys ...string) error

	// Clear removes every key.
	Clear() error

	// Close releases any resources held by the backend.
	Close() error
}

// Locator is implemented by backends that live in a file on disk.
type Locator interface {
	Path() string
}

// =============================================================================
// FACTORY
// =============================================================================

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open creates the backend named by kind. path is ignored for the memory
// backend; quota is only enforced by the file backend (0 disables it).
func Open(kind, path string, quota int64) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindFile, "":
		return NewFileBackend(path, quota)
	case KindSQLite:
		return NewSQLiteBackend(path)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
