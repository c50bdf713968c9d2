// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/threadchat/internal/util"
)

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileBackend stores every entry in one JSON object on disk.
//
// The document is re-read on each operation so that writes made by another
// process are visible, and it is replaced atomically on each write so a crash
// never leaves a half-written file behind.
type FileBackend struct {
	path  string
	quota int64
	mu    sync.Mutex

	closed bool
}

// NewFileBackend opens (or prepares to create) the document at path.
func NewFileBackend(path string, quota int64) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("file backend requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{path: path, quota: quota}, nil
}

// Path implements Locator.
func (f *FileBackend) Path() string {
	return f.path
}

// Get implements Backend.
func (f *FileBackend) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// Write implements Backend. The batch is merged into a copy of the current
// document, which is then written in a single atomic rename.
func (f *FileBackend) Write(entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	doc, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		doc[k] = v
	}
	return f.write(doc)
}

// Delete implements Backend.
func (f *FileBackend) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	doc, err := f.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc, k)
	}
	return f.write(doc)
}

// Clear implements Backend.
func (f *FileBackend) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return f.write(map[string]string{})
}

// Close implements Backend.
func (f *FileBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// read loads the document. A missing file is an empty store.
func (f *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileBackend) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if f.quota > 0 && int64(len(data)) > f.quota {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(data), f.quota)
	}
	// SECURITY: 0600 keeps conversation history private to the user.
	if err := util.AtomicWriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
