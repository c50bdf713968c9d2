// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileBackend(filepath.Join(dir, "store.json"), DefaultQuota)
	require.NoError(t, err)
	db, err := NewSQLiteBackend(filepath.Join(dir, "store.db"))
	require.NoError(t, err)

	all := map[string]Backend{
		KindFile:   file,
		KindSQLite: db,
		KindMemory: NewMemoryBackend(),
	}
	t.Cleanup(func() {
		for _, b := range all {
			b.Close()
		}
	})
	return all
}

func TestBackendRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := b.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.Write(map[string]string{"a": "1", "b": `{"x":[1,2]}`}))
			v, ok, err := b.Get("b")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"x":[1,2]}`, v)

			require.NoError(t, b.Write(map[string]string{"a": "2"}))
			v, _, _ = b.Get("a")
			assert.Equal(t, "2", v)

			require.NoError(t, b.Delete("a", "nope"))
			_, ok, _ = b.Get("a")
			assert.False(t, ok)

			require.NoError(t, b.Clear())
			_, ok, _ = b.Get("b")
			assert.False(t, ok)
		})
	}
}

func TestBackendClosed(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Close())
			_, _, err := b.Get("a")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, b.Write(map[string]string{"a": "1"}), ErrClosed)
		})
	}
}

func TestOpen_QuotaOnlyBindsFileBackend(t *testing.T) {
	dir := t.TempDir()
	big := map[string]string{"big": strings.Repeat("x", 200)}
	for _, kind := range []string{KindFile, KindSQLite, KindMemory} {
		t.Run(kind, func(t *testing.T) {
			b, err := Open(kind, filepath.Join(dir, kind), 64)
			require.NoError(t, err)
			defer b.Close()

			err = b.Write(big)
			if kind == KindFile {
				assert.ErrorIs(t, err, ErrQuotaExceeded)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileBackendQuota(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	b, err := NewFileBackend(path, 64)
	require.NoError(t, err)

	require.NoError(t, b.Write(map[string]string{"k": "small"}))

	err = b.Write(map[string]string{"big": strings.Repeat("x", 200), "k": "changed"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	// Nothing from the rejected batch was applied.
	v, _, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "small", v)
	_, ok, _ := b.Get("big")
	assert.False(t, ok)
}

func TestFileBackendSharedAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	a, err := NewFileBackend(path, 0)
	require.NoError(t, err)
	b, err := NewFileBackend(path, 0)
	require.NoError(t, err)

	require.NoError(t, a.Write(map[string]string{"k": "from-a"}))
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-a", v)
}

func TestFileBackendPermissions(t *testing.T) {
	if os.PathSeparator == '\\' {
		t.Skip("permission bits are not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "store.json")
	b, err := NewFileBackend(path, 0)
	require.NoError(t, err)
	require.NoError(t, b.Write(map[string]string{"k": "v"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileBackendCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	b, err := NewFileBackend(path, 0)
	require.NoError(t, err)

	_, _, err = b.Get("k")
	assert.Error(t, err)
}

func TestMemoryBackendFailWrites(t *testing.T) {
	m := NewMemoryBackend()
	m.FailWrites = ErrQuotaExceeded
	assert.ErrorIs(t, m.Write(map[string]string{"k": "v"}), ErrQuotaExceeded)
	assert.Empty(t, m.Snapshot())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		kind    string
		path    string
		wantErr bool
	}{
		{KindFile, filepath.Join(dir, "a.json"), false},
		{"", filepath.Join(dir, "b.json"), false},
		{KindSQLite, filepath.Join(dir, "c.db"), false},
		{KindMemory, "", false},
		{"SQLite", filepath.Join(dir, "d.db"), false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := Open(tt.kind, tt.path, 0)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			defer b.Close()
		})
	}
}
