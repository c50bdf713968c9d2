// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/threadchat/internal/kv"
	"github.com/jeranaias/threadchat/internal/model"
)

func TestWatch_Unsupported(t *testing.T) {
	err := New(kv.NewMemoryBackend()).Watch(context.Background(), func() {})
	if !errors.Is(err, ErrWatchUnsupported) {
		t.Errorf("err = %v, want ErrWatchUnsupported", err)
	}
}

func TestWatch_ReportsOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	mine, err := kv.NewFileBackend(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := kv.NewFileBackend(path, 0)
	if err != nil {
		t.Fatal(err)
	}

	store := New(mine)
	res, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 4)
	if err := store.Watch(ctx, func() { changed <- struct{}{} }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Our own save is not reported.
	res.State.AppendMessage(res.State.Active, "mine", model.AuthorUser)
	if err := store.Save(res.State); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("own write should not be reported")
	case <-time.After(3 * watchDebounce):
	}

	other := New(theirs)
	otherState, err := other.Load()
	if err != nil {
		t.Fatal(err)
	}
	otherState.State.CreateThread()
	if err := other.Save(otherState.State); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification for external write")
	}
}
