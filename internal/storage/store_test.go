// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jeranaias/threadchat/internal/kv"
	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_FirstRun(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{"stale": "left over from something else"})
	store := New(backend)

	res, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !res.Fresh {
		t.Error("expected Fresh on first run")
	}
	if res.State.Len() != 1 {
		t.Fatalf("threads = %d, want 1", res.State.Len())
	}
	id := res.State.Index[0]
	if res.State.Active != id {
		t.Errorf("Active = %q, want %q", res.State.Active, id)
	}
	if got := res.State.Title(id); got != model.DefaultTitle {
		t.Errorf("title = %q, want %q", got, model.DefaultTitle)
	}
	if n := len(res.State.Messages(id)); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}

	snap := backend.Snapshot()
	if _, ok := snap["stale"]; ok {
		t.Error("first run should wipe existing data")
	}
	if snap[KeyInitialized] != "true" {
		t.Error("expected store to be marked initialized")
	}
	if snap[KeyCurrentThread] != id.String() {
		t.Errorf("persisted active = %q, want %q", snap[KeyCurrentThread], id)
	}
}

func TestLoad_EmptyIndexIsFirstRun(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{
		KeyInitialized: "true",
		KeyHistory:     "[]",
	})

	res, err := New(backend).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !res.Fresh || res.State.Len() != 1 {
		t.Errorf("Fresh=%v threads=%d, want fresh store with one thread", res.Fresh, res.State.Len())
	}
}

func TestLoad_Idempotent(t *testing.T) {
	for _, kind := range []string{kv.KindFile, kv.KindSQLite, kv.KindMemory} {
		t.Run(kind, func(t *testing.T) {
			backend, err := kv.Open(kind, filepath.Join(t.TempDir(), "store"), 0)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer backend.Close()
			store := New(backend)

			first, err := store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			st := first.State
			id := st.Active
			st.AppendMessage(id, "Hello", model.AuthorUser)
			st.AppendMessage(id, "<p>Hi!</p>", model.AuthorAssistant)
			st.SetTitle(id, "Greetings")
			st.CreateThread()
			if err := store.Save(st); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			a, err := store.Load()
			if err != nil {
				t.Fatalf("second Load failed: %v", err)
			}
			b, err := store.Load()
			if err != nil {
				t.Fatalf("third Load failed: %v", err)
			}
			if a.Fresh || b.Fresh {
				t.Error("reloads must not reinitialize")
			}
			if !reflect.DeepEqual(a.State, b.State) {
				t.Errorf("loads differ:\n%+v\n%+v", a.State, b.State)
			}
			if !reflect.DeepEqual(st, a.State) {
				t.Errorf("loaded state differs from saved:\n%+v\n%+v", st, a.State)
			}
		})
	}
}

func TestLoad_AppendOnly(t *testing.T) {
	store := New(kv.NewMemoryBackend())
	res, _ := store.Load()
	st := res.State
	id := st.Active

	const n = 7
	for i := 0; i < n; i++ {
		st.AppendMessage(id, string(rune('a'+i)), model.AuthorUser)
		if err := store.Save(st); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	msgs := loaded.State.Messages(id)
	if len(msgs) != n {
		t.Fatalf("messages = %d, want %d", len(msgs), n)
	}
	for i, m := range msgs {
		if want := string(rune('a' + i)); m.Content != want {
			t.Errorf("msgs[%d] = %q, want %q", i, m.Content, want)
		}
	}
}

func TestLoad_RepairsDanglingState(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{
		KeyInitialized:   "true",
		KeySchemaVersion: "1",
		KeyHistory:       `["abc","def"]`,
		KeyMessages:      `{"abc":[{"content":"hi","isUser":true}]}`,
		KeyTitles:        `{"abc":"Hello"}`,
		KeyCurrentThread: "zzz",
	})

	res, err := New(backend).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !res.Repaired {
		t.Error("expected Repaired")
	}
	if res.State.Active != "abc" {
		t.Errorf("Active = %q, want abc", res.State.Active)
	}
	if res.State.Title("def") != model.DefaultTitle {
		t.Errorf("missing title should fall back to default")
	}
	if backend.Snapshot()[KeyCurrentThread] != "abc" {
		t.Error("repaired state should be written back")
	}
}

func TestLoad_CorruptMessages(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{
		KeyInitialized:   "true",
		KeySchemaVersion: "1",
		KeyHistory:       `["abc"]`,
		KeyMessages:      `{not json`,
		KeyTitles:        `{"abc":"Kept"}`,
		KeyCurrentThread: "abc",
	})

	res, err := New(backend).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Fresh {
		t.Error("a readable index should not trigger reinitialization")
	}
	if res.State.Title("abc") != "Kept" {
		t.Errorf("title = %q, want Kept", res.State.Title("abc"))
	}
	if len(res.State.Messages("abc")) != 0 {
		t.Error("unreadable messages should load as an empty log")
	}
}

func TestLoad_MigratesLegacyTitles(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{
		KeyInitialized:   "true",
		KeyHistory:       `["abc"]`,
		KeyMessages:      `{"abc":[],"orphan":[]}`,
		KeyTitles:        `{"abc":"\"Setting up MongoDB\" ","orphan":"x"}`,
		KeyCurrentThread: "abc",
	})

	res, err := New(backend).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := res.State.Title("abc"); got != "Setting up MongoDB" {
		t.Errorf("title = %q, want %q", got, "Setting up MongoDB")
	}
	if _, ok := res.State.Titles["orphan"]; ok {
		t.Error("orphan title should be dropped")
	}
	if v := backend.Snapshot()[KeySchemaVersion]; v != "1" {
		t.Errorf("schemaVersion = %q, want 1", v)
	}
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSave_FailureIsStorageError(t *testing.T) {
	backend := kv.NewMemoryBackend()
	store := New(backend)
	res, _ := store.Load()
	before := backend.Snapshot()

	backend.FailWrites = kv.ErrQuotaExceeded
	res.State.AppendMessage(res.State.Active, "lost", model.AuthorUser)
	err := store.Save(res.State)
	if err == nil {
		t.Fatal("expected error")
	}

	var se *StorageError
	if !errors.As(err, &se) || se.Op != "save" {
		t.Errorf("error = %v, want *StorageError{Op: save}", err)
	}
	if !errors.Is(err, ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) should be true")
	}
	if !IsQuotaExceeded(err) {
		t.Error("expected quota error to be detectable")
	}
	if !reflect.DeepEqual(before, backend.Snapshot()) {
		t.Error("failed save must not change persisted data")
	}
}

func TestLoad_InitFailureStillReturnsState(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.FailWrites = errors.New("disk on fire")

	res, err := New(backend).Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if res.State == nil || res.State.Len() != 1 {
		t.Fatal("expected a usable in-memory state")
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("error = %v, want StorageError", err)
	}
}

// savedTwoThreads persists two threads with one message each.
func savedTwoThreads(t *testing.T, backend kv.Backend) *model.State {
	t.Helper()
	store := New(backend)
	res, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	st := res.State
	st.AppendMessage(st.Active, "first", model.AuthorUser)
	second := st.CreateThread()
	st.AppendMessage(second, "second", model.AuthorUser)
	if err := store.Save(st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return st
}

func TestLoad_ReadFailureKeepsData(t *testing.T) {
	backend := kv.NewMemoryBackend()
	saved := savedTwoThreads(t, backend)
	before := backend.Snapshot()

	store := New(backend)
	backend.FailReads = errors.New("input/output error")
	res, err := store.Load()
	if err == nil {
		t.Fatal("expected an error for an unreadable backend")
	}
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "load" {
		t.Errorf("error = %v, want *StorageError{Op: load}", err)
	}
	if res.Fresh {
		t.Error("a read failure is not a first run")
	}
	if !res.Unavailable {
		t.Error("expected Unavailable")
	}
	if res.State == nil || res.State.Len() != 1 {
		t.Fatal("expected a usable in-memory state")
	}
	if !reflect.DeepEqual(before, backend.Snapshot()) {
		t.Fatal("a failed read must not change persisted data")
	}

	// The partial in-memory view must not overwrite the real data.
	backend.FailReads = nil
	res.State.AppendMessage(res.State.Active, "typed while degraded", model.AuthorUser)
	if err := store.Save(res.State); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Save error = %v, want ErrUnavailable", err)
	}
	if !reflect.DeepEqual(before, backend.Snapshot()) {
		t.Fatal("Save after a failed read must not change persisted data")
	}

	// Once the backend reads again everything is back.
	res, err = store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(saved.Index, res.State.Index) {
		t.Errorf("Index = %v, want %v", res.State.Index, saved.Index)
	}
	if err := store.Save(res.State); err != nil {
		t.Errorf("Save after recovery failed: %v", err)
	}
}

func TestLoad_CorruptFileKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	backend, err := kv.NewFileBackend(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	savedTwoThreads(t, backend)

	corrupt := []byte("{\"chatHistory\": ")
	if err := os.WriteFile(path, corrupt, 0600); err != nil {
		t.Fatal(err)
	}

	store := New(backend)
	res, err := store.Load()
	if err == nil || !res.Unavailable {
		t.Fatalf("Load = (%+v, %v), want an unavailable result", res, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(corrupt) {
		t.Error("an unparsable document must be left for the user to recover")
	}

	// ClearAll is the explicit way to start over.
	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	res, err = store.Load()
	if err != nil {
		t.Fatalf("Load after ClearAll failed: %v", err)
	}
	if res.Unavailable || res.State.Len() != 1 {
		t.Errorf("Load after ClearAll = %+v, want one fresh thread", res)
	}
}

func TestLoad_CorruptIndexRebuiltFromMessages(t *testing.T) {
	backend := kv.NewMemoryBackend()
	backend.Write(map[string]string{
		KeyInitialized:   "true",
		KeySchemaVersion: "1",
		KeyHistory:       `["abc",`,
		KeyMessages:      `{"def":[{"content":"two","isUser":true}],"abc":[{"content":"one","isUser":true}]}`,
		KeyTitles:        `{"abc":"Kept"}`,
		KeyCurrentThread: "def",
	})

	res, err := New(backend).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Fresh || !res.Repaired {
		t.Errorf("Fresh = %v, Repaired = %v; want a repair, not a wipe", res.Fresh, res.Repaired)
	}
	if want := []model.ThreadID{"abc", "def"}; !reflect.DeepEqual(res.State.Index, want) {
		t.Errorf("Index = %v, want %v", res.State.Index, want)
	}
	if res.State.Active != "def" || res.State.Title("abc") != "Kept" {
		t.Errorf("Active = %q, title = %q", res.State.Active, res.State.Title("abc"))
	}
	if backend.Snapshot()[KeyHistory] != `["abc","def"]` {
		t.Error("rebuilt index should be written back")
	}
}

func TestClearAll(t *testing.T) {
	backend := kv.NewMemoryBackend()
	store := New(backend)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	snap := backend.Snapshot()
	for _, k := range conversationKeys {
		if _, ok := snap[k]; ok {
			t.Errorf("key %s survived ClearAll", k)
		}
	}
	ok, _ := store.IsInitialized()
	if !ok {
		t.Error("ClearAll should keep the initialized flag")
	}

	res, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.State.Len() != 1 {
		t.Errorf("threads = %d, want 1", res.State.Len())
	}
}

func TestStorageError(t *testing.T) {
	inner := errors.New("boom")
	err := &StorageError{Op: "save", Err: inner}

	if err.Error() != "storage save failed: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("should unwrap to the backend error")
	}
	if !errors.Is(err, &StorageError{Op: "save"}) {
		t.Error("should match same op")
	}
	if errors.Is(err, &StorageError{Op: "load"}) {
		t.Error("should not match a different op")
	}
}
