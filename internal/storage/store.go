// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/kv"
	"github.com/jeranaias/threadchat/internal/model"
)

// Persisted keys.
const (
	KeyCurrentThread = "currentThreadId"
	KeyHistory       = "chatHistory"
	KeyMessages      = "chatMessages"
	KeyTitles        = "chatTitles"
	KeyInitialized   = "hasInitialized"
	KeySchemaVersion = "schemaVersion"
)

// conversationKeys are written together by every Save.
var conversationKeys = []string{KeyCurrentThread, KeyHistory, KeyMessages, KeyTitles}

// =============================================================================
// STORE
// =============================================================================

// Store loads and saves model.State through a kv.Backend.
type Store struct {
	backend kv.Backend
	logger  *zap.Logger

	// lastWritten holds the encoded values of the most recent successful
	// Save so that Watch can tell our own writes from another process's.
	mu          sync.Mutex
	lastWritten map[string]string

	// readFailed blocks Save after a failed Load so that a partial view of
	// the data never overwrites what is on disk.
	readFailed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recoverable problems found while loading.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store over backend.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying key-value backend.
func (s *Store) Backend() kv.Backend {
	return s.backend
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	State *model.State

	// Fresh is set when Load performed first-run initialisation.
	Fresh bool

	// Unavailable is set when the backend could not be read. State is then
	// a fresh in-memory state and nothing was written.
	Unavailable bool

	// Repaired is set when persisted data had to be migrated or fixed up.
	Repaired bool
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the persisted state.
//
// A store that was never initialised, or whose thread index is empty, is
// wiped and seeded with one empty thread. A failed read never wipes: the
// result holds a fresh in-memory state with Unavailable set, the error is a
// *StorageError wrapping the read failure, and Save refuses to write
// until a later Load or ClearAll succeeds.
func (s *Store) Load() (LoadResult, error) {
	initialized, err := s.IsInitialized()
	if err != nil {
		return s.unavailable(err)
	}
	if !initialized {
		return s.initialize()
	}

	st := model.NewState()
	repaired := false

	index, indexErr := s.readIndex()
	if indexErr != nil && !errors.Is(indexErr, errCorrupt) {
		return s.unavailable(indexErr)
	}
	if err := s.readJSON(KeyMessages, &st.Conversations); err != nil {
		if !errors.Is(err, errCorrupt) {
			return s.unavailable(err)
		}
		s.logger.Warn("message store unreadable, starting threads empty", zap.Error(err))
		st.Conversations = make(map[model.ThreadID][]model.Message)
		repaired = true
	}
	if err := s.readJSON(KeyTitles, &st.Titles); err != nil {
		if !errors.Is(err, errCorrupt) {
			return s.unavailable(err)
		}
		s.logger.Warn("title map unreadable, using default titles", zap.Error(err))
		st.Titles = make(map[model.ThreadID]string)
		repaired = true
	}
	active, ok, err := s.backend.Get(KeyCurrentThread)
	if err != nil {
		return s.unavailable(err)
	}
	if ok {
		st.Active = model.ThreadID(active)
	}

	if indexErr != nil {
		// The messages survive a corrupt index; rebuild it from them.
		s.logger.Warn("thread index unreadable, rebuilding", zap.Error(indexErr))
		index = rebuildIndex(st.Conversations)
		repaired = true
	}
	if len(index) == 0 {
		return s.initialize()
	}
	st.Index = index

	migrated, err := s.migrate(st)
	if err != nil {
		s.logger.Warn("schema migration failed", zap.Error(err))
	}
	if st.Normalize() {
		s.logger.Info("repaired persisted state",
			zap.Int("threads", st.Len()),
			zap.String("active", st.Active.String()))
		repaired = true
	}
	repaired = repaired || migrated

	s.setUnavailable(false)
	if repaired {
		if err := s.Save(st); err != nil {
			return LoadResult{State: st, Repaired: true}, err
		}
	} else {
		s.remember(st)
	}
	return LoadResult{State: st, Repaired: repaired}, nil
}

// initialize performs first-run setup.
func (s *Store) initialize() (LoadResult, error) {
	s.setUnavailable(false)

	st := model.NewState()
	st.CreateThread()
	res := LoadResult{State: st, Fresh: true}

	if err := s.backend.Clear(); err != nil {
		return res, &StorageError{Op: "init", Err: err}
	}
	if err := s.Save(st); err != nil {
		return res, err
	}
	if err := s.MarkInitialized(); err != nil {
		return res, err
	}
	return res, nil
}

// unavailable handles a failed read. Nothing persisted is touched.
// RELIABILITY: a transient I/O error or an unparsable document must never
// be mistaken for a first run, which would wipe every thread.
func (s *Store) unavailable(cause error) (LoadResult, error) {
	s.logger.Warn("store unreadable, continuing without persistence", zap.Error(cause))
	s.setUnavailable(true)

	st := model.NewState()
	st.CreateThread()
	return LoadResult{State: st, Unavailable: true}, &StorageError{Op: "load", Err: cause}
}

func (s *Store) setUnavailable(on bool) {
	s.mu.Lock()
	s.readFailed = on
	s.mu.Unlock()
}

// rebuildIndex orders the surviving threads by ID.
func rebuildIndex(conversations map[model.ThreadID][]model.Message) []model.ThreadID {
	index := make([]model.ThreadID, 0, len(conversations))
	for id := range conversations {
		index = append(index, id)
	}
	sort.Slice(index, func(i, j int) bool { return index[i] < index[j] })
	return index
}

// readIndex returns the thread index, or nil when none is stored.
func (s *Store) readIndex() ([]model.ThreadID, error) {
	var index []model.ThreadID
	if err := s.readJSON(KeyHistory, &index); err != nil {
		return nil, err
	}
	return index, nil
}

// readJSON decodes key into dst. A missing key leaves dst untouched.
func (s *Store) readJSON(key string, dst interface{}) error {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: decode %s: %w", errCorrupt, key, err)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the four conversation keys as one batch. Either all of them
// are stored or none are.
func (s *Store) Save(st *model.State) error {
	entries, err := encode(st)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	entries[KeySchemaVersion] = fmt.Sprint(CurrentSchemaVersion)

	s.mu.Lock()
	readFailed := s.readFailed
	s.mu.Unlock()
	if readFailed {
		return &StorageError{Op: "save", Err: ErrUnavailable}
	}

	if err := s.backend.Write(entries); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	s.mu.Lock()
	s.lastWritten = entries
	s.mu.Unlock()
	return nil
}

func encode(st *model.State) (map[string]string, error) {
	index := st.Index
	if index == nil {
		index = []model.ThreadID{}
	}
	history, err := json.Marshal(index)
	if err != nil {
		return nil, err
	}
	messages, err := json.Marshal(st.Conversations)
	if err != nil {
		return nil, err
	}
	titles, err := json.Marshal(st.Titles)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyCurrentThread: st.Active.String(),
		KeyHistory:       string(history),
		KeyMessages:      string(messages),
		KeyTitles:        string(titles),
	}, nil
}

// remember records st as the last known persisted content without writing it.
func (s *Store) remember(st *model.State) {
	entries, err := encode(st)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.lastWritten = entries
	s.mu.Unlock()
}

// =============================================================================
// INITIALISATION FLAG
// =============================================================================

// IsInitialized reports whether first-run setup has completed.
func (s *Store) IsInitialized() (bool, error) {
	v, ok, err := s.backend.Get(KeyInitialized)
	if err != nil {
		return false, &StorageError{Op: "load", Err: err}
	}
	return ok && v == "true", nil
}

// MarkInitialized records that first-run setup has completed.
func (s *Store) MarkInitialized() error {
	if err := s.backend.Write(map[string]string{KeyInitialized: "true"}); err != nil {
		return &StorageError{Op: "init", Err: err}
	}
	return nil
}

// ClearAll removes the conversation keys. The initialised flag survives so
// the next Load does not treat the store as a first run wipe. After a failed
// Load the whole backend is reset instead, since its content could not be
// read; this is the way out of the unavailable state.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	readFailed := s.readFailed
	s.mu.Unlock()

	if readFailed {
		if err := s.backend.Clear(); err != nil {
			return &StorageError{Op: "clear", Err: err}
		}
		if err := s.MarkInitialized(); err != nil {
			return err
		}
	} else {
		keys := append([]string{}, conversationKeys...)
		if err := s.backend.Delete(keys...); err != nil {
			return &StorageError{Op: "clear", Err: err}
		}
	}

	s.mu.Lock()
	s.lastWritten = nil
	s.readFailed = false
	s.mu.Unlock()
	return nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// ownWrite reports whether the backend currently holds exactly what this
// store last wrote.
func (s *Store) ownWrite() bool {
	s.mu.Lock()
	last := s.lastWritten
	s.mu.Unlock()
	if last == nil {
		return false
	}
	for _, key := range conversationKeys {
		v, _, err := s.backend.Get(key)
		if err != nil || v != last[key] {
			return false
		}
	}
	return true
}
