// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/kv"
)

// watchDebounce groups the burst of events an atomic rename produces.
const watchDebounce = 150 * time.Millisecond

// Watch calls onChange whenever another process modifies the persisted
// state. It returns once the watcher is running; notifications stop when ctx
// is cancelled. Writes made through this Store are not reported.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	loc, ok := s.backend.(kv.Locator)
	if !ok {
		return ErrWatchUnsupported
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic replacement swaps the file's inode, which
	// would silently end a watch placed on the file itself.
	path := loc.Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go s.processEvents(ctx, watcher, filepath.Base(path), onChange)
	return nil
}

func (s *Store) processEvents(ctx context.Context, watcher *fsnotify.Watcher, base string, onChange func()) {
	defer watcher.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store watcher panic", zap.Any("panic", r))
		}
	}()

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// The sqlite backend also touches -wal and -shm siblings.
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)
			pending = true

		case <-timer.C:
			pending = false
			if s.ownWrite() {
				continue
			}
			s.logger.Debug("persisted state changed externally")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("store watcher error", zap.Error(err))
		}
	}
}
