// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/model"
)

// CurrentSchemaVersion is stamped on every Save.
const CurrentSchemaVersion = 1

// migration upgrades a decoded state from version From to From+1 and reports
// whether it changed anything.
type migration struct {
	From  int
	Name  string
	Apply func(st *model.State) bool
}

// migrations run in order. Stores written before versioning existed are
// version 0.
var migrations = []migration{
	{From: 0, Name: "clean legacy titles", Apply: cleanLegacyTitles},
}

// migrate runs every migration newer than the persisted schema version.
func (s *Store) migrate(st *model.State) (bool, error) {
	version := 0
	raw, ok, err := s.backend.Get(KeySchemaVersion)
	if err != nil {
		return false, err
	}
	if ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return false, fmt.Errorf("invalid schema version %q: %w", raw, err)
		}
		version = v
	}
	if version > CurrentSchemaVersion {
		s.logger.Warn("store written by a newer version",
			zap.Int("version", version),
			zap.Int("supported", CurrentSchemaVersion))
		return false, nil
	}

	changed := version < CurrentSchemaVersion
	for _, m := range migrations {
		if m.From < version {
			continue
		}
		if m.Apply(st) {
			changed = true
		}
		s.logger.Info("applied migration", zap.String("name", m.Name), zap.Int("from", m.From))
	}
	return changed, nil
}

// cleanLegacyTitles strips the quote characters that early builds left in
// generated titles, and drops title and log entries for IDs that never made
// it into the thread index.
func cleanLegacyTitles(st *model.State) bool {
	changed := false
	for id, title := range st.Titles {
		clean := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(title))
		if clean != title {
			st.Titles[id] = clean
			changed = true
		}
	}

	indexed := make(map[model.ThreadID]bool, len(st.Index))
	for _, id := range st.Index {
		indexed[id] = true
	}
	for id := range st.Titles {
		if !indexed[id] {
			delete(st.Titles, id)
			changed = true
		}
	}
	for id := range st.Conversations {
		if !indexed[id] {
			delete(st.Conversations, id)
			changed = true
		}
	}
	return changed
}
