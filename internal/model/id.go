// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
)

// ThreadID identifies a thread. Real IDs are lowercase base-36 tokens.
type ThreadID string

// String returns the raw ID.
func (id ThreadID) String() string {
	return string(id)
}

// IsZero reports whether the ID is unset.
func (id ThreadID) IsZero() bool {
	return id == ""
}

// threadIDLength is the number of base-36 digits in a generated ID.
const threadIDLength = 10

// NewThreadID returns a random base-36 token.
func NewThreadID() ThreadID {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("model: crypto/rand unavailable: " + err.Error())
	}
	s := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	if len(s) < threadIDLength {
		s = strings.Repeat("0", threadIDLength-len(s)) + s
	}
	return ThreadID(s[:threadIDLength])
}

// IsThreadID reports whether s could have been produced by NewThreadID or by
// the older, shorter generator (any non-empty lowercase base-36 token).
func IsThreadID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}
