// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package examples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/threadchat/internal/model"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"mongodb", 5},
		{"aws", 7},
		{" MongoDB ", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Lookup(tt.name)
			require.True(t, ok)
			require.Len(t, c.Messages, tt.count)
			assert.Equal(t, Welcome, c.Messages[0].Content, "examples open with the welcome message")
			assert.False(t, c.Messages[0].IsUser())
			assert.True(t, c.Messages[1].IsUser())
			for i, m := range c.Messages {
				assert.Equal(t, i%2 == 1, m.IsUser(), "message %d alternates author", i)
			}
		})
	}

	_, ok := Lookup("kubernetes")
	assert.False(t, ok)
}

func TestLookupReturnsCopy(t *testing.T) {
	c, _ := Lookup("aws")
	c.Messages[1].Content = "changed"
	again, _ := Lookup("aws")
	assert.NotEqual(t, "changed", again.Messages[1].Content)
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "aws", all[0].Name)
	assert.Equal(t, "mongodb", all[1].Name)
	assert.Equal(t, []string{"aws", "mongodb"}, Names())
}

func TestIDsNeverCollide(t *testing.T) {
	for _, c := range All() {
		assert.True(t, IsExampleID(c.ID()))
		assert.False(t, model.IsThreadID(c.ID().String()))
	}
	assert.False(t, IsExampleID(model.NewThreadID()))
}

func TestWelcomeIsMarkup(t *testing.T) {
	assert.True(t, model.LooksLikeMarkup(Welcome))
}
