// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// StripControl removes terminal escape sequences and every control
// character except newline and tab.
// SECURITY: Text shown in the terminal may come from the assistant. An
// embedded sequence could clear the screen, retitle the window or write the
// clipboard (OSC 52), so nothing it carries reaches the terminal raw.
func StripControl(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		// C0, DEL and C1; C1 includes the 8-bit CSI and OSC introducers.
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
