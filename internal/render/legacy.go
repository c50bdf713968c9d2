// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"regexp"
	"strings"
)

// =============================================================================
// LEGACY FORMATTING
// =============================================================================

const nbsp4 = "&nbsp;&nbsp;&nbsp;&nbsp;"

var (
	blankRunRe   = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	numberedRe   = regexp.MustCompile(`(\d+)\.\s`)
	dashIndentRe = regexp.MustCompile(`(^|<br>)   - `)
	letterSubRe  = regexp.MustCompile(`(^|\s|<br>)([a-z])\.\s`)
)

// Legacy formats plain text with the fixed substitution rules, applied in
// order to the escaped text:
//
//  1. three or more consecutive line breaks collapse to one blank line
//  2. newlines become <br>
//  3. tabs become four non-breaking spaces
//  4. "N. " gets a line break and bold marker
//  5. lines starting with "   - " are indented
//  6. single-letter markers "a. " get a line break and bold marker
//
// The rules are lossy: any digit followed by ". " is treated as a list
// marker, including in ordinary prose ("version 2. Next"), and a lone
// lowercase letter before ". " is bolded the same way.
func Legacy(text string) string {
	out := html.EscapeString(text)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = strings.ReplaceAll(out, "\t", nbsp4)
	out = numberedRe.ReplaceAllString(out, "<br><strong>$1.</strong> ")
	out = dashIndentRe.ReplaceAllString(out, "$1"+nbsp4+"- ")
	out = letterSubRe.ReplaceAllString(out, "$1<br><strong>$2.</strong> ")
	return out
}
