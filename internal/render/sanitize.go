// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// SECURITY: Assistant content is untrusted. The policy starts from the
// user-generated-content baseline, which strips script, style, iframes, event
// handlers and javascript: URLs.
var classNameRe = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Highlighted code relies on chroma's CSS classes.
	p.AllowAttrs("class").Matching(classNameRe).OnElements("pre", "code", "span", "div", "p", "h3")

	// Pre-formatted replies such as the welcome message carry light inline styling.
	p.AllowStyles("margin", "margin-top", "margin-bottom", "color", "font-weight", "text-align").
		OnElements("h1", "h2", "h3", "h4", "p", "span", "div", "strong", "em", "li", "ul", "ol")

	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}
