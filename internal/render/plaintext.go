// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements start on a new line when flattened.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Tr: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true, atom.Hr: true,
}

// list tracks numbering for one open <ol> or <ul>.
type list struct {
	ordered bool
	next    int
}

// PlainText strips markup and returns the readable text. Block elements
// become line breaks, ordered list items keep their numbers, and script and
// style contents are dropped. Terminal control sequences never survive.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		sb    strings.Builder
		lists []list
		skip  int
	)
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; return what was read either way.
			return tidy(StripControl(sb.String()))

		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.ReplaceAll(string(z.Text()), "\u00a0", " ")
			// Formatting whitespace between tags.
			if strings.TrimSpace(text) == "" && strings.Contains(text, "\n") {
				continue
			}
			sb.WriteString(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			switch a {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				}
				continue
			case atom.Ol:
				start := 1
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "start" {
						if n, err := strconv.Atoi(string(val)); err == nil {
							start = n
						}
					}
				}
				lists = append(lists, list{ordered: true, next: start})
			case atom.Ul:
				lists = append(lists, list{})
			}
			if a == atom.Br {
				sb.WriteByte('\n')
				continue
			}
			if blockElements[a] {
				newline()
			}
			if a == atom.Li && len(lists) > 0 {
				l := &lists[len(lists)-1]
				if l.ordered {
					sb.WriteString(strconv.Itoa(l.next) + ". ")
					l.next++
				} else {
					sb.WriteString("- ")
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch a {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
				continue
			case atom.Ol, atom.Ul:
				if len(lists) > 0 {
					lists = lists[:len(lists)-1]
				}
			}
			if blockElements[a] {
				newline()
			}
		}
	}
}

// tidy trims trailing spaces on each line, collapses runs of blank lines and
// trims the whole text.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
