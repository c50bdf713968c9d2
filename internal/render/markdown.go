// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	gutil "github.com/yuin/goldmark/util"
)

// DefaultCodeStyle is the chroma style used for highlighted code.
const DefaultCodeStyle = "monokai"

// newMarkdown builds the GFM pipeline: tables, strikethrough, autolinks and
// task lists, single newlines kept as line breaks, fenced code highlighted.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
			// Raw HTML is kept here and cleaned by the sanitiser afterwards.
			goldhtml.WithUnsafe(),
			renderer.WithNodeRenderers(gutil.Prioritized(&codeBlockRenderer{}, 100)),
		),
	)
}

func (r *Renderer) markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

// codeBlockRenderer replaces goldmark's fenced code output with chroma's
// class-based HTML.
type codeBlockRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (c *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderFencedCode)
}

func (c *codeBlockRenderer) renderFencedCode(w gutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	language := ""
	if n.Info != nil {
		language = string(n.Language(source))
	}
	_, _ = w.WriteString(HighlightHTML(code.String(), language))
	return ast.WalkSkipChildren, nil
}

// HighlightHTML returns code as a <pre class="chroma"> block using CSS
// classes. Unknown languages are guessed from the code; if highlighting
// fails the code is escaped and returned unstyled.
func HighlightHTML(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCodeBlock(code)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(&buf, codeStyle(DefaultCodeStyle), iterator); err != nil {
		return plainCodeBlock(code)
	}
	return buf.String()
}

func plainCodeBlock(code string) string {
	return "<pre><code>" + html.EscapeString(code) + "</code></pre>\n"
}

func codeStyle(name string) *chroma.Style {
	style := chromaStyles.Get(name)
	if style == nil {
		style = chromaStyles.Fallback
	}
	return style
}

// StyleSheet returns the CSS for the classes emitted by HighlightHTML.
func StyleSheet(styleName string) string {
	if styleName == "" {
		styleName = DefaultCodeStyle
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, codeStyle(styleName)); err != nil {
		return ""
	}
	return buf.String()
}
