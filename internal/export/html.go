// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports threads to a standalone HTML page. Messages go
// through the same renderer the chat uses, so the page matches what the
// user saw.
type HTMLExporter struct {
	options  *Options
	renderer *render.Renderer
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	r := opts.Renderer
	if r == nil {
		r = render.New()
	}
	return &HTMLExporter{options: opts, renderer: r}
}

// Export converts a thread to HTML.
func (e *HTMLExporter) Export(thread *Thread) ([]byte, error) {
	if err := thread.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(thread.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"threadchat\">\n")
	sb.WriteString(e.styles())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"chat\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(thread))
	}

	sb.WriteString("        <main class=\"messages\">\n")
	for _, msg := range thread.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(thread *Thread) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"chat-header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(thread.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span>Thread %s</span>\n", html.EscapeString(thread.ID)))
	sb.WriteString(fmt.Sprintf("                <span>%d messages</span>\n", len(thread.Messages)))
	sb.WriteString(fmt.Sprintf("                <span>Exported %s</span>\n", e.options.now().Format(time.RFC3339)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	frag := e.renderer.RenderMessage(msg)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\" data-kind=\"%s\">\n", msg.Author, frag.Kind))
	sb.WriteString(fmt.Sprintf("                <div class=\"author\">%s</div>\n", msg.Author.DisplayName()))
	sb.WriteString("                <div class=\"content\">")
	sb.WriteString(frag.HTML)
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

func (e *HTMLExporter) styles() string {
	var sb strings.Builder
	sb.WriteString("    <style>\n")
	sb.WriteString(baseCSS)
	sb.WriteString(render.StyleSheet(e.options.CodeStyle))
	sb.WriteString("    </style>\n")
	return sb.String()
}

const baseCSS = `        * { box-sizing: border-box; }

        .light-theme {
            --bg: #f4f6f8;
            --panel: #ffffff;
            --text: #1f2328;
            --muted: #6e7781;
            --user-bg: #0b5cad;
            --user-text: #ffffff;
            --assistant-bg: #eef1f4;
            --border: #d0d7de;
        }

        .dark-theme {
            --bg: #0d1117;
            --panel: #161b22;
            --text: #e6edf3;
            --muted: #8d96a0;
            --user-bg: #1f6feb;
            --user-text: #ffffff;
            --assistant-bg: #21262d;
            --border: #30363d;
        }

        body {
            margin: 0;
            padding: 24px;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            line-height: 1.5;
            background: var(--bg);
            color: var(--text);
        }

        .chat {
            max-width: 820px;
            margin: 0 auto;
            background: var(--panel);
            border: 1px solid var(--border);
            border-radius: 10px;
            overflow: hidden;
        }

        .chat-header {
            padding: 20px 24px;
            border-bottom: 1px solid var(--border);
        }

        .chat-header h1 { margin: 0 0 8px; font-size: 22px; }

        .metadata { display: flex; gap: 16px; font-size: 13px; color: var(--muted); }

        .messages { padding: 16px 24px; display: flex; flex-direction: column; gap: 12px; }

        .message { max-width: 85%; padding: 10px 14px; border-radius: 12px; }

        .user-message {
            align-self: flex-end;
            background: var(--user-bg);
            color: var(--user-text);
        }

        .assistant-message {
            align-self: flex-start;
            background: var(--assistant-bg);
        }

        .author { font-size: 12px; font-weight: 600; opacity: 0.7; margin-bottom: 4px; }

        .content p { margin: 0 0 8px; }
        .content p:last-child { margin-bottom: 0; }

        .content pre {
            padding: 12px;
            border-radius: 6px;
            overflow-x: auto;
            font-size: 13px;
        }

        .content code { font-family: "SF Mono", Menlo, Consolas, monospace; }

        @media print {
            body { padding: 0; background: #fff; }
            .message { page-break-inside: avoid; }
        }
`
