// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes component sizes. The terminal renderer is rebuilt
// only when the wrap width changes.
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	mainWidth := m.mainWidth()
	vpHeight := height - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = mainWidth
	m.viewport.Height = vpHeight
	m.input.SetWidth(max(mainWidth-2, 1))

	wrap := max(mainWidth-4, 20)
	if m.renderer == nil || m.renderer.Width() != wrap {
		if r, err := render.NewTerminalRenderer(wrap, m.opts.TerminalStyle, render.WithTerminalMode(m.opts.RenderMode)); err == nil {
			m.renderer = r
		}
	}
	m.refreshContent()
}

func (m *Model) mainWidth() int {
	w := m.width - m.opts.SidebarWidth
	if w < 10 {
		w = 10
	}
	return w
}

// refreshContent re-renders the message list into the viewport and keeps
// it scrolled to the newest message.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInput(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) renderSidebar() string {
	inner := m.opts.SidebarWidth - 3 // padding and right border
	if inner < 4 {
		inner = 4
	}

	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Chats"))
	sb.WriteString("\n")
	for _, t := range m.threads {
		sb.WriteString(m.renderThreadItem(t, inner))
		sb.WriteString("\n")
	}

	if m.opts.ShowExamples && len(m.examples) > 0 {
		sb.WriteString(m.theme.SidebarTitle.Render("Examples"))
		sb.WriteString("\n")
		for _, e := range m.examples {
			line := util.PadWidth(" "+e.Label, inner)
			if e.Active {
				sb.WriteString(m.theme.ExampleActive.Render(line))
			} else {
				sb.WriteString(m.theme.ExampleItem.Render(line))
			}
			sb.WriteString("\n")
		}
	}

	return m.theme.Sidebar.
		Width(m.opts.SidebarWidth - 1).
		Height(max(m.height-statusHeight, 1)).
		Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) renderThreadItem(t chatctl.ThreadItem, width int) string {
	marker := " "
	if t.Busy || m.loading[t.ID] {
		marker = "•"
	}
	line := util.PadWidth(marker+util.SingleLine(render.StripControl(t.Title)), width)
	switch {
	case t.Active:
		return m.theme.ThreadActive.Render(line)
	case marker != " ":
		return m.theme.ThreadBusy.Render(line)
	default:
		return m.theme.ThreadItem.Render(line)
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

func (m *Model) renderMessages() string {
	var blocks []string
	for _, msg := range m.messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	if m.activeLoading() {
		blocks = append(blocks, m.spinner.View()+" "+m.theme.AssistantLabel.Render("Assistant is typing..."))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg model.Message) string {
	width := max(m.mainWidth()-2, 10)

	if msg.IsUser() {
		label := m.theme.UserLabel.Render(msg.Author.DisplayName())
		bubble := m.theme.UserBubble.Width(width - 4).Render(render.StripControl(msg.Content))
		return label + "\n" + bubble
	}

	var body string
	if m.renderer != nil {
		body = m.renderer.RenderMessage(msg)
	} else {
		body = render.PlainText(msg.Content)
	}
	label := m.theme.AssistantLabel.Render(msg.Author.DisplayName())
	return label + "\n" + m.theme.AssistantBubble.Render(body)
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m *Model) renderInput() string {
	width := max(m.mainWidth()-2, 1)

	if m.confirming {
		return m.theme.ConfirmBox.Width(width).Render(chatctl.ClearPrompt + "  [y/n]")
	}
	if !m.inputEnabled {
		return m.theme.InputBoxDisabled.Width(width).Render(m.placeholder)
	}
	return m.theme.InputBox.Width(width).Render(m.input.View())
}

func (m *Model) renderStatusBar() string {
	var text string
	switch {
	case m.status != "" && m.statusErr:
		text = m.theme.StatusError.Render(m.status)
	case m.status != "":
		text = m.theme.StatusInfo.Render(m.status)
	default:
		parts := make([]string, 0, len(m.keys.ShortHelp()))
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
		}
		text = strings.Join(parts, "  ")
	}
	return m.theme.StatusBar.Width(max(m.width, 1)).MaxHeight(statusHeight).Render(text)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
