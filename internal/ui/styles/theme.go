// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar       lipgloss.Style
	SidebarTitle  lipgloss.Style
	ThreadItem    lipgloss.Style
	ThreadActive  lipgloss.Style
	ThreadBusy    lipgloss.Style
	ExampleItem   lipgloss.Style
	ExampleActive lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel       lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantLabel  lipgloss.Style
	AssistantBubble lipgloss.Style
	Banner          lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputBox         lipgloss.Style
	InputBoxDisabled lipgloss.Style
	Spinner          lipgloss.Style
	StatusBar        lipgloss.Style
	ShortcutKey      lipgloss.Style
	ShortcutDesc     lipgloss.Style
	StatusError      lipgloss.Style
	StatusInfo       lipgloss.Style

	// ==========================================================================
	// CONFIRMATION
	// ==========================================================================

	ConfirmBox lipgloss.Style
}

// NewTheme creates a theme for the current terminal. It queries the
// terminal, so call it before the program takes over the screen.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// NewPlainTheme creates a theme without querying the terminal.
func NewPlainTheme() *Theme {
	t := &Theme{ColorProfile: termenv.Ascii}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginTop(1)

	t.ThreadItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ThreadActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Accent)

	t.ThreadBusy = lipgloss.NewStyle().
		Foreground(Busy)

	t.ExampleItem = lipgloss.NewStyle().
		Foreground(Example)

	t.ExampleActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Example)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.Banner = lipgloss.NewStyle().
		Italic(true).
		Foreground(Example).
		Padding(0, 1)

	// Input and status
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Accent)

	t.InputBoxDisabled = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Accent)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Danger)

	t.StatusInfo = lipgloss.NewStyle().
		Foreground(Success)

	// Confirmation
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Danger).
		Foreground(TextPrimary).
		Padding(1, 2)
}
