// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// configureColors applies the detected color profile to lipgloss. Called
// once per command run rather than at init so tests can force a profile.
func configureColors() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent)

	// LabelStyle is used for left-aligned field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	// SuccessStyle marks completed operations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Success).
			Bold(true)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Danger).
			Bold(true)

	// WarningStyle marks cautions.
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Busy)

	// DimStyle is used for hints and secondary details.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// SeparatorStyle is used for horizontal rules.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// ActiveStyle highlights the active thread in listings.
	ActiveStyle = lipgloss.NewStyle().
			Foreground(styles.Accent).
			Bold(true)

	// PromptStyle is the chat REPL prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Accent).
			Bold(true)

	// UserLabelStyle labels the user's turns in printed transcripts.
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(styles.Accent).
			Bold(true)

	// AssistantLabelStyle labels assistant turns.
	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.Success).
				Bold(true)
)

// RenderSeparator renders a horizontal rule, 70 columns unless given.
func RenderSeparator(width ...int) string {
	w := 70
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("-", w))
}

// RenderLabel renders a fixed-width field label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}
