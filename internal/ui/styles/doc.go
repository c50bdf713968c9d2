// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling for the threadchat terminal UI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals.

# Color System (colors.go)

	Accent            - Active thread, focused borders
	UserBubbleBg/Fg   - User messages
	AssistantBubbleFg - Assistant messages
	TextMuted         - Placeholders, hints, example labels

# Theme System (theme.go)

	theme := styles.NewTheme()
	line := theme.ThreadActive.Render(title)
*/
package styles
