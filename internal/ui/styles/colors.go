// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Accent - Active thread, focused input border
var Accent = lipgloss.AdaptiveColor{Light: "#0B5CAD", Dark: "#58A6FF"}

// Example - Example conversations in the sidebar
var Example = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Busy - Threads waiting on a reply
var Busy = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Danger - Confirmation prompts and errors
var Danger = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Success - Short-lived confirmations
var Success = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// SurfaceDim - Sidebar and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#161B22"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#30363D"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#A6ADC8"}

// TextMuted - Hints and placeholders
var TextMuted = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#6E7681"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0D1117"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1F6FEB"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#FFFFFF"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#30363D"}
