// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// =============================================================================
// CONFIRMATION
// =============================================================================

// ErrConfirmationRequired is returned when a destructive action cannot
// prompt and --yes was not given.
var ErrConfirmationRequired = errors.New("confirmation required: pass --yes")

// ConfirmationOptions controls RequireConfirmation.
type ConfirmationOptions struct {
	// Yes is set by --yes and skips the prompt.
	Yes bool

	// JSONMode forbids prompting; --yes is then mandatory.
	JSONMode bool

	// Interactive reports whether a prompt can be shown. Defaults to IsTTY.
	Interactive func() bool

	// In and Out are the prompt streams.
	In  io.Reader
	Out io.Writer
}

// RequireConfirmation asks before a destructive action.
//
// Confirmation flow:
//  1. --yes proceeds immediately
//  2. JSON mode without --yes is an error
//  3. a non-interactive stdin without --yes is an error
//  4. otherwise the user is asked and must answer y or yes
func RequireConfirmation(prompt string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if opts.JSONMode {
		return false, ErrConfirmationRequired
	}
	interactive := opts.Interactive
	if interactive == nil {
		interactive = IsTTY
	}
	if !interactive() {
		return false, fmt.Errorf("%w (stdin is not a terminal)", ErrConfirmationRequired)
	}

	fmt.Fprintf(opts.Out, "%s [y/N]: ", prompt)
	input, err := bufio.NewReader(opts.In).ReadString('\n')
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return isYes(input), nil
}

func isYes(input string) bool {
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}
