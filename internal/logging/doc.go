// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by threadchat's packages.
//
// Records go to a size-rotated JSON file. Line-oriented commands may add a
// console core on stderr; the terminal UI never does, since it owns the
// screen. Packages take a *zap.Logger and name it after themselves:
//
//	log := logging.Named(root, "storage")
package logging
