// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns stored message content into safe display output.
//
// User messages are always literal text. Assistant messages are either
// pre-formatted markup (content whose first non-whitespace character opens a
// tag) or plain text, which is rendered as GitHub-flavoured Markdown with
// highlighted code blocks. A legacy mode reproduces the older line-based
// substitution rules instead of parsing Markdown.
//
// Every HTML fragment produced here passes through a sanitising policy, so
// scripts and event handlers embedded in assistant content never survive.
//
// For terminals, TerminalRenderer produces ANSI output through glamour.
package render
