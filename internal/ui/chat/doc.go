// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen terminal front end.
//
// The Bubble Tea model never calls the controller from Update. Every
// controller call runs inside a tea.Cmd, and the controller reports back
// through a Display that forwards to Program.Send. Sending from the event
// loop itself would block forever.
//
// Layout:
//
//	+----------+---------------------------+
//	| Chats    | messages (viewport)       |
//	|  thread  |                           |
//	| Examples |                           |
//	|  example +---------------------------+
//	|          | input (textarea)          |
//	+----------+---------------------------+
//	| shortcuts / status                   |
//	+--------------------------------------+
package chat
