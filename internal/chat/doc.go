// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates threadchat: it owns the conversation state and
// coordinates the store, renderer, assistant endpoint and title generator.
//
// The Controller is display-agnostic. Front ends (the terminal UI, the line
// REPL, tests) implement Display and receive callbacks as the state changes.
//
// # Concurrency
//
// The controller state is guarded by a mutex and display callbacks are made
// with the mutex released, so a Display may call query methods such as
// Threads from inside a callback. SendMessage blocks for the network round
// trip and is normally called from its own goroutine. Each thread allows one
// outstanding request; replies are always filed into the thread that sent
// the request, whichever thread is showing when they arrive.
package chat
