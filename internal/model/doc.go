// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the in-memory conversation state for threadchat.
//
// The whole application state is one owned value, State, holding the thread
// index (most recently created first), the per-thread message logs, the title
// map and the active thread pointer. Components receive it explicitly; there
// are no package-level conversation variables.
//
// # Key Types
//
//   - ThreadID: opaque random base-36 token
//   - Author: who wrote a message (user or assistant)
//   - Message: tagged record of content and author
//   - State: thread index, logs, titles and the active pointer
//
// # Usage
//
//	st := model.NewState()
//	id := st.CreateThread()
//	st.AppendMessage(id, "Hello", model.AuthorUser)
//	st.SetTitle(id, "Greeting")
package model
