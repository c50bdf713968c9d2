// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant is the HTTP client for the remote reply endpoint.
//
// The endpoint takes a POST with a JSON body {"message": "...", "threadId": "..."}
// (threadId omitted for one-off prompts such as title generation) and answers
// with {"message": "..."}. Each call is a single attempt; failures are
// reported as *NetworkError or *MalformedResponseError.
package assistant
