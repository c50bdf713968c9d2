// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for threadchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - EndpointConfig: Assistant endpoint URL, timeout and rate limit
//   - StorageConfig: Conversation backend selection
//   - RenderConfig: Markdown or legacy rendering of replies
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (THREADCHAT_*)
//   - .env in the working directory, then ~/.threadchat/.env
//   - ~/.threadchat/config.toml
//   - ~/.threadchat/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := assistant.NewClientWithConfig(cfg.ClientConfig())
package config
