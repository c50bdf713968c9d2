// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the threadchat command line.
//
// Running threadchat without a subcommand starts the full-screen chat. The
// subcommands work on the same persisted conversations:
//
//	threadchat                        Start the terminal UI
//	threadchat chat                   Line-based chat with history
//	threadchat threads list           List threads, newest first
//	threadchat threads show <id>      Print one thread
//	threadchat export <id>            Export a thread (--format html|md|json)
//	threadchat clear --yes            Delete every conversation
//	threadchat examples list          List the example conversations
//	threadchat examples show <name>   Print an example
//	threadchat config show|init|path  Inspect or create the config file
//
// Global flags:
//
//	--config PATH     Use a specific config file
//	--ephemeral       Keep conversations in memory only
//	--endpoint URL    Override the assistant endpoint
//	--json            Machine-readable output where supported
//	-v, --verbose     Log to stderr as well as the log file
package cli
