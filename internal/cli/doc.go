// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the lumen command tree.
//
// Running lumen with no arguments starts the terminal UI. The other
// commands are line-oriented:
//
//	lumen ask <text...>          one completion, printed to stdout
//	lumen chat                   REPL with line editing and history
//	lumen image <prompt...>      generate an image, print its URL
//	lumen key set|clear|status   manage the stored API key
//	lumen config show|path|init|get|set
//	lumen version
//
// Every command shares one bootstrap: configuration, logging, the
// credential store and the API client.
package cli
