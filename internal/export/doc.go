// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation to Markdown, JSON or HTML.
//
// # Key Types
//
//   - Document: the conversation plus title and model metadata
//   - Exporter: converts a Document to bytes in one format
//   - Options: metadata and timestamp toggles, HTML theme
//
// # Usage
//
//	doc := export.NewDocument("", "gpt-4o", orchestrator.Messages())
//	path, err := export.WriteFile(doc, "chat.md", nil)
//
// Generated images are exported as links (Markdown) or img tags (HTML)
// pointing at their original URLs.
package export
