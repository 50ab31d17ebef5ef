// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/model"
)

// =============================================================================
// REQUEST RESULTS
// =============================================================================

// ReplyMsg carries the settled result of a chat submission.
type ReplyMsg struct {
	Message model.Message
	Err     error
}

// ImageMsg carries the settled result of an image generation.
type ImageMsg struct {
	Message model.Message
	Err     error
}

// DownloadMsg carries the result of saving the last image.
type DownloadMsg struct {
	Path string
	Err  error
}

// ExportMsg carries the result of a conversation export.
type ExportMsg struct {
	Path string
	Err  error
}

// CopyMsg carries the result of a clipboard copy.
type CopyMsg struct {
	Err error
}

// CredentialMsg reports a finished key change.
type CredentialMsg struct {
	Cleared bool
	Err     error
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NotificationMsg delivers an orchestrator notification to the view.
type NotificationMsg struct {
	app.Notification
}
