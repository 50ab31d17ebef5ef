// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient message for the user.
type Notification struct {
	Level Level
	Text  string
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// User-facing notification texts.
const (
	MsgCredentialMissing = "Please set your OpenAI API key first"
	MsgCredentialSaved   = "API key saved"
	MsgCredentialRemoved = "API key removed"
	MsgCredentialInvalid = "Please enter a valid API key"
	MsgCleared           = "Conversation cleared"
	MsgBusy              = "Please wait for the current request to finish"
	MsgDownloaded        = "Image downloaded successfully"
	MsgDownloadFailed    = "Failed to download image"
)
