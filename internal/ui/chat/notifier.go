// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen/internal/app"
)

// Notifier forwards orchestrator notifications into the Bubble Tea loop.
// Notify never blocks; when the buffer is full the notification is dropped.
type Notifier struct {
	ch chan app.Notification
}

// NewNotifier creates a notifier with the given buffer size.
func NewNotifier(buffer int) *Notifier {
	if buffer < 1 {
		buffer = 1
	}
	return &Notifier{ch: make(chan app.Notification, buffer)}
}

// Notify implements app.Notifier.
func (n *Notifier) Notify(note app.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// listen waits for the next notification. The view re-issues it after each
// delivery.
func (n *Notifier) listen() tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Notification: <-n.ch}
	}
}
