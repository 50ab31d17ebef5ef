// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusNoKey
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusNoKey:
		return "No API key"
	default:
		return "Unknown"
	}
}

// StatusBar is the bottom line: status, key state, message count and shortcuts.
type StatusBar struct {
	Status       Status
	KeyDisplay   string
	MessageCount int
	Width        int
	theme        *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetKey updates the masked credential display.
func (s *StatusBar) SetKey(display string) {
	s.KeyDisplay = display
}

// SetMessageCount updates the message counter.
func (s *StatusBar) SetMessageCount(n int) {
	s.MessageCount = n
}

// View renders the status bar. Narrow terminals drop the shortcuts first.
func (s *StatusBar) View() string {
	left := []string{s.statusStyle().Render(s.Status.String())}
	if s.KeyDisplay != "" {
		left = append(left, "key: "+s.KeyDisplay)
	}
	left = append(left, fmt.Sprintf("%d msgs", s.MessageCount))
	leftText := strings.Join(left, "  ")

	shortcuts := s.renderShortcuts()
	gap := s.Width - 2 - lipgloss.Width(leftText) - lipgloss.Width(shortcuts)
	line := leftText
	if gap >= 1 {
		line += strings.Repeat(" ", gap) + shortcuts
	}
	return s.theme.StatusBar.Width(s.Width).MaxHeight(1).Render(line)
}

func (s *StatusBar) renderShortcuts() string {
	pairs := [][2]string{{"enter", "send"}, {"/help", "commands"}, {"ctrl+c", "quit"}}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, s.theme.ShortcutKey.Render(p[0])+" "+s.theme.ShortcutDesc.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusThinking:
		return s.theme.WarningStyle
	case StatusNoKey:
		return s.theme.ErrorStyle
	default:
		return s.theme.SuccessStyle
	}
}
