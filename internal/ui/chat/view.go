// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen/internal/model"
	"github.com/jeranaias/lumen/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting lumen..."
	}

	bottom := []string{m.renderActivity()}
	if toasts := components.RenderToastStack(m.toasts.Toasts(), m.width); toasts != "" {
		bottom = append([]string{toasts}, bottom...)
	}
	bottom = append(bottom,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.statusBar.View(),
	)
	bottomView := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	// Toasts borrow rows from the transcript.
	vp := m.viewport
	extra := lipgloss.Height(bottomView) - (1 + inputHeight + 1 + 1)
	if extra > 0 && vp.Height-extra >= 1 {
		atBottom := vp.AtBottom()
		vp.Height -= extra
		if atBottom {
			vp.GotoBottom()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		vp.View(),
		bottomView,
	)
}

// renderActivity renders the busy line, blank when idle.
func (m Model) renderActivity() string {
	if !m.pending {
		return ""
	}
	elapsed := time.Since(m.pendingSince).Round(time.Second)
	return m.spinner.View() + " " +
		m.theme.ThinkingText.Render(fmt.Sprintf("%s... %s", m.pendingLabel, elapsed))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the help panel, the empty state or the messages.
func (m *Model) renderTranscript() string {
	if m.showHelp {
		return m.renderHelp()
	}

	msgs := m.orch.Messages()
	if len(msgs) == 0 {
		return m.theme.EmptyState.
			Width(m.viewport.Width).
			PaddingTop(m.viewport.Height / 2).
			Render(EmptyStateText)
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one message with its label line.
func (m *Model) renderMessage(msg model.Message) string {
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}

	label := m.theme.RoleLabel.Render(msg.Role.DisplayName()) + " " +
		m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	var body string
	switch {
	case msg.Failed:
		body = m.theme.FailedBubble.Width(width).Render(msg.Content)
	case msg.Role == model.RoleUser:
		body = m.theme.UserBubble.Width(width).Render(msg.Content)
	case msg.Role == model.RoleSystem:
		body = m.theme.SystemBubble.Width(width).Render(msg.Content)
	case msg.HasImage():
		content := msg.Content + "\n" +
			m.theme.ImageLink.Render(msg.ImageURL) + "\n" +
			m.theme.Timestamp.Render("/download to save, /regen for another")
		body = m.theme.AssistantBubble.Width(width).Render(content)
	default:
		body = m.theme.AssistantBubble.Width(width).Render(m.markdown(msg))
	}

	return label + "\n" + body
}

// markdown renders an assistant reply with glamour, caching by message ID.
// Messages never change after creation, so the cache only resets on resize
// or clear.
func (m *Model) markdown(msg model.Message) string {
	if !m.opts.RenderMarkdown || m.renderer == nil {
		return msg.Content
	}
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		m.log.Debug().Err(err).Msg("markdown render failed")
		return msg.Content
	}
	out = strings.Trim(out, "\n")
	m.rendered[msg.ID] = out
	return out
}

// renderHelp renders the slash command list and key bindings.
func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.RoleLabel.Render("Commands") + "\n\n")
	for _, c := range commandHelp {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.ShortcutKey.Render(fmt.Sprintf("%-28s", c.Usage)),
			m.theme.ShortcutDesc.Render(c.Desc)))
	}
	sb.WriteString("\n" + m.theme.RoleLabel.Render("Keys") + "\n\n")
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.ShortcutKey.Render(fmt.Sprintf("%-28s", h.Key)),
			m.theme.ShortcutDesc.Render(h.Desc)))
	}
	sb.WriteString("\n" + m.theme.Timestamp.Render("Esc or /help to close"))
	return sb.String()
}

// newRenderer creates a glamour renderer, or nil when it cannot be built.
func newRenderer(style string, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}
