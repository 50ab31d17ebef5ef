// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/export"
	"github.com/jeranaias/lumen/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// The user turn is appended by the request goroutine.
		m.refresh()
		return m, cmd

	case NotificationMsg:
		m.toast(toastKind(msg.Level), msg.Text)
		return m, m.notifier.listen()

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case ReplyMsg:
		m.settle()
		return m, nil

	case ImageMsg:
		m.settle()
		if errors.Is(msg.Err, app.ErrNoImage) {
			m.toast(components.ToastKindWarning, "No image prompt to regenerate yet")
		}
		return m, nil

	case DownloadMsg:
		switch {
		case msg.Err == nil:
			m.toast(components.ToastKindStatus, "Saved to "+msg.Path)
		case errors.Is(msg.Err, app.ErrNoImage):
			m.toast(components.ToastKindWarning, "No image to download yet")
		case errors.Is(msg.Err, app.ErrDownloadUnsupported):
			m.toast(components.ToastKindError, app.MsgDownloadFailed)
		}
		// Other failures were already notified by the orchestrator.
		return m, nil

	case ExportMsg:
		switch {
		case msg.Err == nil:
			m.toast(components.ToastKindSuccess, "Exported to "+msg.Path)
		case errors.Is(msg.Err, export.ErrEmptyConversation):
			m.toast(components.ToastKindWarning, "Nothing to export yet")
		default:
			m.log.Warn().Err(msg.Err).Msg("export failed")
			m.toast(components.ToastKindError, "Export failed: "+msg.Err.Error())
		}
		return m, nil

	case CopyMsg:
		if msg.Err != nil {
			m.toast(components.ToastKindError, "Clipboard unavailable: "+msg.Err.Error())
		} else {
			m.toast(components.ToastKindSuccess, "Copied to clipboard")
		}
		return m, nil

	case CredentialMsg:
		m.syncCredential()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses to the viewport, the input or a submission.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Dismiss):
		if m.showHelp {
			m.showHelp = false
			m.refresh()
		} else {
			m.toasts.Dismiss()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SUBMISSION
// =============================================================================

// handleSubmit sends the input as a chat turn or runs it as a slash command.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmd, ok := ParseCommand(text); ok {
		m.input.Reset()
		return m.runCommand(cmd)
	}

	if !m.admit() {
		return m, nil
	}
	m.input.Reset()
	return m.begin("Thinking", sendCmd(m.ctx, m.orch, text))
}

// admit mirrors the orchestrator's admission checks so a rejected
// submission keeps its text in the input.
func (m *Model) admit() bool {
	state := m.orch.Snapshot()
	if m.pending {
		state = state.SetBusy(true)
	}
	switch err := state.Admit(); {
	case errors.Is(err, app.ErrBusy):
		m.toast(components.ToastKindWarning, app.MsgBusy)
		return false
	case errors.Is(err, app.ErrCredentialMissing):
		m.toast(components.ToastKindError, app.MsgCredentialMissing)
		return false
	}
	return true
}

// begin marks a request in flight and starts the spinner.
func (m Model) begin(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.pending = true
	m.pendingSince = time.Now()
	m.pendingLabel = label
	m.showHelp = false
	m.syncStatus()
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// settle clears the in-flight state and redraws the transcript.
func (m *Model) settle() {
	m.pending = false
	m.pendingLabel = ""
	m.syncStatus()
	m.refresh()
}

// runCommand executes a slash command.
func (m Model) runCommand(cmd Command) (tea.Model, tea.Cmd) {
	m.log.Debug().Str("command", cmd.Name).Msg("slash command")

	switch cmd.Name {
	case "key":
		switch {
		case cmd.Args == "":
			m.toast(components.ToastKindStatus, "API key: "+m.orch.CredentialStatus())
			return m, nil
		case strings.EqualFold(cmd.Args, "clear"):
			return m, clearKeyCmd(m.ctx, m.orch)
		default:
			return m, setKeyCmd(m.ctx, m.orch, cmd.Args)
		}

	case "image", "img":
		prompt, size, err := ParseImageArgs(cmd.Args)
		if err != nil {
			m.toast(components.ToastKindError, "Usage: /image [--size square|portrait|landscape] <prompt>")
			return m, nil
		}
		if !m.admit() {
			return m, nil
		}
		return m.begin(fmt.Sprintf("Generating %s image", size), imageCmd(m.ctx, m.orch, prompt, size))

	case "regen", "regenerate":
		if !m.admit() {
			return m, nil
		}
		return m.begin("Regenerating image", regenCmd(m.ctx, m.orch))

	case "download":
		dir := cmd.Args
		if dir == "" {
			dir = m.opts.DownloadDir
		}
		return m, downloadCmd(m.ctx, m.orch, dir)

	case "copy":
		reply, ok := m.orch.LastReply()
		if !ok {
			m.toast(components.ToastKindWarning, "Nothing to copy yet")
			return m, nil
		}
		return m, copyCmd(copyText(reply))

	case "export":
		opts := export.DefaultOptions()
		if !m.theme.IsDark {
			opts.Theme = "light"
		}
		return m, exportCmd(m.orch.Messages(), m.opts.ChatModel, cmd.Args, opts)

	case "clear":
		// A reply in flight would land in the emptied conversation.
		if m.pending || m.orch.Busy() {
			m.toast(components.ToastKindWarning, app.MsgBusy)
			return m, nil
		}
		m.orch.ClearConversation()
		m.rendered = make(map[string]string)
		m.syncStatus()
		m.refresh()
		return m, nil

	case "help", "?":
		m.showHelp = !m.showHelp
		m.refresh()
		return m, nil

	case "quit", "exit", "q":
		return m.quit()

	default:
		m.toast(components.ToastKindWarning, fmt.Sprintf("Unknown command /%s (try /help)", cmd.Name))
		return m, nil
	}
}

// quit cancels in-flight requests and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes component sizes for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.input.SetWidth(width - 2)

	// header + status bar + activity line + input with its border
	chrome := 1 + 1 + 1 + inputHeight + 1
	vpHeight := height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	if width != m.rendererWidth {
		m.renderer = newRenderer(m.theme.GlamourStyle(), width-4)
		m.rendererWidth = width
		m.rendered = make(map[string]string)
	}

	m.ready = true
	m.refresh()
}

// refresh rebuilds the transcript, following the bottom when already there.
func (m *Model) refresh() {
	follow := m.viewport.AtBottom() || m.pending
	m.viewport.SetContent(m.renderTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
	m.statusBar.SetMessageCount(m.orch.MessageCount())
}

// Cancel aborts any in-flight request.
func (m Model) Cancel() {
	m.cancel()
}

