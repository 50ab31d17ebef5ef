// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/ui/components"
	"github.com/jeranaias/lumen/internal/ui/styles"
)

// Input placeholders.
const (
	PlaceholderNoKey = "Set your API key to start chatting..."
	PlaceholderReady = "Type a message, or /help for commands..."
)

// EmptyStateText is shown when the conversation has no messages.
const EmptyStateText = "No messages yet. Start a conversation or generate an image!"

// inputHeight is the number of text rows in the input area.
const inputHeight = 3

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat view.
type Options struct {
	Theme          *styles.Theme
	ChatModel      string
	ImageModel     string
	RenderMarkdown bool
	DownloadDir    string
	Log            zerolog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	orch     *app.Orchestrator
	notifier *Notifier
	opts     Options
	theme    *styles.Theme
	log      zerolog.Logger

	// Cancelled on quit so in-flight requests settle.
	ctx    context.Context
	cancel context.CancelFunc

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport  viewport.Model
	input     textarea.Model
	spinner   spinner.Model
	keys      KeyMap
	header    *components.Header
	statusBar *components.StatusBar
	toasts    *components.ToastManager

	// Markdown rendering, cached per message ID for the current width.
	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      map[string]string

	// Request state
	pending      bool
	pendingSince time.Time
	pendingLabel string

	showHelp bool
}

// New creates the chat view. The notifier must be the one installed on orch.
func New(orch *app.Orchestrator, notifier *Notifier, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	header := components.NewHeader(theme)
	header.SetModels(opts.ChatModel, opts.ImageModel)

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		orch:      orch,
		notifier:  notifier,
		opts:      opts,
		theme:     theme,
		log:       opts.Log,
		ctx:       ctx,
		cancel:    cancel,
		viewport:  viewport.New(80, 20),
		input:     ta,
		spinner:   sp,
		keys:      DefaultKeyMap(),
		header:    header,
		statusBar: components.NewStatusBar(theme),
		toasts:    components.NewToastManager(),
		rendered:  make(map[string]string),
	}
	m.syncCredential()
	return m
}

// Init starts the cursor blink, the notification listener and the toast ticker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, components.ToastTickCmd()}
	if m.notifier != nil {
		cmds = append(cmds, m.notifier.listen())
	}
	return tea.Batch(cmds...)
}

// syncCredential updates the placeholder and status bar from the key state.
func (m *Model) syncCredential() {
	if m.orch.HasCredential() {
		m.input.Placeholder = PlaceholderReady
	} else {
		m.input.Placeholder = PlaceholderNoKey
	}
	m.statusBar.SetKey(m.orch.CredentialStatus())
	m.syncStatus()
}

// syncStatus updates the status bar from the request state.
func (m *Model) syncStatus() {
	switch {
	case m.pending:
		m.statusBar.SetStatus(components.StatusThinking)
	case !m.orch.HasCredential():
		m.statusBar.SetStatus(components.StatusNoKey)
	default:
		m.statusBar.SetStatus(components.StatusReady)
	}
	m.statusBar.SetMessageCount(m.orch.MessageCount())
}

// toast adds a toast of the given kind.
func (m *Model) toast(kind components.ToastKind, text string) {
	m.toasts.Add(components.NewToast(kind, text))
}

// toastKind maps a notification level to a toast kind.
func toastKind(level app.Level) components.ToastKind {
	switch level {
	case app.LevelSuccess:
		return components.ToastKindSuccess
	case app.LevelWarning:
		return components.ToastKindWarning
	case app.LevelError:
		return components.ToastKindError
	default:
		return components.ToastKindStatus
	}
}
