// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/credential"
	"github.com/jeranaias/lumen/internal/model"
	"github.com/jeranaias/lumen/internal/storage"
	"github.com/jeranaias/lumen/internal/ui/components"
	"github.com/jeranaias/lumen/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type stubBackend struct {
	mu       sync.Mutex
	reply    string
	imageURL string
	prompts  []string
	sizes    []string
}

func (b *stubBackend) Complete(_ context.Context, _ string, history []openai.ChatCompletionMessage) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompts = append(b.prompts, history[len(history)-1].Content)
	return b.reply, nil
}

func (b *stubBackend) GenerateImage(_ context.Context, _ string, prompt, size string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompts = append(b.prompts, prompt)
	b.sizes = append(b.sizes, size)
	return b.imageURL, nil
}

func newTestModel(t *testing.T, backend app.Backend, apiKey string) (Model, *app.Orchestrator) {
	t.Helper()

	holder := credential.NewHolder(storage.NewMemoryStore())
	if apiKey != "" {
		require.NoError(t, holder.Set(context.Background(), apiKey))
	}
	notifier := NewNotifier(16)
	orch := app.New(holder, model.NewConversation(), backend).WithNotifier(notifier)

	m := New(orch, notifier, Options{
		Theme:      styles.NewTheme(styles.ModeDark),
		ChatModel:  "gpt-4o",
		ImageModel: "dall-e-3",
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}), orch
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func submit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func toastTexts(m Model) []string {
	var out []string
	for _, toast := range m.toasts.Toasts() {
		out = append(out, toast.Message)
	}
	return out
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		name string
		args string
	}{
		{"/help", true, "help", ""},
		{"  /KEY sk-abc  ", true, "key", "sk-abc"},
		{"/image --size portrait a red cube", true, "image", "--size portrait a red cube"},
		{"hello", false, "", ""},
		{"/", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd, ok := ParseCommand(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, cmd.Name)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}

func TestParseImageArgs(t *testing.T) {
	tests := []struct {
		in     string
		prompt string
		size   app.ImageSize
		err    error
	}{
		{"a red cube", "a red cube", app.SizeSquare, nil},
		{"--size portrait a tall tower", "a tall tower", app.SizePortrait, nil},
		{"-s landscape wide valley", "wide valley", app.SizeLandscape, nil},
		{"--size=1792x1024 wide valley", "wide valley", app.SizeLandscape, nil},
		{"--size huge thing", "", "", app.ErrInvalidSize},
		{"--size", "", "", app.ErrInvalidSize},
		{"--size square", "", app.SizeSquare, ErrMissingPrompt},
		{"", "", app.SizeSquare, ErrMissingPrompt},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			prompt, size, err := ParseImageArgs(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prompt, prompt)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestCopyText(t *testing.T) {
	assert.Equal(t, "first reply", copyText(model.NewAssistantMessage("first reply")))
	assert.Equal(t, "https://img.example/a.png",
		copyText(model.NewImageMessage(app.ImageCaption, "https://img.example/a.png")))
}

// =============================================================================
// VIEW STATE
// =============================================================================

func TestNew_PlaceholderFollowsCredential(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "")
	assert.Equal(t, PlaceholderNoKey, m.input.Placeholder)
	assert.Equal(t, components.StatusNoKey, m.statusBar.Status)

	m, _ = newTestModel(t, &stubBackend{}, "sk-test")
	assert.Equal(t, PlaceholderReady, m.input.Placeholder)
	assert.Equal(t, components.StatusReady, m.statusBar.Status)
}

func TestView_EmptyState(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	view := m.View()
	assert.Contains(t, view, EmptyStateText)
	assert.Contains(t, view, "lumen")
}

func TestView_NotReadyBeforeResize(t *testing.T) {
	holder := credential.NewHolder(storage.NewMemoryStore())
	orch := app.New(holder, model.NewConversation(), &stubBackend{})
	m := New(orch, NewNotifier(1), Options{Theme: styles.NewTheme(styles.ModeDark)})
	assert.Equal(t, "Starting lumen...", m.View())
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmit_NoCredentialKeepsInput(t *testing.T) {
	backend := &stubBackend{reply: "unused"}
	m, orch := newTestModel(t, backend, "")

	m, cmd := submit(t, m, "Hello")
	assert.Nil(t, cmd)
	assert.False(t, m.pending)
	assert.Equal(t, "Hello", m.input.Value())
	assert.Contains(t, toastTexts(m), app.MsgCredentialMissing)
	assert.Empty(t, orch.Messages())
	assert.Empty(t, backend.prompts)
}

func TestSubmit_SendsAndSettles(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{reply: "Hi there"}, "sk-test")

	m, cmd := submit(t, m, "Hello")
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, components.StatusThinking, m.statusBar.Status)
	assert.Contains(t, m.View(), "Thinking...")

	msg := sendCmd(m.ctx, orch, "Hello")()
	m = update(t, m, msg)

	assert.False(t, m.pending)
	require.Len(t, orch.Messages(), 2)
	view := m.View()
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, "Hi there")
	assert.NotContains(t, view, EmptyStateText)
}

func TestSubmit_RejectedWhileBusy(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{reply: "x"}, "sk-test")
	m.pending = true

	m, cmd := submit(t, m, "second")
	assert.Nil(t, cmd)
	assert.Equal(t, "second", m.input.Value())
	assert.Contains(t, toastTexts(m), app.MsgBusy)
	assert.Empty(t, orch.Messages())
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "   ")
	assert.Nil(t, cmd)
	assert.False(t, m.pending)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestImageCommand(t *testing.T) {
	backend := &stubBackend{imageURL: "https://img.example/cube.png"}
	m, orch := newTestModel(t, backend, "sk-test")

	m, cmd := submit(t, m, "/image --size portrait a red cube")
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Equal(t, "Generating portrait image", m.pendingLabel)

	m = update(t, m, imageCmd(m.ctx, orch, "a red cube", app.SizePortrait)())
	assert.False(t, m.pending)
	assert.Equal(t, []string{"1024x1792"}, backend.sizes)

	view := m.View()
	assert.Contains(t, view, "Generate image: a red cube")
	assert.Contains(t, view, "https://img.example/cube.png")
}

func TestImageCommand_Usage(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/image --size huge")
	assert.Nil(t, cmd)
	assert.False(t, m.pending)
	require.NotEmpty(t, toastTexts(m))
	assert.True(t, strings.HasPrefix(toastTexts(m)[0], "Usage: /image"))
}

func TestRegenCommand_NoImage(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/regen")
	require.NotNil(t, cmd)

	m = update(t, m, regenCmd(m.ctx, orch)())
	assert.False(t, m.pending)
	assert.Contains(t, toastTexts(m), "No image prompt to regenerate yet")
}

func TestKeyCommand_SetAndClear(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{}, "")

	m, cmd := submit(t, m, "/key sk-new")
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value(), "key must not stay in the input")
	m = update(t, m, cmd())
	assert.True(t, orch.HasCredential())
	assert.Equal(t, PlaceholderReady, m.input.Placeholder)

	m, cmd = submit(t, m, "/key clear")
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.False(t, orch.HasCredential())
	assert.Equal(t, PlaceholderNoKey, m.input.Placeholder)
}

func TestClearCommand_NotifiesAndEmpties(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{reply: "ok"}, "sk-test")
	_, err := orch.Send(context.Background(), "Hello")
	require.NoError(t, err)

	m, _ = submit(t, m, "/clear")
	assert.Empty(t, orch.Messages())
	assert.True(t, orch.HasCredential())
	assert.Contains(t, m.View(), EmptyStateText)

	// The orchestrator's notification arrives through the notifier.
	m = update(t, m, m.notifier.listen()())
	assert.Contains(t, toastTexts(m), app.MsgCleared)
}

func TestClearCommand_RefusedWhilePending(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{reply: "ok"}, "sk-test")
	_, err := orch.Send(context.Background(), "Hello")
	require.NoError(t, err)

	m.pending = true
	m, _ = submit(t, m, "/clear")
	assert.Len(t, orch.Messages(), 2)
	assert.Contains(t, toastTexts(m), app.MsgBusy)
}

func TestHelpCommand_Toggles(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, _ = submit(t, m, "/help")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "/download [dir]")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestUnknownCommand(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/frobnicate")
	assert.Nil(t, cmd)
	assert.Contains(t, toastTexts(m), "Unknown command /frobnicate (try /help)")
}

func TestCopyCommand_NothingToCopy(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/copy")
	assert.Nil(t, cmd)
	assert.Contains(t, toastTexts(m), "Nothing to copy yet")
}

func TestExportCommand(t *testing.T) {
	m, orch := newTestModel(t, &stubBackend{reply: "Hi there"}, "sk-test")
	_, err := orch.Send(context.Background(), "Hello")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chat.md")
	m, cmd := submit(t, m, "/export "+path)
	require.NotNil(t, cmd)

	m = update(t, m, cmd())
	assert.Contains(t, toastTexts(m), "Exported to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hi there")
}

func TestExportCommand_Empty(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/export "+filepath.Join(t.TempDir(), "x.md"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Contains(t, toastTexts(m), "Nothing to export yet")
}

func TestDownloadCommand_NoImage(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, "sk-test")
	m, cmd := submit(t, m, "/download")
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Contains(t, toastTexts(m), "No image to download yet")
}

// =============================================================================
// NOTIFIER
// =============================================================================

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := NewNotifier(1)
	n.Notify(app.Notification{Level: app.LevelInfo, Text: "first"})
	n.Notify(app.Notification{Level: app.LevelInfo, Text: "second"})

	msg := n.listen()().(NotificationMsg)
	assert.Equal(t, "first", msg.Text)
	assert.Len(t, n.ch, 0)
}

func TestToastKind(t *testing.T) {
	assert.Equal(t, components.ToastKindError, toastKind(app.LevelError))
	assert.Equal(t, components.ToastKindWarning, toastKind(app.LevelWarning))
	assert.Equal(t, components.ToastKindSuccess, toastKind(app.LevelSuccess))
	assert.Equal(t, components.ToastKindStatus, toastKind(app.LevelInfo))
}
