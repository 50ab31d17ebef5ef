// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/export"
	"github.com/jeranaias/lumen/internal/model"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

// Command is a parsed slash command.
type Command struct {
	Name string // lower-cased, without the slash
	Args string // remainder, trimmed
}

// ErrMissingPrompt is returned by ParseImageArgs when only flags were given.
var ErrMissingPrompt = errors.New("missing image prompt")

// ParseCommand splits "/name args..." into a Command. Input that does not
// start with a slash is not a command.
func ParseCommand(input string) (Command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || len(input) < 2 {
		return Command{}, false
	}
	name, args, _ := strings.Cut(input[1:], " ")
	return Command{
		Name: strings.ToLower(name),
		Args: strings.TrimSpace(args),
	}, true
}

// ParseImageArgs reads an optional --size flag (also -s or --size=) ahead of
// the prompt.
func ParseImageArgs(args string) (string, app.ImageSize, error) {
	fields := strings.Fields(args)
	size := app.SizeSquare

	i := 0
	for i < len(fields) {
		f := fields[i]
		var value string
		switch {
		case f == "--size" || f == "-s":
			if i+1 >= len(fields) {
				return "", "", fmt.Errorf("%w: %s needs a value", app.ErrInvalidSize, f)
			}
			value = fields[i+1]
			i += 2
		case strings.HasPrefix(f, "--size="):
			value = strings.TrimPrefix(f, "--size=")
			i++
		default:
			prompt := strings.Join(fields[i:], " ")
			return prompt, size, nil
		}

		parsed, err := app.ParseSize(value)
		if err != nil {
			return "", "", err
		}
		size = parsed
	}
	return "", size, ErrMissingPrompt
}

// commandHelp is the /help listing, in display order.
var commandHelp = []struct {
	Usage string
	Desc  string
}{
	{"/key <value>", "Set your OpenAI API key"},
	{"/key clear", "Remove the stored API key"},
	{"/key", "Show whether a key is set"},
	{"/image [--size s] <prompt>", "Generate an image (square, portrait, landscape)"},
	{"/regen", "Generate the last image prompt again"},
	{"/download [dir]", "Save the last generated image"},
	{"/copy", "Copy the last reply or image URL"},
	{"/export [path]", "Export the conversation (.md, .json, .html)"},
	{"/clear", "Clear the conversation"},
	{"/help", "Toggle this list"},
	{"/quit", "Exit lumen"},
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd submits a chat message.
func sendCmd(ctx context.Context, orch *app.Orchestrator, text string) tea.Cmd {
	return func() tea.Msg {
		msg, err := orch.Send(ctx, text)
		return ReplyMsg{Message: msg, Err: err}
	}
}

// imageCmd submits an image generation.
func imageCmd(ctx context.Context, orch *app.Orchestrator, prompt string, size app.ImageSize) tea.Cmd {
	return func() tea.Msg {
		msg, err := orch.GenerateImage(ctx, prompt, size)
		return ImageMsg{Message: msg, Err: err}
	}
}

// regenCmd re-runs the last image prompt.
func regenCmd(ctx context.Context, orch *app.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		msg, err := orch.RegenerateImage(ctx)
		return ImageMsg{Message: msg, Err: err}
	}
}

// downloadCmd saves the last image into dir.
func downloadCmd(ctx context.Context, orch *app.Orchestrator, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := orch.DownloadLastImage(ctx, dir)
		return DownloadMsg{Path: path, Err: err}
	}
}

// setKeyCmd stores a new API key. The store may be remote, so it runs off
// the UI goroutine.
func setKeyCmd(ctx context.Context, orch *app.Orchestrator, value string) tea.Cmd {
	return func() tea.Msg {
		return CredentialMsg{Err: orch.SetCredential(ctx, value)}
	}
}

// clearKeyCmd removes the API key.
func clearKeyCmd(ctx context.Context, orch *app.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return CredentialMsg{Cleared: true, Err: orch.ClearCredential(ctx)}
	}
}

// exportCmd writes the conversation to path.
func exportCmd(msgs []model.Message, chatModel, path string, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		doc := export.NewDocument("", chatModel, msgs)
		written, err := export.WriteFile(doc, path, opts)
		return ExportMsg{Path: written, Err: err}
	}
}

// copyCmd puts text on the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyMsg{Err: clipboard.WriteAll(text)}
	}
}

// copyText is the clipboard form of a reply: its image URL when it has
// one, otherwise its content.
func copyText(reply model.Message) string {
	if reply.HasImage() {
		return reply.ImageURL
	}
	return reply.Content
}
