// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/config"
	"github.com/jeranaias/lumen/internal/export"
	"github.com/jeranaias/lumen/internal/ui/chat"
	"github.com/jeranaias/lumen/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().Foreground(styles.Sky).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-oriented chat with history",
		Long: `Start a line-oriented chat session. Arrow keys browse input history,
which is kept in the config directory.

Slash commands: /image [--size s] <prompt>, /regen, /download [dir],
/export [path], /clear, /quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				input := NewChatCLI()
				defer input.Close()

				s := &chatSession{
					orch: rt.Orchestrator(nil),
					cfg:  rt.Config,
					out:  cmd.OutOrStdout(),
				}
				if !s.orch.HasCredential() {
					fmt.Fprintln(s.out, mutedStyle.Render(app.MsgCredentialMissing+" (lumen key set)"))
				}

				for {
					line, err := input.ReadInput(promptStyle.Render("you> "))
					if err != nil {
						// Ctrl+C, Ctrl+D or a closed stdin all end the session.
						fmt.Fprintln(s.out)
						return nil
					}
					if !s.handleLine(ctx, line) {
						return nil
					}
				}
			})
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	// Keys never go into history.
	if trimmed := strings.TrimSpace(input); trimmed != "" && !strings.HasPrefix(trimmed, "/key") {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession runs REPL lines against one conversation.
type chatSession struct {
	orch *app.Orchestrator
	cfg  *config.Config
	out  io.Writer
}

// handleLine processes one input line and reports whether to continue.
func (s *chatSession) handleLine(parent context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
		return false
	}

	// Ctrl+C during a request cancels it instead of killing the process.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	cmd, ok := chat.ParseCommand(line)
	if !ok {
		msg, err := s.orch.Send(ctx, line)
		s.printResult(msg.Content, err)
		return true
	}

	switch cmd.Name {
	case "quit", "exit", "q":
		return false

	case "image", "img":
		prompt, size, err := chat.ParseImageArgs(cmd.Args)
		if err != nil {
			s.printError("usage: /image [--size square|portrait|landscape] <prompt>")
			return true
		}
		msg, err := s.orch.GenerateImage(ctx, prompt, size)
		s.printResult(msg.Content+"\n"+msg.ImageURL, err)

	case "regen":
		msg, err := s.orch.RegenerateImage(ctx)
		s.printResult(msg.Content+"\n"+msg.ImageURL, err)

	case "download":
		dir := cmd.Args
		if dir == "" {
			dir = s.cfg.UI.DownloadDir
		}
		path, err := s.orch.DownloadLastImage(ctx, dir)
		if err != nil {
			s.printError(app.MsgDownloadFailed + ": " + reason(err))
		} else {
			fmt.Fprintln(s.out, styles.RenderSuccess("saved "+path))
		}

	case "export":
		doc := export.NewDocument("", s.cfg.API.ChatModel, s.orch.Messages())
		path, err := export.WriteFile(doc, cmd.Args, nil)
		if err != nil {
			s.printError("export failed: " + err.Error())
		} else {
			fmt.Fprintln(s.out, styles.RenderSuccess("exported to "+path))
		}

	case "clear":
		s.orch.ClearConversation()
		fmt.Fprintln(s.out, mutedStyle.Render(app.MsgCleared))

	default:
		s.printError(fmt.Sprintf("unknown command /%s", cmd.Name))
	}
	return true
}

// printResult prints a reply, or the failure that replaced it.
func (s *chatSession) printResult(text string, err error) {
	switch {
	case err == nil:
		fmt.Fprint(s.out, renderReply(s.out, s.cfg, strings.TrimSpace(text)))
	case errors.Is(err, app.ErrCredentialMissing):
		s.printError(errNoKey.Error())
	case errors.Is(err, app.ErrNoImage):
		s.printError("no image prompt to regenerate yet")
	default:
		// The apology was appended to the conversation; show the reason.
		s.printError(reason(err))
	}
}

func (s *chatSession) printError(text string) {
	fmt.Fprintln(s.out, styles.RenderError(text))
}
