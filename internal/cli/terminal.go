// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/lumen/internal/cloud"
	"github.com/jeranaias/lumen/internal/config"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// isTerminal reports whether w is an *os.File attached to a terminal.
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// terminalWidth returns the width of w, or DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderReply renders markdown for terminals and leaves piped output plain.
func renderReply(w io.Writer, cfg *config.Config, text string) string {
	if !cfg.UI.RenderMarkdown || !isTerminal(w) {
		return text + "\n"
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(terminalWidth(w) - 4)}
	switch cfg.UI.Theme {
	case "dark", "light":
		opts = append(opts, glamour.WithStandardStyle(cfg.UI.Theme))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

// reason is the user-facing failure reason.
func reason(err error) string {
	return cloud.Reason(err)
}
