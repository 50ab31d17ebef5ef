// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/lumen/internal/ui/chat"
	"github.com/jeranaias/lumen/internal/ui/styles"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

// runTUI starts the Bubble Tea program. Logs must not reach the terminal
// while it owns the screen, so verbose output is refused here.
func runTUI(cmd *cobra.Command, _ []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return fmt.Errorf("--verbose is not supported in the UI; see log.file in the config")
	}

	return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
		notifier := chat.NewNotifier(32)
		orch := rt.Orchestrator(notifier)

		model := chat.New(orch, notifier, chat.Options{
			Theme:          styles.NewTheme(rt.Config.UI.Theme),
			ChatModel:      rt.Config.API.ChatModel,
			ImageModel:     rt.Config.API.ImageModel,
			RenderMarkdown: rt.Config.UI.RenderMarkdown,
			DownloadDir:    rt.Config.UI.DownloadDir,
			Log:            rt.Log,
		})
		defer model.Cancel()

		rt.Log.Info().Msg("starting ui")
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		rt.Log.Info().Msg("ui closed")
		return nil
	})
}
