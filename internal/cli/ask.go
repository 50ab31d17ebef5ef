// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text...>",
		Short: "Send one message and print the reply",
		Long: `Send one message as a fresh conversation and print the reply.

The reply is rendered as markdown when stdout is a terminal and printed
as-is when piped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				orch := rt.Orchestrator(nil)
				msg, err := orch.Send(ctx, text)
				if err != nil {
					return requestError(err)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderReply(cmd.OutOrStdout(), rt.Config, msg.Content))
				return nil
			})
		},
	}
}
