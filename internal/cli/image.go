// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/lumen/internal/app"
)

func newImageCmd() *cobra.Command {
	var (
		sizeFlag    string
		downloadDir string
	)

	cmd := &cobra.Command{
		Use:   "image <prompt...>",
		Short: "Generate an image and print its URL",
		Example: `  lumen image "a red cube on a white table"
  lumen image --size portrait --download ~/Pictures "a lighthouse at night"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := app.ParseSize(sizeFlag)
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")

			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				orch := rt.Orchestrator(nil)
				msg, err := orch.GenerateImage(ctx, prompt, size)
				if err != nil {
					return requestError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, msg.ImageURL)

				if cmd.Flags().Changed("download") {
					path, err := orch.DownloadLastImage(ctx, downloadDir)
					if err != nil {
						return fmt.Errorf("%s: %s", app.MsgDownloadFailed, reason(err))
					}
					fmt.Fprintln(cmd.ErrOrStderr(), "saved", path)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sizeFlag, "size", "s", string(app.SizeSquare), "Image size: square, portrait or landscape")
	cmd.Flags().StringVarP(&downloadDir, "download", "d", "", "Save the image into this directory")
	return cmd
}
