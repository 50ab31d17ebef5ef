// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/lumen/internal/app"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// errNoKey is shown when a request needs a key and none is stored.
var errNoKey = errors.New("no API key set; run `lumen key set` or export " + EnvAPIKey)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the lumen command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumen",
		Short: "Terminal chat and image generation for OpenAI-compatible APIs",
		Long: `lumen is a terminal client for chat completions and image generation.

Run it with no arguments to open the interactive UI.

Examples:
  lumen key set                      # store your API key
  lumen ask "What is a goroutine?"   # one-shot question
  lumen image --size landscape "a quiet harbour at dawn"
  lumen chat                         # line-oriented chat`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().StringP("config", "c", "", "Config file to use instead of ~/.lumen/config.toml")

	root.AddCommand(
		newTUICmd(),
		newAskCmd(),
		newChatCmd(),
		newImageCmd(),
		newKeyCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// HELPERS
// =============================================================================

// withRuntime bootstraps, runs fn and closes the runtime.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *Runtime) error) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap(ctx, cmd.ErrOrStderr(), verbose, configFlag(cmd))
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// configFlag returns the --config value, or "" for the default lookup.
func configFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// requestError turns an orchestrator failure into a command error.
func requestError(err error) error {
	if errors.Is(err, app.ErrCredentialMissing) {
		return errNoKey
	}
	return errors.New(reason(err))
}
