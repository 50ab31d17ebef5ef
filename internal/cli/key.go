// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/lumen/internal/credential"
)

func newKeyCmd() *cobra.Command {
	key := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored API key",
	}

	setCmd := &cobra.Command{
		Use:   "set [value]",
		Short: "Store an API key (prompts when no value is given)",
		Long: `Store an API key, replacing any previous one.

Without an argument the key is read from the terminal without echo, or from
the first line of stdin when piped. Prefer that over passing the key as an
argument, which leaves it in shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				v, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				value = v
			}

			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Credential.Set(ctx, value); err != nil {
					if errors.Is(err, credential.ErrEmptyCredential) {
						return errors.New("please enter a valid API key")
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key saved:", rt.Credential.Masked())
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Credential.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether an API key is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(_ context.Context, rt *Runtime) error {
				fmt.Fprintf(cmd.OutOrStdout(), "API key: %s (backend: %s)\n",
					rt.Credential.Masked(), rt.Config.Storage.Backend)
				return nil
			})
		},
	}

	key.AddCommand(setCmd, clearCmd, statusCmd)
	return key
}

// readSecret reads a key without echo from a terminal, or one line from in.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
