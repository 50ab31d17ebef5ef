// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// lumen is a terminal chat and image-generation client for OpenAI-compatible
// APIs.
package main

import (
	"os"

	"github.com/jeranaias/lumen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
