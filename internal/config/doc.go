// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lumen.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - APIConfig: Endpoint, model and timeout settings
//   - StorageConfig: Where the API key is persisted
//   - LogConfig: Log level, format and destination
//   - UIConfig: Terminal UI preferences
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LUMEN_*), including values from .env files
//   - ~/.lumen/config.toml
//   - ~/.lumen/config.json
//   - Built-in defaults
//
// LUMEN_HOME relocates the ~/.lumen directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.API.RequestTimeout()
package config
