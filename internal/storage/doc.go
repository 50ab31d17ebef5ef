// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence lumen uses for
// long-lived settings such as the API credential.
//
// # Backends
//
//   - file: a single JSON object on disk, written atomically with 0600 permissions
//   - sqlite: a kv table in a local SQLite database (pure Go driver)
//   - redis: keys under a "lumen:" prefix on a Redis server, for sharing a profile
//   - memory: process-local map, used by tests and --ephemeral runs
//
// # Usage
//
//	store, err := storage.Open(storage.Options{Backend: "file", Path: path})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, "openai-api-key", key)
//	value, err := store.Get(ctx, "openai-api-key") // ErrNotFound when absent
package storage
