// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across lumen.
//
// String Utilities:
//   - Truncate: display-width aware truncation with ellipsis
//   - Fingerprint: short SHA-256 fingerprint for secrets in logs and status lines
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.Truncate(longText, 50)
//
//	// Write files atomically so the store never sees a partial write
//	err := util.AtomicWriteFile(path, data, 0600)
package util
