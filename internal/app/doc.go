// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app coordinates a chat session: it owns the busy flag, turns user
// actions into conversation messages and backend calls, and reports outcomes
// as notifications.
//
// # Key Types
//
//   - Orchestrator: runs text completions and image generations
//   - State: credential, messages and busy flag with pure transitions
//   - Notification: transient user-facing message (toast)
//   - ImageSize: square, portrait or landscape
//
// # Request Lifecycle
//
// At most one request is in flight. A submission is rejected outright while
// busy, and rejected before any message is added when no API key is set.
// An accepted submission appends the user turn, calls the backend once, and
// always appends exactly one assistant message: the reply or an apology
// carrying the failure reason. Busy is released on every path.
//
// Admission is decided by State.Admit. The orchestrator keeps its busy flag
// in a State and changes it only through SetBusy; messages stay in the
// model.Conversation, and Snapshot joins the two into one value.
package app
