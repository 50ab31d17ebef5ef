// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: one immutable chat record with role, content, optional image URL and timestamp
//   - Conversation: ordered, append-only sequence of messages (until cleared)
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Hello!"))
//	for _, msg := range conv.List() {
//	    fmt.Println(msg.Role.DisplayName(), msg.Content)
//	}
package model
