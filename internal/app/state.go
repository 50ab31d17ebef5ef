// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/jeranaias/lumen/internal/model"

// State is a value snapshot of the session. Transitions return a new State
// and never modify the receiver or share its message slice.
type State struct {
	Credential string
	Messages   []model.Message
	Busy       bool
}

// AppendMessage returns a state with msgs added after the existing messages.
func (s State) AppendMessage(msgs ...model.Message) State {
	next := make([]model.Message, 0, len(s.Messages)+len(msgs))
	next = append(next, s.Messages...)
	next = append(next, msgs...)
	s.Messages = next
	return s
}

// ClearMessages returns a state with no messages. Credential and busy are kept.
func (s State) ClearMessages() State {
	s.Messages = nil
	return s
}

// SetCredential returns a state holding credential ("" means none).
func (s State) SetCredential(credential string) State {
	s.Credential = credential
	return s
}

// SetBusy returns a state with the busy flag set to busy.
func (s State) SetBusy(busy bool) State {
	s.Busy = busy
	return s
}

// HasCredential reports whether a credential is present.
func (s State) HasCredential() bool {
	return s.Credential != ""
}

// CanSubmit reports whether a new request would be admitted.
func (s State) CanSubmit() bool {
	return s.Admit() == nil
}

// Admit decides whether a submission is accepted in s. Busy is checked
// before the credential.
func (s State) Admit() error {
	if s.Busy {
		return ErrBusy
	}
	if !s.HasCredential() {
		return ErrCredentialMissing
	}
	return nil
}
