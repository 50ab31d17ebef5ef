// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential holds the API key used to authenticate against the
// hosted endpoints. The key is kept in memory and written through to a
// storage.Store on every change.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/lumen/internal/storage"
	"github.com/jeranaias/lumen/internal/util"
)

// StorageKey is the fixed key the credential is persisted under.
const StorageKey = "openai-api-key"

// ErrEmptyCredential is returned by Set for empty or whitespace-only input.
var ErrEmptyCredential = errors.New("credential is empty")

// Holder owns the single credential. Safe for concurrent use.
type Holder struct {
	store storage.Store

	mu    sync.RWMutex
	value string
}

// NewHolder creates a holder backed by store. Call Load to rehydrate.
func NewHolder(store storage.Store) *Holder {
	return &Holder{store: store}
}

// Load reads the persisted credential into memory. An absent key leaves the
// holder empty.
func (h *Holder) Load(ctx context.Context) error {
	value, err := h.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		h.mu.Lock()
		h.value = ""
		h.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}

	h.mu.Lock()
	h.value = value
	h.mu.Unlock()
	return nil
}

// Set validates and persists value, replacing any prior credential. On
// rejection or write failure the previous value is kept.
func (h *Holder) Set(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyCredential
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Set(ctx, StorageKey, value); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	h.value = value
	return nil
}

// Clear removes the credential from the store, then from memory. On a
// delete failure the in-memory value is kept so it matches the store.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	h.value = ""
	return nil
}

// Get returns the current credential, or "" when unset.
func (h *Holder) Get() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

// IsSet reports whether a credential is present.
func (h *Holder) IsSet() bool {
	return h.Get() != ""
}

// Masked returns a display form that never includes key material.
func (h *Holder) Masked() string {
	return Mask(h.Get())
}

// Mask renders value as its length and a short SHA-256 fingerprint.
func Mask(value string) string {
	if value == "" {
		return "not set"
	}
	return fmt.Sprintf("set (%d chars, fingerprint %s)", len(value), util.Fingerprint(value))
}
