// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lumen/internal/model"
)

func TestState_TransitionsArePure(t *testing.T) {
	base := State{}.SetCredential("sk").AppendMessage(model.NewUserMessage("a"))

	next := base.AppendMessage(model.NewAssistantMessage("b"))
	assert.Len(t, base.Messages, 1)
	assert.Len(t, next.Messages, 2)

	busy := next.SetBusy(true)
	assert.False(t, next.Busy)
	assert.True(t, busy.Busy)
	assert.False(t, busy.CanSubmit())

	cleared := busy.ClearMessages()
	assert.Empty(t, cleared.Messages)
	assert.Len(t, busy.Messages, 2)
	assert.Equal(t, "sk", cleared.Credential, "clearing messages keeps the credential")
	assert.True(t, cleared.Busy)

	none := cleared.SetCredential("")
	assert.False(t, none.HasCredential())
	assert.False(t, none.SetBusy(false).CanSubmit())
}

func TestState_Admit(t *testing.T) {
	assert.ErrorIs(t, State{}.Admit(), ErrCredentialMissing)
	assert.ErrorIs(t, State{}.SetBusy(true).Admit(), ErrBusy, "busy is checked first")
	assert.ErrorIs(t, State{}.SetCredential("sk").SetBusy(true).Admit(), ErrBusy)
	assert.NoError(t, State{}.SetCredential("sk").Admit())
}

func TestState_AppendDoesNotAlias(t *testing.T) {
	base := State{Messages: make([]model.Message, 1, 10)}
	a := base.AppendMessage(model.NewUserMessage("a"))
	b := base.AppendMessage(model.NewUserMessage("b"))
	assert.Equal(t, "a", a.Messages[1].Content)
	assert.Equal(t, "b", b.Messages[1].Content)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want ImageSize
		dims string
	}{
		{"", SizeSquare, "1024x1024"},
		{"square", SizeSquare, "1024x1024"},
		{"Portrait", SizePortrait, "1024x1792"},
		{" landscape ", SizeLandscape, "1792x1024"},
		{"1792x1024", SizeLandscape, "1792x1024"},
	}
	for _, tc := range tests {
		got, err := ParseSize(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.dims, got.Dimensions())
	}

	_, err := ParseSize("panorama")
	assert.True(t, errors.Is(err, ErrInvalidSize))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "error", LevelError.String())
}
