// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/lumen/internal/ui/styles"
)

func TestNewToast_Durations(t *testing.T) {
	tests := []struct {
		kind ToastKind
		want time.Duration
	}{
		{ToastKindStatus, DefaultToastDuration},
		{ToastKindSuccess, DefaultToastDuration},
		{ToastKindWarning, WarningToastDuration},
		{ToastKindError, ErrorToastDuration},
	}
	for _, tt := range tests {
		toast := NewToast(tt.kind, "msg")
		if toast.Duration != tt.want {
			t.Errorf("kind %d: duration = %v, want %v", tt.kind, toast.Duration, tt.want)
		}
	}
}

func TestToastIsExpired(t *testing.T) {
	toast := NewToast(ToastKindStatus, "Test")
	toast.Duration = 10 * time.Millisecond
	toast.CreatedAt = time.Now().Add(-20 * time.Millisecond)
	if !toast.IsExpired() {
		t.Error("Toast should be expired")
	}

	fresh := NewToast(ToastKindStatus, "Fresh")
	if fresh.IsExpired() {
		t.Error("Fresh toast should not be expired")
	}
}

func TestToastManager(t *testing.T) {
	m := NewToastManager()

	id1 := m.Add(NewToast(ToastKindError, "first"))
	id2 := m.Add(NewToast(ToastKindSuccess, "second"))
	if id1 == id2 {
		t.Fatal("toast IDs should be unique")
	}

	toasts := m.Toasts()
	if len(toasts) != 2 || toasts[0].Message != "second" {
		t.Fatalf("expected newest first, got %+v", toasts)
	}

	m.Dismiss()
	if got := m.Toasts(); len(got) != 1 || got[0].Message != "first" {
		t.Fatalf("Dismiss should remove newest, got %+v", got)
	}

	for i := 0; i < 5; i++ {
		m.Add(NewToast(ToastKindStatus, "x"))
	}
	if got := len(m.Toasts()); got != 3 {
		t.Errorf("manager should cap toasts at 3, got %d", got)
	}
}

func TestToastManager_TickExpires(t *testing.T) {
	m := NewToastManager()
	old := NewToast(ToastKindStatus, "old")
	old.CreatedAt = time.Now().Add(-time.Minute)
	m.Add(old)
	m.Add(NewToast(ToastKindStatus, "new"))

	remaining := m.Tick()
	if len(remaining) != 1 || remaining[0].Message != "new" {
		t.Errorf("Tick() = %+v, want only the fresh toast", remaining)
	}
}

func TestRenderToast(t *testing.T) {
	out := RenderToast(NewToast(ToastKindError, "Incorrect API key provided"), 80)
	if !strings.Contains(out, "[X]") || !strings.Contains(out, "Incorrect API key provided") {
		t.Errorf("RenderToast() missing indicator or text: %q", out)
	}
	if RenderToastStack(nil, 80) != "" {
		t.Error("empty stack should render nothing")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wrapText() = %q", got)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ModeDark))
	h.SetWidth(60)
	h.SetModels("gpt-4o", "dall-e-3")
	out := h.View()
	for _, want := range []string{"lumen", "gpt-4o", "dall-e-3"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q: %q", want, out)
		}
	}
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBar(styles.NewTheme(styles.ModeDark))
	s.SetWidth(100)
	s.SetStatus(StatusThinking)
	s.SetKey("set (51 chars, fingerprint abcd1234)")
	s.SetMessageCount(4)

	out := s.View()
	for _, want := range []string{"Thinking...", "4 msgs", "fingerprint abcd1234"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q: %q", want, out)
		}
	}
	if StatusNoKey.String() != "No API key" {
		t.Errorf("StatusNoKey.String() = %q", StatusNoKey.String())
	}
}
