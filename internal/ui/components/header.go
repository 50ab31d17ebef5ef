// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen/internal/ui/styles"
	"github.com/jeranaias/lumen/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand on the left, models on the right.
type Header struct {
	Title      string
	ChatModel  string
	ImageModel string
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "lumen",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModels updates the model names shown on the right.
func (h *Header) SetModels(chat, image string) {
	h.ChatModel = chat
	h.ImageModel = image
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}

	brand := h.theme.HeaderBrand.Render(h.Title)

	var parts []string
	if h.ChatModel != "" {
		parts = append(parts, h.ChatModel)
	}
	if h.ImageModel != "" {
		parts = append(parts, h.ImageModel)
	}
	detail := h.theme.HeaderDetail.Render(strings.Join(parts, " | "))

	// Header padding takes two columns.
	gap := width - 2 - lipgloss.Width(brand) - lipgloss.Width(detail)
	if gap < 1 {
		avail := width - 3 - lipgloss.Width(brand)
		if avail < 0 {
			avail = 0
		}
		detail = h.theme.HeaderDetail.Render(util.Truncate(strings.Join(parts, " | "), avail))
		gap = 1
	}

	return h.theme.Header.Width(width).Render(brand + strings.Repeat(" ", gap) + detail)
}
