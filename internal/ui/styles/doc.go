// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the lumen TUI.

All colors use Lip Gloss AdaptiveColor so they follow the terminal
background. The [ui] theme setting can pin the background to dark or light;
"auto" asks the terminal through termenv.

# Color System (colors.go)

  - Violet: assistant messages and the brand mark
  - Sky: user messages, prompts and commands
  - Emerald: success toasts
  - Amber: warnings and the busy indicator
  - Rose: errors and failed replies

# Theme (theme.go)

Theme bundles the lipgloss styles used by the chat view and components:

	theme := styles.NewTheme("auto")
	theme.UserBubble.Render(text)
	theme.GlamourStyle() // "dark" or "light" for markdown rendering
*/
package styles
