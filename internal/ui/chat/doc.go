// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the lumen TUI.

The view is a Bubble Tea model wrapping an app.Orchestrator. Submissions
and slash commands run as tea.Cmds so the UI never blocks on the network;
while one is in flight a spinner is shown and the transcript is refreshed on
every tick, so the user turn appears before the reply arrives.

# Slash Commands

	/key <value>     set the API key
	/key clear       remove the API key
	/image [--size square|portrait|landscape] <prompt>
	/regen           generate the last image prompt again
	/download [dir]  save the last image
	/copy            copy the last reply or image URL
	/export [path]   write the conversation to .md, .json or .html
	/clear           clear the conversation
	/help            toggle the command list
	/quit            exit

Orchestrator notifications arrive through a Notifier and are shown as
toasts in the corner.
*/
package chat
