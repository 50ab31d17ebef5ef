// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud talks to OpenAI-compatible chat completion and image
// generation endpoints.
//
// # Key Types
//
//   - Client: resty-based HTTP client for /chat/completions and /images/generations
//   - APIError: a non-success response with the server's error payload
//
// # Errors
//
// Every failure is one of:
//
//   - ErrTransport: the request never produced a response
//   - *APIError: the server answered with a non-2xx status
//   - ErrMalformedResponse: a 2xx body without the expected shape
//
// Reason turns any of them into the text shown to the user.
//
// # Usage
//
//	client := cloud.NewClient("https://api.openai.com/v1").
//	    WithChatModel("gpt-4o").
//	    WithLogger(log)
//	reply, err := client.Complete(ctx, apiKey, history)
//	if err != nil {
//	    fmt.Println(cloud.Reason(err))
//	}
//
// The API key is passed per call and is never logged.
package cloud
