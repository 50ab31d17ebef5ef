// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrTransport indicates the request failed before a response arrived.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse indicates a success status with an unusable body.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError represents a non-success response from the endpoint.
type APIError struct {
	Status  int
	Code    string
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Reason returns the user-facing explanation of err.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error: %d", e.Status)
}

// parseErrorResponse converts a non-success body into an *APIError. Bodies
// without an {"error":{"message":...}} payload keep only the status.
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload openai.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == nil {
		return apiErr
	}

	apiErr.Message = payload.Error.Message
	apiErr.Type = payload.Error.Type
	if payload.Error.Code != nil {
		apiErr.Code = fmt.Sprint(payload.Error.Code)
	}
	return apiErr
}

// Reason renders err as the human-readable reason interpolated into
// apology messages and notifications.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Reason()
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	case errors.Is(err, ErrTransport):
		return "Network error: " + strings.TrimPrefix(err.Error(), ErrTransport.Error()+": ")
	case errors.Is(err, ErrMalformedResponse):
		return "The server returned an unexpected response."
	default:
		return err.Error()
	}
}
