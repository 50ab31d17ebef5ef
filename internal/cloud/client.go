// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"resty.dev/v3"
)

// Configuration constants for the hosted API.
const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultChatModel is used when no chat model is configured.
	DefaultChatModel = "gpt-4o"

	// DefaultTemperature is the sampling temperature for completions.
	DefaultTemperature = 0.7

	// DefaultImageModel is used when no image model is configured.
	DefaultImageModel = openai.CreateImageModelDallE3

	// DefaultImageQuality is used when no quality is configured.
	DefaultImageQuality = openai.CreateImageQualityStandard

	// MaxResponseSize caps JSON response bodies.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxImageSize caps downloaded image bodies.
	MaxImageSize = 50 * 1024 * 1024

	chatPath  = "/chat/completions"
	imagePath = "/images/generations"
)

// Client calls the chat completion and image generation endpoints. It holds
// no credential; the API key is supplied on every call. Safe for concurrent use.
type Client struct {
	http         *resty.Client
	baseURL      string
	chatModel    string
	temperature  float32
	imageModel   string
	imageQuality string
	log          zerolog.Logger
}

// NewClient creates a client for the API rooted at baseURL.
// Retries are disabled; every call is a single attempt.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		http:         resty.New(),
		baseURL:      normalizeBaseURL(baseURL),
		chatModel:    DefaultChatModel,
		temperature:  DefaultTemperature,
		imageModel:   DefaultImageModel,
		imageQuality: DefaultImageQuality,
		log:          zerolog.Nop(),
	}
	c.http.SetRetryCount(0)
	c.http.SetResponseBodyLimit(MaxResponseSize)
	c.http.SetLogger(restyLogger{log: &c.log})
	c.installLogging()
	return c
}

// WithChatModel sets the model for completions.
func (c *Client) WithChatModel(model string) *Client {
	if model != "" {
		c.chatModel = model
	}
	return c
}

// WithTemperature sets the completion sampling temperature.
func (c *Client) WithTemperature(t float64) *Client {
	c.temperature = float32(t)
	return c
}

// WithImageModel sets the model for image generation.
func (c *Client) WithImageModel(model string) *Client {
	if model != "" {
		c.imageModel = model
	}
	return c
}

// WithImageQuality sets the image quality ("standard" or "hd").
func (c *Client) WithImageQuality(quality string) *Client {
	if quality != "" {
		c.imageQuality = quality
	}
	return c
}

// WithTimeout sets a transport-level timeout. 0 leaves requests bounded
// only by their context.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.SetTimeout(timeout)
	return c
}

// WithLogger sets the logger used for request logging.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log.With().Str("component", "cloud").Logger()
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatModel returns the configured chat model.
func (c *Client) ChatModel() string {
	return c.chatModel
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Complete submits history as a single non-streaming completion request and
// returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, apiKey string, history []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    history,
		Temperature: c.temperature,
	}

	body, err := c.post(ctx, apiKey, chatPath, req)
	if err != nil {
		return "", err
	}

	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	// A choice without a message decodes to a zero value, so require the role.
	msg := resp.Choices[0].Message
	if msg.Role == "" {
		return "", fmt.Errorf("%w: choice has no message", ErrMalformedResponse)
	}
	return msg.Content, nil
}

// GenerateImage requests one image for prompt at size and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, apiKey, prompt, size string) (string, error) {
	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Quality:        c.imageQuality,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}

	body, err := c.post(ctx, apiKey, imagePath, req)
	if err != nil {
		return "", err
	}

	var resp openai.ImageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%w: no image data", ErrMalformedResponse)
	}
	return resp.Data[0].URL, nil
}

// post sends a JSON body with bearer authorization and returns the body of
// a 2xx response.
func (c *Client) post(ctx context.Context, apiKey, path string, payload any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey).
		SetBody(payload).
		Post(c.endpoint(path))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	body := resp.Bytes()
	if !resp.IsSuccess() {
		return nil, parseErrorResponse(resp.StatusCode(), body)
	}
	return body, nil
}

// transportError wraps err with ErrTransport and, when the context ended,
// with the context's error so callers can tell a timeout apart.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w: %w", ErrTransport, ctxErr, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

func normalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
