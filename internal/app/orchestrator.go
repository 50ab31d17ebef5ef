// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/jeranaias/lumen/internal/cloud"
	"github.com/jeranaias/lumen/internal/credential"
	"github.com/jeranaias/lumen/internal/model"
)

// =============================================================================
// ERRORS AND TEXTS
// =============================================================================

var (
	// ErrBusy is returned when a request is already in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrCredentialMissing is returned when no API key is set.
	ErrCredentialMissing = errors.New("API key not set")

	// ErrEmptyPrompt is returned for whitespace-only input.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrNoImage is returned when there is no previous image to act on.
	ErrNoImage = errors.New("no image has been generated yet")

	// ErrDownloadUnsupported is returned when the backend cannot download images.
	ErrDownloadUnsupported = errors.New("backend does not support image download")
)

const (
	chatApology  = "I'm sorry, there was an error processing your request. "
	imageApology = "I'm sorry, there was an error generating the image. "

	// ImageCaption accompanies every generated image.
	ImageCaption = "Here is the image generated based on your prompt:"

	// ImagePromptPrefix starts the user turn recorded for an image request.
	ImagePromptPrefix = "Generate image: "
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend performs the remote calls. *cloud.Client satisfies it.
type Backend interface {
	Complete(ctx context.Context, apiKey string, history []openai.ChatCompletionMessage) (string, error)
	GenerateImage(ctx context.Context, apiKey, prompt, size string) (string, error)
}

// Downloader is implemented by backends that can save an image locally.
type Downloader interface {
	DownloadImage(ctx context.Context, imageURL, dir string) (string, error)
}

// ImageRecord describes an image request and, once it succeeds, its URL.
type ImageRecord struct {
	Prompt string
	Size   ImageSize
	URL    string
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs user actions against the conversation and the backend.
// Safe for concurrent use; at most one request is in flight at a time.
type Orchestrator struct {
	cred    *credential.Holder
	conv    *model.Conversation
	backend Backend
	notify  Notifier
	log     zerolog.Logger
	timeout time.Duration

	// mu guards state and the image records. Messages live in conv.
	mu          sync.Mutex
	state       State
	lastRequest ImageRecord
	lastImage   ImageRecord
}

// New creates an orchestrator. Notifications are dropped until WithNotifier
// is called.
func New(cred *credential.Holder, conv *model.Conversation, backend Backend) *Orchestrator {
	return &Orchestrator{
		cred:    cred,
		conv:    conv,
		backend: backend,
		notify:  nopNotifier{},
		log:     zerolog.Nop(),
	}
}

// WithNotifier sets the notification sink.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	if n == nil {
		n = nopNotifier{}
	}
	o.notify = n
	return o
}

// WithLogger sets the logger.
func (o *Orchestrator) WithLogger(log zerolog.Logger) *Orchestrator {
	o.log = log.With().Str("component", "orchestrator").Logger()
	return o
}

// WithTimeout bounds every backend call. 0 disables the bound.
func (o *Orchestrator) WithTimeout(timeout time.Duration) *Orchestrator {
	o.timeout = timeout
	return o
}

// Busy reports whether a request is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Busy
}

// HasCredential reports whether an API key is set.
func (o *Orchestrator) HasCredential() bool {
	return o.cred.IsSet()
}

// CredentialStatus returns the masked display form of the API key.
func (o *Orchestrator) CredentialStatus() string {
	return o.cred.Masked()
}

// Messages returns a copy of the conversation.
func (o *Orchestrator) Messages() []model.Message {
	return o.conv.List()
}

// MessageCount returns the number of messages in the conversation.
func (o *Orchestrator) MessageCount() int {
	return o.conv.Len()
}

// LastReply returns the newest successful assistant message.
func (o *Orchestrator) LastReply() (model.Message, bool) {
	return o.conv.LastWhere(func(m model.Message) bool {
		return m.Role == model.RoleAssistant && !m.Failed
	})
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	s := o.state
	o.mu.Unlock()
	return s.
		SetCredential(o.cred.Get()).
		ClearMessages().
		AppendMessage(o.conv.List()...)
}

// =============================================================================
// REQUESTS
// =============================================================================

// Send submits text as a user turn and appends the assistant reply. On a
// backend failure an apology carrying the reason is appended instead, and
// the failure is also returned. Rejected submissions (ErrEmptyPrompt,
// ErrBusy, ErrCredentialMissing) leave the conversation untouched.
func (o *Orchestrator) Send(ctx context.Context, text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, ErrEmptyPrompt
	}
	apiKey, err := o.acquire()
	if err != nil {
		return model.Message{}, err
	}
	defer o.release()

	o.conv.Append(model.NewUserMessage(text))
	history := buildHistory(o.conv.List())

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	reply, err := o.backend.Complete(ctx, apiKey, history)
	if err != nil {
		o.log.Warn().Err(err).Int("history", len(history)).Dur("latency", time.Since(start)).Msg("completion failed")
		return o.fail(chatApology, err), err
	}

	o.log.Info().Int("history", len(history)).Dur("latency", time.Since(start)).Msg("completion succeeded")
	msg := model.NewAssistantMessage(reply)
	o.conv.Append(msg)
	return msg, nil
}

// GenerateImage records an image request as a user turn and appends the
// resulting image, or an apology on failure.
func (o *Orchestrator) GenerateImage(ctx context.Context, prompt string, size ImageSize) (model.Message, error) {
	if strings.TrimSpace(prompt) == "" {
		return model.Message{}, ErrEmptyPrompt
	}
	if size == "" {
		size = SizeSquare
	}
	apiKey, err := o.acquire()
	if err != nil {
		return model.Message{}, err
	}
	defer o.release()

	o.mu.Lock()
	o.lastRequest = ImageRecord{Prompt: prompt, Size: size}
	o.mu.Unlock()

	o.conv.Append(model.NewUserMessage(ImagePromptPrefix + prompt))

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	url, err := o.backend.GenerateImage(ctx, apiKey, prompt, size.Dimensions())
	if err != nil {
		o.log.Warn().Err(err).Str("size", size.String()).Dur("latency", time.Since(start)).Msg("image generation failed")
		return o.fail(imageApology, err), err
	}

	o.log.Info().Str("size", size.String()).Dur("latency", time.Since(start)).Msg("image generated")

	o.mu.Lock()
	o.lastImage = ImageRecord{Prompt: prompt, Size: size, URL: url}
	o.mu.Unlock()

	msg := model.NewImageMessage(ImageCaption, url)
	o.conv.Append(msg)
	return msg, nil
}

// RegenerateImage re-submits the most recent image prompt and size as a new
// request.
func (o *Orchestrator) RegenerateImage(ctx context.Context) (model.Message, error) {
	o.mu.Lock()
	last := o.lastRequest
	o.mu.Unlock()

	if last.Prompt == "" {
		return model.Message{}, ErrNoImage
	}
	return o.GenerateImage(ctx, last.Prompt, last.Size)
}

// LastImage returns the most recent successfully generated image.
func (o *Orchestrator) LastImage() (ImageRecord, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastImage, o.lastImage.URL != ""
}

// DownloadLastImage saves the most recent image into dir and returns the
// written path.
func (o *Orchestrator) DownloadLastImage(ctx context.Context, dir string) (string, error) {
	last, ok := o.LastImage()
	if !ok {
		return "", ErrNoImage
	}
	downloader, ok := o.backend.(Downloader)
	if !ok {
		return "", ErrDownloadUnsupported
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	path, err := downloader.DownloadImage(ctx, last.URL, dir)
	if err != nil {
		o.log.Warn().Err(err).Msg("image download failed")
		o.notify.Notify(Notification{Level: LevelError, Text: MsgDownloadFailed + ": " + cloud.Reason(err)})
		return "", err
	}
	o.notify.Notify(Notification{Level: LevelSuccess, Text: MsgDownloaded})
	return path, nil
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

// ClearConversation removes every message. The credential is untouched.
func (o *Orchestrator) ClearConversation() {
	o.conv.Clear()
	o.notify.Notify(Notification{Level: LevelInfo, Text: MsgCleared})
}

// SetCredential stores a new API key.
func (o *Orchestrator) SetCredential(ctx context.Context, value string) error {
	if err := o.cred.Set(ctx, value); err != nil {
		if errors.Is(err, credential.ErrEmptyCredential) {
			o.notify.Notify(Notification{Level: LevelError, Text: MsgCredentialInvalid})
		} else {
			o.log.Error().Err(err).Msg("failed to save credential")
			o.notify.Notify(Notification{Level: LevelError, Text: fmt.Sprintf("Failed to save API key: %v", err)})
		}
		return err
	}
	o.log.Info().Msg("credential saved")
	o.notify.Notify(Notification{Level: LevelSuccess, Text: MsgCredentialSaved})
	return nil
}

// ClearCredential removes the API key.
func (o *Orchestrator) ClearCredential(ctx context.Context) error {
	if err := o.cred.Clear(ctx); err != nil {
		o.log.Error().Err(err).Msg("failed to remove credential")
		o.notify.Notify(Notification{Level: LevelError, Text: fmt.Sprintf("Failed to remove API key: %v", err)})
		return err
	}
	o.log.Info().Msg("credential removed")
	o.notify.Notify(Notification{Level: LevelInfo, Text: MsgCredentialRemoved})
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// acquire runs admission against the current state and, when admitted,
// moves it to busy and returns the API key.
func (o *Orchestrator) acquire() (string, error) {
	o.mu.Lock()
	s := o.state.SetCredential(o.cred.Get())
	err := s.Admit()
	if err == nil {
		o.state = s.SetBusy(true)
	}
	o.mu.Unlock()

	switch {
	case errors.Is(err, ErrBusy):
		o.notify.Notify(Notification{Level: LevelWarning, Text: MsgBusy})
	case errors.Is(err, ErrCredentialMissing):
		o.notify.Notify(Notification{Level: LevelError, Text: MsgCredentialMissing})
	}
	if err != nil {
		return "", err
	}
	return s.Credential, nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.state = o.state.SetBusy(false)
	o.mu.Unlock()
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return context.WithCancel(ctx)
}

// fail appends the apology for err and raises an error notification.
func (o *Orchestrator) fail(apology string, err error) model.Message {
	reason := cloud.Reason(err)
	msg := model.NewFailureMessage(apology + reason)
	o.conv.Append(msg)
	o.notify.Notify(Notification{Level: LevelError, Text: reason})
	return msg
}

// buildHistory converts messages to wire form: role and content only.
func buildHistory(msgs []model.Message) []openai.ChatCompletionMessage {
	history := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, openai.ChatCompletionMessage{
			Role:    m.Role.String(),
			Content: m.Content,
		})
	}
	return history
}
