// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

type startsAtKey struct{}

// installLogging records method, path, status and latency for every call.
// Headers and bodies are never logged since they carry the API key and
// user content.
func (c *Client) installLogging() {
	c.http.AddRequestMiddleware(func(_ *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startsAtKey{}, time.Now()))
		return nil
	})
	c.http.AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
		startTime, _ := r.Request.Context().Value(startsAtKey{}).(time.Time)

		event := c.log.Debug()
		if r.IsError() {
			event = c.log.Warn()
		}
		if raw := r.Request.RawRequest; raw != nil {
			event = event.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		event.
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime)).
			Msg("HTTP client request")
		return nil
	})
}

// restyLogger routes resty's internal warnings through zerolog.
type restyLogger struct {
	log *zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
