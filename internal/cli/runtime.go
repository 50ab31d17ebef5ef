// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/lumen/internal/app"
	"github.com/jeranaias/lumen/internal/cloud"
	"github.com/jeranaias/lumen/internal/config"
	"github.com/jeranaias/lumen/internal/credential"
	"github.com/jeranaias/lumen/internal/logger"
	"github.com/jeranaias/lumen/internal/model"
	"github.com/jeranaias/lumen/internal/storage"
)

// EnvAPIKey seeds the credential when the store holds none.
const EnvAPIKey = "OPENAI_API_KEY"

// =============================================================================
// RUNTIME
// =============================================================================

// Runtime holds the wired dependencies shared by every command.
type Runtime struct {
	Config     *config.Config
	Log        zerolog.Logger
	Store      storage.Store
	Credential *credential.Holder
	Client     *cloud.Client

	closers []io.Closer
}

// bootstrap loads configuration and opens the credential store. Logs go to
// the configured file, or to stderr when verbose is set. A non-empty
// cfgPath replaces the default config file lookup.
func bootstrap(ctx context.Context, stderr io.Writer, verbose bool, cfgPath string) (*Runtime, error) {
	cfg, err := loadConfig(cfgPath)
	if cfg == nil {
		return nil, err
	}
	loadErr := err

	rt := &Runtime{Config: cfg}

	if err := rt.openLogger(stderr, verbose); err != nil {
		return nil, err
	}
	if loadErr != nil {
		rt.Log.Warn().Err(loadErr).Msg("config file ignored, using defaults")
	}

	store, err := storage.Open(ctx, storage.Options{
		Backend:  cfg.Storage.Backend,
		Path:     cfg.Storage.Path,
		RedisURL: cfg.Storage.RedisURL,
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	rt.Store = store
	rt.closers = append(rt.closers, store)

	rt.Credential = credential.NewHolder(store)
	if err := rt.Credential.Load(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if !rt.Credential.IsSet() {
		if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
			if err := rt.Credential.Set(ctx, key); err != nil {
				rt.Log.Warn().Err(err).Msg("could not seed credential from environment")
			} else {
				rt.Log.Info().Msg("credential seeded from " + EnvAPIKey)
			}
		}
	}

	rt.Client = cloud.NewClient(cfg.API.BaseURL).
		WithChatModel(cfg.API.ChatModel).
		WithTemperature(cfg.API.Temperature).
		WithImageModel(cfg.API.ImageModel).
		WithImageQuality(cfg.API.ImageQuality).
		WithLogger(rt.Log)
	rt.closers = append(rt.closers, rt.Client)

	rt.Log.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("chat_model", cfg.API.ChatModel).
		Str("image_model", cfg.API.ImageModel).
		Msg("runtime ready")
	return rt, nil
}

// loadConfig reads path when given, otherwise the default config files.
// An explicit path must load; the default lookup falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	config.LoadDotEnv()
	return config.LoadFromPath(path)
}

func (rt *Runtime) openLogger(stderr io.Writer, verbose bool) error {
	if verbose {
		log, err := logger.New("debug", "console", stderr)
		if err != nil {
			return err
		}
		rt.Log = log
		return nil
	}

	f, err := logger.OpenFile(rt.Config.Log.File)
	if err != nil {
		// Logging is best-effort; commands still work without it.
		fmt.Fprintf(stderr, "warning: %v\n", err)
		rt.Log = logger.Nop()
		return nil
	}
	log, err := logger.New(rt.Config.Log.Level, rt.Config.Log.Format, f)
	if err != nil {
		f.Close()
		return err
	}
	rt.Log = log
	rt.closers = append(rt.closers, f)
	return nil
}

// Orchestrator builds a request orchestrator over a fresh conversation.
func (rt *Runtime) Orchestrator(n app.Notifier) *app.Orchestrator {
	return app.New(rt.Credential, model.NewConversation(), rt.Client).
		WithLogger(rt.Log).
		WithTimeout(rt.Config.API.RequestTimeout()).
		WithNotifier(n)
}

// Close releases the store, the client and the log file, newest first.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i].Close()
	}
	rt.closers = nil
}
