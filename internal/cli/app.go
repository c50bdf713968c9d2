// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jeranaias/threadchat/internal/assistant"
	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/kv"
	"github.com/jeranaias/threadchat/internal/logging"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/storage"
	"github.com/jeranaias/threadchat/internal/title"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	ephemeral  bool
	endpoint   string
	jsonOut    bool
	verbose    bool

	// Streams, replaced in tests.
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app is everything a command needs, built from configuration.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	backend  kv.Backend
	store    *storage.Store
	client   *assistant.Client
	renderer *render.Renderer
}

// loadConfig reads the config named by --config, or the default locations.
// A config file that fails to parse leaves the defaults in place with a
// warning.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(opts.errOut, "%s %v; using defaults\n", WarningStyle.Render("Warning:"), err)
		}
	}

	if opts.endpoint != "" {
		cfg.Endpoint.URL = opts.endpoint
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp loads configuration and opens logging, storage and the client.
// console adds a stderr log core; the full-screen UI never sets it.
func newApp(opts *globalOptions, console bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:         cfg.Log.Level,
		File:          logPath,
		MaxSizeMB:     cfg.Log.MaxSizeMB,
		MaxBackups:    cfg.Log.MaxBackups,
		MaxAgeDays:    cfg.Log.MaxAgeDays,
		Console:       console && opts.verbose,
		ConsoleWriter: opts.errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start logging: %w", err)
	}

	backend, err := openBackend(cfg, opts.ephemeral)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		backend:  backend,
		store:    storage.New(backend, storage.WithLogger(logging.Named(logger, "storage"))),
		client:   assistant.NewClientWithConfig(cfg.ClientConfig()),
		renderer: render.New(render.WithMode(cfg.RenderMode())),
	}
	logger.Debug("application ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("render_mode", cfg.Render.Mode))
	return a, nil
}

// openBackend opens the configured backend, or a memory one for --ephemeral.
func openBackend(cfg *config.Config, ephemeral bool) (kv.Backend, error) {
	if ephemeral || cfg.Storage.Backend == kv.KindMemory {
		return kv.NewMemoryBackend(), nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	backend, err := kv.Open(cfg.Storage.Backend, path, cfg.Storage.QuotaBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage at %s: %w", cfg.Storage.Backend, path, err)
	}
	return backend, nil
}

// newController builds a chat controller over the app's store.
func (a *app) newController(display chatctl.Display) *chatctl.Controller {
	cc := chatctl.Config{
		Store:         a.store,
		Replier:       a.client,
		Renderer:      a.renderer,
		Display:       display,
		Logger:        logging.Named(a.logger, "chat"),
		TitleBackfill: a.cfg.Titles.Backfill,
	}
	// Leave Titles nil when disabled: a typed nil would read as set.
	if a.cfg.Titles.Enabled {
		cc.Titles = title.New(a.client,
			title.WithLogger(logging.Named(a.logger, "title")),
			title.WithTimeout(a.cfg.TitleTimeout()))
	}
	return chatctl.New(cc)
}

// flush writes a save the controller deferred while an example was shown.
func (a *app) flush(ctrl *chatctl.Controller) {
	if err := ctrl.Flush(); err != nil {
		a.logger.Warn("final save failed", zap.Error(err))
	}
}

// Close releases storage and flushes the log.
func (a *app) Close() error {
	var errs []error
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.closeLog(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
