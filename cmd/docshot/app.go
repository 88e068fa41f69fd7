package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docshot/internal/config"
	"github.com/alnah/go-docshot/internal/contentapi"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrNoEndpoint     = errors.New("no content service endpoint configured")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrInvalidPayload = errors.New("invalid task payload")
)

// session is the state shared by every command that talks to the service.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *contentapi.Client
	env    *Environment
	quiet  bool
}

// openSession resolves configuration, lets the command apply its own flag
// overrides, validates the result and builds the service client. The
// returned context carries the --timeout deadline; cancel must be called.
func openSession(ctx context.Context, f *commonFlags, env *Environment, override func(*config.Config)) (*session, context.Context, context.CancelFunc, error) {
	cfg, timeout, err := loadConfig(f, env)
	if err != nil {
		return nil, nil, nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Service.Endpoint == "" {
		return nil, nil, nil, ErrNoEndpoint
	}
	env.endpoint = cfg.Service.Endpoint
	env.texCommand = cfg.Render.TeXCommand

	logger := newLogger(env.Stderr, f.quiet, f.verbose)

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		client: newClient(cfg, logger),
		env:    env,
		quiet:  f.quiet,
	}, ctx, cancel, nil
}

// usageError marks flag parsing failures, keeping --help distinguishable.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// newLogger creates the CLI's stderr text logger.
// Info by default, Debug with verbose, Error-only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves configuration with precedence
// flags > env vars > config file > defaults, and the command deadline.
func loadConfig(f *commonFlags, env *Environment) (*config.Config, time.Duration, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		env.configName = name
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, 0, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if f.endpoint != "" {
		cfg.Service.Endpoint = f.endpoint
	}

	timeout := envCfg.Timeout
	if f.timeout > 0 {
		timeout = f.timeout
	}
	return cfg, timeout, nil
}

// newClient builds the content service client from the service section.
func newClient(cfg *config.Config, logger *slog.Logger) *contentapi.Client {
	value := cfg.Service.Header.Value
	if value == "" {
		value = "docshot/" + Version
	}

	opts := []contentapi.Option{
		contentapi.WithLogger(logger),
		contentapi.WithHeader(cfg.Service.Header.Name, value),
		contentapi.WithRateLimit(cfg.Service.RateLimit),
	}
	if d := cfg.Service.Timeout.Std(); d > 0 {
		opts = append(opts, contentapi.WithTimeout(d))
	}
	return contentapi.New(cfg.Service.Endpoint, opts...)
}
