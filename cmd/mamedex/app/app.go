// Package app provides the application context and dependency management
// for the mamedex CLI. It centralizes configuration, logging, and the
// mamedex instance behind the command handlers.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex"
	"github.com/mamedex/mamedex/pkg/progress"
)

// App represents the mamedex application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Mamedex instance (lazy-initialized, singleton)
	mu      sync.Mutex
	mamedex *mamedex.Mamedex
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Mamedex returns the mamedex instance, creating it lazily if needed.
func (a *App) Mamedex() (*mamedex.Mamedex, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mamedex != nil {
		return a.mamedex, nil
	}

	opts := []mamedex.Option{
		mamedex.WithLogger(*a.logger),
		mamedex.WithProgress(progress.NewLogSink(a.logger)),
	}
	if a.config.Concurrency > 0 {
		opts = append(opts, mamedex.WithConcurrency(a.config.Concurrency))
	}

	m, err := mamedex.New(opts...)
	if err != nil {
		return nil, err
	}

	a.mamedex = m
	return m, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithMamedex sets a custom mamedex instance (useful for testing).
func WithMamedex(m *mamedex.Mamedex) Option {
	return func(a *App) error {
		a.mamedex = m
		return nil
	}
}
