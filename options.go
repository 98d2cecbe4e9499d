package mamedex

import (
	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/progress"
	"github.com/mamedex/mamedex/pkg/registry"
)

// Option configures a Mamedex during construction.
type Option func(*Mamedex) error

// WithRegistry starts from an existing registry instead of an empty one,
// for example one reimported from a relational export.
func WithRegistry(reg *registry.Registry) Option {
	return func(m *Mamedex) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		m.registry = reg
		return nil
	}
}

// WithProgress routes ingestion progress events to the sink.
func WithProgress(sink progress.Sink) Option {
	return func(m *Mamedex) error {
		if sink == nil {
			return errors.New("progress sink cannot be nil")
		}
		m.sink = sink
		return nil
	}
}

// WithConcurrency bounds how many datasets are ingested in parallel.
func WithConcurrency(n int) Option {
	return func(m *Mamedex) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		m.concurrency = n
		return nil
	}
}

// WithLogger sets the logger used by the resolver and coordinator.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Mamedex) error {
		m.logger = logger
		return nil
	}
}
