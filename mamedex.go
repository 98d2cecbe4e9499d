// Package mamedex curates arcade machine metadata from independently
// maintained community datasets. Datasets are ingested concurrently,
// merged into one registry under a deterministic merge policy, pruned
// with composable filters and exported to hierarchical, tabular or
// relational form.
package mamedex

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex/pkg/export"
	"github.com/mamedex/mamedex/pkg/filter"
	"github.com/mamedex/mamedex/pkg/logging"
	"github.com/mamedex/mamedex/pkg/progress"
	"github.com/mamedex/mamedex/pkg/registry"
)

// defaultConcurrency bounds how many datasets are ingested at once.
const defaultConcurrency = 4

// Mamedex owns a registry and the machinery around it.
type Mamedex struct {
	registry    *registry.Registry
	resolver    *registry.Resolver
	engine      *filter.Engine
	sink        progress.Sink
	concurrency int
	logger      zerolog.Logger
}

// New creates a Mamedex with an empty registry.
func New(opts ...Option) (*Mamedex, error) {
	m := &Mamedex{
		registry:    registry.New(),
		sink:        progress.NopSink(),
		concurrency: defaultConcurrency,
		logger:      logging.Default().With().Str("component", "mamedex").Logger(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	m.resolver = registry.NewResolver(m.registry, registry.WithResolverLogger(m.logger))
	m.engine = filter.NewEngine(m.registry)

	return m, nil
}

// Registry returns the underlying registry.
func (m *Mamedex) Registry() *registry.Registry {
	return m.registry
}

// Resolver returns the merge resolver, for applying custom records such
// as ratings.
func (m *Mamedex) Resolver() *registry.Resolver {
	return m.resolver
}

// Filter runs one removal pass over the registry.
func (m *Mamedex) Filter(spec filter.Spec) (filter.Result, error) {
	return m.engine.Apply(spec)
}

// ExportJSON writes the hierarchical JSON document.
func (m *Mamedex) ExportJSON(w io.Writer) error {
	return export.WriteJSON(w, m.registry)
}

// ExportYAML writes the hierarchical YAML document.
func (m *Mamedex) ExportYAML(w io.Writer) error {
	return export.WriteYAML(w, m.registry)
}

// ExportCSV writes the delimited tables into dir.
func (m *Mamedex) ExportCSV(dir string) error {
	return export.NewTabular().WriteDir(dir, m.registry)
}

// ExportSQLite writes the relational database at path.
func (m *Mamedex) ExportSQLite(ctx context.Context, path string) error {
	db, err := export.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Export(ctx, m.registry)
}
