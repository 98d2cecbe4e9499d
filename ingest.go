package mamedex

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mamedex/mamedex/pkg/datasets"
	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/fetch"
	"github.com/mamedex/mamedex/pkg/progress"
	"github.com/mamedex/mamedex/pkg/registry"
)

// progressEvery is how many records pass between progress events.
const progressEvery = 1000

// DatasetResult reports one dataset pass of an ingest run.
type DatasetResult struct {
	Kind  datasets.Kind
	Stats datasets.Stats
	Err   error
}

// Summary reports an ingest run. A failed dataset does not abort the
// others; its error is carried here instead.
type Summary struct {
	Results   []DatasetResult
	Conflicts int64
	Dangling  []registry.DanglingRef
}

// Failed returns the results of datasets that did not complete.
func (s *Summary) Failed() []DatasetResult {
	var out []DatasetResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Ingest reads the given datasets through the provider and merges them
// into the registry. Datasets run concurrently up to the configured
// limit; the merged outcome does not depend on completion order. When
// kinds is empty, everything the provider has is ingested. Each dataset
// publishes progress events and exactly one terminal event. Ingest
// returns an error only when the context is canceled; per-dataset
// failures are reported in the summary.
func (m *Mamedex) Ingest(ctx context.Context, provider fetch.Provider, kinds ...datasets.Kind) (*Summary, error) {
	if provider == nil {
		return nil, errors.New("provider cannot be nil")
	}
	if len(kinds) == 0 {
		kinds = provider.Available()
	}
	for _, kind := range kinds {
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: unknown dataset kind %q", errors.ErrInvalidInput, kind)
		}
	}

	results := make([]DatasetResult, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			stats, err := m.ingestOne(gctx, provider, kind)
			results[i] = DatasetResult{Kind: kind, Stats: stats, Err: err}
			if errors.IsCanceled(err) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Results:   results,
		Conflicts: m.resolver.Conflicts(),
		Dangling:  m.registry.DanglingClones(),
	}

	for _, ref := range summary.Dangling {
		m.logger.Warn().
			Str("machine", ref.Machine).
			Str("clone_of", ref.CloneOf).
			Msg("clone reference does not resolve")
	}

	m.logger.Info().
		Int("datasets", len(kinds)).
		Int("failed", len(summary.Failed())).
		Int("machines", m.registry.Machines().Len()).
		Int64("conflicts", summary.Conflicts).
		Int("dangling", len(summary.Dangling)).
		Msg("ingest finished")

	return summary, nil
}

// ingestOne runs a single dataset pass: open, parse, merge. Every exit
// path publishes one terminal event.
func (m *Mamedex) ingestOne(ctx context.Context, provider fetch.Provider, kind datasets.Kind) (datasets.Stats, error) {
	var stats datasets.Stats

	reader, err := datasets.ReaderFor(kind)
	if err != nil {
		m.publishError(kind, err)
		return stats, err
	}

	m.sink.Publish(progress.Event{
		Dataset: kind.String(),
		Type:    progress.TypeInfo,
		Message: fmt.Sprintf("reading %s", kind),
	})

	src, err := provider.Open(ctx, kind)
	if err != nil {
		m.publishError(kind, err)
		return stats, err
	}
	defer src.Close()

	var count int64
	stats, err = reader.Read(src, func(rec registry.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.resolver.Apply(rec); err != nil {
			return err
		}
		count++
		if count%progressEvery == 0 {
			m.sink.Publish(progress.Event{
				Dataset: kind.String(),
				Type:    progress.TypeProgress,
				Current: count,
			})
		}
		return nil
	})
	if err != nil {
		m.publishError(kind, err)
		return stats, err
	}

	m.sink.Publish(progress.Event{
		Dataset: kind.String(),
		Type:    progress.TypeFinish,
		Current: count,
		Message: fmt.Sprintf("%s loaded successfully", kind),
	})
	return stats, nil
}

func (m *Mamedex) publishError(kind datasets.Kind, err error) {
	m.sink.Publish(progress.Event{
		Dataset: kind.String(),
		Type:    progress.TypeError,
		Message: err.Error(),
	})
}
