// Package fetch locates dataset files on disk and opens them for
// ingestion. Datasets arrive as loose files or inside zip archives;
// providers hide the difference from the ingest pipeline.
package fetch

import (
	"context"
	"io"

	"github.com/mamedex/mamedex/pkg/datasets"
)

// Provider opens the input stream for a dataset kind. A missing or
// unreadable source surfaces as a RetrievalError.
type Provider interface {
	// Open returns the dataset stream. The caller closes it.
	Open(ctx context.Context, kind datasets.Kind) (io.ReadCloser, error)

	// Available lists the dataset kinds this provider can open.
	Available() []datasets.Kind
}
