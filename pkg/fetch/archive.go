package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/mamedex/mamedex/pkg/datasets"
	"github.com/mamedex/mamedex/pkg/errors"
)

// ArchiveProvider opens datasets packed inside zip archives, the format
// the upstream packs ship in. Each kind maps to one archive; the entry
// is picked by the conventional file name patterns.
type ArchiveProvider struct {
	archives map[datasets.Kind]string
}

// NewArchiveProvider creates a provider over a kind-to-archive map.
func NewArchiveProvider(archives map[datasets.Kind]string) *ArchiveProvider {
	copied := make(map[datasets.Kind]string, len(archives))
	for kind, p := range archives {
		copied[kind] = p
	}
	return &ArchiveProvider{archives: copied}
}

// archiveEntry keeps the zip handle open for as long as the entry is
// being read.
type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (e *archiveEntry) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens the archive mapped to the kind and returns its first entry
// matching the kind's conventional file name.
func (p *ArchiveProvider) Open(ctx context.Context, kind datasets.Kind) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archivePath, ok := p.archives[kind]
	if !ok {
		return nil, &errors.RetrievalError{
			Dataset: kind.String(),
			Err:     fmt.Errorf("%w: no archive configured", errors.ErrNotFound),
		}
	}

	archive, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &errors.RetrievalError{Dataset: kind.String(), Source: archivePath, Err: err}
	}

	pattern := filePatterns[kind]
	for _, f := range archive.File {
		if f.FileInfo().IsDir() || !pattern.MatchString(path.Base(f.Name)) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			archive.Close()
			return nil, &errors.RetrievalError{Dataset: kind.String(), Source: archivePath, Err: err}
		}
		return &archiveEntry{ReadCloser: rc, archive: archive}, nil
	}

	archive.Close()
	return nil, &errors.RetrievalError{
		Dataset: kind.String(),
		Source:  archivePath,
		Err:     fmt.Errorf("%w: no matching entry in archive", errors.ErrNotFound),
	}
}

// Available lists the configured kinds, sorted.
func (p *ArchiveProvider) Available() []datasets.Kind {
	kinds := make([]datasets.Kind, 0, len(p.archives))
	for kind := range p.archives {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
