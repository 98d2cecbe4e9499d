package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/mamedex/mamedex/pkg/datasets"
	"github.com/mamedex/mamedex/pkg/errors"
)

// FileProvider opens datasets from explicitly mapped file paths.
type FileProvider struct {
	paths map[datasets.Kind]string
}

// NewFileProvider creates a provider over a kind-to-path map.
func NewFileProvider(paths map[datasets.Kind]string) *FileProvider {
	copied := make(map[datasets.Kind]string, len(paths))
	for kind, path := range paths {
		copied[kind] = path
	}
	return &FileProvider{paths: copied}
}

// Open opens the mapped file for the kind.
func (p *FileProvider) Open(ctx context.Context, kind datasets.Kind) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := p.paths[kind]
	if !ok {
		return nil, &errors.RetrievalError{
			Dataset: kind.String(),
			Err:     fmt.Errorf("%w: no source configured", errors.ErrNotFound),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.RetrievalError{Dataset: kind.String(), Source: path, Err: err}
	}
	return f, nil
}

// Available lists the configured kinds, sorted.
func (p *FileProvider) Available() []datasets.Kind {
	kinds := make([]datasets.Kind, 0, len(p.paths))
	for kind := range p.paths {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// filePatterns match the conventional file names each dataset ships
// under.
var filePatterns = map[datasets.Kind]*regexp.Regexp{
	datasets.KindMachines:  regexp.MustCompile(`(?i)^mame.*\.(dat|xml)$`),
	datasets.KindCatver:    regexp.MustCompile(`(?i)^catver.*\.ini$`),
	datasets.KindNPlayers:  regexp.MustCompile(`(?i)^nplayers.*\.ini$`),
	datasets.KindSeries:    regexp.MustCompile(`(?i)^series.*\.ini$`),
	datasets.KindLanguages: regexp.MustCompile(`(?i)^languages.*\.ini$`),
	datasets.KindHistory:   regexp.MustCompile(`(?i)^history.*\.xml$`),
	datasets.KindResources: regexp.MustCompile(`(?i)^resources.*\.(dat|xml)$`),
}

// DiscoverDir walks a directory and maps every dataset kind whose
// conventional file name is found. The first match per kind wins, in
// lexical walk order.
func DiscoverDir(dir string) (*FileProvider, error) {
	paths := make(map[datasets.Kind]string)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		for kind, pattern := range filePatterns {
			if _, taken := paths[kind]; taken {
				continue
			}
			if pattern.MatchString(name) {
				paths[kind] = path
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", dir, err)
	}

	return NewFileProvider(paths), nil
}
