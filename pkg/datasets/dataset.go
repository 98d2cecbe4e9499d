// Package datasets parses the community data files machine metadata is
// curated from. Each dataset kind has a reader that turns one file into a
// stream of partial records; the merge resolver owns combining them.
package datasets

import (
	"fmt"
	"io"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// Kind identifies one supported dataset format.
type Kind string

// Supported dataset kinds.
const (
	KindMachines  Kind = "machines"
	KindCatver    Kind = "catver"
	KindNPlayers  Kind = "nplayers"
	KindSeries    Kind = "series"
	KindLanguages Kind = "languages"
	KindHistory   Kind = "history"
	KindResources Kind = "resources"
)

// AllKinds returns every supported dataset kind in canonical ingest order.
func AllKinds() []Kind {
	return []Kind{
		KindMachines,
		KindCatver,
		KindNPlayers,
		KindSeries,
		KindLanguages,
		KindHistory,
		KindResources,
	}
}

// Valid reports whether the kind names a supported dataset.
func (k Kind) Valid() bool {
	switch k {
	case KindMachines, KindCatver, KindNPlayers, KindSeries,
		KindLanguages, KindHistory, KindResources:
		return true
	}
	return false
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// ParseKind converts a name into a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown dataset kind %q", errors.ErrInvalidInput, name)
	}
	return k, nil
}

// Stats summarizes one reader pass.
type Stats struct {
	// Records is the number of partial records emitted.
	Records int

	// Skipped is the number of entries recognized but not emitted, such
	// as resource files outside their section or slash-joined language
	// groups.
	Skipped int
}

// Reader parses one dataset format into partial records. Read streams the
// input once and calls emit for every record; a non-nil error from emit
// aborts the pass. Malformed input surfaces as a FormatError.
type Reader interface {
	Kind() Kind
	Read(r io.Reader, emit func(registry.Record) error) (Stats, error)
}

// ReaderFor returns the reader for a dataset kind.
func ReaderFor(kind Kind) (Reader, error) {
	switch kind {
	case KindMachines:
		return MachinesReader{}, nil
	case KindCatver:
		return CatverReader{}, nil
	case KindNPlayers:
		return NPlayersReader{}, nil
	case KindSeries:
		return SeriesReader{}, nil
	case KindLanguages:
		return LanguagesReader{}, nil
	case KindHistory:
		return HistoryReader{}, nil
	case KindResources:
		return ResourcesReader{}, nil
	default:
		return nil, fmt.Errorf("%w: no reader for dataset kind %q", errors.ErrInvalidInput, kind)
	}
}
