package filter

import (
	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/logging"
	"github.com/mamedex/mamedex/pkg/registry"
)

// Mode decides how predicates combine.
type Mode int

const (
	// ModeAny removes a machine when any predicate matches it.
	ModeAny Mode = iota

	// ModeAll removes a machine only when every predicate matches it.
	ModeAll
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "any"
}

// Spec describes one removal pass.
type Spec struct {
	// Predicates select machines for removal. An empty set removes
	// nothing.
	Predicates []Predicate

	// Mode decides whether a machine must match any or all predicates.
	Mode Mode

	// Cascade also removes dimension entities left with no machines.
	Cascade bool
}

// Result reports what a removal pass did.
type Result struct {
	// Removed is the number of machines deleted.
	Removed int

	// Matched counts, per predicate name, how many machines each
	// predicate selected. With ModeAll a matched machine is not
	// necessarily removed.
	Matched map[string]int

	// OrphanedDimensions is the number of dimension entities dropped by
	// the cascade.
	OrphanedDimensions int
}

// Engine applies removal passes to a registry.
type Engine struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// NewEngine creates an engine bound to the registry.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{
		registry: reg,
		logger:   logging.Default().With().Str("component", "filter").Logger(),
	}
}

// Apply runs one removal pass. The spec is validated in full before any
// machine is touched; an invalid predicate leaves the registry unchanged.
// A spec with no predicates succeeds and removes nothing. Applying to an
// empty registry returns ErrNoData. Removal happens in a single batch, so
// a concurrent reader sees either the old or the new machine set, never a
// half-applied pass.
func (e *Engine) Apply(spec Spec) (Result, error) {
	result := Result{Matched: make(map[string]int)}

	for _, p := range spec.Predicates {
		if err := p.Validate(); err != nil {
			return result, err
		}
	}

	if e.registry.Machines().Len() == 0 {
		return result, errors.ErrNoData
	}

	// Without predicates there is nothing to match. Returning here also
	// keeps ModeAll from treating every machine as vacuously matched.
	if len(spec.Predicates) == 0 {
		return result, nil
	}

	var remove []string
	e.registry.Machines().ForEach(func(name string, m *registry.Machine) bool {
		matched := 0
		for _, p := range spec.Predicates {
			if p.Matches(m) {
				result.Matched[p.Name()]++
				matched++
			}
		}

		switch spec.Mode {
		case ModeAll:
			if matched == len(spec.Predicates) {
				remove = append(remove, name)
			}
		default:
			if matched > 0 {
				remove = append(remove, name)
			}
		}
		return true
	})

	result.Removed = e.registry.Machines().DeleteBatch(remove)

	if spec.Cascade {
		result.OrphanedDimensions = e.registry.RemoveOrphans()
	}

	e.logger.Info().
		Int("removed", result.Removed).
		Int("orphaned_dimensions", result.OrphanedDimensions).
		Str("mode", spec.Mode.String()).
		Msg("filter pass applied")

	return result, nil
}
