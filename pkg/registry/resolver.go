package registry

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/logging"
	"github.com/mamedex/mamedex/pkg/normalize"
)

// lockStripes is the number of identity lock stripes. Applications of
// records for the same machine serialize on the same stripe; different
// machines usually proceed in parallel.
const lockStripes = 64

// Resolver applies partial records to the registry under the merge
// policy: primary fields keep the first non-empty value written and log
// a non-fatal conflict warning on disagreement, supplemental fields take
// the latest value, and language links accumulate as a set. The merged
// outcome is independent of the order datasets arrive in, except where
// two sources genuinely disagree on a primary field.
type Resolver struct {
	registry *Registry
	locks    [lockStripes]sync.Mutex
	logger   zerolog.Logger

	conflicts atomic.Int64
	applied   atomic.Int64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for conflict warnings.
func WithResolverLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver bound to the registry.
func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		logger:   logging.Default().With().Str("component", "resolver").Logger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Conflicts returns the number of primary-field conflict warnings issued
// so far.
func (r *Resolver) Conflicts() int64 {
	return r.conflicts.Load()
}

// Applied returns the number of records applied so far.
func (r *Resolver) Applied() int64 {
	return r.applied.Load()
}

// Apply merges one record into the registry, creating the machine on
// first sight. Records with an empty identity are rejected.
func (r *Resolver) Apply(record Record) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	identity := record.Identity()
	if identity == "" {
		return fmt.Errorf("%w: record has empty identity", errors.ErrInvalidInput)
	}

	stripe := &r.locks[stripeFor(identity)]
	stripe.Lock()
	defer stripe.Unlock()

	machine, ok := r.registry.machines.Get(identity)
	if !ok {
		machine = &Machine{Name: identity}
	}

	switch rec := record.(type) {
	case CoreRecord:
		r.applyCore(machine, rec)
	case CategoryRecord:
		r.applyCategory(machine, rec)
	case SeriesRecord:
		r.applySeries(machine, rec)
	case LanguageRecord:
		r.applyLanguage(machine, rec)
	case PlayersRecord:
		r.setPrimary(machine, "players", &machine.Players, rec.Players)
		if machine.Normalized.Players == "" && machine.Players != "" {
			machine.Normalized.Players = normalize.Players(machine.Players)
		}
	case HistoryRecord:
		machine.History = append([]HistorySection(nil), rec.Sections...)
	case ResourceRecord:
		machine.Resources = append([]Resource(nil), rec.Resources...)
	case RatingRecord:
		machine.Rating = rec.Rating
	default:
		return fmt.Errorf("%w: unknown record type %T", errors.ErrInvalidInput, record)
	}

	if err := r.registry.machines.Set(identity, machine); err != nil {
		return err
	}

	r.applied.Add(1)
	return nil
}

func (r *Resolver) applyCore(m *Machine, rec CoreRecord) {
	r.setPrimary(m, "source_file", &m.SourceFile, rec.SourceFile)
	r.setPrimary(m, "rom_of", &m.RomOf, rec.RomOf)
	r.setPrimary(m, "clone_of", &m.CloneOf, rec.CloneOf)
	r.setPrimary(m, "sample_of", &m.SampleOf, rec.SampleOf)
	r.setPrimary(m, "description", &m.Description, rec.Description)
	r.setPrimary(m, "year", &m.Year, rec.Year)
	r.setPrimary(m, "manufacturer", &m.Manufacturer, rec.Manufacturer)
	r.setPrimary(m, "driver_status", &m.DriverStatus, rec.DriverStatus)
	r.setPrimaryInt(m, "input_players", &m.InputPlayers, rec.InputPlayers)
	r.setPrimaryInt(m, "input_buttons", &m.InputButtons, rec.InputButtons)
	r.setPrimaryBool(m, "is_bios", &m.IsBIOS, rec.IsBIOS)
	r.setPrimaryBool(m, "is_device", &m.IsDevice, rec.IsDevice)
	r.setPrimaryBool(m, "runnable", &m.Runnable, rec.Runnable)
	r.setPrimaryBool(m, "is_mechanical", &m.IsMechanical, rec.IsMechanical)

	if rec.Manufacturer != "" {
		r.registry.touchManufacturer(rec.Manufacturer)
	}

	r.deriveNormalized(m)
}

// deriveNormalized fills the cleaned presentation values from whatever
// primary fields have been merged so far.
func (r *Resolver) deriveNormalized(m *Machine) {
	if m.Normalized.Name == "" && m.Description != "" {
		m.Normalized.Name = normalize.MachineName(m.Description)
	}
	if m.Normalized.Manufacturer == "" && m.Manufacturer != "" {
		m.Normalized.Manufacturer = normalize.Manufacturer(m.Manufacturer)
	}
	if m.Normalized.Year == "" {
		if m.Year == "" || strings.Contains(m.Year, "?") {
			m.Normalized.Year = "Unknown"
		} else {
			m.Normalized.Year = m.Year
		}
	}
	m.Normalized.IsParent = Bool(m.IsParent())
}

func (r *Resolver) applyCategory(m *Machine, rec CategoryRecord) {
	r.setPrimary(m, "category", &m.Category, rec.Category)
	r.setPrimary(m, "subcategory", &m.Subcategory, rec.Subcategory)
	r.setPrimaryBool(m, "is_mature", &m.IsMature, rec.Mature)

	if rec.Category != "" {
		r.registry.touchCategory(rec.Category)
	}
}

func (r *Resolver) applySeries(m *Machine, rec SeriesRecord) {
	r.setPrimary(m, "series", &m.Series, rec.Series)

	if rec.Series != "" {
		r.registry.touchSeries(rec.Series)
	}
}

func (r *Resolver) applyLanguage(m *Machine, rec LanguageRecord) {
	if rec.Language == "" {
		return
	}
	if !m.HasLanguage(rec.Language) {
		m.Languages = append(m.Languages, rec.Language)
	}
	r.registry.touchLanguage(rec.Language)
}

// setPrimary writes value into field if the field is still empty. A
// differing second writer keeps the first value and logs a warning.
func (r *Resolver) setPrimary(m *Machine, field string, dst *string, value string) {
	if value == "" {
		return
	}
	if *dst == "" {
		*dst = value
		return
	}
	if *dst != value {
		r.warnConflict(m.Name, field, *dst, value)
	}
}

func (r *Resolver) setPrimaryInt(m *Machine, field string, dst *int, value int) {
	if value == 0 {
		return
	}
	if *dst == 0 {
		*dst = value
		return
	}
	if *dst != value {
		r.warnConflict(m.Name, field, fmt.Sprint(*dst), fmt.Sprint(value))
	}
}

func (r *Resolver) setPrimaryBool(m *Machine, field string, dst **bool, value *bool) {
	if value == nil {
		return
	}
	if *dst == nil {
		v := *value
		*dst = &v
		return
	}
	if **dst != *value {
		r.warnConflict(m.Name, field, fmt.Sprint(**dst), fmt.Sprint(*value))
	}
}

func (r *Resolver) warnConflict(machine, field, kept, rejected string) {
	r.conflicts.Add(1)
	r.logger.Warn().
		Str("machine", machine).
		Str("field", field).
		Str("kept", kept).
		Str("rejected", rejected).
		Msg("merge conflict on primary field")
}

func stripeFor(identity string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	return h.Sum32() % lockStripes
}
