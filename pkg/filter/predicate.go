// Package filter removes machines from the registry by composable
// predicates. A filter pass validates fully before touching anything,
// removes every matching machine in one atomic step and reports what
// each predicate matched.
package filter

import (
	"regexp"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// modifiedKeywords mark altered or repackaged titles in a description.
var modifiedKeywords = []string{
	"bootleg",
	"playchoice-10",
	"nintendo super system",
	"prototype",
}

// invalidManufacturers mark machines without a real manufacturer.
var invalidManufacturers = []string{"unknown", "bootleg"}

// invalidPlayers mark entries that are not playable arcade titles.
var invalidPlayers = []string{"bios", "device", "non-arcade"}

// Predicate selects machines for removal.
type Predicate interface {
	// Name identifies the predicate in results and error messages.
	Name() string

	// Validate reports whether the predicate is well formed. It runs
	// before any machine is touched.
	Validate() error

	// Matches reports whether the machine should be selected.
	Matches(m *registry.Machine) bool
}

// Flag names accepted by ByFlag.
const (
	FlagBIOS       = "bios"
	FlagDevice     = "device"
	FlagMechanical = "mechanical"
	FlagMature     = "mature"
)

// flagPredicate selects machines carrying a boolean attribute.
type flagPredicate struct {
	flag string
}

// ByFlag selects machines whose named flag is set: FlagBIOS, FlagDevice,
// FlagMechanical or FlagMature.
func ByFlag(flag string) Predicate {
	return flagPredicate{flag: strings.ToLower(flag)}
}

func (p flagPredicate) Name() string { return "flag:" + p.flag }

func (p flagPredicate) Validate() error {
	switch p.flag {
	case FlagBIOS, FlagDevice, FlagMechanical, FlagMature:
		return nil
	}
	return &errors.FilterSpecError{Predicate: p.Name(), Message: "unknown flag"}
}

func (p flagPredicate) Matches(m *registry.Machine) bool {
	var v *bool
	switch p.flag {
	case FlagBIOS:
		v = m.IsBIOS
	case FlagDevice:
		v = m.IsDevice
	case FlagMechanical:
		v = m.IsMechanical
	case FlagMature:
		v = m.IsMature
	}
	return v != nil && *v
}

// clonesPredicate selects machines deriving from another machine.
type clonesPredicate struct{}

// Clones selects machines with a clone-of or rom-of reference.
func Clones() Predicate { return clonesPredicate{} }

func (clonesPredicate) Name() string                     { return "clones" }
func (clonesPredicate) Validate() error                  { return nil }
func (clonesPredicate) Matches(m *registry.Machine) bool { return m.IsClone() }

// modifiedPredicate selects bootlegs, prototypes and other altered
// titles.
type modifiedPredicate struct{}

// Modified selects machines whose description carries a modification
// keyword, whose manufacturer is unknown or a bootleg, or whose player
// descriptor marks a non-playable entry.
func Modified() Predicate { return modifiedPredicate{} }

func (modifiedPredicate) Name() string    { return "modified" }
func (modifiedPredicate) Validate() error { return nil }

func (modifiedPredicate) Matches(m *registry.Machine) bool {
	description := strings.ToLower(m.Description)
	for _, keyword := range modifiedKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}

	manufacturer := strings.ToLower(m.Manufacturer)
	for _, invalid := range invalidManufacturers {
		if manufacturer != "" && strings.Contains(manufacturer, invalid) {
			return true
		}
	}

	players := strings.ToLower(m.Players)
	for _, invalid := range invalidPlayers {
		if players != "" && strings.Contains(players, invalid) {
			return true
		}
	}

	return false
}

// categoryPredicate selects machines by their category entity.
type categoryPredicate struct {
	categories map[string]struct{}
	keepListed bool
}

// ByCategory selects machines whose category is one of the given names.
func ByCategory(categories ...string) Predicate {
	return newCategoryPredicate(categories, true)
}

// NotInCategory selects machines whose category is missing or not among
// the given names, for keep-list style pruning.
func NotInCategory(categories ...string) Predicate {
	return newCategoryPredicate(categories, false)
}

func newCategoryPredicate(categories []string, keepListed bool) Predicate {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return categoryPredicate{categories: set, keepListed: keepListed}
}

func (p categoryPredicate) Name() string {
	if p.keepListed {
		return "category"
	}
	return "not-in-category"
}

func (p categoryPredicate) Validate() error {
	if len(p.categories) == 0 {
		return &errors.FilterSpecError{Predicate: p.Name(), Message: "no categories given"}
	}
	return nil
}

func (p categoryPredicate) Matches(m *registry.Machine) bool {
	_, listed := p.categories[m.Category]
	if p.keepListed {
		return listed
	}
	return m.Category == "" || !listed
}

// manufacturerPredicate selects machines by manufacturer substring.
type manufacturerPredicate struct {
	needles []string
}

// ByManufacturer selects machines whose manufacturer contains any of the
// given names, case-insensitively.
func ByManufacturer(names ...string) Predicate {
	needles := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			needles = append(needles, strings.ToLower(n))
		}
	}
	return manufacturerPredicate{needles: needles}
}

func (p manufacturerPredicate) Name() string { return "manufacturer" }

func (p manufacturerPredicate) Validate() error {
	if len(p.needles) == 0 {
		return &errors.FilterSpecError{Predicate: p.Name(), Message: "no manufacturers given"}
	}
	return nil
}

func (p manufacturerPredicate) Matches(m *registry.Machine) bool {
	manufacturer := strings.ToLower(m.Manufacturer)
	if manufacturer == "" {
		return false
	}
	for _, needle := range p.needles {
		if strings.Contains(manufacturer, needle) {
			return true
		}
	}
	return false
}

// namePredicate selects machines by exact identity.
type namePredicate struct {
	names map[string]struct{}
}

// ByName selects machines whose identity is one of the given names. Names
// match exactly; use ByPattern for regular expressions.
func ByName(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return namePredicate{names: set}
}

func (p namePredicate) Name() string { return "name" }

func (p namePredicate) Validate() error {
	if len(p.names) == 0 {
		return &errors.FilterSpecError{Predicate: p.Name(), Message: "no names given"}
	}
	return nil
}

func (p namePredicate) Matches(m *registry.Machine) bool {
	_, ok := p.names[m.Name]
	return ok
}

// patternPredicate selects machines whose identity matches a regular
// expression.
type patternPredicate struct {
	pattern string
	re      *regexp.Regexp
}

// ByPattern selects machines whose identity matches the regular
// expression.
func ByPattern(pattern string) Predicate {
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	return patternPredicate{pattern: pattern, re: re}
}

func (p patternPredicate) Name() string { return "pattern:" + p.pattern }

func (p patternPredicate) Validate() error {
	if p.re == nil {
		return &errors.FilterSpecError{Predicate: p.Name(), Message: "invalid pattern"}
	}
	return nil
}

func (p patternPredicate) Matches(m *registry.Machine) bool {
	return p.re != nil && p.re.MatchString(m.Name)
}
