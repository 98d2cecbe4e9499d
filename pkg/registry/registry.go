package registry

import (
	"sort"
	"sync"
)

// Dimension is a Manufacturer, Series, Category or Language entity.
// Identity is the exact name string; MachineCount is always derived from
// the live machine set at the time of the query.
type Dimension struct {
	Name         string `json:"name" yaml:"name"`
	MachineCount int    `json:"machine_count" yaml:"machine_count"`
}

// Registry is the shared store of machines and their dimension entities.
// It is mutated only by the merge resolver and the filter engine; readers
// and exporters see consistent snapshots.
type Registry struct {
	machines *Machines

	mu            sync.RWMutex
	manufacturers map[string]struct{}
	series        map[string]struct{}
	categories    map[string]struct{}
	languages     map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		machines:      NewMachines(),
		manufacturers: make(map[string]struct{}),
		series:        make(map[string]struct{}),
		categories:    make(map[string]struct{}),
		languages:     make(map[string]struct{}),
	}
}

// Machines returns the concurrent machine map.
func (r *Registry) Machines() *Machines {
	return r.machines
}

// touchManufacturer creates the manufacturer entity on first reference.
func (r *Registry) touchManufacturer(name string) {
	r.touch(&r.manufacturers, name)
}

func (r *Registry) touchSeries(name string) {
	r.touch(&r.series, name)
}

func (r *Registry) touchCategory(name string) {
	r.touch(&r.categories, name)
}

func (r *Registry) touchLanguage(name string) {
	r.touch(&r.languages, name)
}

func (r *Registry) touch(set *map[string]struct{}, name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	(*set)[name] = struct{}{}
	r.mu.Unlock()
}

// Manufacturers returns all manufacturer entities with derived counts,
// sorted by name. Entities no machine references any more are retained
// with a zero count until a cascade cleanup removes them.
func (r *Registry) Manufacturers() []Dimension {
	return r.dimensions(r.manufacturers, func(m *Machine) []string {
		if m.Manufacturer == "" {
			return nil
		}
		return []string{m.Manufacturer}
	})
}

// Series returns all series entities with derived counts, sorted by name.
func (r *Registry) Series() []Dimension {
	return r.dimensions(r.series, func(m *Machine) []string {
		if m.Series == "" {
			return nil
		}
		return []string{m.Series}
	})
}

// Categories returns all category entities with derived counts, sorted by
// name.
func (r *Registry) Categories() []Dimension {
	return r.dimensions(r.categories, func(m *Machine) []string {
		if m.Category == "" {
			return nil
		}
		return []string{m.Category}
	})
}

// Languages returns all language entities with derived counts, sorted by
// name.
func (r *Registry) Languages() []Dimension {
	return r.dimensions(r.languages, func(m *Machine) []string {
		return m.Languages
	})
}

func (r *Registry) dimensions(set map[string]struct{}, refs func(*Machine) []string) []Dimension {
	counts := make(map[string]int)
	r.machines.ForEach(func(_ string, m *Machine) bool {
		for _, name := range refs(m) {
			counts[name]++
		}
		return true
	})

	r.mu.RLock()
	out := make([]Dimension, 0, len(set))
	for name := range set {
		out = append(out, Dimension{Name: name, MachineCount: counts[name]})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RemoveOrphans deletes dimension entities whose derived machine count is
// zero and returns how many were removed. Used by the filter engine's
// cascade cleanup.
func (r *Registry) RemoveOrphans() int {
	removed := 0
	for _, prune := range []struct {
		set  map[string]struct{}
		dims func() []Dimension
	}{
		{r.manufacturers, r.Manufacturers},
		{r.series, r.Series},
		{r.categories, r.Categories},
		{r.languages, r.Languages},
	} {
		for _, d := range prune.dims() {
			if d.MachineCount == 0 {
				r.mu.Lock()
				delete(prune.set, d.Name)
				r.mu.Unlock()
				removed++
			}
		}
	}
	return removed
}

// DanglingRef names a machine whose clone-of reference resolves to no
// known machine after all sources have merged.
type DanglingRef struct {
	Machine string
	CloneOf string
}

// DanglingClones lists unresolved clone-of references. Mid-ingestion
// danglers are expected; a non-empty result after all sources have been
// merged is reported as a non-fatal warning.
func (r *Registry) DanglingClones() []DanglingRef {
	var out []DanglingRef
	snapshot := r.machines.Map()
	for name, m := range snapshot {
		if m.CloneOf == "" {
			continue
		}
		if _, ok := snapshot[m.CloneOf]; !ok {
			out = append(out, DanglingRef{Machine: name, CloneOf: m.CloneOf})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Machine < out[j].Machine })
	return out
}

// Stats summarizes registry contents.
type Stats struct {
	Machines      int `json:"machines"`
	Manufacturers int `json:"manufacturers"`
	Series        int `json:"series"`
	Categories    int `json:"categories"`
	Languages     int `json:"languages"`
}

// Stats returns entity counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Machines:      r.machines.Len(),
		Manufacturers: len(r.manufacturers),
		Series:        len(r.series),
		Categories:    len(r.categories),
		Languages:     len(r.languages),
	}
}

// Copy returns a deep copy of the registry.
func (r *Registry) Copy() *Registry {
	out := New()
	r.machines.ForEach(func(name string, m *Machine) bool {
		_ = out.machines.Set(name, m.Copy())
		return true
	})

	r.mu.RLock()
	for name := range r.manufacturers {
		out.manufacturers[name] = struct{}{}
	}
	for name := range r.series {
		out.series[name] = struct{}{}
	}
	for name := range r.categories {
		out.categories[name] = struct{}{}
	}
	for name := range r.languages {
		out.languages[name] = struct{}{}
	}
	r.mu.RUnlock()

	return out
}
