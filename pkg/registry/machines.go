package registry

import (
	"maps"
	"sort"
	"sync"

	"github.com/mamedex/mamedex/pkg/errors"
)

// Machines is a concurrent safe map of machines keyed by identity.
type Machines struct {
	mu       sync.RWMutex
	machines map[string]*Machine
}

// MachinesOption defines a function that configures a Machines instance.
type MachinesOption func(*Machines)

// WithMachinesCapacity sets the initial capacity of the machines map.
func WithMachinesCapacity(capacity int) MachinesOption {
	return func(m *Machines) {
		m.machines = make(map[string]*Machine, capacity)
	}
}

// NewMachines creates a new Machines map with optional configuration.
func NewMachines(opts ...MachinesOption) *Machines {
	m := &Machines{
		machines: make(map[string]*Machine),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Get returns a machine by name and whether it exists.
func (m *Machines) Get(name string) (*Machine, bool) {
	m.mu.RLock()
	machine, ok := m.machines[name]
	m.mu.RUnlock()
	return machine, ok
}

// Set sets a machine by name. Returns an error if machine is nil.
func (m *Machines) Set(name string, machine *Machine) error {
	if machine == nil {
		return errors.New("machine cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.machines[name] = machine
	return nil
}

// Delete removes a machine by name. Returns ErrNotFound if absent.
func (m *Machines) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.machines[name]; !exists {
		return errors.ErrNotFound
	}

	delete(m.machines, name)
	return nil
}

// Exists checks if a machine exists without returning it.
func (m *Machines) Exists(name string) bool {
	m.mu.RLock()
	_, exists := m.machines[name]
	m.mu.RUnlock()
	return exists
}

// Len returns the number of machines.
func (m *Machines) Len() int {
	m.mu.RLock()
	length := len(m.machines)
	m.mu.RUnlock()
	return length
}

// List returns a slice of all machines sorted by name.
func (m *Machines) List() []*Machine {
	m.mu.RLock()
	machines := make([]*Machine, 0, len(m.machines))
	for _, machine := range m.machines {
		machines = append(machines, machine)
	}
	m.mu.RUnlock()

	sort.Slice(machines, func(i, j int) bool {
		return machines[i].Name < machines[j].Name
	})
	return machines
}

// Names returns all machine identities, sorted.
func (m *Machines) Names() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.machines))
	for name := range m.machines {
		names = append(names, name)
	}
	m.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Map returns a shallow copy of the machine map.
func (m *Machines) Map() map[string]*Machine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*Machine, len(m.machines))
	maps.Copy(result, m.machines)
	return result
}

// ForEach applies a function to each machine. The function should not
// modify the machine. If the function returns false, iteration stops.
func (m *Machines) ForEach(fn func(name string, machine *Machine) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, machine := range m.machines {
		if !fn(name, machine) {
			break
		}
	}
}

// Clear removes all machines.
func (m *Machines) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.machines {
		delete(m.machines, k)
	}
}

// DeleteBatch removes multiple machines by name in one locked pass and
// returns the number actually removed.
func (m *Machines) DeleteBatch(names []string) int {
	if len(names) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, name := range names {
		if _, exists := m.machines[name]; exists {
			delete(m.machines, name)
			removed++
		}
	}
	return removed
}
