package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/errors"
)

func TestMachinesBasicOperations(t *testing.T) {
	m := NewMachines()

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Exists("pacman"))

	require.NoError(t, m.Set("pacman", &Machine{Name: "pacman"}))
	require.NoError(t, m.Set("puckman", &Machine{Name: "puckman"}))

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Exists("pacman"))

	got, ok := m.Get("pacman")
	require.True(t, ok)
	assert.Equal(t, "pacman", got.Name)

	_, ok = m.Get("galaga")
	assert.False(t, ok)

	require.NoError(t, m.Delete("pacman"))
	assert.ErrorIs(t, m.Delete("pacman"), errors.ErrNotFound)
	assert.Equal(t, 1, m.Len())
}

func TestMachinesSetNil(t *testing.T) {
	m := NewMachines()
	assert.Error(t, m.Set("pacman", nil))
}

func TestMachinesListSorted(t *testing.T) {
	m := NewMachines(WithMachinesCapacity(4))
	for _, name := range []string{"zaxxon", "galaga", "pacman"} {
		require.NoError(t, m.Set(name, &Machine{Name: name}))
	}

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "galaga", list[0].Name)
	assert.Equal(t, "pacman", list[1].Name)
	assert.Equal(t, "zaxxon", list[2].Name)

	assert.Equal(t, []string{"galaga", "pacman", "zaxxon"}, m.Names())
}

func TestMachinesMapIsCopy(t *testing.T) {
	m := NewMachines()
	require.NoError(t, m.Set("pacman", &Machine{Name: "pacman"}))

	snapshot := m.Map()
	delete(snapshot, "pacman")
	assert.True(t, m.Exists("pacman"))
}

func TestMachinesDeleteBatch(t *testing.T) {
	m := NewMachines()
	for _, name := range []string{"pacman", "galaga", "zaxxon"} {
		require.NoError(t, m.Set(name, &Machine{Name: name}))
	}

	removed := m.DeleteBatch([]string{"pacman", "galaga", "missing"})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, m.Len())

	assert.Equal(t, 0, m.DeleteBatch(nil))
}

func TestMachinesConcurrentAccess(t *testing.T) {
	m := NewMachines()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				name := fmt.Sprintf("machine-%d-%d", n, j)
				_ = m.Set(name, &Machine{Name: name})
				_, _ = m.Get(name)
				_ = m.Len()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, m.Len())
}
