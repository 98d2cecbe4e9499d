package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/logging"
	"github.com/mamedex/mamedex/pkg/registry"
)

func seedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	logging.DisableForTest(t)

	reg := registry.New()
	res := registry.NewResolver(reg)
	for _, rec := range []registry.Record{
		registry.CoreRecord{Name: "pacman", Description: "Pac-Man (Midway)", Manufacturer: "Namco", Year: "1980"},
		registry.CoreRecord{Name: "mspacman", Description: "Ms. Pac-Man", Manufacturer: "Midway", CloneOf: "pacman", RomOf: "pacman"},
		registry.CoreRecord{Name: "pacmanbl", Description: "Pac-Man (bootleg)", Manufacturer: "bootleg"},
		registry.CoreRecord{Name: "neogeo", Description: "Neo-Geo MV-6F", IsBIOS: registry.Bool(true)},
		registry.CoreRecord{Name: "galaga", Description: "Galaga", Manufacturer: "Namco"},
		registry.CategoryRecord{Name: "pacman", Category: "Maze"},
		registry.CategoryRecord{Name: "galaga", Category: "Shooter"},
		registry.PlayersRecord{Name: "neogeo", Players: "BIOS"},
	} {
		require.NoError(t, res.Apply(rec))
	}
	return reg
}

func TestEngineValidatesBeforeMutating(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)
	before := reg.Machines().Len()

	_, err := engine.Apply(Spec{Predicates: []Predicate{
		Clones(),
		ByFlag("sideways"),
	}})
	require.Error(t, err)
	assert.True(t, errors.IsFilterSpec(err))
	assert.Equal(t, before, reg.Machines().Len())

	_, err = engine.Apply(Spec{Predicates: []Predicate{ByPattern("[")}})
	assert.True(t, errors.IsFilterSpec(err))

	_, err = engine.Apply(Spec{Predicates: []Predicate{ByName()}})
	assert.True(t, errors.IsFilterSpec(err))

	_, err = engine.Apply(Spec{Predicates: []Predicate{ByCategory()}})
	assert.True(t, errors.IsFilterSpec(err))
}

func TestEngineEmptySpecRemovesNothing(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)
	before := reg.Machines().Len()

	result, err := engine.Apply(Spec{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Removed)
	assert.Empty(t, result.Matched)
	assert.Equal(t, before, reg.Machines().Len())

	// ModeAll must not treat the empty predicate set as matching
	// everything.
	result, err = engine.Apply(Spec{Mode: ModeAll})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, before, reg.Machines().Len())
}

func TestEngineEmptyRegistry(t *testing.T) {
	logging.DisableForTest(t)
	engine := NewEngine(registry.New())

	_, err := engine.Apply(Spec{Predicates: []Predicate{Clones()}})
	assert.ErrorIs(t, err, errors.ErrNoData)
}

func TestEngineRemovesClones(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	result, err := engine.Apply(Spec{Predicates: []Predicate{Clones()}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Matched["clones"])
	assert.False(t, reg.Machines().Exists("mspacman"))
	assert.True(t, reg.Machines().Exists("pacman"))
}

func TestEngineModeAnyVersusAll(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	// Modified matches the bootleg and the BIOS entry; flag:bios matches
	// only the BIOS entry. ModeAll removes just their intersection.
	result, err := engine.Apply(Spec{
		Predicates: []Predicate{Modified(), ByFlag(FlagBIOS)},
		Mode:       ModeAll,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 2, result.Matched["modified"])
	assert.Equal(t, 1, result.Matched["flag:bios"])
	assert.False(t, reg.Machines().Exists("neogeo"))
	assert.True(t, reg.Machines().Exists("pacmanbl"))

	result, err = engine.Apply(Spec{Predicates: []Predicate{Modified()}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	assert.False(t, reg.Machines().Exists("pacmanbl"))
}

func TestEngineCascadeRemovesOrphanDimensions(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	result, err := engine.Apply(Spec{
		Predicates: []Predicate{ByCategory("Shooter")},
		Cascade:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.OrphanedDimensions)
	assert.Len(t, reg.Categories(), 1)
}

func TestEngineWithoutCascadeKeepsOrphans(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	_, err := engine.Apply(Spec{Predicates: []Predicate{ByCategory("Shooter")}})
	require.NoError(t, err)

	categories := reg.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, registry.Dimension{Name: "Shooter", MachineCount: 0}, categories[1])
}

func TestEngineNoMatchIsNoOp(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)
	before := reg.Machines().Len()

	result, err := engine.Apply(Spec{Predicates: []Predicate{ByManufacturer("Sega")}})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, before, reg.Machines().Len())
}

func TestNotInCategoryKeepList(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	// Keep only Maze machines; everything uncategorized goes too.
	result, err := engine.Apply(Spec{Predicates: []Predicate{NotInCategory("Maze")}})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Removed)
	assert.Equal(t, []string{"pacman"}, reg.Machines().Names())
}

func TestByNameMatchesExactIdentity(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	// "pacman" must not select mspacman or pacmanbl by substring.
	result, err := engine.Apply(Spec{Predicates: []Predicate{ByName("pacman")}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Matched["name"])
	assert.False(t, reg.Machines().Exists("pacman"))
	assert.True(t, reg.Machines().Exists("mspacman"))
	assert.True(t, reg.Machines().Exists("pacmanbl"))
}

func TestByNameMultipleIdentities(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	result, err := engine.Apply(Spec{Predicates: []Predicate{ByName("pacman", "galaga", "absent")}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Removed)
	assert.False(t, reg.Machines().Exists("pacman"))
	assert.False(t, reg.Machines().Exists("galaga"))
	assert.True(t, reg.Machines().Exists("mspacman"))
}

func TestByPatternPredicate(t *testing.T) {
	reg := seedRegistry(t)
	engine := NewEngine(reg)

	result, err := engine.Apply(Spec{Predicates: []Predicate{ByPattern("^pac")}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Removed)
	assert.False(t, reg.Machines().Exists("pacman"))
	assert.False(t, reg.Machines().Exists("pacmanbl"))
	assert.True(t, reg.Machines().Exists("mspacman"))
}
