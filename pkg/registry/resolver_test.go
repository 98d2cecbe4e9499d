package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/logging"
)

func testResolver(t *testing.T) (*Registry, *Resolver) {
	t.Helper()
	logging.DisableForTest(t)
	reg := New()
	return reg, NewResolver(reg)
}

func TestResolverCreatesMachineOnFirstSight(t *testing.T) {
	reg, res := testResolver(t)

	require.NoError(t, res.Apply(CategoryRecord{Name: "pacman", Category: "Maze"}))

	m, ok := reg.Machines().Get("pacman")
	require.True(t, ok)
	assert.Equal(t, "Maze", m.Category)
	assert.Equal(t, int64(1), res.Applied())
}

func TestResolverRejectsEmptyIdentity(t *testing.T) {
	_, res := testResolver(t)

	assert.Error(t, res.Apply(CoreRecord{}))
	assert.Error(t, res.Apply(nil))
}

func TestResolverPrimaryFirstWriterWins(t *testing.T) {
	reg, res := testResolver(t)
	log := logging.CaptureForTest(t)
	res.logger = *log.Logger

	require.NoError(t, res.Apply(CoreRecord{Name: "pacman", Manufacturer: "Namco", Year: "1980"}))
	require.NoError(t, res.Apply(CoreRecord{Name: "pacman", Manufacturer: "Midway", Year: "1980"}))

	m, ok := reg.Machines().Get("pacman")
	require.True(t, ok)
	assert.Equal(t, "Namco", m.Manufacturer)
	assert.Equal(t, "1980", m.Year)

	assert.Equal(t, int64(1), res.Conflicts())
	assert.True(t, log.Contains("merge conflict on primary field"))
	assert.True(t, log.Contains("Midway"))
}

func TestResolverSupplementalLastWriterWins(t *testing.T) {
	reg, res := testResolver(t)

	first := HistoryRecord{Name: "pacman", Sections: []HistorySection{{Name: "DESCRIPTION", Text: "old", Order: 1}}}
	second := HistoryRecord{Name: "pacman", Sections: []HistorySection{
		{Name: "DESCRIPTION", Text: "new", Order: 1},
		{Name: "TRIVIA", Text: "facts", Order: 2},
	}}

	require.NoError(t, res.Apply(first))
	require.NoError(t, res.Apply(second))
	require.NoError(t, res.Apply(RatingRecord{Name: "pacman", Rating: "E"}))
	require.NoError(t, res.Apply(RatingRecord{Name: "pacman", Rating: "T"}))

	m, ok := reg.Machines().Get("pacman")
	require.True(t, ok)
	require.Len(t, m.History, 2)
	assert.Equal(t, "new", m.History[0].Text)
	assert.Equal(t, "T", m.Rating)
	assert.Zero(t, res.Conflicts())
}

func TestResolverLanguagesAccumulateAsSet(t *testing.T) {
	reg, res := testResolver(t)

	require.NoError(t, res.Apply(LanguageRecord{Name: "pacman", Language: "English"}))
	require.NoError(t, res.Apply(LanguageRecord{Name: "pacman", Language: "Japanese"}))
	require.NoError(t, res.Apply(LanguageRecord{Name: "pacman", Language: "English"}))

	m, ok := reg.Machines().Get("pacman")
	require.True(t, ok)
	assert.Equal(t, []string{"English", "Japanese"}, m.Languages)
}

func TestResolverIdempotentReapply(t *testing.T) {
	reg, res := testResolver(t)

	records := []Record{
		CoreRecord{Name: "pacman", Manufacturer: "Namco", Year: "1980", IsBIOS: Bool(false)},
		CategoryRecord{Name: "pacman", Category: "Maze", Subcategory: "Collect", Mature: Bool(false)},
		SeriesRecord{Name: "pacman", Series: "Pac-Man"},
		PlayersRecord{Name: "pacman", Players: "2P alt"},
		LanguageRecord{Name: "pacman", Language: "English"},
	}

	for _, rec := range records {
		require.NoError(t, res.Apply(rec))
	}
	before := reg.Machines().Map()["pacman"].Copy()

	for _, rec := range records {
		require.NoError(t, res.Apply(rec))
	}

	assert.Equal(t, before, reg.Machines().Map()["pacman"])
	assert.Zero(t, res.Conflicts())
}

func TestResolverOrderInsensitive(t *testing.T) {
	logging.DisableForTest(t)

	records := []Record{
		CoreRecord{Name: "galaga", Manufacturer: "Namco", Year: "1981", CloneOf: ""},
		CategoryRecord{Name: "galaga", Category: "Shooter", Subcategory: "Gallery"},
		SeriesRecord{Name: "galaga", Series: "Galaxian"},
		PlayersRecord{Name: "galaga", Players: "2P alt"},
		LanguageRecord{Name: "galaga", Language: "English"},
		RatingRecord{Name: "galaga", Rating: "E"},
	}

	forward := New()
	resFwd := NewResolver(forward)
	for _, rec := range records {
		require.NoError(t, resFwd.Apply(rec))
	}

	reverse := New()
	resRev := NewResolver(reverse)
	for i := len(records) - 1; i >= 0; i-- {
		require.NoError(t, resRev.Apply(records[i]))
	}

	assert.Equal(t, forward.Machines().Map()["galaga"], reverse.Machines().Map()["galaga"])
	assert.Equal(t, forward.Stats(), reverse.Stats())
}

func TestResolverTouchesDimensions(t *testing.T) {
	reg, res := testResolver(t)

	require.NoError(t, res.Apply(CoreRecord{Name: "pacman", Manufacturer: "Namco"}))
	require.NoError(t, res.Apply(CategoryRecord{Name: "pacman", Category: "Maze"}))
	require.NoError(t, res.Apply(SeriesRecord{Name: "pacman", Series: "Pac-Man"}))
	require.NoError(t, res.Apply(LanguageRecord{Name: "pacman", Language: "English"}))

	stats := reg.Stats()
	assert.Equal(t, 1, stats.Machines)
	assert.Equal(t, 1, stats.Manufacturers)
	assert.Equal(t, 1, stats.Categories)
	assert.Equal(t, 1, stats.Series)
	assert.Equal(t, 1, stats.Languages)
}

func TestResolverConcurrentApply(t *testing.T) {
	reg, res := testResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				name := fmt.Sprintf("machine%03d", j)
				_ = res.Apply(CoreRecord{Name: name, Manufacturer: "Namco", Year: "1980"})
				_ = res.Apply(LanguageRecord{Name: name, Language: "English"})
				_ = res.Apply(PlayersRecord{Name: name, Players: "2P sim"})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Machines().Len())
	assert.Zero(t, res.Conflicts())
	reg.Machines().ForEach(func(_ string, m *Machine) bool {
		assert.Equal(t, "Namco", m.Manufacturer)
		assert.Equal(t, []string{"English"}, m.Languages)
		return true
	})
}
