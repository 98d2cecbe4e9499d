package mamedex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/datasets"
	"github.com/mamedex/mamedex/pkg/fetch"
	"github.com/mamedex/mamedex/pkg/logging"
	"github.com/mamedex/mamedex/pkg/progress"
	"github.com/mamedex/mamedex/pkg/registry"
)

const machinesDat = `<?xml version="1.0"?>
<mame build="0.270">
	<machine name="pacman" sourcefile="pacman.cpp">
		<description>Pac-Man (Midway)</description>
		<year>1980</year>
		<manufacturer>Namco</manufacturer>
		<driver status="good"/>
	</machine>
	<machine name="mspacman" cloneof="pacman" romof="pacman">
		<description>Ms. Pac-Man</description>
		<year>1981</year>
		<manufacturer>Midway</manufacturer>
	</machine>
	<machine name="galaga">
		<description>Galaga (Namco rev. B)</description>
		<year>1981</year>
		<manufacturer>Namco</manufacturer>
	</machine>
</mame>
`

const catverIni = `[Category]
pacman=Maze / Collect
mspacman=Maze / Collect
galaga=Shooter / Gallery
`

const nplayersIni = `[NPlayers]
pacman=2P alt
mspacman=2P alt
galaga=2P alt
`

const seriesIni = `[Pac-Man]
pacman
mspacman

[Galaxian]
galaga
`

const languagesIni = `[English]
pacman
mspacman
galaga
`

const historyXML = `<history>
	<entry>
		<systems><system name="pacman"/></systems>
		<text>- DESCRIPTION -
A maze chase game.
</text>
	</entry>
</history>
`

const resourcesXML = `<datafile>
	<machine name="snap">
		<rom name="snap\pacman.png" size="14523" crc="a1b2c3d4" sha1="ffee"/>
	</machine>
</datafile>
`

func writeDatasets(t *testing.T) fetch.Provider {
	t.Helper()
	dir := t.TempDir()

	files := map[datasets.Kind]struct {
		name    string
		content string
	}{
		datasets.KindMachines:  {"mame.dat", machinesDat},
		datasets.KindCatver:    {"catver.ini", catverIni},
		datasets.KindNPlayers:  {"nplayers.ini", nplayersIni},
		datasets.KindSeries:    {"series.ini", seriesIni},
		datasets.KindLanguages: {"languages.ini", languagesIni},
		datasets.KindHistory:   {"history.xml", historyXML},
		datasets.KindResources: {"resources.dat", resourcesXML},
	}

	paths := make(map[datasets.Kind]string, len(files))
	for kind, f := range files {
		path := filepath.Join(dir, f.name)
		require.NoError(t, os.WriteFile(path, []byte(f.content), 0o644))
		paths[kind] = path
	}
	return fetch.NewFileProvider(paths)
}

func TestIngestAllDatasets(t *testing.T) {
	logging.DisableForTest(t)
	provider := writeDatasets(t)

	sink := progress.NewCollectSink()
	m, err := New(WithProgress(sink), WithConcurrency(3))
	require.NoError(t, err)

	summary, err := m.Ingest(context.Background(), provider)
	require.NoError(t, err)

	assert.Empty(t, summary.Failed())
	assert.Empty(t, summary.Dangling)
	assert.Zero(t, summary.Conflicts)

	reg := m.Registry()
	assert.Equal(t, 3, reg.Machines().Len())

	pacman, ok := reg.Machines().Get("pacman")
	require.True(t, ok)
	assert.Equal(t, "Namco", pacman.Manufacturer)
	assert.Equal(t, "Maze", pacman.Category)
	assert.Equal(t, "Pac-Man", pacman.Series)
	assert.Equal(t, []string{"English"}, pacman.Languages)
	assert.Equal(t, "2P alt", pacman.Players)
	require.Len(t, pacman.History, 1)
	assert.Equal(t, "A maze chase game.", pacman.History[0].Text)
	require.Len(t, pacman.Resources, 1)
	assert.Equal(t, "snap", pacman.Resources[0].Type)
	assert.Equal(t, "Pac-Man ", pacman.Normalized.Name)
	assert.Equal(t, "Alternate two-player mode", pacman.Normalized.Players)

	mspacman, ok := reg.Machines().Get("mspacman")
	require.True(t, ok)
	assert.True(t, mspacman.IsClone())

	stats := reg.Stats()
	assert.Equal(t, 2, stats.Manufacturers)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, 2, stats.Series)
	assert.Equal(t, 1, stats.Languages)

	// Every dataset publishes exactly one terminal event.
	for _, kind := range datasets.AllKinds() {
		events := sink.ByDataset(kind.String())
		terminal := 0
		for _, e := range events {
			if e.Type == progress.TypeFinish || e.Type == progress.TypeError {
				terminal++
			}
		}
		assert.Equal(t, 1, terminal, kind)
	}
}

func TestIngestOrderInsensitive(t *testing.T) {
	logging.DisableForTest(t)
	provider := writeDatasets(t)

	forward, err := New()
	require.NoError(t, err)
	_, err = forward.Ingest(context.Background(), provider, datasets.AllKinds()...)
	require.NoError(t, err)

	kinds := datasets.AllKinds()
	reversed := make([]datasets.Kind, len(kinds))
	for i, kind := range kinds {
		reversed[len(kinds)-1-i] = kind
	}

	backward, err := New(WithConcurrency(1))
	require.NoError(t, err)
	_, err = backward.Ingest(context.Background(), provider, reversed...)
	require.NoError(t, err)

	assert.Equal(t, forward.Registry().Machines().Map(), backward.Registry().Machines().Map())
	assert.Equal(t, forward.Registry().Stats(), backward.Registry().Stats())
}

func TestIngestIsolatesFailedDataset(t *testing.T) {
	logging.DisableForTest(t)
	dir := t.TempDir()

	machinesPath := filepath.Join(dir, "mame.dat")
	require.NoError(t, os.WriteFile(machinesPath, []byte(machinesDat), 0o644))
	badPath := filepath.Join(dir, "history.xml")
	require.NoError(t, os.WriteFile(badPath, []byte("<history><entry>"), 0o644))

	provider := fetch.NewFileProvider(map[datasets.Kind]string{
		datasets.KindMachines: machinesPath,
		datasets.KindHistory:  badPath,
		datasets.KindCatver:   filepath.Join(dir, "absent.ini"),
	})

	sink := progress.NewCollectSink()
	m, err := New(WithProgress(sink))
	require.NoError(t, err)

	summary, err := m.Ingest(context.Background(), provider)
	require.NoError(t, err)

	failed := summary.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 3, m.Registry().Machines().Len())

	errorEvents := 0
	for _, e := range sink.Events() {
		if e.Type == progress.TypeError {
			errorEvents++
		}
	}
	assert.Equal(t, 2, errorEvents)
}

func TestIngestCanceledContext(t *testing.T) {
	logging.DisableForTest(t)
	provider := writeDatasets(t)

	m, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Ingest(ctx, provider)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestRejectsUnknownKind(t *testing.T) {
	logging.DisableForTest(t)
	m, err := New()
	require.NoError(t, err)

	_, err = m.Ingest(context.Background(), fetch.NewFileProvider(nil), datasets.Kind("bogus"))
	assert.Error(t, err)
}

func TestRatingRecordsApplyThroughResolver(t *testing.T) {
	logging.DisableForTest(t)
	m, err := New()
	require.NoError(t, err)

	require.NoError(t, m.Resolver().Apply(registry.CoreRecord{Name: "pacman", Manufacturer: "Namco"}))
	require.NoError(t, m.Resolver().Apply(registry.RatingRecord{Name: "pacman", Rating: "E"}))

	got, ok := m.Registry().Machines().Get("pacman")
	require.True(t, ok)
	assert.Equal(t, "E", got.Rating)
}
