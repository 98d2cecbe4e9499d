package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/registry"
)

const catverFixture = `;; catver.ini
[FOLDER_SETTINGS]
RootFolderIcon mame
SubFolderIcon folder

[Category]
pacman=Maze / Collect
sfiii=Fighter / Versus
pbobble=Puzzle / Drop * Mature *
broken=NoSlashHere
`

func TestCatverReader(t *testing.T) {
	records, stats := collect(t, CatverReader{}, catverFixture)

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, records, 3)

	pacman := records[0].(registry.CategoryRecord)
	assert.Equal(t, "pacman", pacman.Name)
	assert.Equal(t, "Maze", pacman.Category)
	assert.Equal(t, "Collect", pacman.Subcategory)
	require.NotNil(t, pacman.Mature)
	assert.False(t, *pacman.Mature)

	mature := records[2].(registry.CategoryRecord)
	assert.Equal(t, "Drop", mature.Subcategory)
	require.NotNil(t, mature.Mature)
	assert.True(t, *mature.Mature)
}

const nplayersFixture = `[NPlayers]
pacman=2P alt
gauntlet=4P sim
neogeo=BIOS
; comment line
`

func TestNPlayersReader(t *testing.T) {
	records, stats := collect(t, NPlayersReader{}, nplayersFixture)

	assert.Equal(t, 3, stats.Records)
	require.Len(t, records, 3)

	gauntlet := records[1].(registry.PlayersRecord)
	assert.Equal(t, "gauntlet", gauntlet.Name)
	assert.Equal(t, "4P sim", gauntlet.Players)
}

const seriesFixture = `[FOLDER_SETTINGS]
RootFolderIcon mame

[Pac-Man]
pacman
mspacman

[Street Fighter]
sf2
`

func TestSeriesReader(t *testing.T) {
	records, stats := collect(t, SeriesReader{}, seriesFixture)

	assert.Equal(t, 3, stats.Records)
	require.Len(t, records, 3)

	first := records[0].(registry.SeriesRecord)
	assert.Equal(t, "pacman", first.Name)
	assert.Equal(t, "Pac-Man", first.Series)

	last := records[2].(registry.SeriesRecord)
	assert.Equal(t, "sf2", last.Name)
	assert.Equal(t, "Street Fighter", last.Series)
}

const languagesFixture = `[FOLDER_SETTINGS]
RootFolderIcon mame

[English]
pacman
sf2

[English / Japanese]
wonder3

[Japanese]
pacman
`

func TestLanguagesReader(t *testing.T) {
	records, stats := collect(t, LanguagesReader{}, languagesFixture)

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, records, 3)

	assert.Equal(t, registry.LanguageRecord{Name: "pacman", Language: "English"}, records[0])
	assert.Equal(t, registry.LanguageRecord{Name: "sf2", Language: "English"}, records[1])
	assert.Equal(t, registry.LanguageRecord{Name: "pacman", Language: "Japanese"}, records[2])
}
