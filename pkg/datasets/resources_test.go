package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/registry"
)

const resourcesFixture = `<?xml version="1.0"?>
<datafile>
	<machine name="snap">
		<rom name="snap\pacman.png" size="14523" crc="a1b2c3d4" sha1="ffee"/>
		<rom name="snap\sf2.png" size="20111" crc="deadbeef" sha1="aabb"/>
		<rom name="titles\pacman.png" size="99" crc="00000000" sha1="cc"/>
	</machine>
	<machine name="cabinets">
		<rom name="cabinets\pacman.jpg" size="80000" crc="12345678" sha1="dd"/>
		<rom name="noslash.png" size="1" crc="1" sha1="1"/>
	</machine>
</datafile>
`

func TestResourcesReader(t *testing.T) {
	records, stats := collect(t, ResourcesReader{}, resourcesFixture)

	// One record per machine, files grouped across sections.
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 2, stats.Skipped)
	require.Len(t, records, 2)

	pacman := records[0].(registry.ResourceRecord)
	assert.Equal(t, "pacman", pacman.Name)
	require.Len(t, pacman.Resources, 2)
	assert.Equal(t, registry.Resource{
		Type: "snap",
		Name: `snap\pacman.png`,
		Size: 14523,
		CRC:  "a1b2c3d4",
		SHA1: "ffee",
	}, pacman.Resources[0])
	assert.Equal(t, "cabinets", pacman.Resources[1].Type)

	sf2 := records[1].(registry.ResourceRecord)
	assert.Equal(t, "sf2", sf2.Name)
	require.Len(t, sf2.Resources, 1)
}
