package datasets

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/registry"
)

// collect runs a reader over input and gathers every emitted record.
func collect(t *testing.T, reader Reader, input string) ([]registry.Record, Stats) {
	t.Helper()

	var records []registry.Record
	stats, err := reader.Read(strings.NewReader(input), func(rec registry.Record) error {
		records = append(records, rec)
		return nil
	})
	require.NoError(t, err)
	return records, stats
}

func TestParseKind(t *testing.T) {
	for _, kind := range AllKinds() {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("bogus")
	assert.Error(t, err)
	assert.False(t, Kind("bogus").Valid())
}

func TestReaderForCoversAllKinds(t *testing.T) {
	for _, kind := range AllKinds() {
		reader, err := ReaderFor(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, reader.Kind())
	}

	_, err := ReaderFor(Kind("bogus"))
	assert.Error(t, err)
}

func TestReadersStopOnEmitError(t *testing.T) {
	sentinel := io.ErrUnexpectedEOF

	_, err := CatverReader{}.Read(strings.NewReader("pacman=Maze / Chase\n"), func(registry.Record) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}
