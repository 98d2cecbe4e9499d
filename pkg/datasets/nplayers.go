package datasets

import (
	"io"

	"github.com/mamedex/mamedex/pkg/registry"
)

// NPlayersReader parses the player-count dataset, an ini-style file of
// "machine=descriptor" lines ("2P sim", "4P alt / 2P sim", "BIOS", ...).
type NPlayersReader struct{}

// Kind returns KindNPlayers.
func (NPlayersReader) Kind() Kind { return KindNPlayers }

// Read emits one PlayersRecord per entry. Lines without a value are
// counted as skipped.
func (NPlayersReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	err := scanINI(KindNPlayers, r, func(line iniLine) error {
		if line.value == "" {
			stats.Skipped++
			return nil
		}

		if err := emit(registry.PlayersRecord{Name: line.key, Players: line.value}); err != nil {
			return err
		}
		stats.Records++
		return nil
	})

	return stats, err
}
