package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineName(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"empty", "", ""},
		{"strips parenthetical", "Pac-Man (Midway)", "Pac-Man "},
		{"decodes ampersand", "Chip &amp; Dale", "Chip & Dale"},
		{"drops question marks", "What? Arcade", "What Arcade"},
		{"capitalizes words", "the king of fighters", "The King Of Fighters"},
		{"keeps inner case", "dX ball", "DX Ball"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MachineName(tt.description))
		})
	}
}

func TestManufacturer(t *testing.T) {
	tests := []struct {
		name         string
		manufacturer string
		want         string
	}{
		{"empty", "", ""},
		{"plain", "Namco", "Namco"},
		{"strips corp suffix", "Atari Games Inc.", "Atari"},
		{"strips license part", "Namco (Midway license)", "Namco"},
		{"keeps first of slash pair", "Taito / Romstar", "Taito"},
		{"unknown placeholder", "<unknown>", "Unknown"},
		{"trailing punctuation", "Sega Corp.", "Sega"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Manufacturer(tt.manufacturer))
		})
	}
}

func TestPlayers(t *testing.T) {
	tests := []struct {
		name    string
		players string
		want    string
	}{
		{"empty reads unknown", "", "Unknown"},
		{"single player", "1P", "Single-player game"},
		{"simultaneous", "2P sim", "Simultaneous two-player mode"},
		{"compound descriptor", "4P alt / 2P sim", "Alternate four-player mode, Simultaneous two-player mode"},
		{"unknown token passes through", "10P ring", "10P ring"},
		{"question marks", "???", "Unknown or unspecified number of players"},
		{"device", "Device", "Non-playable device"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Players(tt.players))
		})
	}
}
