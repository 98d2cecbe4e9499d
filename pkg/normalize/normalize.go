// Package normalize derives cleaned presentation values from raw dataset
// strings: display names from descriptions, manufacturer names stripped of
// corporate boilerplate, and readable multiplayer descriptors.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// reCommon matches corporate suffixes and region qualifiers that add
	// no identity to a manufacturer name.
	reCommon = regexp.MustCompile(`(?i)\b(Games|Corp|Inc|Ltd|Co|Corporation|Industries|Elc|S\.R\.L|S\.A|inc|of America|Japan|UK|USA|Europe|do Brasil|du Canada|Canada|America|Austria|of)\b\.?`)

	rePunctuation  = regexp.MustCompile(`[.,?]+$|-$`)
	reNeedsCleanup = regexp.MustCompile(`[(/,?]|(Games|Corp|Inc|Ltd|Co|Corporation|Industries|Elc|S\.R\.L|S\.A|inc|of America|Japan|UK|USA|Europe|do Brasil|du Canada|Canada|America|Austria|of)`)
)

// playerSubstitutions maps raw multiplayer descriptor tokens to readable
// phrases.
var playerSubstitutions = map[string]string{
	"1P":         "Single-player game",
	"2P alt":     "Alternate two-player mode",
	"2P sim":     "Simultaneous two-player mode",
	"3P alt":     "Alternate three-player mode",
	"3P sim":     "Simultaneous three-player mode",
	"4P alt":     "Alternate four-player mode",
	"4P sim":     "Simultaneous four-player mode",
	"5P alt":     "Alternate five-player mode",
	"6P alt":     "Alternate six-player mode",
	"6P sim":     "Simultaneous six-player mode",
	"8P alt":     "Alternate eight-player mode",
	"8P sim":     "Simultaneous eight-player mode",
	"9P alt":     "Alternate nine-player mode",
	"???":        "Unknown or unspecified number of players",
	"BIOS":       "BIOS",
	"Device":     "Non-playable device",
	"Non-arcade": "Non-arcade game",
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// MachineName derives a display name from a machine description: drops
// question marks, decodes "&amp;", cuts everything from the first '(' and
// capitalizes the first letter of each word.
func MachineName(description string) string {
	if description == "" {
		return ""
	}

	s := strings.ReplaceAll(description, "?", "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		s = s[:idx]
	}

	var b strings.Builder
	b.Grow(len(s))
	capitalizeNext := true
	for _, c := range s {
		switch {
		case unicode.IsSpace(c):
			capitalizeNext = true
			b.WriteRune(c)
		case capitalizeNext:
			b.WriteString(titleCaser.String(string(c)))
			capitalizeNext = false
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Manufacturer cleans a raw manufacturer string: keeps the part before any
// '(' or '/', strips corporate suffixes and trailing punctuation, and maps
// "<unknown>" to "Unknown".
func Manufacturer(manufacturer string) string {
	if manufacturer == "" {
		return ""
	}

	parts := strings.FieldsFunc(strings.TrimSpace(manufacturer), func(c rune) bool {
		return c == '(' || c == '/'
	})

	result := ""
	if len(parts) > 0 {
		result = parts[0]
	}

	if reNeedsCleanup.MatchString(result) {
		result = reCommon.ReplaceAllString(result, "")
		result = rePunctuation.ReplaceAllString(result, "")
	}

	result = strings.ReplaceAll(result, "?", "")
	result = strings.ReplaceAll(result, ",", "")
	result = strings.ReplaceAll(result, "<unknown>", "Unknown")
	return strings.TrimSpace(result)
}

// Players expands a raw multiplayer descriptor ("4P alt / 2P sim") into a
// readable phrase, substituting each '/'-separated token and joining with
// commas. Unknown tokens pass through unchanged; an empty input reads as
// "Unknown".
func Players(players string) string {
	if players == "" {
		players = "Unknown"
	}

	parts := strings.Split(players, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if sub, ok := playerSubstitutions[part]; ok {
			part = sub
		}
		out = append(out, part)
	}
	return strings.Join(out, ", ")
}
