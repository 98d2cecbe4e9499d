package datasets

import (
	"io"
	"strings"

	"github.com/mamedex/mamedex/pkg/registry"
)

// LanguagesReader parses the language dataset, an ini-style file where
// each [Section] names a language and the lines below it list machines
// supporting it. Compound sections joining several languages with a
// slash are skipped; each machine is listed again under the individual
// languages.
type LanguagesReader struct{}

// Kind returns KindLanguages.
func (LanguagesReader) Kind() Kind { return KindLanguages }

// Read emits one LanguageRecord per member line of a single-language
// section.
func (LanguagesReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	err := scanINI(KindLanguages, r, func(line iniLine) error {
		if line.section == "" || strings.Contains(line.section, "/") {
			stats.Skipped++
			return nil
		}

		if err := emit(registry.LanguageRecord{Name: line.key, Language: line.section}); err != nil {
			return err
		}
		stats.Records++
		return nil
	})

	return stats, err
}
