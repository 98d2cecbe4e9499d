package datasets

import (
	"io"

	"github.com/mamedex/mamedex/pkg/registry"
)

// SeriesReader parses the series dataset, an ini-style file where each
// [Section] names a franchise and the lines below it list member
// machines.
type SeriesReader struct{}

// Kind returns KindSeries.
func (SeriesReader) Kind() Kind { return KindSeries }

// Read emits one SeriesRecord per member line. Lines before the first
// section are counted as skipped.
func (SeriesReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	err := scanINI(KindSeries, r, func(line iniLine) error {
		if line.section == "" {
			stats.Skipped++
			return nil
		}

		if err := emit(registry.SeriesRecord{Name: line.key, Series: line.section}); err != nil {
			return err
		}
		stats.Records++
		return nil
	})

	return stats, err
}
