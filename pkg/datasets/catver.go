package datasets

import (
	"io"
	"strings"

	"github.com/mamedex/mamedex/pkg/registry"
)

// matureMarker flags adult-only titles at the end of the subcategory.
const matureMarker = " * Mature *"

// CatverReader parses the category dataset, an ini-style file of
// "machine=Category / Subcategory" lines where the subcategory may carry
// a trailing mature marker.
type CatverReader struct{}

// Kind returns KindCatver.
func (CatverReader) Kind() Kind { return KindCatver }

// Read emits one CategoryRecord per well-formed entry. Entries without a
// "Category / Subcategory" value are counted as skipped.
func (CatverReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	err := scanINI(KindCatver, r, func(line iniLine) error {
		if line.value == "" {
			stats.Skipped++
			return nil
		}

		parts := strings.SplitN(line.value, " / ", 2)
		if len(parts) < 2 {
			stats.Skipped++
			return nil
		}

		subcategory := parts[1]
		mature := strings.HasSuffix(subcategory, matureMarker)
		if mature {
			subcategory = strings.TrimSpace(strings.TrimSuffix(subcategory, matureMarker))
		}

		rec := registry.CategoryRecord{
			Name:        line.key,
			Category:    parts[0],
			Subcategory: subcategory,
			Mature:      registry.Bool(mature),
		}

		if err := emit(rec); err != nil {
			return err
		}
		stats.Records++
		return nil
	})

	return stats, err
}
