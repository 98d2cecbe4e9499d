package datasets

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// sectionOrder fixes the document position of each known history text
// header.
var sectionOrder = map[string]int{
	"- DESCRIPTION -":     1,
	"- TECHNICAL -":       2,
	"- TRIVIA -":          3,
	"- UPDATES -":         4,
	"- SCORING -":         5,
	"- TIPS AND TRICKS -": 6,
	"- SERIES -":          7,
	"- STAFF -":           8,
	"- PORTS -":           9,
	"- CONTRIBUTE -":      10,
}

// entryXML mirrors one <entry> element of the history document.
type entryXML struct {
	Systems []systemXML `xml:"systems>system"`
	Text    string      `xml:"text"`
}

type systemXML struct {
	Name string `xml:"name,attr"`
}

// HistoryReader parses the history dataset, an XML document of <entry>
// elements each naming the systems it applies to and carrying one block
// of text split into "- SECTION -" headed parts.
type HistoryReader struct{}

// Kind returns KindHistory.
func (HistoryReader) Kind() Kind { return KindHistory }

// Read emits one HistoryRecord per system named by each entry. Entries
// without systems or without text are counted as skipped.
func (HistoryReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, &errors.FormatError{
				Dataset: KindHistory.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed xml",
				Err:     err,
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var entry entryXML
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			return stats, &errors.FormatError{
				Dataset: KindHistory.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed entry element",
				Err:     err,
			}
		}

		sections := splitHistoryText(entry.Text)
		if len(entry.Systems) == 0 || len(sections) == 0 {
			stats.Skipped++
			continue
		}

		for _, system := range entry.Systems {
			if system.Name == "" {
				stats.Skipped++
				continue
			}
			rec := registry.HistoryRecord{Name: system.Name, Sections: sections}
			if err := emit(rec); err != nil {
				return stats, err
			}
			stats.Records++
		}
	}

	return stats, nil
}

// splitHistoryText cuts an entry's text block into named sections at the
// known headers. Text before the first header lands in a "description"
// section.
func splitHistoryText(text string) []registry.HistorySection {
	var sections []registry.HistorySection

	name := ""
	order := 1
	var body strings.Builder

	flush := func() {
		trimmed := strings.TrimSpace(body.String())
		if trimmed == "" {
			return
		}
		if name == "" {
			name = "description"
		}
		sections = append(sections, registry.HistorySection{
			Name:  name,
			Text:  trimmed,
			Order: order,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		header := strings.TrimSpace(line)
		if pos, ok := sectionOrder[header]; ok {
			flush()
			body.Reset()
			name = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(header, "-", "")))
			order = pos
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}
