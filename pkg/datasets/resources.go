package datasets

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// resourceSetXML mirrors one <machine> grouping element of the resources
// document. Its name is the resource section ("artpreview", "cabinets",
// "snap", ...) and each <rom> below it is one media file.
type resourceSetXML struct {
	Name string        `xml:"name,attr"`
	Roms []resourceXML `xml:"rom"`
}

type resourceXML struct {
	Name string `xml:"name,attr"`
	Size uint64 `xml:"size,attr"`
	CRC  string `xml:"crc,attr"`
	SHA1 string `xml:"sha1,attr"`
}

// ResourcesReader parses the resources dataset, an XML document grouping
// media files by section. File paths follow "SECTION\machine.ext"; the
// machine identity is the path's file stem. Files filed under a section
// other than the one their path names are skipped.
type ResourcesReader struct{}

// Kind returns KindResources.
func (ResourcesReader) Kind() Kind { return KindResources }

// Read collects every machine's media files across the whole document and
// emits one ResourceRecord per machine. Unlike the other readers it cannot
// stream record-at-a-time: a machine's files are spread over many section
// elements, and a ResourceRecord replaces the machine's resource list
// wholesale, so emitting before the document ends would lose earlier
// sections. The whole document is buffered and records are emitted once,
// in machine order.
func (ResourcesReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats
	byMachine := make(map[string][]registry.Resource)

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, &errors.FormatError{
				Dataset: KindResources.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed xml",
				Err:     err,
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "machine" {
			continue
		}

		var set resourceSetXML
		if err := decoder.DecodeElement(&set, &start); err != nil {
			return stats, &errors.FormatError{
				Dataset: KindResources.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed machine element",
				Err:     err,
			}
		}

		for _, rom := range set.Roms {
			section, machine, ok := splitResourcePath(rom.Name)
			if !ok || section != set.Name {
				stats.Skipped++
				continue
			}
			byMachine[machine] = append(byMachine[machine], registry.Resource{
				Type: set.Name,
				Name: rom.Name,
				Size: rom.Size,
				CRC:  rom.CRC,
				SHA1: rom.SHA1,
			})
		}
	}

	names := make([]string, 0, len(byMachine))
	for name := range byMachine {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := registry.ResourceRecord{Name: name, Resources: byMachine[name]}
		if err := emit(rec); err != nil {
			return stats, err
		}
		stats.Records += len(byMachine[name])
	}

	return stats, nil
}

// splitResourcePath breaks a "SECTION\machine.ext" path into its section
// and machine identity.
func splitResourcePath(path string) (section, machine string, ok bool) {
	parts := strings.SplitN(path, `\`, 2)
	if len(parts) < 2 {
		return "", "", false
	}
	machine = parts[1]
	if idx := strings.IndexByte(machine, '.'); idx >= 0 {
		machine = machine[:idx]
	}
	if machine == "" {
		return "", "", false
	}
	return parts[0], machine, true
}
