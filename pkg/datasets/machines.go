package datasets

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// machineXML mirrors one <machine> element of the core machine list.
type machineXML struct {
	Name         string    `xml:"name,attr"`
	SourceFile   string    `xml:"sourcefile,attr"`
	RomOf        string    `xml:"romof,attr"`
	CloneOf      string    `xml:"cloneof,attr"`
	SampleOf     string    `xml:"sampleof,attr"`
	IsBIOS       string    `xml:"isbios,attr"`
	IsDevice     string    `xml:"isdevice,attr"`
	Runnable     string    `xml:"runnable,attr"`
	IsMechanical string    `xml:"ismechanical,attr"`
	Description  string    `xml:"description"`
	Year         string    `xml:"year"`
	Manufacturer string    `xml:"manufacturer"`
	Driver       driverXML `xml:"driver"`
	Input        inputXML  `xml:"input"`
}

type driverXML struct {
	Status string `xml:"status,attr"`
}

type inputXML struct {
	Players int `xml:"players,attr"`
	Buttons int `xml:"buttons,attr"`
}

// MachinesReader parses the core machine list, an XML document with one
// <machine> element per title carrying identity, lineage and cabinet
// attributes. It is the only dataset that defines machines rather than
// annotating them.
type MachinesReader struct{}

// Kind returns KindMachines.
func (MachinesReader) Kind() Kind { return KindMachines }

// Read streams the document element by element, emitting one CoreRecord
// per machine. Machines without a name are skipped.
func (MachinesReader) Read(r io.Reader, emit func(registry.Record) error) (Stats, error) {
	var stats Stats

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, &errors.FormatError{
				Dataset: KindMachines.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed xml",
				Err:     err,
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "machine" {
			continue
		}

		var m machineXML
		if err := decoder.DecodeElement(&m, &start); err != nil {
			return stats, &errors.FormatError{
				Dataset: KindMachines.String(),
				Offset:  decoder.InputOffset(),
				Message: "malformed machine element",
				Err:     err,
			}
		}

		if m.Name == "" {
			stats.Skipped++
			continue
		}

		rec := registry.CoreRecord{
			Name:         m.Name,
			SourceFile:   m.SourceFile,
			RomOf:        m.RomOf,
			CloneOf:      m.CloneOf,
			SampleOf:     m.SampleOf,
			Description:  strings.TrimSpace(m.Description),
			Year:         strings.TrimSpace(m.Year),
			Manufacturer: strings.TrimSpace(m.Manufacturer),
			DriverStatus: m.Driver.Status,
			InputPlayers: m.Input.Players,
			InputButtons: m.Input.Buttons,
			IsBIOS:       yesNo(m.IsBIOS),
			IsDevice:     yesNo(m.IsDevice),
			Runnable:     yesNo(m.Runnable),
			IsMechanical: yesNo(m.IsMechanical),
		}

		if err := emit(rec); err != nil {
			return stats, err
		}
		stats.Records++
	}

	return stats, nil
}

// yesNo maps the "yes"/"no" attribute convention to an optional bool; an
// absent attribute stays unset.
func yesNo(value string) *bool {
	if value == "" {
		return nil
	}
	return registry.Bool(value == "yes")
}
