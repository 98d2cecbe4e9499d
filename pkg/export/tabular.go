package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// DefaultDelimiter separates tabular fields; machine descriptions often
// carry commas.
const DefaultDelimiter = ';'

// Tabular writes flat delimited tables for a registry: one machines
// table plus one table each for history sections, resources and the
// dimension counts.
type Tabular struct {
	delimiter rune
}

// TabularOption configures a Tabular exporter.
type TabularOption func(*Tabular)

// WithDelimiter sets the field delimiter.
func WithDelimiter(delimiter rune) TabularOption {
	return func(t *Tabular) {
		t.delimiter = delimiter
	}
}

// NewTabular creates a tabular exporter.
func NewTabular(opts ...TabularOption) *Tabular {
	t := &Tabular{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var machineHeader = []string{
	"name", "source_file", "rom_of", "clone_of", "sample_of",
	"description", "year", "manufacturer", "driver_status",
	"category", "subcategory", "series", "languages", "players",
	"input_players", "input_buttons",
	"is_bios", "is_device", "runnable", "is_mechanical", "is_mature",
	"rating",
	"normalized_name", "normalized_manufacturer", "normalized_players",
	"normalized_year", "is_parent",
}

// WriteDir writes every table into dir, creating it if needed. Files are
// machines.csv, history.csv, resources.csv and one counts file per
// dimension.
func (t *Tabular) WriteDir(dir string, reg *registry.Registry) error {
	if err := checkRegistry(reg); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	if err := t.writeFile(filepath.Join(dir, "machines.csv"), reg, t.WriteMachines); err != nil {
		return err
	}
	if err := t.writeFile(filepath.Join(dir, "history.csv"), reg, t.WriteHistory); err != nil {
		return err
	}
	if err := t.writeFile(filepath.Join(dir, "resources.csv"), reg, t.WriteResources); err != nil {
		return err
	}

	dimensions := []struct {
		name string
		list func() []registry.Dimension
	}{
		{"manufacturers.csv", reg.Manufacturers},
		{"series.csv", reg.Series},
		{"categories.csv", reg.Categories},
		{"languages.csv", reg.Languages},
	}
	for _, d := range dimensions {
		if err := t.writeDimensionFile(filepath.Join(dir, d.name), d.list()); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tabular) writeFile(path string, reg *registry.Registry, write func(io.Writer, *registry.Registry) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	if err := write(f, reg); err != nil {
		return err
	}
	return f.Close()
}

// WriteMachines writes the machines table: one row per machine with
// languages joined by comma inside a single field.
func (t *Tabular) WriteMachines(w io.Writer, reg *registry.Registry) error {
	if err := checkRegistry(reg); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = t.delimiter

	if err := cw.Write(machineHeader); err != nil {
		return &errors.ExportError{Target: "machines", Encoding: "csv", Err: err}
	}

	for _, m := range reg.Machines().List() {
		row := []string{
			m.Name, m.SourceFile, m.RomOf, m.CloneOf, m.SampleOf,
			m.Description, m.Year, m.Manufacturer, m.DriverStatus,
			m.Category, m.Subcategory, m.Series, joinLanguages(m.Languages), m.Players,
			strconv.Itoa(m.InputPlayers), strconv.Itoa(m.InputButtons),
			boolField(m.IsBIOS), boolField(m.IsDevice), boolField(m.Runnable),
			boolField(m.IsMechanical), boolField(m.IsMature),
			m.Rating,
			m.Normalized.Name, m.Normalized.Manufacturer, m.Normalized.Players,
			m.Normalized.Year, boolField(m.Normalized.IsParent),
		}
		if err := cw.Write(row); err != nil {
			return &errors.ExportError{Target: "machines", Encoding: "csv", Err: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &errors.ExportError{Target: "machines", Encoding: "csv", Err: err}
	}
	return nil
}

// WriteHistory writes one row per history section.
func (t *Tabular) WriteHistory(w io.Writer, reg *registry.Registry) error {
	if err := checkRegistry(reg); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = t.delimiter

	if err := cw.Write([]string{"machine_name", "name", "text", "order"}); err != nil {
		return &errors.ExportError{Target: "history", Encoding: "csv", Err: err}
	}

	for _, m := range reg.Machines().List() {
		for _, section := range m.History {
			row := []string{m.Name, section.Name, section.Text, strconv.Itoa(section.Order)}
			if err := cw.Write(row); err != nil {
				return &errors.ExportError{Target: "history", Encoding: "csv", Err: err}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &errors.ExportError{Target: "history", Encoding: "csv", Err: err}
	}
	return nil
}

// WriteResources writes one row per media file.
func (t *Tabular) WriteResources(w io.Writer, reg *registry.Registry) error {
	if err := checkRegistry(reg); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = t.delimiter

	if err := cw.Write([]string{"machine_name", "type", "name", "size", "crc", "sha1"}); err != nil {
		return &errors.ExportError{Target: "resources", Encoding: "csv", Err: err}
	}

	for _, m := range reg.Machines().List() {
		for _, res := range m.Resources {
			row := []string{
				m.Name, res.Type, res.Name,
				strconv.FormatUint(res.Size, 10), res.CRC, res.SHA1,
			}
			if err := cw.Write(row); err != nil {
				return &errors.ExportError{Target: "resources", Encoding: "csv", Err: err}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &errors.ExportError{Target: "resources", Encoding: "csv", Err: err}
	}
	return nil
}

func (t *Tabular) writeDimensionFile(path string, dims []registry.Dimension) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = t.delimiter

	if err := cw.Write([]string{"name", "machines"}); err != nil {
		return &errors.ExportError{Target: filepath.Base(path), Encoding: "csv", Err: err}
	}
	for _, d := range dims {
		if err := cw.Write([]string{d.Name, strconv.Itoa(d.MachineCount)}); err != nil {
			return &errors.ExportError{Target: filepath.Base(path), Encoding: "csv", Err: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &errors.ExportError{Target: filepath.Base(path), Encoding: "csv", Err: err}
	}
	return f.Close()
}

func joinLanguages(languages []string) string {
	return strings.Join(languages, ",")
}

func boolField(v *bool) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%t", *v)
}
