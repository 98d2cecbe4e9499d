// Package registry holds the unified entity model for curated arcade
// machine metadata and the shared store it lives in. Machines are merged
// into the registry from several independently maintained datasets;
// manufacturers, series, categories and languages are dimension entities
// created lazily on first reference.
package registry

// Driver status values reported by the core machine list.
const (
	DriverGood        = "good"
	DriverImperfect   = "imperfect"
	DriverPreliminary = "preliminary"
)

// Machine is one arcade title/cabinet record. Name is the source-defined
// short code and is unique and immutable; every other field is assembled
// from partial records under the resolver's merge policy.
type Machine struct {
	Name         string `json:"name" yaml:"name"`
	SourceFile   string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	RomOf        string `json:"rom_of,omitempty" yaml:"rom_of,omitempty"`
	CloneOf      string `json:"clone_of,omitempty" yaml:"clone_of,omitempty"`
	SampleOf     string `json:"sample_of,omitempty" yaml:"sample_of,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Year         string `json:"year,omitempty" yaml:"year,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	DriverStatus string `json:"driver_status,omitempty" yaml:"driver_status,omitempty"`

	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Series      string   `json:"series,omitempty" yaml:"series,omitempty"`
	Languages   []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Players is the raw multiplayer descriptor from the player-count
	// dataset ("2P sim", "4P alt / 2P sim", ...).
	Players      string `json:"players,omitempty" yaml:"players,omitempty"`
	InputPlayers int    `json:"input_players,omitempty" yaml:"input_players,omitempty"`
	InputButtons int    `json:"input_buttons,omitempty" yaml:"input_buttons,omitempty"`

	IsBIOS       *bool `json:"is_bios,omitempty" yaml:"is_bios,omitempty"`
	IsDevice     *bool `json:"is_device,omitempty" yaml:"is_device,omitempty"`
	Runnable     *bool `json:"runnable,omitempty" yaml:"runnable,omitempty"`
	IsMechanical *bool `json:"is_mechanical,omitempty" yaml:"is_mechanical,omitempty"`
	IsMature     *bool `json:"is_mature,omitempty" yaml:"is_mature,omitempty"`

	// Supplemental fields, each supplied by exactly one dataset kind.
	History   []HistorySection `json:"history,omitempty" yaml:"history,omitempty"`
	Rating    string           `json:"rating,omitempty" yaml:"rating,omitempty"`
	Resources []Resource       `json:"resources,omitempty" yaml:"resources,omitempty"`

	Normalized Normalized `json:"normalized,omitempty" yaml:"normalized,omitempty"`
}

// HistorySection is one named block of history text, ordered by the
// upstream document's fixed section sequence.
type HistorySection struct {
	Name  string `json:"name" yaml:"name"`
	Text  string `json:"text" yaml:"text"`
	Order int    `json:"order" yaml:"order"`
}

// Resource describes one artwork/media file known to exist for a machine.
type Resource struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
	Size uint64 `json:"size" yaml:"size"`
	CRC  string `json:"crc,omitempty" yaml:"crc,omitempty"`
	SHA1 string `json:"sha1,omitempty" yaml:"sha1,omitempty"`
}

// Normalized carries cleaned-up presentation values derived during
// ingestion. IsParent is true when the machine has neither a clone-of nor
// a rom-of reference.
type Normalized struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Players      string `json:"players,omitempty" yaml:"players,omitempty"`
	Year         string `json:"year,omitempty" yaml:"year,omitempty"`
	IsParent     *bool  `json:"is_parent,omitempty" yaml:"is_parent,omitempty"`
}

// IsParent reports whether the machine is a parent (not a clone of, and
// not sharing ROMs with, another machine).
func (m *Machine) IsParent() bool {
	return m.CloneOf == "" && m.RomOf == ""
}

// IsClone reports whether the machine derives from another machine.
func (m *Machine) IsClone() bool {
	return !m.IsParent()
}

// HasLanguage reports whether the machine already links the language.
func (m *Machine) HasLanguage(language string) bool {
	for _, l := range m.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the machine.
func (m *Machine) Copy() *Machine {
	if m == nil {
		return nil
	}
	out := *m
	out.Languages = append([]string(nil), m.Languages...)
	out.History = append([]HistorySection(nil), m.History...)
	out.Resources = append([]Resource(nil), m.Resources...)
	out.IsBIOS = copyBool(m.IsBIOS)
	out.IsDevice = copyBool(m.IsDevice)
	out.Runnable = copyBool(m.Runnable)
	out.IsMechanical = copyBool(m.IsMechanical)
	out.IsMature = copyBool(m.IsMature)
	out.Normalized.IsParent = copyBool(m.Normalized.IsParent)
	return &out
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool returns a pointer to the given bool, for flag fields.
func Bool(v bool) *bool { return &v }
