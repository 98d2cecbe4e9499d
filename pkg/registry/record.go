package registry

// Record is a partial contribution to one machine, produced by a dataset
// reader and applied through the Resolver. Identity returns the machine
// short code the record belongs to.
type Record interface {
	Identity() string
}

// CoreRecord carries the primary identity and relationship fields from
// the core machine list.
type CoreRecord struct {
	Name         string
	SourceFile   string
	RomOf        string
	CloneOf      string
	SampleOf     string
	Description  string
	Year         string
	Manufacturer string
	DriverStatus string
	InputPlayers int
	InputButtons int
	IsBIOS       *bool
	IsDevice     *bool
	Runnable     *bool
	IsMechanical *bool
}

// Identity returns the machine short code.
func (r CoreRecord) Identity() string { return r.Name }

// CategoryRecord carries genre classification from the category dataset.
// Mature marks adult-only content.
type CategoryRecord struct {
	Name        string
	Category    string
	Subcategory string
	Mature      *bool
}

// Identity returns the machine short code.
func (r CategoryRecord) Identity() string { return r.Name }

// SeriesRecord links a machine to a named franchise.
type SeriesRecord struct {
	Name   string
	Series string
}

// Identity returns the machine short code.
func (r SeriesRecord) Identity() string { return r.Name }

// LanguageRecord links a machine to one supported language. A machine may
// receive several language records; duplicates are absorbed.
type LanguageRecord struct {
	Name     string
	Language string
}

// Identity returns the machine short code.
func (r LanguageRecord) Identity() string { return r.Name }

// PlayersRecord carries the raw multiplayer descriptor.
type PlayersRecord struct {
	Name    string
	Players string
}

// Identity returns the machine short code.
func (r PlayersRecord) Identity() string { return r.Name }

// HistoryRecord carries the full ordered history text for a machine. It
// replaces any previously merged history wholesale.
type HistoryRecord struct {
	Name     string
	Sections []HistorySection
}

// Identity returns the machine short code.
func (r HistoryRecord) Identity() string { return r.Name }

// ResourceRecord carries the known media files for a machine. It replaces
// any previously merged resource list wholesale.
type ResourceRecord struct {
	Name      string
	Resources []Resource
}

// Identity returns the machine short code.
func (r ResourceRecord) Identity() string { return r.Name }

// RatingRecord carries an audience rating. Applied last-writer-wins.
type RatingRecord struct {
	Name   string
	Rating string
}

// Identity returns the machine short code.
func (r RatingRecord) Identity() string { return r.Name }
