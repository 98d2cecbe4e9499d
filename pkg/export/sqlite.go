package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// SQLite renders the registry into a relational database. Dimension
// entities become lookup tables referenced by id from the machines
// table; languages, history sections and resources get link tables.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapIO("open", path, err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the underlying handle.
func (s *SQLite) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

var schema = []string{
	`DROP TABLE IF EXISTS resources`,
	`DROP TABLE IF EXISTS history_sections`,
	`DROP TABLE IF EXISTS machine_languages`,
	`DROP TABLE IF EXISTS machines`,
	`DROP TABLE IF EXISTS subcategories`,
	`DROP TABLE IF EXISTS languages`,
	`DROP TABLE IF EXISTS manufacturers`,
	`DROP TABLE IF EXISTS categories`,
	`DROP TABLE IF EXISTS series`,

	`CREATE TABLE series (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE subcategories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category_id INTEGER,
		UNIQUE(name, category_id),
		FOREIGN KEY (category_id) REFERENCES categories(id)
	)`,
	`CREATE TABLE manufacturers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE machines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		source_file TEXT,
		rom_of TEXT,
		clone_of TEXT,
		sample_of TEXT,
		description TEXT,
		year TEXT,
		manufacturer TEXT,
		driver_status TEXT,
		category TEXT,
		subcategory TEXT,
		series TEXT,
		players TEXT,
		input_players INTEGER,
		input_buttons INTEGER,
		is_bios INTEGER,
		is_device INTEGER,
		runnable INTEGER,
		is_mechanical INTEGER,
		is_mature INTEGER,
		rating TEXT,
		normalized_name TEXT,
		normalized_manufacturer TEXT,
		normalized_players TEXT,
		normalized_year TEXT,
		is_parent INTEGER,
		category_id INTEGER,
		subcategory_id INTEGER,
		series_id INTEGER,
		manufacturer_id INTEGER,
		FOREIGN KEY (category_id) REFERENCES categories(id),
		FOREIGN KEY (subcategory_id) REFERENCES subcategories(id),
		FOREIGN KEY (series_id) REFERENCES series(id),
		FOREIGN KEY (manufacturer_id) REFERENCES manufacturers(id)
	)`,
	`CREATE TABLE machine_languages (
		machine_id INTEGER,
		language_id INTEGER,
		PRIMARY KEY (machine_id, language_id),
		FOREIGN KEY (machine_id) REFERENCES machines(id),
		FOREIGN KEY (language_id) REFERENCES languages(id)
	)`,
	`CREATE TABLE history_sections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		machine_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		text TEXT,
		section_order INTEGER,
		FOREIGN KEY (machine_id) REFERENCES machines(id)
	)`,
	`CREATE TABLE resources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		machine_id INTEGER NOT NULL,
		type TEXT,
		name TEXT,
		size INTEGER,
		crc TEXT,
		sha1 TEXT,
		FOREIGN KEY (machine_id) REFERENCES machines(id)
	)`,
}

// Export writes the whole registry, replacing any previous export in the
// same database. Dimension tables are filled first so every machine row
// can reference them.
func (s *SQLite) Export(ctx context.Context, reg *registry.Registry) error {
	if err := checkRegistry(reg); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &errors.ExportError{Target: "sqlite", Encoding: "sqlite", Err: err}
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &errors.ExportError{Target: "sqlite", Encoding: "sqlite", Err: fmt.Errorf("schema: %w", err)}
		}
	}

	seriesIDs, err := insertDimension(ctx, tx, "series", reg.Series())
	if err != nil {
		return err
	}
	categoryIDs, err := insertDimension(ctx, tx, "categories", reg.Categories())
	if err != nil {
		return err
	}
	manufacturerIDs, err := insertDimension(ctx, tx, "manufacturers", reg.Manufacturers())
	if err != nil {
		return err
	}
	languageIDs, err := insertDimension(ctx, tx, "languages", reg.Languages())
	if err != nil {
		return err
	}

	subcategoryIDs := make(map[string]int64)
	machines := reg.Machines().List()
	for _, m := range machines {
		if m.Subcategory == "" {
			continue
		}
		key := m.Category + "/" + m.Subcategory
		if _, ok := subcategoryIDs[key]; ok {
			continue
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO subcategories (name, category_id) VALUES (?, ?)`,
			m.Subcategory, nullID(categoryIDs, m.Category))
		if err != nil {
			return &errors.ExportError{Target: "subcategories", Encoding: "sqlite", Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &errors.ExportError{Target: "subcategories", Encoding: "sqlite", Err: err}
		}
		subcategoryIDs[key] = id
	}

	insertMachine, err := tx.PrepareContext(ctx, `INSERT INTO machines (
		name, source_file, rom_of, clone_of, sample_of,
		description, year, manufacturer, driver_status,
		category, subcategory, series, players,
		input_players, input_buttons,
		is_bios, is_device, runnable, is_mechanical, is_mature,
		rating,
		normalized_name, normalized_manufacturer, normalized_players,
		normalized_year, is_parent,
		category_id, subcategory_id, series_id, manufacturer_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &errors.ExportError{Target: "machines", Encoding: "sqlite", Err: err}
	}
	defer insertMachine.Close()

	machineIDs := make(map[string]int64, len(machines))
	for _, m := range machines {
		res, err := insertMachine.ExecContext(ctx,
			m.Name, nullStr(m.SourceFile), nullStr(m.RomOf), nullStr(m.CloneOf), nullStr(m.SampleOf),
			nullStr(m.Description), nullStr(m.Year), nullStr(m.Manufacturer), nullStr(m.DriverStatus),
			nullStr(m.Category), nullStr(m.Subcategory), nullStr(m.Series), nullStr(m.Players),
			m.InputPlayers, m.InputButtons,
			nullBool(m.IsBIOS), nullBool(m.IsDevice), nullBool(m.Runnable),
			nullBool(m.IsMechanical), nullBool(m.IsMature),
			nullStr(m.Rating),
			nullStr(m.Normalized.Name), nullStr(m.Normalized.Manufacturer), nullStr(m.Normalized.Players),
			nullStr(m.Normalized.Year), nullBool(m.Normalized.IsParent),
			nullID(categoryIDs, m.Category),
			nullID(subcategoryIDs, m.Category+"/"+m.Subcategory),
			nullID(seriesIDs, m.Series),
			nullID(manufacturerIDs, m.Manufacturer),
		)
		if err != nil {
			return &errors.ExportError{Target: "machines", Encoding: "sqlite", Err: fmt.Errorf("machine %s: %w", m.Name, err)}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &errors.ExportError{Target: "machines", Encoding: "sqlite", Err: err}
		}
		machineIDs[m.Name] = id
	}

	for _, m := range machines {
		machineID := machineIDs[m.Name]

		for _, language := range m.Languages {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO machine_languages (machine_id, language_id) VALUES (?, ?)`,
				machineID, languageIDs[language]); err != nil {
				return &errors.ExportError{Target: "machine_languages", Encoding: "sqlite", Err: err}
			}
		}
		for _, section := range m.History {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO history_sections (machine_id, name, text, section_order) VALUES (?, ?, ?, ?)`,
				machineID, section.Name, section.Text, section.Order); err != nil {
				return &errors.ExportError{Target: "history_sections", Encoding: "sqlite", Err: err}
			}
		}
		for _, res := range m.Resources {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO resources (machine_id, type, name, size, crc, sha1) VALUES (?, ?, ?, ?, ?, ?)`,
				machineID, res.Type, res.Name, res.Size, nullStr(res.CRC), nullStr(res.SHA1)); err != nil {
				return &errors.ExportError{Target: "resources", Encoding: "sqlite", Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &errors.ExportError{Target: "sqlite", Encoding: "sqlite", Err: err}
	}
	return nil
}

func insertDimension(ctx context.Context, tx *sql.Tx, table string, dims []registry.Dimension) (map[string]int64, error) {
	ids := make(map[string]int64, len(dims))
	for _, d := range dims {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (name) VALUES (?)`, d.Name)
		if err != nil {
			return nil, &errors.ExportError{Target: table, Encoding: "sqlite", Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, &errors.ExportError{Target: table, Encoding: "sqlite", Err: err}
		}
		ids[d.Name] = id
	}
	return ids, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullID(ids map[string]int64, name string) any {
	if id, ok := ids[name]; ok && name != "" {
		return id
	}
	return nil
}
