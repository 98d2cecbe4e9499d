package export

import (
	"context"
	"database/sql"

	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// Reimport reads a previously exported database back into a fresh
// registry. Records flow through the merge resolver, so the rebuilt
// registry carries the same derived values and dimension entities as the
// one that was exported.
func (s *SQLite) Reimport(ctx context.Context) (*registry.Registry, error) {
	reg := registry.New()
	resolver := registry.NewResolver(reg)

	machineNames := make(map[int64]string)

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, name, source_file, rom_of, clone_of, sample_of,
		description, year, manufacturer, driver_status,
		category, subcategory, series, players,
		input_players, input_buttons,
		is_bios, is_device, runnable, is_mechanical, is_mature, rating
	FROM machines ORDER BY name`)
	if err != nil {
		return nil, errors.WrapIO("query", "machines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                                   int64
			name                                 string
			sourceFile, romOf, cloneOf, sampleOf sql.NullString
			description, year, manufacturer      sql.NullString
			driverStatus, category, subcategory  sql.NullString
			series, players, rating              sql.NullString
			inputPlayers, inputButtons           sql.NullInt64
			isBIOS, isDevice, runnable           sql.NullBool
			isMechanical, isMature               sql.NullBool
		)
		if err := rows.Scan(&id, &name, &sourceFile, &romOf, &cloneOf, &sampleOf,
			&description, &year, &manufacturer, &driverStatus,
			&category, &subcategory, &series, &players,
			&inputPlayers, &inputButtons,
			&isBIOS, &isDevice, &runnable, &isMechanical, &isMature, &rating); err != nil {
			return nil, errors.WrapIO("scan", "machines", err)
		}
		machineNames[id] = name

		core := registry.CoreRecord{
			Name:         name,
			SourceFile:   sourceFile.String,
			RomOf:        romOf.String,
			CloneOf:      cloneOf.String,
			SampleOf:     sampleOf.String,
			Description:  description.String,
			Year:         year.String,
			Manufacturer: manufacturer.String,
			DriverStatus: driverStatus.String,
			InputPlayers: int(inputPlayers.Int64),
			InputButtons: int(inputButtons.Int64),
			IsBIOS:       optBool(isBIOS),
			IsDevice:     optBool(isDevice),
			Runnable:     optBool(runnable),
			IsMechanical: optBool(isMechanical),
		}
		if err := resolver.Apply(core); err != nil {
			return nil, err
		}

		if category.String != "" {
			rec := registry.CategoryRecord{
				Name:        name,
				Category:    category.String,
				Subcategory: subcategory.String,
				Mature:      optBool(isMature),
			}
			if err := resolver.Apply(rec); err != nil {
				return nil, err
			}
		}
		if series.String != "" {
			if err := resolver.Apply(registry.SeriesRecord{Name: name, Series: series.String}); err != nil {
				return nil, err
			}
		}
		if players.String != "" {
			if err := resolver.Apply(registry.PlayersRecord{Name: name, Players: players.String}); err != nil {
				return nil, err
			}
		}
		if rating.String != "" {
			if err := resolver.Apply(registry.RatingRecord{Name: name, Rating: rating.String}); err != nil {
				return nil, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("scan", "machines", err)
	}

	if err := s.reimportLanguages(ctx, resolver, machineNames); err != nil {
		return nil, err
	}
	if err := s.reimportHistory(ctx, resolver, machineNames); err != nil {
		return nil, err
	}
	if err := s.reimportResources(ctx, resolver, machineNames); err != nil {
		return nil, err
	}

	return reg, nil
}

func (s *SQLite) reimportLanguages(ctx context.Context, resolver *registry.Resolver, machineNames map[int64]string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT ml.machine_id, l.name
		FROM machine_languages ml
		JOIN languages l ON l.id = ml.language_id
		ORDER BY ml.machine_id, ml.language_id`)
	if err != nil {
		return errors.WrapIO("query", "machine_languages", err)
	}
	defer rows.Close()

	for rows.Next() {
		var machineID int64
		var language string
		if err := rows.Scan(&machineID, &language); err != nil {
			return errors.WrapIO("scan", "machine_languages", err)
		}
		name, ok := machineNames[machineID]
		if !ok {
			continue
		}
		if err := resolver.Apply(registry.LanguageRecord{Name: name, Language: language}); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLite) reimportHistory(ctx context.Context, resolver *registry.Resolver, machineNames map[int64]string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT machine_id, name, text, section_order
		FROM history_sections ORDER BY machine_id, section_order, id`)
	if err != nil {
		return errors.WrapIO("query", "history_sections", err)
	}
	defer rows.Close()

	sections := make(map[int64][]registry.HistorySection)
	for rows.Next() {
		var machineID int64
		var section registry.HistorySection
		var text sql.NullString
		if err := rows.Scan(&machineID, &section.Name, &text, &section.Order); err != nil {
			return errors.WrapIO("scan", "history_sections", err)
		}
		section.Text = text.String
		sections[machineID] = append(sections[machineID], section)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for machineID, secs := range sections {
		name, ok := machineNames[machineID]
		if !ok {
			continue
		}
		if err := resolver.Apply(registry.HistoryRecord{Name: name, Sections: secs}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) reimportResources(ctx context.Context, resolver *registry.Resolver, machineNames map[int64]string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT machine_id, type, name, size, crc, sha1
		FROM resources ORDER BY machine_id, id`)
	if err != nil {
		return errors.WrapIO("query", "resources", err)
	}
	defer rows.Close()

	resources := make(map[int64][]registry.Resource)
	for rows.Next() {
		var machineID int64
		var res registry.Resource
		var crc, sha1 sql.NullString
		if err := rows.Scan(&machineID, &res.Type, &res.Name, &res.Size, &crc, &sha1); err != nil {
			return errors.WrapIO("scan", "resources", err)
		}
		res.CRC = crc.String
		res.SHA1 = sha1.String
		resources[machineID] = append(resources[machineID], res)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for machineID, list := range resources {
		name, ok := machineNames[machineID]
		if !ok {
			continue
		}
		if err := resolver.Apply(registry.ResourceRecord{Name: name, Resources: list}); err != nil {
			return err
		}
	}
	return nil
}

func optBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return registry.Bool(v.Bool)
}
