package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mamedex/mamedex"
	"github.com/mamedex/mamedex/pkg/export"
	"github.com/mamedex/mamedex/pkg/registry"
)

// exportFlags holds the export command's flag values.
type exportFlags struct {
	db     string
	format string
	out    string
}

// NewExportCommand creates the export command. It reimports a registry
// from a previously written SQLite database and renders it in the
// requested format.
func (a *App) NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render an ingested registry as JSON, YAML, CSV or SQLite",
		Long: `Export reads the registry back from a SQLite database produced by
"mamedex ingest" and renders it in another format.

JSON and YAML produce one hierarchical document on --out (or stdout).
CSV treats --out as a directory and writes one delimited file per
table. SQLite copies the registry into a fresh database at --out.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.db, "db", "mamedex.db", "SQLite database to read the registry from")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format: json, yaml, csv, sqlite")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output path (defaults to stdout for json and yaml)")

	return cmd
}

func (a *App) runExport(cmd *cobra.Command, flags *exportFlags) error {
	reg, err := a.loadRegistry(cmd, flags.db)
	if err != nil {
		return err
	}

	m, err := mamedex.New(
		mamedex.WithRegistry(reg),
		mamedex.WithLogger(*a.logger),
	)
	if err != nil {
		return err
	}

	switch flags.format {
	case "json", "yaml":
		w := cmd.OutOrStdout()
		if flags.out != "" {
			f, err := os.Create(flags.out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if flags.format == "json" {
			return m.ExportJSON(w)
		}
		return m.ExportYAML(w)

	case "csv":
		if flags.out == "" {
			return fmt.Errorf("--out directory is required for csv export")
		}
		return m.ExportCSV(flags.out)

	case "sqlite":
		if flags.out == "" {
			return fmt.Errorf("--out path is required for sqlite export")
		}
		return m.ExportSQLite(cmd.Context(), flags.out)

	default:
		return fmt.Errorf("unknown format %q: use json, yaml, csv or sqlite", flags.format)
	}
}

// loadRegistry reimports a registry from a SQLite database.
func (a *App) loadRegistry(cmd *cobra.Command, path string) (*registry.Registry, error) {
	db, err := export.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Reimport(cmd.Context())
}
