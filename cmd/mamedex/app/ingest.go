package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamedex/mamedex"
	"github.com/mamedex/mamedex/pkg/datasets"
	"github.com/mamedex/mamedex/pkg/fetch"
)

// ingestFlags holds the ingest command's flag values.
type ingestFlags struct {
	dir      string
	archive  string
	paths    map[datasets.Kind]*string
	kinds    []string
	workers  int
	out      string
	noExport bool
}

// NewIngestCommand creates the ingest command. It reads the configured
// datasets, merges them into a registry and writes the result as a
// SQLite database.
func (a *App) NewIngestCommand() *cobra.Command {
	flags := &ingestFlags{
		paths: make(map[datasets.Kind]*string, len(datasets.AllKinds())),
	}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Read datasets and build the machine registry",
		Long: `Ingest reads every configured dataset, merges the records into one
registry and writes it out as a SQLite database.

Sources are found by conventional file names inside --dir, inside the
zip archive given by --archive, or from explicit per-dataset flags.
Datasets are read concurrently; a dataset that fails to parse is
reported and skipped without aborting the others.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runIngest(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "directory to scan for dataset files")
	cmd.Flags().StringVar(&flags.archive, "archive", "", "zip archive holding the dataset files")
	for _, kind := range datasets.AllKinds() {
		p := new(string)
		flags.paths[kind] = p
		cmd.Flags().StringVar(p, kind.String(), "", fmt.Sprintf("path to the %s dataset file", kind))
	}
	cmd.Flags().StringSliceVar(&flags.kinds, "datasets", nil, "restrict to these dataset kinds")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "datasets ingested in parallel (default 4)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "mamedex.db", "output SQLite database path")
	cmd.Flags().BoolVar(&flags.noExport, "no-export", false, "build the registry without writing the database")

	return cmd
}

func (a *App) runIngest(cmd *cobra.Command, flags *ingestFlags) error {
	provider, err := a.buildProvider(flags)
	if err != nil {
		return err
	}

	kinds, err := parseKinds(flags.kinds)
	if err != nil {
		return err
	}

	if flags.workers > 0 {
		a.config.Concurrency = flags.workers
	}
	m, err := a.Mamedex()
	if err != nil {
		return err
	}

	summary, err := m.Ingest(cmd.Context(), provider, kinds...)
	if err != nil {
		return err
	}

	printSummary(cmd, m, summary)

	if flags.noExport {
		return nil
	}
	if err := m.ExportSQLite(cmd.Context(), flags.out); err != nil {
		return err
	}
	cmd.Printf("wrote %s\n", flags.out)
	return nil
}

// buildProvider resolves the dataset source from the ingest flags, the
// config file and the environment, in that order.
func (a *App) buildProvider(flags *ingestFlags) (fetch.Provider, error) {
	paths := make(map[datasets.Kind]string)
	for kind, p := range flags.paths {
		if *p != "" {
			paths[kind] = *p
		}
	}
	if len(paths) > 0 {
		return fetch.NewFileProvider(paths), nil
	}

	dir := flags.dir
	if dir == "" {
		dir = a.config.DataDir
	}
	archive := flags.archive
	if archive == "" {
		archive = a.config.ArchivePath
	}

	switch {
	case dir != "" && archive != "":
		return nil, fmt.Errorf("--dir and --archive are mutually exclusive")
	case dir != "":
		return fetch.DiscoverDir(dir)
	case archive != "":
		archives := make(map[datasets.Kind]string, len(datasets.AllKinds()))
		for _, kind := range datasets.AllKinds() {
			archives[kind] = archive
		}
		return fetch.NewArchiveProvider(archives), nil
	default:
		return nil, fmt.Errorf("no dataset source configured: use --dir, --archive or per-dataset flags")
	}
}

// parseKinds converts dataset kind names from the command line.
func parseKinds(names []string) ([]datasets.Kind, error) {
	kinds := make([]datasets.Kind, 0, len(names))
	for _, name := range names {
		kind, err := datasets.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// printSummary writes the ingest outcome to the command's output.
func printSummary(cmd *cobra.Command, m *mamedex.Mamedex, summary *mamedex.Summary) {
	for _, result := range summary.Results {
		if result.Err != nil {
			cmd.Printf("  %-10s FAILED: %v\n", result.Kind, result.Err)
			continue
		}
		cmd.Printf("  %-10s %d records, %d skipped\n", result.Kind, result.Stats.Records, result.Stats.Skipped)
	}

	stats := m.Registry().Stats()
	cmd.Printf("machines: %d  manufacturers: %d  series: %d  categories: %d  languages: %d\n",
		stats.Machines, stats.Manufacturers, stats.Series, stats.Categories, stats.Languages)
	if summary.Conflicts > 0 {
		cmd.Printf("merge conflicts: %d (first value kept)\n", summary.Conflicts)
	}
	if len(summary.Dangling) > 0 {
		cmd.Printf("dangling clone references: %d\n", len(summary.Dangling))
	}
}
