package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamedex/mamedex"
	"github.com/mamedex/mamedex/pkg/filter"
)

// pruneFlags holds the prune command's flag values.
type pruneFlags struct {
	db  string
	out string

	clones     bool
	bios       bool
	devices    bool
	mechanical bool
	mature     bool
	modified   bool

	manufacturers  []string
	categories     []string
	keepCategories []string
	names          []string
	namePatterns   []string

	mode    string
	cascade bool
	dryRun  bool
}

// NewPruneCommand creates the prune command. It removes machines
// matching the given predicates from an ingested registry.
func (a *App) NewPruneCommand() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove machines matching the given predicates",
		Long: `Prune loads the registry from a SQLite database, removes every
machine matching the removal specification and writes the result back.

Predicates combine with --mode: "any" removes machines matching at
least one predicate, "all" only those matching every predicate. The
specification is validated in full before anything is removed; an
invalid predicate leaves the registry untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPrune(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.db, "db", "mamedex.db", "SQLite database holding the registry")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write the pruned registry here instead of back to --db")

	cmd.Flags().BoolVar(&flags.clones, "clones", false, "remove clone machines")
	cmd.Flags().BoolVar(&flags.bios, "bios", false, "remove BIOS sets")
	cmd.Flags().BoolVar(&flags.devices, "devices", false, "remove device entries")
	cmd.Flags().BoolVar(&flags.mechanical, "mechanical", false, "remove mechanical machines")
	cmd.Flags().BoolVar(&flags.mature, "mature", false, "remove machines in mature categories")
	cmd.Flags().BoolVar(&flags.modified, "modified", false, "remove bootlegs, prototypes and console hacks")

	cmd.Flags().StringSliceVar(&flags.manufacturers, "manufacturers", nil, "remove machines by manufacturer substring")
	cmd.Flags().StringSliceVar(&flags.categories, "categories", nil, "remove machines in these categories")
	cmd.Flags().StringSliceVar(&flags.keepCategories, "keep-categories", nil, "remove machines NOT in these categories")
	cmd.Flags().StringSliceVar(&flags.names, "names", nil, "remove machines with exactly these names")
	cmd.Flags().StringSliceVar(&flags.namePatterns, "name-patterns", nil, "remove machines whose name matches these regular expressions")

	cmd.Flags().StringVar(&flags.mode, "mode", "any", "predicate combination: any, all")
	cmd.Flags().BoolVar(&flags.cascade, "cascade", false, "also remove dimension entries left without machines")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would be removed without writing")

	return cmd
}

func (a *App) runPrune(cmd *cobra.Command, flags *pruneFlags) error {
	spec, err := buildSpec(flags)
	if err != nil {
		return err
	}

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

	result, err := m.Filter(spec)
	if err != nil {
		return err
	}

	for name, matched := range result.Matched {
		cmd.Printf("  %-20s matched %d\n", name, matched)
	}
	cmd.Printf("removed %d machines", result.Removed)
	if spec.Cascade {
		cmd.Printf(", %d orphaned dimension entries", result.OrphanedDimensions)
	}
	cmd.Println()

	if flags.dryRun {
		cmd.Println("dry run, nothing written")
		return nil
	}

	out := flags.out
	if out == "" {
		out = flags.db
	}
	if err := m.ExportSQLite(cmd.Context(), out); err != nil {
		return err
	}
	cmd.Printf("wrote %s\n", out)
	return nil
}

// buildSpec translates the prune flags into a removal specification.
func buildSpec(flags *pruneFlags) (filter.Spec, error) {
	var spec filter.Spec

	if flags.clones {
		spec.Predicates = append(spec.Predicates, filter.Clones())
	}
	if flags.bios {
		spec.Predicates = append(spec.Predicates, filter.ByFlag(filter.FlagBIOS))
	}
	if flags.devices {
		spec.Predicates = append(spec.Predicates, filter.ByFlag(filter.FlagDevice))
	}
	if flags.mechanical {
		spec.Predicates = append(spec.Predicates, filter.ByFlag(filter.FlagMechanical))
	}
	if flags.mature {
		spec.Predicates = append(spec.Predicates, filter.ByFlag(filter.FlagMature))
	}
	if flags.modified {
		spec.Predicates = append(spec.Predicates, filter.Modified())
	}
	if len(flags.manufacturers) > 0 {
		spec.Predicates = append(spec.Predicates, filter.ByManufacturer(flags.manufacturers...))
	}
	if len(flags.categories) > 0 {
		spec.Predicates = append(spec.Predicates, filter.ByCategory(flags.categories...))
	}
	if len(flags.keepCategories) > 0 {
		spec.Predicates = append(spec.Predicates, filter.NotInCategory(flags.keepCategories...))
	}
	if len(flags.names) > 0 {
		spec.Predicates = append(spec.Predicates, filter.ByName(flags.names...))
	}
	for _, pattern := range flags.namePatterns {
		spec.Predicates = append(spec.Predicates, filter.ByPattern(pattern))
	}

	switch flags.mode {
	case "", "any":
		spec.Mode = filter.ModeAny
	case "all":
		spec.Mode = filter.ModeAll
	default:
		return spec, fmt.Errorf("unknown mode %q: use any or all", flags.mode)
	}
	spec.Cascade = flags.cascade

	return spec, nil
}
