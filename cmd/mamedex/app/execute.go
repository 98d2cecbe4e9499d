package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the mamedex CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mamedex",
		Short:   "Arcade machine metadata curator",
		Version: a.version,
		Long: `Mamedex merges independently maintained arcade machine datasets
(machine listings, categories, player counts, series, languages,
history and media resources) into one consistent registry, prunes it
with composable filters, and exports it as JSON, YAML, CSV tables or
a SQLite database.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.mamedex.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: auto, console, json")

	rootCmd.SetVersionTemplate("mamedex {{.Version}}\n")

	rootCmd.AddCommand(a.NewIngestCommand())
	rootCmd.AddCommand(a.NewExportCommand())
	rootCmd.AddCommand(a.NewPruneCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")
	logFormat := mustGetString(cmd, "log-format")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)
	if logFormat != "" {
		a.config.LogFormat = logFormat
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mamedex %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}

// ExitOnError prints an error and exits with status 1. It is meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
