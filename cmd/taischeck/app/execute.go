package app

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/taischeck/cmd/taischeck/cmd/compare"
	"github.com/agentstation/taischeck/cmd/taischeck/cmd/fetch"
	"github.com/agentstation/taischeck/cmd/taischeck/cmd/prepare"
	"github.com/agentstation/taischeck/cmd/taischeck/cmd/tenants"
	"github.com/agentstation/taischeck/cmd/taischeck/cmd/version"
	"github.com/agentstation/taischeck/internal/cmd/alerts"
	"github.com/agentstation/taischeck/internal/cmd/output"
)

// Execute runs the taischeck CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taischeck",
		Short:   "TAIS code reconciliation CLI",
		Version: a.version,
		Long: `taischeck reconciles the TAIS codes found in captured API responses
against the authoritative codelist and the tenants whose listings
contain them, and writes a deterministic compare report.

Typical workflow:
  taischeck fetch      # capture API responses from request payloads
  taischeck prepare    # build the tenant listing from raw extracts
  taischeck compare    # write the compare report`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.taischeck.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, csv, preview")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("taischeck {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// when --config names a file, then applies the global flags over it.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(compare.NewCommand(a))
	rootCmd.AddCommand(prepare.NewCommand(a))
	rootCmd.AddCommand(fetch.NewCommand(a))

	rootCmd.AddCommand(tenants.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}

// writeError prints err as an error status line.
func writeError(w io.Writer, err error) {
	_ = alerts.NewFormatWriter(w, output.FormatTable, true).WriteAlert(alerts.NewError("Error").WithError(err))
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
