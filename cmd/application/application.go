// Package application provides the application interface for taischeck commands.
//
// Commands accept this interface rather than the concrete App type, so they
// can be tested with application.Mock (internal/cmd/application).
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            chk, err := app.Checker()
//	            if err != nil {
//	                return err
//	            }
//	            _, err = chk.Compare(cmd.Context())
//	            return err
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taischeck"
)

// Application provides what commands need from the running CLI.
type Application interface {
	// Checker builds a Checker from the loaded configuration with opts
	// applied on top. A new Checker is built on every call.
	Checker(opts ...taischeck.Option) (*taischeck.Checker, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, csv, preview).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
