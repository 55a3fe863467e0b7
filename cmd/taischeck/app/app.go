// Package app provides the application context and dependency management
// for the taischeck CLI. It centralizes configuration, logging and the
// construction of Checkers for the commands.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/pkg/errors"
)

// App represents the taischeck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the config
// file, then customized by the functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty when unset.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Checker validates the configuration and builds a Checker from it, with
// opts applied last so command flags override configured values.
func (a *App) Checker(opts ...taischeck.Option) (*taischeck.Checker, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	return taischeck.New(append(a.checkerOptions(), opts...)...)
}

// Shutdown performs graceful shutdown of the application. Checkers hold no
// background resources, so only the logger is flushed.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// checkerOptions translates the configuration into Checker options.
func (a *App) checkerOptions() []taischeck.Option {
	c := a.config
	return []taischeck.Option{
		taischeck.WithResponsesDir(c.ResponsesDir),
		taischeck.WithTenantArtifact(c.TenantArtifact),
		taischeck.WithCodelist(c.Codelist),
		taischeck.WithCodelistDir(c.CodelistDir),
		taischeck.WithCodelistSheet(c.CodelistSheet),
		taischeck.WithOutputDir(c.OutputDir),
		taischeck.WithRawDir(c.RawDir),
		taischeck.WithPayloadDir(c.PayloadDir),
		taischeck.WithGlobalLabel(c.GlobalLabel),
		taischeck.WithAPI(c.APIURL(), c.AuthToken, c.AuthHeader),
		taischeck.WithHTTPTimeout(c.HTTPTimeout),
		taischeck.WithProvenance(c.Provenance),
		taischeck.WithLogger(a.logger),
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
