// Package logging provides structured logging for taischeck using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise, so a
// reconciliation run can be read by a person or shipped to a log pipeline.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("document", "response-1.json").Msg("Scanning document")
//
//	ctx := logging.WithRunID(context.Background(), "")
//	logging.FromContext(ctx).Debug().Msg("run scoped")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs Default and the package-level event helpers. It is
// configured from the environment until the CLI installs its own.
var defaultLogger = NewLoggerFromConfig(EnvConfig())

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default global logger and zerolog's log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
