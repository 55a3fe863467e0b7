// Package application provides a mock Application for command tests.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taischeck"
)

// Mock implements cmd/application.Application with overridable functions.
// Unset functions fall back to zero-value behavior.
type Mock struct {
	CheckerFunc      func(opts ...taischeck.Option) (*taischeck.Checker, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string

	// Options are applied before the per-call options when CheckerFunc is nil.
	Options []taischeck.Option

	Format     string
	NoColorOut bool

	VersionInfo string
	CommitInfo  string
	DateInfo    string
	BuiltByInfo string
}

// Checker returns a Checker built from m.Options and opts.
func (m *Mock) Checker(opts ...taischeck.Option) (*taischeck.Checker, error) {
	if m.CheckerFunc != nil {
		return m.CheckerFunc(opts...)
	}
	all := append(append([]taischeck.Option(nil), m.Options...), opts...)
	return taischeck.New(all...)
}

// Logger returns a nop logger unless LoggerFunc is set.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the configured format.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return m.Format
}

// NoColor reports whether colored output is disabled.
func (m *Mock) NoColor() bool { return m.NoColorOut }

// Version returns the version string.
func (m *Mock) Version() string { return m.VersionInfo }

// Commit returns the commit hash.
func (m *Mock) Commit() string { return m.CommitInfo }

// Date returns the build date.
func (m *Mock) Date() string { return m.DateInfo }

// BuiltBy returns the build system identifier.
func (m *Mock) BuiltBy() string { return m.BuiltByInfo }
