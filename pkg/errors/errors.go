// Package errors provides custom error types for the taischeck system.
// Record- and row-level problems are never errors; they are skipped where they
// occur. Only artifact-level failures (a required file missing or malformed)
// travel up to the caller, classified by the types in this package.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join re-export the standard library helpers so callers only
// need a single errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors
var (
	// ErrMissingArtifact indicates that a required input artifact does not exist
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrMalformedArtifact indicates that a required input artifact could not be understood
	ErrMalformedArtifact = errors.New("malformed artifact")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedShape indicates a source document whose structure is not a record list
	ErrUnsupportedShape = errors.New("unsupported document shape")

	// ErrAuthRequired indicates that an auth token is required but not configured
	ErrAuthRequired = errors.New("auth token required")
)

// ArtifactKind classifies a fatal artifact failure.
type ArtifactKind string

// Artifact failure kinds.
const (
	ArtifactMissing   ArtifactKind = "missing"
	ArtifactMalformed ArtifactKind = "malformed"
	ArtifactSchema    ArtifactKind = "schema"
)

// ArtifactError is a precondition failure on a required input artifact
// (reference dataset, tenant listing). It stops a run before any report is emitted.
type ArtifactError struct {
	Kind     ArtifactKind
	Artifact string // "reference dataset", "tenant listing", ...
	Path     string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *ArtifactError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s (%s): %s", e.Artifact, e.Kind, e.Path, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Artifact, e.Kind, msg)
}

// Unwrap implements errors.Unwrap
func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ArtifactError) Is(target error) bool {
	switch e.Kind {
	case ArtifactMissing:
		return target == ErrMissingArtifact
	case ArtifactMalformed, ArtifactSchema:
		return target == ErrMalformedArtifact
	}
	return false
}

// NewMissingArtifact creates an ArtifactError for an artifact that does not exist.
func NewMissingArtifact(artifact, path string, err error) *ArtifactError {
	return &ArtifactError{Kind: ArtifactMissing, Artifact: artifact, Path: path, Err: err}
}

// NewMalformedArtifact creates an ArtifactError for an artifact that cannot be read or parsed.
func NewMalformedArtifact(artifact, path, message string, err error) *ArtifactError {
	return &ArtifactError{Kind: ArtifactMalformed, Artifact: artifact, Path: path, Message: message, Err: err}
}

// NewSchemaArtifact creates an ArtifactError for an artifact that parses but lacks the expected structure.
func NewSchemaArtifact(artifact, path, message string) *ArtifactError {
	return &ArtifactError{Kind: ArtifactSchema, Artifact: artifact, Path: path, Message: message}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a non-transport failure reported by the capture endpoint
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "xlsx", "csv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsMissingArtifact checks if an error is a missing artifact failure
func IsMissingArtifact(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

// IsMalformedArtifact checks if an error is a malformed artifact failure
func IsMalformedArtifact(err error) bool {
	return errors.Is(err, ErrMalformedArtifact)
}

// IsArtifactError reports whether err is any fatal artifact failure.
func IsArtifactError(err error) bool {
	var ae *ArtifactError
	return errors.As(err, &ae)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
