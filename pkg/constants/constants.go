// Package constants provides shared constants used throughout the taischeck codebase.
// This includes default paths, file permissions, timeouts and the formats used
// for generated file names, so that the CLI and the library agree on them.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single capture request
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default input/output locations, relative to the working directory.
const (
	// DefaultResponsesDir holds captured API responses (source documents)
	DefaultResponsesDir = "data_response"

	// DefaultRawDir holds one sub-directory of raw extracts per tenant
	DefaultRawDir = "data_raw"

	// DefaultPayloadDir holds request payloads for the fetch command
	DefaultPayloadDir = "data_test"

	// DefaultOutputDir receives reports and the tenant listing artifact
	DefaultOutputDir = "data_reports"

	// DefaultTenantArtifact is the canonical tenant listing artifact
	DefaultTenantArtifact = "data_reports/tais_code_tenant.json"

	// DefaultCodelistName is preferred over dated codelist files when present
	DefaultCodelistName = "codelist.xlsx"

	// CodelistPrefix marks candidate reference datasets when locating the latest one
	CodelistPrefix = "codelist"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".taischeck"
)

// Generated file names
const (
	// CompareReportPrefix prefixes the reconciliation report file
	CompareReportPrefix = "compare_result_"

	// MatrixReportPrefix prefixes the tenant matrix report file
	MatrixReportPrefix = "tais_matrix_result_"

	// ResponseFilePattern formats captured response file names
	ResponseFilePattern = "response-%d.json"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102_150405"

	// TimeFormatArtifact is the format of generated_at in the tenant listing artifact
	TimeFormatArtifact = "2006-01-02 15:04:05"
)
