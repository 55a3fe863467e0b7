// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by every command.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation or a missing required input.
	Error = "✗"

	// Warning marks a non-fatal issue.
	Warning = "!"

	// Info marks a plain informational message.
	Info = "i"
)
