// Package alerts renders the status lines commands print next to their
// main output: files written, documents skipped, fatal errors.
package alerts

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
)

// Alert is one status line with optional detail lines.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp utc.Time
	Err       error
}

// New creates an alert stamped now.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message, Timestamp: utc.Now()}
}

// NewSuccess reports a completed step, usually a written file.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// NewWarning reports a non-fatal problem.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewError reports the failure that ends a command.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// Skipped warns about source documents left out of a run, listing each one.
// It returns nil when nothing was skipped.
func Skipped(documents []string) *Alert {
	if len(documents) == 0 {
		return nil
	}
	noun := "documents"
	if len(documents) == 1 {
		noun = "document"
	}
	return NewWarning(fmt.Sprintf("Skipped %d %s with an unsupported structure", len(documents), noun)).
		WithDetails(documents...)
}

// WithError attaches the underlying error.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails appends detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String renders the headline: icon, message and error.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteByte(' ')
	b.WriteString(a.Message)
	if a.Err != nil {
		b.WriteString(": ")
		b.WriteString(a.Err.Error())
	}
	return b.String()
}
