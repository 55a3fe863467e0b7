package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/taischeck/internal/cmd/output"
)

// FormatWriter writes alerts in the command's output format, so status
// lines stay parseable when the main output is JSON or YAML.
type FormatWriter struct {
	writer   io.Writer
	format   output.Format
	useColor bool
}

// NewFormatWriter creates a new FormatWriter for the specified format.
func NewFormatWriter(w io.Writer, format output.Format, noColor bool) *FormatWriter {
	return &FormatWriter{
		writer:   w,
		format:   format,
		useColor: !noColor && isTerminal(w),
	}
}

// alertData represents alert data for structured output.
type alertData struct {
	Level     string   `json:"level" yaml:"level"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
}

// WriteAlert writes an alert in the configured format.
func (fw *FormatWriter) WriteAlert(alert *Alert) error {
	data := alertData{
		Level:     alert.Level.String(),
		Message:   alert.Message,
		Details:   alert.Details,
		Timestamp: alert.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}
	if alert.Err != nil {
		data.Error = alert.Err.Error()
	}

	switch fw.format {
	case output.FormatJSON:
		return json.NewEncoder(fw.writer).Encode(data)
	case output.FormatYAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(fw.writer, "---\n%s", b)
		return err
	default:
		return fw.writePlain(alert)
	}
}

func (fw *FormatWriter) writePlain(alert *Alert) error {
	message := alert.String()
	if fw.useColor {
		message = alert.Level.Color() + message + resetColor
	}
	if _, err := fmt.Fprintln(fw.writer, message); err != nil {
		return err
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(fw.writer, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal checks if the writer is a terminal (for color support).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
