// Package output provides formatters for command output.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatCSV represents comma-separated output.
	FormatCSV Format = "csv"
	// FormatPreview represents the fixed-width report preview.
	FormatPreview Format = "preview"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatPreview}

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// Tabular is implemented by values that render as a header and rows.
type Tabular interface {
	Table() ([]string, [][]string)
}

// Previewer is implemented by values with their own fixed-width rendering.
type Previewer interface {
	WritePreview(w io.Writer) error
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	case FormatPreview:
		return &PreviewFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// CSVFormatter outputs tabular data as CSV.
type CSVFormatter struct{}

// Format outputs data as CSV, falling back to JSON for non-tabular data.
func (f *CSVFormatter) Format(w io.Writer, data any) error {
	td := toData(data)
	if td == nil {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
	cw := csv.NewWriter(w)
	if len(td.Headers) > 0 {
		if err := cw.Write(td.Headers); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(td.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// PreviewFormatter uses the value's own fixed-width rendering and falls back
// to a table.
type PreviewFormatter struct{}

// Format implements the Formatter interface for preview output.
func (f *PreviewFormatter) Format(w io.Writer, data any) error {
	if p, ok := data.(Previewer); ok {
		return p.WritePreview(w)
	}
	return (&TableFormatter{}).Format(w, data)
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if td := toData(data); td != nil {
		return f.formatTable(w, *td)
	}

	// Fall back to JSON for non-table data
	jsonFormatter := &JSONFormatter{Indent: "  "}
	return jsonFormatter.Format(w, data)
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{}))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
}

// Table implements Tabular.
func (d Data) Table() ([]string, [][]string) {
	return d.Headers, d.Rows
}

// toData converts tabular values, struct slices and structs to Data.
func toData(data any) *Data {
	switch v := data.(type) {
	case Data:
		return &v
	case *Data:
		return v
	case Tabular:
		h, r := v.Table()
		return &Data{Headers: h, Rows: r}
	}
	return convertToTableData(data)
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	// Use explicit format if provided
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	// Check if output is a terminal
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	if format == "" {
		return format, nil
	}
	for _, f := range Formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, csv, preview", s)
}

// convertToTableData attempts to convert struct slices to Data using reflection.
func convertToTableData(data any) *Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}

	// Handle slices
	if v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct {
		return structSliceToTableData(v)
	}

	// Handle single structs
	if v.Kind() == reflect.Struct {
		return singleStructToTableData(v)
	}

	return nil
}

// headerName titles a field's json tag, or returns the field name.
func headerName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	if idx := strings.Index(jsonTag, ","); idx > 0 {
		jsonTag = jsonTag[:idx]
	}
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(jsonTag, "_", " "))
}

// structSliceToTableData converts a slice of structs to Data.
func structSliceToTableData(v reflect.Value) *Data {
	elemType := v.Index(0).Type()

	var headers []string
	for i := 0; i < elemType.NumField(); i++ {
		if elemType.Field(i).IsExported() {
			headers = append(headers, headerName(elemType.Field(i)))
		}
	}

	var rows [][]string
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		var row []string
		for j := 0; j < elem.NumField(); j++ {
			if elemType.Field(j).IsExported() {
				row = append(row, cellString(elem.Field(j)))
			}
		}
		rows = append(rows, row)
	}

	return &Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func singleStructToTableData(v reflect.Value) *Data {
	elemType := v.Type()

	var rows [][]string
	for i := 0; i < elemType.NumField(); i++ {
		if !elemType.Field(i).IsExported() {
			continue
		}
		rows = append(rows, []string{headerName(elemType.Field(i)), cellString(v.Field(i))})
	}

	return &Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// cellString renders a field value; slices of strings are comma-joined.
func cellString(v reflect.Value) string {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = v.Index(i).String()
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v.Interface())
}
