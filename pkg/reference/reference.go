// Package reference holds the master reference table: the authoritative
// identifier -> eligibility marker lookup built from the codelist dataset.
//
// The dataset is addressed by column position, not by header name. Layout
// maps those positions to named fields in one place; if the upstream
// codelist ever reorders its columns, Layout is the only thing to change.
//
// Duplicate identifiers in the dataset resolve last-row-wins. This is the
// opposite of reconciliation's first-seen rule and must stay that way.
package reference

import (
	"strings"

	"github.com/agentstation/taischeck/pkg/identifier"
)

// EligibleMarker is the codelist value flagging an identifier as rentable.
const EligibleMarker = "○"

// nanPlaceholder is what spreadsheet exports write for an empty numeric cell.
const nanPlaceholder = "nan"

// Layout names the fixed column positions of the reference dataset (zero-indexed).
type Layout struct {
	Identifier  int // column holding the identifier
	Eligibility int // column holding the eligibility marker
	Width       int // leading columns retained per entry for the matrix report
}

// DefaultLayout is the codelist layout: TAISコード, 法人名, 商品名, 型番, 貸与, 販売.
var DefaultLayout = Layout{Identifier: 0, Eligibility: 4, Width: 6}

// DefaultHeaders are the matrix report names for the retained columns.
var DefaultHeaders = []string{"TAISコード", "法人名", "商品名", "型番", "貸与", "販売"}

// Entry is one reference row keyed by its normalized identifier.
type Entry struct {
	Identifier identifier.Identifier
	Marker     string
	Columns    []string
}

// Stats summarizes how the table was built.
type Stats struct {
	Rows        int // data rows read
	Skipped     int // rows without a usable identifier
	Overwritten int // rows that replaced an earlier row for the same identifier
}

// Table is the immutable master reference table.
type Table struct {
	layout  Layout
	marker  string
	header  []string
	entries map[identifier.Identifier]Entry
	stats   Stats
}

// Option configures table construction.
type Option func(*Table)

// WithLayout overrides the column positions.
func WithLayout(l Layout) Option {
	return func(t *Table) {
		t.layout = l
	}
}

// WithEligibleMarker overrides the eligibility sentinel.
func WithEligibleMarker(marker string) Option {
	return func(t *Table) {
		t.marker = marker
	}
}

// Build constructs the table from a header row and the data rows that follow it.
// Rows whose identifier is absent or a NaN placeholder are skipped; a missing
// or blank marker column is stored as blank.
func Build(header []string, rows [][]string, opts ...Option) *Table {
	t := &Table{
		layout:  DefaultLayout,
		marker:  EligibleMarker,
		header:  append([]string(nil), header...),
		entries: make(map[identifier.Identifier]Entry, len(rows)),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, row := range rows {
		t.stats.Rows++

		id, ok := identifier.Normalize(cell(row, t.layout.Identifier))
		if !ok || strings.EqualFold(string(id), nanPlaceholder) {
			t.stats.Skipped++
			continue
		}

		marker := strings.TrimSpace(cell(row, t.layout.Eligibility))
		if strings.EqualFold(marker, nanPlaceholder) {
			marker = ""
		}

		if _, dup := t.entries[id]; dup {
			t.stats.Overwritten++
		}
		t.entries[id] = Entry{
			Identifier: id,
			Marker:     marker,
			Columns:    leading(row, t.layout.Width),
		}
	}

	return t
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// leading copies the first n cells of row, padding short rows with blanks.
func leading(row []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(row); i++ {
		out[i] = row[i]
	}
	return out
}

// Marker returns the stored marker for id.
func (t *Table) Marker(id identifier.Identifier) (string, bool) {
	e, ok := t.entries[id]
	return e.Marker, ok
}

// Contains reports whether id is listed in the reference dataset.
func (t *Table) Contains(id identifier.Identifier) bool {
	_, ok := t.entries[id]
	return ok
}

// Eligible reports whether id is present and its marker equals the sentinel exactly.
func (t *Table) Eligible(id identifier.Identifier) bool {
	e, ok := t.entries[id]
	return ok && e.Marker == t.marker
}

// Entry returns a copy of the entry for id.
func (t *Table) Entry(id identifier.Identifier) (Entry, bool) {
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}
	e.Columns = append([]string(nil), e.Columns...)
	return e, true
}

// Header returns a copy of the dataset's header row.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Layout returns the column layout the table was built with.
func (t *Table) Layout() Layout {
	return t.layout
}

// Len returns the number of distinct identifiers.
func (t *Table) Len() int {
	return len(t.entries)
}

// Stats returns construction statistics.
func (t *Table) Stats() Stats {
	return t.stats
}
