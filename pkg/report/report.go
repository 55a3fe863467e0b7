// Package report joins a reconciliation result against the reference table
// and the membership index and renders the outcome.
//
// Row order is the reconciliation's first-seen order. Nothing here sorts rows.
package report

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/taischeck/pkg/identifier"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reconcile"
	"github.com/agentstation/taischeck/pkg/reference"
)

// Eligibility display values.
const (
	Yes = "Yes"
	No  = "-"
)

// Headers is the fixed column schema of the compare report.
var Headers = []string{"Identifier", "Exists & Rent", "Client From?", "Exists in Tenant", "Source Document"}

// Row is one reconciled identifier.
type Row struct {
	Identifier  identifier.Identifier `json:"identifier" yaml:"identifier"`
	Eligibility string                `json:"eligibility" yaml:"eligibility"`
	// ClientFrom is left blank for manual annotation downstream.
	ClientFrom string `json:"client_from" yaml:"client_from"`
	Membership string `json:"membership" yaml:"membership"`
	Source     string `json:"source" yaml:"source"`
	// Occurrences lists every document the identifier appeared in, once per
	// record. It is only filled when the result tracked provenance.
	Occurrences []string `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
}

// Cells returns the row in header order.
func (r Row) Cells() []string {
	return []string{string(r.Identifier), r.Eligibility, r.ClientFrom, r.Membership, r.Source}
}

// Summary counts report rows by category.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Eligible int `json:"eligible" yaml:"eligible"`
	Global   int `json:"global" yaml:"global"`
}

// Report is the ordered compare report.
type Report struct {
	GeneratedAt utc.Time `json:"generated_at" yaml:"generated_at"`
	Rows        []Row    `json:"rows" yaml:"rows"`
	Summary     Summary  `json:"summary" yaml:"summary"`
}

// Table returns the header and the rows as string cells.
func (r *Report) Table() ([]string, [][]string) {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Cells()
	}
	return append([]string(nil), Headers...), rows
}

type options struct {
	global string
	now    func() utc.Time
}

// Option configures Build.
type Option func(*options)

// WithGlobalLabel sets the membership display for identifiers no tenant lists.
// An empty label is ignored so the column never renders blank.
func WithGlobalLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.global = label
		}
	}
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() utc.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Build emits one row per reconciled identifier, in result order.
// Identifiers missing from the table are not eligible; identifiers missing
// from the index are shown under the global label.
func Build(res *reconcile.Result, table *reference.Table, idx *membership.Index, opts ...Option) *Report {
	o := &options{global: membership.DefaultGlobalLabel, now: utc.Now}
	for _, opt := range opts {
		opt(o)
	}

	ids := res.Identifiers()
	rep := &Report{GeneratedAt: o.now(), Rows: make([]Row, 0, len(ids))}

	for _, id := range ids {
		source, _ := res.Source(id)
		row := Row{
			Identifier:  id,
			Eligibility: No,
			Membership:  o.global,
			Source:      source,
		}
		if res.Provenance() {
			row.Occurrences = res.Occurrences(id)
		}
		if table != nil && table.Eligible(id) {
			row.Eligibility = Yes
			rep.Summary.Eligible++
		}
		if idx != nil {
			row.Membership = idx.Display(id, o.global)
		}
		if row.Membership == o.global {
			rep.Summary.Global++
		}
		rep.Rows = append(rep.Rows, row)
	}
	rep.Summary.Total = len(rep.Rows)

	return rep
}
