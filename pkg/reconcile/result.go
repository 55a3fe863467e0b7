package reconcile

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/taischeck/pkg/identifier"
)

// Result is the reconciled identifier set. Identifiers keep first-seen order.
type Result struct {
	order   []identifier.Identifier
	sources map[identifier.Identifier]string
	seen    map[identifier.Identifier][]string // only with provenance
	track   bool

	// Skipped lists documents ignored for their structure.
	Skipped []string

	Stats    Stats
	Metadata Metadata
}

// Stats counts what a reconciliation saw.
type Stats struct {
	Documents        int // documents offered, supported or not
	SkippedDocuments int
	Records          int // records inside supported documents
	Absent           int // records without a usable identifier
	Duplicates       int // occurrences after the first
}

// Metadata describes a reconciliation run.
type Metadata struct {
	StartTime utc.Time
	EndTime   utc.Time
	Duration  time.Duration

	// Documents are the document names in processing order.
	Documents []string
}

func newResult(track bool) *Result {
	return &Result{
		sources: make(map[identifier.Identifier]string),
		seen:    make(map[identifier.Identifier][]string),
		track:   track,
	}
}

func (r *Result) add(id identifier.Identifier, source string) {
	if r.track {
		r.seen[id] = append(r.seen[id], source)
	}
	if _, ok := r.sources[id]; ok {
		r.Stats.Duplicates++
		return
	}
	r.sources[id] = source
	r.order = append(r.order, id)
}

// Identifiers returns the unique identifiers in first-seen order.
func (r *Result) Identifiers() []identifier.Identifier {
	return append([]identifier.Identifier(nil), r.order...)
}

// Source returns the document that first contained id.
func (r *Result) Source(id identifier.Identifier) (string, bool) {
	s, ok := r.sources[id]
	return s, ok
}

// Occurrences returns every document id appeared in, in processing order,
// repeated once per record. Without provenance it holds only the first source.
func (r *Result) Occurrences(id identifier.Identifier) []string {
	if r.track {
		return append([]string(nil), r.seen[id]...)
	}
	if s, ok := r.sources[id]; ok {
		return []string{s}
	}
	return nil
}

// Provenance reports whether every occurrence was recorded.
func (r *Result) Provenance() bool {
	return r.track
}

// Len returns the number of unique identifiers.
func (r *Result) Len() int {
	return len(r.order)
}
