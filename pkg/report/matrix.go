package report

import (
	"github.com/agentstation/taischeck/pkg/identifier"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reference"
)

// ListedMarker marks a tenant column whose tenant lists the row's identifier.
const ListedMarker = "○"

// Matrix is the tenant matrix: every tenant-listed identifier with its
// reference columns and one column per tenant.
type Matrix struct {
	Headers []string
	Rows    [][]string
}

// BuildMatrix lays out every identifier in idx, sorted, against the
// reference table. Identifiers missing from the table keep only their own
// column filled. Tenant columns follow the index's label order.
func BuildMatrix(idx *membership.Index, table *reference.Table) *Matrix {
	width := reference.DefaultLayout.Width
	if table != nil {
		width = table.Layout().Width
	}

	headers := make([]string, 0, width+len(idx.Sources()))
	for i := 0; i < width; i++ {
		if i < len(reference.DefaultHeaders) {
			headers = append(headers, reference.DefaultHeaders[i])
		} else {
			headers = append(headers, "")
		}
	}
	sources := idx.Sources()
	headers = append(headers, sources...)

	m := &Matrix{Headers: headers}
	for _, id := range idx.Identifiers() {
		row := make([]string, width, width+len(sources))
		if e, ok := lookup(table, id); ok {
			copy(row, e.Columns)
		} else if width > 0 {
			row[0] = string(id)
		}
		for _, src := range sources {
			mark := ""
			if idx.Owns(src, id) {
				mark = ListedMarker
			}
			row = append(row, mark)
		}
		m.Rows = append(m.Rows, row)
	}

	return m
}

func lookup(table *reference.Table, id identifier.Identifier) (reference.Entry, bool) {
	if table == nil {
		return reference.Entry{}, false
	}
	return table.Entry(id)
}
