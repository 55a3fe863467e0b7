// Package membership builds the index from identifier to the set of tenants
// whose listings contain it.
//
// Tenants are shown under display labels ("Tenant A", "Tenant B", ...)
// assigned from their sorted source ids. Labels are only stable within a
// run that sees the same set of source ids.
package membership

import (
	"sort"
	"strings"

	"github.com/agentstation/taischeck/pkg/identifier"
)

// Label is a tenant display label.
type Label string

// LabelPrefix precedes the sequential letter of every label.
const LabelPrefix = "Tenant "

// DefaultGlobalLabel is displayed for identifiers no tenant lists.
const DefaultGlobalLabel = "Global"

// Listing is one tenant's (or one listing file's) raw identifiers.
type Listing struct {
	Source      string
	Identifiers []string
}

// Labels assigns labels to source ids in sorted order. The sorted ids are
// returned alongside, aligned with the labels; the input is not modified.
func Labels(sourceIDs []string) ([]string, []Label) {
	sorted := append([]string(nil), sourceIDs...)
	sort.Strings(sorted)
	return sorted, Sequence(len(sorted))
}

// Sequence returns the first n labels: Tenant A, Tenant B, ...
func Sequence(n int) []Label {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Label(LabelPrefix + Letters(i))
	}
	return labels
}

// Letters returns the spreadsheet-style column name for a zero-based index:
// A..Z, AA..AZ, BA.. and so on.
func Letters(i int) string {
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// Index maps identifiers to tenant labels. It is immutable once built.
type Index struct {
	sources []string
	labels  map[string]Label
	members map[identifier.Identifier]map[Label]struct{}
	counts  map[string]int
}

// Build sorts listings by source id, labels them in that order and indexes
// every non-absent identifier.
func Build(listings []Listing) *Index {
	sources, labels := Labels(uniqueSources(listings))
	return build(listings, sources, labels)
}

// FromTenantMap builds the index from a flat tenant id -> identifiers mapping.
// Go maps are unordered, so tenant ids are always sorted here; use
// FromOrderedTenants when the caller holds a canonical order.
func FromTenantMap(m map[string][]string) *Index {
	listings := make([]Listing, 0, len(m))
	for tenant, ids := range m {
		listings = append(listings, Listing{Source: tenant, Identifiers: ids})
	}
	return Build(listings)
}

// FromOrderedTenants builds the index from listings that are already in
// canonical order, labelling them as given instead of sorting first.
func FromOrderedTenants(listings []Listing) *Index {
	sources := uniqueSources(listings)
	return build(listings, sources, Sequence(len(sources)))
}

// uniqueSources returns the distinct source ids in first-seen order.
func uniqueSources(listings []Listing) []string {
	var sources []string
	seen := make(map[string]bool, len(listings))
	for _, l := range listings {
		if !seen[l.Source] {
			seen[l.Source] = true
			sources = append(sources, l.Source)
		}
	}
	return sources
}

// build indexes listings under labels, which are aligned with sources.
func build(listings []Listing, sources []string, labels []Label) *Index {
	idx := &Index{
		sources: sources,
		labels:  make(map[string]Label, len(sources)),
		members: make(map[identifier.Identifier]map[Label]struct{}),
		counts:  make(map[string]int, len(sources)),
	}
	for i, src := range sources {
		idx.labels[src] = labels[i]
	}

	for _, l := range listings {
		label := idx.labels[l.Source]
		for _, raw := range l.Identifiers {
			id, ok := identifier.Normalize(raw)
			if !ok {
				continue
			}
			set, ok := idx.members[id]
			if !ok {
				set = make(map[Label]struct{})
				idx.members[id] = set
			}
			if _, dup := set[label]; !dup {
				set[label] = struct{}{}
				idx.counts[l.Source]++
			}
		}
	}

	return idx
}

// Tenants returns the labels owning id, sorted lexicographically.
func (x *Index) Tenants(id identifier.Identifier) []Label {
	set := x.members[id]
	out := make([]Label, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Owns reports whether the tenant with the given source id lists id.
func (x *Index) Owns(source string, id identifier.Identifier) bool {
	label, ok := x.labels[source]
	if !ok {
		return false
	}
	_, ok = x.members[id][label]
	return ok
}

// Display renders the membership of id: sorted labels joined by ", ", or
// global when no tenant lists it. It never returns an empty string for a
// non-empty global.
func (x *Index) Display(id identifier.Identifier, global string) string {
	tenants := x.Tenants(id)
	if len(tenants) == 0 {
		return global
	}
	parts := make([]string, len(tenants))
	for i, l := range tenants {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// LabelOf returns the label assigned to a source id.
func (x *Index) LabelOf(source string) (Label, bool) {
	l, ok := x.labels[source]
	return l, ok
}

// Sources returns source ids in label order.
func (x *Index) Sources() []string {
	return append([]string(nil), x.sources...)
}

// Count returns how many distinct identifiers a source lists.
func (x *Index) Count(source string) int {
	return x.counts[source]
}

// Identifiers returns every indexed identifier, sorted.
func (x *Index) Identifiers() []identifier.Identifier {
	out := make([]identifier.Identifier, 0, len(x.members))
	for id := range x.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of indexed identifiers.
func (x *Index) Len() int {
	return len(x.members)
}
