// Package document resolves the shapes a captured source document can take
// into one canonical form before reconciliation sees it.
//
// A source document is a sequence of records. Each record nests a list of
// sub-records under one of several accepted field names, and each sub-record
// carries the raw identifier under a fixed field name. On disk a document can
// be a bare record, a one-element array wrapping a record, an array of
// records, or a capture envelope whose "response" member holds any of those.
package document

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/agentstation/taischeck/pkg/errors"
)

// Shape tags how a document's top-level payload was laid out.
type Shape int

// Document shapes.
const (
	ShapeUnsupported Shape = iota
	ShapeRecord            // a single record object
	ShapeWrapped           // a one-element array wrapping a record
	ShapeRecordList        // an array of records
	ShapeEnvelope          // a capture envelope around a record or record list
)

// String returns a readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeWrapped:
		return "wrapped"
	case ShapeRecordList:
		return "record-list"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "unsupported"
	}
}

// IdentifierField is the sub-record field holding the raw identifier.
const IdentifierField = "TaisCd"

// EnvelopeField is the capture envelope member holding the API response body.
const EnvelopeField = "response"

// ListFields are the accepted names of the nested sub-record list, in priority order.
var ListFields = []string{
	"ChoiseRentalList",
	"TU_ServicePlanChoiseRental",
	"TU_ServicePlanTeian",
}

// Record is one sub-record carrying (at most) one raw identifier.
type Record map[string]any

// Raw returns the raw value stored under field.
func (r Record) Raw(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Document is a named source document in canonical form.
type Document struct {
	Name    string
	Shape   Shape
	records []Record
}

// New creates a canonical document from already-extracted records.
func New(name string, records ...Record) Document {
	return Document{Name: name, Shape: ShapeRecordList, records: records}
}

// Unsupported creates a placeholder for a document that could not be resolved.
func Unsupported(name string) Document {
	return Document{Name: name, Shape: ShapeUnsupported}
}

// Supported reports whether the document resolved to a record list.
func (d Document) Supported() bool {
	return d.Shape != ShapeUnsupported
}

// Records returns the document's sub-records in document order.
func (d Document) Records() []Record {
	return d.records
}

// Len returns the number of sub-records.
func (d Document) Len() int {
	return len(d.records)
}

// Decode parses data and resolves its shape. Undecodable JSON is an error;
// valid JSON of an unexpected shape yields an unsupported document, which
// reconciliation skips.
func Decode(name string, data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return Unsupported(name), errors.WrapParse("json", name, err)
	}
	return Resolve(name, payload), nil
}

// Resolve converts a decoded JSON payload into a canonical document.
func Resolve(name string, payload any) Document {
	shape, records := resolve(payload, true)
	if shape == ShapeUnsupported {
		return Unsupported(name)
	}

	var subs []Record
	for _, rec := range records {
		subs = append(subs, subRecords(rec)...)
	}
	return Document{Name: name, Shape: shape, records: subs}
}

// resolve returns the shape and the top-level records of payload.
func resolve(payload any, allowEnvelope bool) (Shape, []map[string]any) {
	switch v := payload.(type) {
	case map[string]any:
		if allowEnvelope && isEnvelope(v) {
			// The response body must be a single record, bare or wrapped.
			shape, records := resolve(v[EnvelopeField], false)
			if shape != ShapeRecord && shape != ShapeWrapped {
				return ShapeUnsupported, nil
			}
			return ShapeEnvelope, records
		}
		return ShapeRecord, []map[string]any{v}
	case []any:
		records := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, m)
			}
		}
		if len(v) == 1 {
			if len(records) == 0 {
				return ShapeUnsupported, nil
			}
			return ShapeWrapped, records
		}
		return ShapeRecordList, records
	default:
		return ShapeUnsupported, nil
	}
}

// isEnvelope reports whether m wraps its payload under the envelope field
// rather than carrying a sub-record list itself.
func isEnvelope(m map[string]any) bool {
	if _, ok := m[EnvelopeField]; !ok {
		return false
	}
	for _, f := range ListFields {
		if _, ok := m[f]; ok {
			return false
		}
	}
	return true
}

// subRecords extracts the nested sub-record list of a record. The first
// accepted field holding a non-empty value wins; a winner that is not a list
// contributes nothing.
func subRecords(rec map[string]any) []Record {
	for _, f := range ListFields {
		v, ok := rec[f]
		if !ok || IsEmpty(v) {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return nil
		}
		out := make([]Record, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
		return out
	}
	return nil
}

// IsEmpty reports whether a field value counts as unset when picking the
// first populated field: null, false, zero and empty strings, lists or objects.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case []any:
		return len(x) == 0
	case string:
		return x == ""
	case map[string]any:
		return len(x) == 0
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case float64:
		return x == 0
	}
	return false
}

// SortByName returns a copy of docs ordered lexicographically by name.
// The sort is stable so equal names keep their given order.
func SortByName(docs []Document) []Document {
	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
