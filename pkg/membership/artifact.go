package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/identifier"
	"github.com/agentstation/taischeck/pkg/logging"
)

// artifactName is how the tenant listing is named in fatal errors.
const artifactName = "tenant listing"

// Top-level keys of the tenant listing artifact.
const (
	// CanonicalKey holds tenant id -> identifiers in the current schema.
	CanonicalKey = "tais_by_tenant"
	// LegacyFileKey holds listing file -> identifiers in the older schema.
	LegacyFileKey = "tais_by_file"
	// GeneratedAtKey records when the artifact was written.
	GeneratedAtKey = "generated_at"
)

// Schema tags which layout an artifact was read from.
type Schema string

// Artifact schemas. Only SchemaCanonical is ever written.
const (
	SchemaCanonical  Schema = "tais_by_tenant"
	SchemaLegacyFile Schema = "tais_by_file"
	SchemaBareMap    Schema = "bare"
)

// Artifact is the persisted tenant listing the index is rebuilt from.
type Artifact struct {
	GeneratedAt string              `json:"generated_at,omitempty"`
	Tenants     map[string][]string `json:"tais_by_tenant"`

	// Schema is the layout the artifact was read from.
	Schema Schema `json:"-"`
}

// artifactSchema accepts the canonical layout and both migration inputs.
const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "codes": {"type": "array", "items": {"type": ["string", "number", "null"]}},
    "listing": {"type": "object", "additionalProperties": {"$ref": "#/definitions/codes"}}
  },
  "type": "object",
  "properties": {"generated_at": {"type": "string"}},
  "anyOf": [
    {"required": ["tais_by_tenant"], "properties": {"tais_by_tenant": {"$ref": "#/definitions/listing"}}},
    {"required": ["tais_by_file"], "properties": {"tais_by_file": {"$ref": "#/definitions/listing"}}},
    {
      "not": {"anyOf": [{"required": ["tais_by_tenant"]}, {"required": ["tais_by_file"]}]},
      "properties": {"generated_at": {"type": "string"}},
      "additionalProperties": {"$ref": "#/definitions/codes"}
    }
  ]
}`

var schemaLoader = gojsonschema.NewStringLoader(artifactSchema)

// NewArtifact builds a canonical artifact from listings, sorting and
// de-duplicating each tenant's normalized identifiers.
func NewArtifact(generatedAt string, listings []Listing) *Artifact {
	a := &Artifact{
		GeneratedAt: generatedAt,
		Tenants:     make(map[string][]string, len(listings)),
		Schema:      SchemaCanonical,
	}
	for _, l := range listings {
		set := make(map[string]struct{}, len(l.Identifiers))
		for _, c := range a.Tenants[l.Source] {
			set[c] = struct{}{}
		}
		for _, raw := range l.Identifiers {
			if id, ok := identifier.Normalize(raw); ok {
				set[string(id)] = struct{}{}
			}
		}
		codes := make([]string, 0, len(set))
		for c := range set {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		a.Tenants[l.Source] = codes
	}
	return a
}

// Listings returns the artifact's tenants sorted by id.
func (a *Artifact) Listings() []Listing {
	ids := make([]string, 0, len(a.Tenants))
	for id := range a.Tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Listing, len(ids))
	for i, id := range ids {
		out[i] = Listing{Source: id, Identifiers: append([]string(nil), a.Tenants[id]...)}
	}
	return out
}

// Index builds the membership index from the artifact.
func (a *Artifact) Index() *Index {
	return Build(a.Listings())
}

// LoadArtifact reads and validates the tenant listing at path. A missing
// file, invalid JSON, or a document matching none of the accepted layouts is
// a fatal artifact error.
func LoadArtifact(ctx context.Context, path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifact(artifactName, path, err)
		}
		return nil, errors.NewMalformedArtifact(artifactName, path, "cannot read file", err)
	}

	a, err := ParseArtifact(data)
	if err != nil {
		var ae *errors.ArtifactError
		if errors.As(err, &ae) {
			ae.Path = path
		}
		return nil, err
	}

	logger := logging.FromContext(ctx)
	if a.Schema != SchemaCanonical {
		logger.Warn().Str("path", path).Str("schema", string(a.Schema)).Msg("Tenant listing uses a legacy layout; run `tenants migrate` to rewrite it")
	}
	logger.Info().Str("path", path).Int("tenants", len(a.Tenants)).Str("generated_at", a.GeneratedAt).Msg("Loaded tenant listing")

	return a, nil
}

// ParseArtifact decodes and validates artifact bytes.
func ParseArtifact(data []byte) (*Artifact, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, "", "invalid json", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.NewSchemaArtifact(artifactName, "", strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, "", "invalid json", err)
	}

	a := &Artifact{Tenants: make(map[string][]string)}
	if s, ok := raw[GeneratedAtKey].(string); ok {
		a.GeneratedAt = s
	}

	var listing map[string]any
	switch {
	case raw[CanonicalKey] != nil:
		a.Schema = SchemaCanonical
		listing, _ = raw[CanonicalKey].(map[string]any)
	case raw[LegacyFileKey] != nil:
		a.Schema = SchemaLegacyFile
		listing, _ = raw[LegacyFileKey].(map[string]any)
	default:
		a.Schema = SchemaBareMap
		listing = raw
		delete(listing, GeneratedAtKey)
		if len(listing) == 0 {
			return nil, errors.NewSchemaArtifact(artifactName, "",
				"no tenant listing: expected "+CanonicalKey+", "+LegacyFileKey+" or a tenant map")
		}
	}

	for tenant, v := range listing {
		codes, _ := v.([]any)
		out := make([]string, 0, len(codes))
		for _, c := range codes {
			if s, ok := rawString(c); ok {
				out = append(out, s)
			}
		}
		a.Tenants[tenant] = out
	}

	return a, nil
}

// rawString converts a decoded listing entry to its raw string form.
func rawString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	default:
		return "", false
	}
}

// Save writes the artifact in the canonical layout, creating parent directories.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return errors.WrapParse("json", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
