// Package ingest materializes on-disk inputs into the in-memory forms the
// reconciliation core consumes. Every file is read fully and closed before
// its content is used.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/taischeck/pkg/document"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/identifier"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
)

// PlanFields are the item fields of a raw tenant extract holding plan
// lists, in priority order.
var PlanFields = []string{"TU_ServicePlanChoiseRental", "TU_ServicePlanTeian"}

// jsonFiles returns the sorted *.json files directly under dir.
func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifact("input directory", dir, err)
		}
		return nil, errors.WrapIO("read", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ReadDocuments decodes every *.json file in dir into a source document
// named after the file. Files that are not valid JSON are logged and skipped.
func ReadDocuments(ctx context.Context, dir string) ([]document.Document, error) {
	logger := logging.FromContext(ctx)

	files, err := jsonFiles(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.WrapIO("read", filepath.Join(dir, name), err)
		}

		doc, err := document.Decode(name, data)
		if err != nil {
			logger.Warn().Err(err).Str("document", name).Msg("Skipping unreadable document")
			continue
		}
		logger.Debug().Str("document", name).Str("shape", doc.Shape.String()).Int("records", doc.Len()).Msg("Read document")
		docs = append(docs, doc)
	}

	logger.Info().Str("dir", dir).Int("documents", len(docs)).Msg("Read source documents")
	return docs, nil
}

// ScanTenants reads raw per-tenant extracts. Each subdirectory of rawDir is a
// tenant; its *.json files are arrays of items whose plan lists carry the
// tenant's identifiers. Files or plan fields of any other shape are skipped.
func ScanTenants(ctx context.Context, rawDir string) ([]membership.Listing, error) {
	logger := logging.FromContext(ctx)

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifact("raw tenant extracts", rawDir, err)
		}
		return nil, errors.WrapIO("read", rawDir, err)
	}

	var tenants []string
	for _, e := range entries {
		if e.IsDir() {
			tenants = append(tenants, e.Name())
		}
	}
	sort.Strings(tenants)

	listings := make([]membership.Listing, 0, len(tenants))
	for _, tenant := range tenants {
		dir := filepath.Join(rawDir, tenant)
		files, err := jsonFiles(dir)
		if err != nil {
			return nil, err
		}

		listing := membership.Listing{Source: tenant, Identifiers: []string{}}
		for _, name := range files {
			codes, err := scanExtract(filepath.Join(dir, name))
			if err != nil {
				logger.Warn().Err(err).Str("tenant", tenant).Str("file", name).Msg("Skipping unreadable extract")
				continue
			}
			listing.Identifiers = append(listing.Identifiers, codes...)
		}

		logger.Debug().Str("tenant", tenant).Int("files", len(files)).Int("codes", len(listing.Identifiers)).Msg("Scanned tenant")
		listings = append(listings, listing)
	}

	logger.Info().Str("dir", rawDir).Int("tenants", len(listings)).Msg("Scanned tenant extracts")
	return listings, nil
}

// scanExtract returns the raw identifiers of one extract file.
func scanExtract(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	items, ok := payload.([]any)
	if !ok {
		return nil, nil
	}

	var codes []string
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		plans, ok := firstPlans(m).([]any)
		if !ok {
			continue
		}
		for _, p := range plans {
			plan, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := identifier.FromValue(plan[document.IdentifierField]); ok {
				codes = append(codes, string(id))
			}
		}
	}
	return codes, nil
}

// firstPlans returns the first plan field with a non-empty value, using the
// same emptiness rule as response documents.
func firstPlans(item map[string]any) any {
	for _, f := range PlanFields {
		if v := item[f]; !document.IsEmpty(v) {
			return v
		}
	}
	return nil
}
