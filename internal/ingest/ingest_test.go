package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taischeck/pkg/document"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/logging"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[{"ChoiseRentalList": [{"TaisCd": "X-1"}, {"TaisCd": "X-2"}]}]`)
	writeFile(t, dir, "a.json", `{"ChoiseRentalList": [{"TaisCd": "X-1"}]}`)
	writeFile(t, dir, "c.json", `"not a record"`)
	writeFile(t, dir, "notes.txt", `ignored`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	docs, err := ReadDocuments(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "a.json", docs[0].Name)
	assert.Equal(t, document.ShapeRecord, docs[0].Shape)
	assert.Equal(t, "b.json", docs[1].Name)
	assert.Equal(t, document.ShapeWrapped, docs[1].Shape)
	assert.Equal(t, 2, docs[1].Len())
	assert.False(t, docs[2].Supported())
}

func TestReadDocumentsSkipsInvalidJSON(t *testing.T) {
	log := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), log.Logger)

	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"ChoiseRentalList": [`)
	writeFile(t, dir, "good.json", `{"ChoiseRentalList": [{"TaisCd": "X-1"}]}`)

	docs, err := ReadDocuments(ctx, dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.json", docs[0].Name)
	assert.True(t, log.Contains("bad.json"))
}

func TestReadDocumentsMissingDir(t *testing.T) {
	_, err := ReadDocuments(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.IsMissingArtifact(err))
}

func TestScanTenants(t *testing.T) {
	raw := t.TempDir()
	writeFile(t, filepath.Join(raw, "tenant-b"), "01.json", `[
		{"TU_ServicePlanChoiseRental": [{"TaisCd": "B-1"}, {"TaisCd": ""}, {"Other": 1}]},
		{"TU_ServicePlanChoiseRental": [], "TU_ServicePlanTeian": [{"TaisCd": "B-2"}]},
		{"TU_ServicePlanTeian": "not a list"},
		{"TU_ServicePlanChoiseRental": {}, "TU_ServicePlanTeian": [{"TaisCd": "B-3"}]},
		{"TU_ServicePlanChoiseRental": false, "TU_ServicePlanTeian": [{"TaisCd": "B-4"}]},
		{"TU_ServicePlanChoiseRental": 0, "TU_ServicePlanTeian": [{"TaisCd": "B-5"}]},
		"not an item"
	]`)
	writeFile(t, filepath.Join(raw, "tenant-b"), "02.json", `{"TU_ServicePlanTeian": [{"TaisCd": "IGNORED"}]}`)
	writeFile(t, filepath.Join(raw, "tenant-a"), "01.json", `[{"TU_ServicePlanTeian": [{"TaisCd": 12345}]}]`)
	writeFile(t, filepath.Join(raw, "tenant-a"), "02.json", `[{"TU_ServicePlanTeian": [`)
	writeFile(t, filepath.Join(raw, "tenant-c"), "readme.md", `no extracts`)
	writeFile(t, raw, "stray.json", `[]`)

	listings, err := ScanTenants(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, "tenant-a", listings[0].Source)
	assert.Equal(t, []string{"12345"}, listings[0].Identifiers)

	assert.Equal(t, "tenant-b", listings[1].Source)
	assert.Equal(t, []string{"B-1", "B-2", "B-3", "B-4", "B-5"}, listings[1].Identifiers)

	assert.Equal(t, "tenant-c", listings[2].Source)
	assert.Empty(t, listings[2].Identifiers)
}

func TestScanTenantsMissingDir(t *testing.T) {
	_, err := ScanTenants(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.IsMissingArtifact(err))
}
