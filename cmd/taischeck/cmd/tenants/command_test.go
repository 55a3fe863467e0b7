package tenants

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/internal/cmd/application"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
)

func setup(t *testing.T, content string) (string, *application.Mock) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenants.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, &application.Mock{
		Format: "json",
		Options: []taischeck.Option{
			taischeck.WithTenantArtifact(path),
			taischeck.WithLogger(logging.NewNopLogger()),
		},
	}
}

func TestList(t *testing.T) {
	_, app := setup(t, `{"tais_by_tenant": {"t2": ["A"], "t1": ["A", "B", "A "]}}`)

	for _, args := range [][]string{{}, {"list"}} {
		var out bytes.Buffer
		cmd := NewCommand(app)
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())

		var got []Tenant
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []Tenant{
			{Label: "Tenant A", Tenant: "t1", Codes: 2},
			{Label: "Tenant B", Tenant: "t2", Codes: 1},
		}, got)
	}
}

func TestMigrate(t *testing.T) {
	path, app := setup(t, `{"tais_by_file": {"list_a.json": ["A"]}}`)
	dest := filepath.Join(filepath.Dir(path), "canonical.json")

	var stdout, stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"migrate", "--out", dest})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stderr.String(), "Tenant listing migrated")

	migrated, err := membership.LoadArtifact(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, membership.SchemaCanonical, migrated.Schema)
	assert.Equal(t, map[string][]string{"list_a.json": {"A"}}, migrated.Tenants)
}

func TestListMalformed(t *testing.T) {
	_, app := setup(t, `{"tais_by_tenant": {"t1": "A"}}`)

	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list"})
	assert.Error(t, cmd.Execute())
}
