package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taischeck/pkg/errors"
)

func testConfig(root string) *Config {
	return &Config{
		ResponsesDir:   filepath.Join(root, "responses"),
		TenantArtifact: filepath.Join(root, "tenants.json"),
		CodelistDir:    root,
		RawDir:         filepath.Join(root, "raw"),
		PayloadDir:     filepath.Join(root, "payloads"),
		GlobalLabel:    "Global",
		HTTPTimeout:    time.Second,
		LogOutput:      "discard",
	}
}

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	logger := zerolog.Nop()
	app, err := New("v1.0.0", "abc", "today", "test", WithConfig(config), WithLogger(&logger))
	require.NoError(t, err)
	return app
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNew(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))

	assert.Equal(t, "v1.0.0", app.Version())
	assert.Equal(t, "abc", app.Commit())
	assert.Equal(t, "today", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NoError(t, app.Shutdown(context.Background()))
}

func TestRootCommandRegistersCommands(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))
	root := app.createRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"compare", "prepare", "fetch", "tenants", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	for _, flag := range []string{"config", "verbose", "quiet", "no-color", "format", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestExecuteVersion(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))

	out, err := run(t, app, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "taischeck version v1.0.0")
}

func TestExecuteCompare(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "responses"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "responses", "a.json"), []byte(`{"ChoiseRentalList": [{"TaisCd": "X-1"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "codelist.csv"), []byte("TAISコード,法人名,商品名,型番,貸与,販売\nX-1,M,P,T,○,\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tenants.json"), []byte(`{"tais_by_tenant": {}}`), 0o644))

	app := newTestApp(t, testConfig(root))

	out, err := run(t, app, "compare", "--no-write", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Identifier,Exists & Rent,Client From?,Exists in Tenant,Source Document\nX-1,Yes,,Global,a.json\n", out)
	assert.Equal(t, "csv", app.OutputFormat())
}

func TestExecuteRejectsUnknownFormat(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))

	_, err := run(t, app, "version", "--format", "xml")
	assert.Error(t, err)
}

func TestCheckerValidatesConfig(t *testing.T) {
	config := testConfig(t.TempDir())
	config.ResponsesDir = ""
	app := newTestApp(t, config)

	_, err := app.Checker()
	require.Error(t, err)
	var ce *errors.ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestSetupCommandAppliesFlags(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	app := newTestApp(t, testConfig(t.TempDir()))

	_, err := run(t, app, "version", "-q", "--no-color")
	require.NoError(t, err)

	assert.True(t, app.Config().Quiet)
	assert.True(t, app.NoColor())
	assert.Equal(t, zerolog.WarnLevel, app.Logger().GetLevel())
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.NewMissingArtifact("tenant listing", "t.json", os.ErrNotExist)
	writeError(&buf, err)
	assert.Equal(t, "✗ Error: "+err.Error()+"\n", buf.String())
}
