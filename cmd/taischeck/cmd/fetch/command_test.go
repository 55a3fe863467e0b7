package fetch

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/internal/cmd/application"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/logging"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ChoiseRentalList": []}`))
	}))
	defer server.Close()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "payloads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "payloads", "p.json"), []byte(`{}`), 0o644))

	app := &application.Mock{
		Options: []taischeck.Option{
			taischeck.WithAPI(server.URL, "secret", ""),
			taischeck.WithLogger(logging.NewNopLogger()),
		},
	}

	var stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--payload-dir", filepath.Join(root, "payloads"), "--responses-dir", filepath.Join(root, "responses")})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stderr.String(), "Captured 1 responses")
	assert.FileExists(t, filepath.Join(root, "responses", "response-1.json"))
}

func TestFetchRequiresToken(t *testing.T) {
	app := &application.Mock{
		Options: []taischeck.Option{
			taischeck.WithAPI("http://localhost", "", ""),
			taischeck.WithPayloadDir(t.TempDir()),
			taischeck.WithLogger(logging.NewNopLogger()),
		},
	}

	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuthRequired)
}
