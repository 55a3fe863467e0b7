package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/taischeck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestArtifactError(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		err := pkgerrors.NewMissingArtifact("tenant listing", "data_reports/tais_code_tenant.json", errors.New("no such file"))
		assert.Equal(t, "tenant listing missing (data_reports/tais_code_tenant.json): no such file", err.Error())
		assert.True(t, pkgerrors.IsMissingArtifact(err))
		assert.False(t, pkgerrors.IsMalformedArtifact(err))
		assert.True(t, pkgerrors.IsArtifactError(err))
	})

	t.Run("malformed", func(t *testing.T) {
		err := pkgerrors.NewMalformedArtifact("reference dataset", "codelist.xlsx", "no header row", nil)
		assert.Contains(t, err.Error(), "no header row")
		assert.True(t, pkgerrors.IsMalformedArtifact(err))
		assert.False(t, pkgerrors.IsMissingArtifact(err))
	})

	t.Run("schema counts as malformed", func(t *testing.T) {
		err := pkgerrors.NewSchemaArtifact("tenant listing", "", "no tais_by_tenant key")
		assert.Equal(t, "tenant listing schema: no tais_by_tenant key", err.Error())
		assert.True(t, pkgerrors.IsMalformedArtifact(err))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		base := pkgerrors.NewMissingArtifact("reference dataset", "x.xlsx", nil)
		wrapped := fmt.Errorf("loading inputs: %w", base)
		assert.True(t, pkgerrors.IsMissingArtifact(wrapped))

		var ae *pkgerrors.ArtifactError
		require.True(t, errors.As(wrapped, &ae))
		assert.Equal(t, "x.xlsx", ae.Path)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "responses_dir", Message: "is required"}
		assert.Equal(t, "validation failed for field responses_dir: is required", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	err := &pkgerrors.APIError{Endpoint: "https://api.example.com/plan", StatusCode: 500, Message: "boom"}
	assert.Contains(t, err.Error(), "status 500")

	base := errors.New("connection refused")
	err = &pkgerrors.APIError{Endpoint: "x", Message: "send failed", Err: base}
	assert.ErrorIs(t, err, base)
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))

	base := errors.New("unexpected EOF")
	err := pkgerrors.WrapParse("json", "response-1.json", base)
	assert.Equal(t, "parse error in json file response-1.json: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, base)

	err = pkgerrors.WrapIO("write", "out.xlsx", base)
	assert.Equal(t, "IO error during write of out.xlsx: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, base)

	cfg := pkgerrors.NewConfigError("app", "bad value", base)
	assert.Equal(t, "configuration error in app: bad value", cfg.Error())
	assert.ErrorIs(t, cfg, base)
}
