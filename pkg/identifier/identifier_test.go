package identifier_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taischeck/pkg/identifier"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   identifier.Identifier
		wantOK bool
	}{
		{"plain", "A-01-2", "A-01-2", true},
		{"surrounding space and full-width hyphen", "  A-01－2 ", "A-01-2", true},
		{"tabs and newlines", "\tX-1\n", "X-1", true},
		{"ideographic space trimmed", "　X-1　", "X-1", true},
		{"inner space kept", "X 1", "X 1", true},
		{"case kept", "ab-01", "ab-01", true},
		{"full-width letters kept", "Ａ-1", "Ａ-1", true},
		{"empty", "", "", false},
		{"whitespace only", "   \t ", "", false},
		{"hyphen only survives", "－", "-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := identifier.Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  A-01－2 ", "A-01-2", "－－x－－", " 　 z ", "00012-000345", "ｶﾅ－1"}
	for _, raw := range inputs {
		once, ok := identifier.Normalize(raw)
		require.True(t, ok, raw)
		twice, ok := identifier.Normalize(string(once))
		require.True(t, ok, raw)
		assert.Equal(t, once, twice, raw)
	}

	a, _ := identifier.Normalize("  A-01－2 ")
	b, _ := identifier.Normalize("A-01-2")
	assert.Equal(t, a, b)
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   identifier.Identifier
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"string", " 00170-000001 ", "00170-000001", true},
		{"empty string", "", "", false},
		{"float whole", float64(12345), "12345", true},
		{"float zero", float64(0), "", false},
		{"json number", json.Number("00012"), "00012", true},
		{"json number zero", json.Number("0"), "", false},
		{"int", 7, "7", true},
		{"false", false, "", false},
		{"object", map[string]any{"TaisCd": "x"}, "", false},
		{"array", []any{"x"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := identifier.FromValue(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, identifier.Strings([]identifier.Identifier{"b", "a"}))
	assert.Empty(t, identifier.Strings(nil))
}
