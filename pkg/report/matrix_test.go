package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reference"
)

func matrixFixture() (*membership.Index, *reference.Table) {
	idx := membership.Build([]membership.Listing{
		{Source: "tenant-b", Identifiers: []string{"00002-1", "00001-1"}},
		{Source: "tenant-a", Identifiers: []string{"00001-1", "99999-9"}},
	})
	table := reference.Build(reference.DefaultHeaders, [][]string{
		{"00001-1", "Maker", "Bed", "B-1", "○", "○"},
		{"00002-1", "Maker", "Cane", "C-1", "", "○"},
	})
	return idx, table
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(matrixFixture())

	assert.Equal(t, []string{"TAISコード", "法人名", "商品名", "型番", "貸与", "販売", "tenant-a", "tenant-b"}, m.Headers)
	require.Len(t, m.Rows, 3)
	assert.Equal(t, []string{"00001-1", "Maker", "Bed", "B-1", "○", "○", "○", "○"}, m.Rows[0])
	assert.Equal(t, []string{"00002-1", "Maker", "Cane", "C-1", "", "○", "", "○"}, m.Rows[1])
	assert.Equal(t, []string{"99999-9", "", "", "", "", "", "○", ""}, m.Rows[2])
}

func TestBuildMatrixWithoutTable(t *testing.T) {
	idx, _ := matrixFixture()

	m := BuildMatrix(idx, nil)

	require.Len(t, m.Rows, 3)
	assert.Equal(t, []string{"00001-1", "", "", "", "", "", "○", "○"}, m.Rows[0])
}

func TestBuildMatrixEmpty(t *testing.T) {
	m := BuildMatrix(membership.Build(nil), nil)

	assert.Equal(t, reference.DefaultHeaders, m.Headers)
	assert.Empty(t, m.Rows)
}

func TestMatrixWriteXLSX(t *testing.T) {
	m := BuildMatrix(matrixFixture())
	path := filepath.Join(t.TempDir(), "matrix.xlsx")

	require.NoError(t, m.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(MatrixSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, m.Headers, rows[0])
	assert.Equal(t, m.Rows[0], rows[1])
}
