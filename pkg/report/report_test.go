package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/taischeck/pkg/document"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reconcile"
	"github.com/agentstation/taischeck/pkg/reference"
)

func fixedClock() utc.Time {
	return utc.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
}

func rec(id string) document.Record {
	return document.Record{document.IdentifierField: id}
}

// scenario builds two documents, a reference table marking X-1 eligible and
// a tenant listing where only b.json's tenant owns X-2.
func scenario(t *testing.T) (*reconcile.Result, *reference.Table, *membership.Index) {
	t.Helper()

	res := reconcile.Reconcile(context.Background(), []document.Document{
		document.New("b.json", rec("X-1"), rec("X-2")),
		document.New("a.json", rec("X-1")),
	})

	table := reference.Build(
		[]string{"TAISコード", "法人名", "商品名", "型番", "貸与", "販売"},
		[][]string{
			{"X-1", "", "", "", "○", ""},
			{"X-2", "", "", "", "", "○"},
		},
	)

	idx := membership.Build([]membership.Listing{
		{Source: "b.json", Identifiers: []string{"X-2"}},
	})

	return res, table, idx
}

func TestBuildScenario(t *testing.T) {
	res, table, idx := scenario(t)

	rep := Build(res, table, idx, WithClock(fixedClock))

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, []string{"X-1", "Yes", "", "Global", "a.json"}, rep.Rows[0].Cells())
	assert.Equal(t, []string{"X-2", "-", "", "Tenant A", "b.json"}, rep.Rows[1].Cells())
	assert.Equal(t, Summary{Total: 2, Eligible: 1, Global: 1}, rep.Summary)
	assert.Equal(t, fixedClock(), rep.GeneratedAt)
}

func TestBuildOccurrences(t *testing.T) {
	docs := []document.Document{
		document.New("b.json", rec("X-1"), rec("X-2")),
		document.New("a.json", rec("X-1")),
	}

	plain := Build(reconcile.Reconcile(context.Background(), docs), nil, nil)
	for _, row := range plain.Rows {
		assert.Nil(t, row.Occurrences)
	}

	tracked := Build(reconcile.New(reconcile.WithProvenance(true)).Reconcile(context.Background(), docs), nil, nil)
	require.Len(t, tracked.Rows, 2)
	assert.Equal(t, []string{"a.json", "b.json"}, tracked.Rows[0].Occurrences)
	assert.Equal(t, []string{"b.json"}, tracked.Rows[1].Occurrences)
	assert.Equal(t, plain.Rows[0].Cells(), tracked.Rows[0].Cells())
}

func TestBuildKeepsResultOrder(t *testing.T) {
	res := reconcile.Reconcile(context.Background(), []document.Document{
		document.New("a.json", rec("Z"), rec("A"), rec("M")),
	})

	rep := Build(res, nil, nil)

	var got []string
	for _, row := range rep.Rows {
		got = append(got, string(row.Identifier))
	}
	assert.Equal(t, []string{"Z", "A", "M"}, got)
}

func TestBuildEligibility(t *testing.T) {
	res := reconcile.Reconcile(context.Background(), []document.Document{
		document.New("a.json", rec("E"), rec("B"), rec("O"), rec("U")),
	})
	table := reference.Build(nil, [][]string{
		{"E", "", "", "", "○"},
		{"B", "", "", "", ""},
		{"O", "", "", "", "×"},
	})

	rep := Build(res, table, membership.Build(nil))

	want := map[string]string{"E": Yes, "B": No, "O": No, "U": No}
	for _, row := range rep.Rows {
		assert.Equal(t, want[string(row.Identifier)], row.Eligibility, string(row.Identifier))
	}
}

func TestWithGlobalLabel(t *testing.T) {
	res, table, idx := scenario(t)

	rep := Build(res, table, idx, WithGlobalLabel("Global TAIS"))
	assert.Equal(t, "Global TAIS", rep.Rows[0].Membership)

	rep = Build(res, table, idx, WithGlobalLabel(""))
	assert.Equal(t, membership.DefaultGlobalLabel, rep.Rows[0].Membership)
}

func TestBuildIsDeterministic(t *testing.T) {
	res, table, idx := scenario(t)

	first := Build(res, table, idx, WithClock(fixedClock))
	second := Build(res, table, idx, WithClock(fixedClock))

	assert.Equal(t, first, second)
}

func TestWriteXLSX(t *testing.T) {
	res, table, idx := scenario(t)
	rep := Build(res, table, idx)
	path := filepath.Join(t.TempDir(), "out", "compare.xlsx")

	require.NoError(t, rep.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ReportSheet}, f.GetSheetList())

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	// Trailing empty cells are trimmed by GetRows; the blank column survives
	// because cells after it are set.
	assert.Equal(t, []string{"X-1", "Yes", "", "Global", "a.json"}, rows[1])
	assert.Equal(t, []string{"X-2", "-", "", "Tenant A", "b.json"}, rows[2])
}

func TestWriteCSV(t *testing.T) {
	res, table, idx := scenario(t)
	rep := Build(res, table, idx)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Headers, records[0])
	assert.Equal(t, []string{"X-2", "-", "", "Tenant A", "b.json"}, records[2])
}

func TestWritePreview(t *testing.T) {
	res, table, idx := scenario(t)
	rep := Build(res, table, idx)

	var buf bytes.Buffer
	require.NoError(t, rep.WritePreview(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)

	rule := lines[0]
	assert.Equal(t, strings.Repeat("=", len(rule)), rule)
	assert.Equal(t, rule, lines[2])
	assert.Equal(t, rule, lines[5])
	assert.True(t, strings.HasPrefix(lines[1], "Identifier | Exists & Rent | Client From? | Exists in Tenant | Source Document"))
	assert.Equal(t, "X-1        | Yes           |              | Global           | a.json         ", lines[3])
	assert.Equal(t, "Total unique identifiers checked: 2", lines[6])
	for _, l := range lines[1:5] {
		if l != rule {
			assert.Len(t, l, len(rule))
		}
	}
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("abc"))
	assert.Equal(t, 4, displayWidth("貸与"))
	assert.Equal(t, 1, displayWidth("○"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "compare_result_20250102_030405.xlsx", FileName("compare_result_", fixedClock()))
}
