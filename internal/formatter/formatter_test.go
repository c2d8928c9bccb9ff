package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

var schema = view.Schema{
	{Key: "id", Label: "ID"},
	{Key: "name", Label: "Name"},
	{Key: "amount", Label: "Amount"},
	{Key: "meta.region", Label: "Region"},
}

func newEngine(t *testing.T, objs ...map[string]any) *view.Engine {
	t.Helper()
	records := make([]record.Record, len(objs))
	for i, o := range objs {
		r, err := record.FromObject(o)
		require.NoError(t, err)
		records[i] = r
	}
	e, err := view.New(records, schema, view.WithPageSize(2))
	require.NoError(t, err)
	return e
}

func sample(t *testing.T) *view.Engine {
	return newEngine(t,
		map[string]any{"id": 1, "name": "Ada", "amount": 300, "meta": map[string]any{"region": "eu"}},
		map[string]any{"id": 2, "name": "Grace", "amount": 1200},
		map[string]any{"id": 3, "name": "Linus", "amount": 90, "note": "line1\nline2"},
	)
}

func TestRenderTableLayout(t *testing.T) {
	e, err := view.New(
		[]record.Record{
			{"id": record.Number(1), "name": record.String("Ada")},
			{"id": record.Number(2), "name": record.String("Bob")},
		},
		view.Schema{{Key: "id", Label: "ID"}, {Key: "name", Label: "Name"}},
	)
	require.NoError(t, err)

	got := RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 80})
	want := strings.Join([]string{
		"#  ID  Name",
		"───────────",
		"1  1   Ada",
		"2  2   Bob",
		"Page 1 of 1 · 2 rows",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderTableIndicatorsAndPaging(t *testing.T) {
	e := sample(t)
	e.ToggleSort("amount")
	e.ToggleSort("amount")
	require.True(t, e.SetPage(2))

	got := RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 80})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Amount ▼1")
	assert.True(t, strings.HasPrefix(lines[2], "3  3"), "row numbers continue across pages: %q", lines[2])
	assert.Contains(t, lines[2], "Linus")
	assert.Equal(t, "Page 2 of 2 · 3 rows · sort amount:desc", lines[3])
}

func TestRenderTableEmpty(t *testing.T) {
	e := sample(t)
	require.True(t, e.SetFilterColumn("name"))
	e.SetFilterText("zzz")

	got := RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 80})
	assert.Contains(t, got, NoResults)
	assert.Contains(t, got, `0 rows · filter name ~ "zzz"`)
}

func TestRenderTableVisibility(t *testing.T) {
	e := sample(t)
	require.True(t, e.ToggleColumnVisibility("amount"))

	got := RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 80})
	assert.NotContains(t, got, "Amount")
	assert.NotContains(t, got, "300")

	e.ToggleEditMode()
	got = RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 120})
	assert.Contains(t, got, "[ ] Amount")
	assert.Contains(t, got, "[x] Name")
	assert.Contains(t, got, "editing columns")
}

func TestRenderTableColor(t *testing.T) {
	got := RenderTable(sample(t).Snapshot(), TableOptions{Width: 80})
	assert.Contains(t, got, "Ada")
	assert.Contains(t, got, "\x1b[", "styled output carries ANSI sequences")
}

func TestRenderTableEscapesNewlines(t *testing.T) {
	e, err := view.New(
		[]record.Record{{"id": record.Number(1), "note": record.String("a\nb")}},
		view.Schema{{Key: "id"}, {Key: "note"}},
	)
	require.NoError(t, err)
	got := RenderTable(e.Snapshot(), TableOptions{NoColor: true, Width: 80, HideFooter: true})
	assert.Contains(t, got, `a\nb`)
}

func TestCalculateColumnWidths(t *testing.T) {
	headers := []string{"a", "b"}
	rows := [][]string{{strings.Repeat("x", 50), strings.Repeat("y", 50)}}

	t.Run("fits", func(t *testing.T) {
		got := calculateColumnWidths(headers, rows, 200, make([]ColumnHint, 2))
		assert.Equal(t, []int{50, 50}, got)
	})

	t.Run("proportional", func(t *testing.T) {
		got := calculateColumnWidths(headers, rows, 42, make([]ColumnHint, 2))
		assert.LessOrEqual(t, sum(got), 40)
		assert.Equal(t, got[0], got[1])
	})

	t.Run("priority", func(t *testing.T) {
		got := calculateColumnWidths(headers, rows, 62, []ColumnHint{{Priority: 1}, {Priority: 5}})
		assert.Equal(t, []int{10, 50}, got)
	})

	t.Run("max width", func(t *testing.T) {
		got := calculateColumnWidths(headers, rows, 200, []ColumnHint{{MaxWidth: 5}, {}})
		assert.Equal(t, []int{5, 50}, got)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "日…", truncate("日本語", 4))
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   ab", padLeft("ab", 5))
}

func TestRenderJSON(t *testing.T) {
	e := sample(t)
	require.True(t, e.ToggleColumnVisibility("name"))

	got, err := RenderJSON(e.Snapshot())
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"id": float64(1), "amount": float64(300), "meta.region": "eu"}, rows[0])
	assert.Equal(t, map[string]any{"id": float64(2), "amount": float64(1200)}, rows[1])
	assert.Less(t, strings.Index(got, `"id"`), strings.Index(got, `"amount"`), "column order is kept")
}

func TestRenderYAML(t *testing.T) {
	e := newEngine(t, map[string]any{"id": 1, "name": "multi\nline"})
	got, err := RenderYAML(e.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, got, "name: |-")

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(got), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "multi\nline", rows[0]["name"])
}

func TestRenderCSV(t *testing.T) {
	got, err := RenderCSV(sample(t).Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "id,name,amount,meta.region\n1,Ada,300,eu\n2,Grace,1200,\n", got)
}

func TestRenderTree(t *testing.T) {
	got := RenderTree(sample(t).Snapshot())
	assert.Contains(t, got, "Page 1 of 2 · 3 rows")
	assert.Contains(t, got, "1 (id 1)")
	assert.Contains(t, got, "Name: Ada")
	assert.Contains(t, got, "Region: eu")

	e := sample(t)
	e.SetFilterText("nothing")
	assert.Contains(t, RenderTree(e.Snapshot()), NoResults)
}

func TestParseOutput(t *testing.T) {
	for in, want := range map[string]Output{"": OutputTable, "JSON": OutputJSON, "yml": OutputYAML, "tree": OutputTree, "csv": OutputCSV} {
		got, err := ParseOutput(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseOutput("xml")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	snap := sample(t).Snapshot()
	for _, out := range Outputs {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, snap, out, TableOptions{NoColor: true, Width: 80}), out)
		assert.Contains(t, buf.String(), "Ada", out)
	}
	assert.Error(t, Render(&bytes.Buffer{}, snap, "xml", TableOptions{}))
}
