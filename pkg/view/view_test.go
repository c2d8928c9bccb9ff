package view

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tabula/pkg/record"
)

func mustRecords(t *testing.T, objs ...map[string]any) []record.Record {
	t.Helper()
	out := make([]record.Record, len(objs))
	for i, o := range objs {
		r, err := record.FromObject(o)
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

// numbered returns n records with ids 1..n.
func numbered(t *testing.T, n int) []record.Record {
	t.Helper()
	objs := make([]map[string]any, n)
	for i := range objs {
		objs[i] = map[string]any{"id": i + 1, "name": fmt.Sprintf("user %d", i+1)}
	}
	return mustRecords(t, objs...)
}

func statusRecords(t *testing.T) []record.Record {
	return mustRecords(t,
		map[string]any{"id": 1, "name": "Ada", "status": "Active", "amount": 300},
		map[string]any{"id": 2, "name": "Bob", "status": "Pending", "amount": 1200},
		map[string]any{"id": 3, "name": "Cyd", "status": "Inactive", "amount": 90},
		map[string]any{"id": 4, "name": "Dee", "status": "Closed"},
		map[string]any{"id": 5, "name": "Eve", "status": "active", "amount": "1200"},
	)
}

func TestFilter(t *testing.T) {
	records := statusRecords(t)

	t.Run("empty text is identity", func(t *testing.T) {
		got := Filter(records, "status", "")
		require.Len(t, got, len(records))
		assert.Same(t, &records[0], &got[0])
		assert.Equal(t, ids(records), ids(got))
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		got := Filter(records, "status", "active")
		assert.Equal(t, []string{"1", "3", "5"}, ids(got))
	})

	t.Run("upper-case needle", func(t *testing.T) {
		got := Filter(records, "status", "ACT")
		assert.Equal(t, []string{"1", "3", "5"}, ids(got))
	})

	t.Run("numeric field matches on string form", func(t *testing.T) {
		got := Filter(records, "amount", "120")
		assert.Equal(t, []string{"2", "5"}, ids(got))
	})

	t.Run("absent field reads as empty", func(t *testing.T) {
		assert.Empty(t, Filter(records, "missing", "a"))
		assert.Empty(t, Filter(records, "amount", "x"))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Filter(records, "name", "e")
		twice := Filter(once, "name", "e")
		assert.Equal(t, ids(once), ids(twice))
	})

	t.Run("nested path", func(t *testing.T) {
		nested := mustRecords(t,
			map[string]any{"id": 1, "address": map[string]any{"city": "Paris"}},
			map[string]any{"id": 2, "address": nil},
			map[string]any{"id": 3, "address": map[string]any{"city": "Lyon"}},
		)
		assert.Equal(t, []string{"1"}, ids(Filter(nested, "address.city", "par")))
	})
}

func TestWhere(t *testing.T) {
	records := statusRecords(t)
	assert.Equal(t, ids(records), ids(Where(records, nil)))

	bigSpenders := Where(records, func(r record.Record) bool {
		f, ok := r.Lookup("amount").Float()
		return ok && f >= 1000
	})
	assert.Equal(t, []string{"2", "5"}, ids(bigSpenders))
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b record.Value
		want int
	}{
		{name: "numeric strings compare numerically", a: record.String("10"), b: record.String("9"), want: 1},
		{name: "lexicographic", a: record.String("b"), b: record.String("a"), want: 1},
		{name: "null first", a: record.Null(), b: record.String("a"), want: -1},
		{name: "absent first", a: record.Absent(), b: record.Number(0), want: -1},
		{name: "present after absent", a: record.String("a"), b: record.Absent(), want: 1},
		{name: "both absent", a: record.Absent(), b: record.Null(), want: 0},
		{name: "number against numeric string", a: record.Number(2), b: record.String("10"), want: -1},
		{name: "equal numbers in different spellings", a: record.String("2.5"), b: record.String("2.50"), want: 0},
		{name: "negative numbers", a: record.Number(-5), b: record.Number(-1), want: -1},
		{name: "mixed falls back to strings", a: record.String("9"), b: record.String("abc"), want: -1},
		{name: "collation ignores case order", a: record.String("apple"), b: record.String("Banana"), want: -1},
		{name: "iso dates compare as strings", a: record.String("2021-12-01"), b: record.String("2021-02-01"), want: 1},
		{name: "equal strings", a: record.String("x"), b: record.String("x"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareValues(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestSort(t *testing.T) {
	records := statusRecords(t)

	t.Run("empty spec is identity", func(t *testing.T) {
		got := Sort(records, nil)
		assert.Same(t, &records[0], &got[0])
	})

	t.Run("numeric ascending with absent first", func(t *testing.T) {
		got := Sort(records, SortSpec{{Key: "amount", Direction: Ascending}})
		assert.Equal(t, []string{"4", "3", "1", "2", "5"}, ids(got))
	})

	t.Run("descending puts absent last", func(t *testing.T) {
		got := Sort(records, SortSpec{{Key: "amount", Direction: Descending}})
		assert.Equal(t, []string{"2", "5", "1", "3", "4"}, ids(got))
	})

	t.Run("input is not reordered", func(t *testing.T) {
		before := ids(records)
		Sort(records, SortSpec{{Key: "name", Direction: Descending}})
		assert.Equal(t, before, ids(records))
	})

	t.Run("stable on full ties", func(t *testing.T) {
		tied := mustRecords(t,
			map[string]any{"id": "a", "group": 1},
			map[string]any{"id": "b", "group": 2},
			map[string]any{"id": "c", "group": 1},
			map[string]any{"id": "d", "group": 2},
			map[string]any{"id": "e", "group": 1},
		)
		asc := Sort(tied, SortSpec{{Key: "group", Direction: Ascending}})
		assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(asc))
		desc := Sort(tied, SortSpec{{Key: "group", Direction: Descending}})
		assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(desc))
	})

	t.Run("multi-key tie-break", func(t *testing.T) {
		rows := mustRecords(t,
			map[string]any{"id": 1, "a": "x", "b": 1},
			map[string]any{"id": 2, "a": "y", "b": 5},
			map[string]any{"id": 3, "a": "x", "b": 3},
			map[string]any{"id": 4, "a": "y", "b": 2},
			map[string]any{"id": 5, "a": "x", "b": 2},
		)
		got := Sort(rows, SortSpec{
			{Key: "a", Direction: Ascending},
			{Key: "b", Direction: Descending},
		})
		assert.Equal(t, []string{"3", "5", "1", "2", "4"}, ids(got))
	})

	t.Run("nested key", func(t *testing.T) {
		rows := mustRecords(t,
			map[string]any{"id": 1, "address": map[string]any{"city": "Rome"}},
			map[string]any{"id": 2},
			map[string]any{"id": 3, "address": map[string]any{"city": "Oslo"}},
		)
		got := Sort(rows, SortSpec{{Key: "address.city"}})
		assert.Equal(t, []string{"2", "3", "1"}, ids(got))
	})
}

func TestSortSpecToggle(t *testing.T) {
	t.Run("full cycle", func(t *testing.T) {
		var spec SortSpec
		spec = spec.Toggle("name")
		assert.Equal(t, SortSpec{{Key: "name", Direction: Ascending}}, spec)
		assert.Equal(t, SortedAscending, spec.State("name"))

		spec = spec.Toggle("name")
		assert.Equal(t, SortSpec{{Key: "name", Direction: Descending}}, spec)
		assert.Equal(t, SortedDescending, spec.State("name"))

		spec = spec.Toggle("name")
		assert.Equal(t, -1, spec.Index("name"))
		assert.Equal(t, Unsorted, spec.State("name"))
		assert.Empty(t, spec)
	})

	t.Run("appends at lowest priority", func(t *testing.T) {
		spec := SortSpec{}.Toggle("a").Toggle("b").Toggle("c")
		assert.Equal(t, "a:asc,b:asc,c:asc", spec.String())
	})

	t.Run("flip keeps position", func(t *testing.T) {
		spec := SortSpec{}.Toggle("a").Toggle("b").Toggle("a")
		assert.Equal(t, "a:desc,b:asc", spec.String())
	})

	t.Run("removal shifts later keys up", func(t *testing.T) {
		spec := SortSpec{}.Toggle("a").Toggle("b").Toggle("c").Toggle("b").Toggle("b")
		assert.Equal(t, "a:asc,c:asc", spec.String())
		assert.Equal(t, 1, spec.Index("c"))
	})

	t.Run("receiver untouched", func(t *testing.T) {
		orig := SortSpec{{Key: "a", Direction: Ascending}}
		_ = orig.Toggle("a")
		_ = orig.Toggle("b")
		assert.Equal(t, SortSpec{{Key: "a", Direction: Ascending}}, orig)
	})
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Ascending, "asc": Ascending, "ASCENDING": Ascending, "desc": Descending, " descending ": Descending} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	require.Error(t, err)

	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("desc")))
	assert.Equal(t, Descending, d)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "desc", string(text))
}

func TestPaginate(t *testing.T) {
	records := numbered(t, 25)

	page1, total := Paginate(records, 1, 10)
	assert.Equal(t, 3, total)
	assert.Len(t, page1, 10)
	assert.Equal(t, "1", page1[0].ID())

	page3, _ := Paginate(records, 3, 10)
	assert.Len(t, page3, 5)
	assert.Equal(t, []string{"21", "22", "23", "24", "25"}, ids(page3))

	beyond, total := Paginate(records, 4, 10)
	assert.Empty(t, beyond)
	assert.Equal(t, 3, total)

	zero, _ := Paginate(records, 0, 10)
	assert.Empty(t, zero)

	none, total := Paginate(nil, 1, 10)
	assert.Empty(t, none)
	assert.Equal(t, 0, total)

	all, total := Paginate(records, 1, 0)
	assert.Len(t, all, 25)
	assert.Equal(t, 1, total)
}

func TestPaginationCoverage(t *testing.T) {
	for n := 0; n <= 23; n++ {
		records := numbered(t, n)
		for size := 1; size <= 12; size++ {
			_, total := Paginate(records, 1, size)
			var joined []record.Record
			for p := 1; p <= total; p++ {
				page, _ := Paginate(records, p, size)
				assert.LessOrEqual(t, len(page), size)
				joined = append(joined, page...)
			}
			assert.Equal(t, ids(records), ids(joined), "n=%d size=%d", n, size)
		}
	}
}

func TestSchema(t *testing.T) {
	assert.ErrorIs(t, Schema{}.Validate(), ErrEmptySchema)
	assert.ErrorIs(t, Schema{{Key: "a"}, {Key: "a"}}.Validate(), ErrDuplicateColumn)
	assert.ErrorIs(t, Schema{{Key: " "}}.Validate(), ErrEmptyColumnKey)
	require.NoError(t, Schema{{Key: "a"}, {Key: "b.c"}}.Validate())

	assert.Equal(t, "amount", Column{Key: "amount"}.Title())
	assert.Equal(t, "Amount", Column{Key: "amount", Label: "Amount"}.Title())
}

func TestInferSchema(t *testing.T) {
	records := mustRecords(t, map[string]any{"status": "x", "id": 1, "created_at": "2024-01-01", "name": "n"})
	schema := InferSchema(records)
	assert.Equal(t, Schema{
		{Key: "id", Label: "ID"},
		{Key: "created_at", Label: "Created At"},
		{Key: "name", Label: "Name"},
		{Key: "status", Label: "Status"},
	}, schema)
	assert.Nil(t, InferSchema(nil))
}

func TestInferSchemaNonASCIIKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"été", "Été"},
		{"ñame", "Ñame"},
		{"über_größe", "Über Größe"},
		{"日付", "日付"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			schema := InferSchema(mustRecords(t, map[string]any{"id": 1, tt.key: "x"}))
			require.Len(t, schema, 2)
			assert.Equal(t, tt.want, schema[1].Label)
			assert.True(t, utf8.ValidString(schema[1].Label))
		})
	}
}
