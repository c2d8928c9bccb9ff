package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Path
	}{
		{name: "single", path: "name", want: Path{"name"}},
		{name: "dotted", path: "address.city", want: Path{"address", "city"}},
		{name: "bracket index", path: "tags[0]", want: Path{"tags", "0"}},
		{name: "bracket then field", path: "items[1].name", want: Path{"items", "1", "name"}},
		{name: "quoted key", path: `meta["x.y"].count`, want: Path{"meta", "x.y", "count"}},
		{name: "empty", path: "", want: nil},
		{name: "stray dots", path: ".a..b.", want: Path{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePath(tt.path))
		})
	}
}

func TestLookup(t *testing.T) {
	rec, err := FromObject(map[string]any{
		"id":   1,
		"name": "Ada",
		"address": map[string]any{
			"city": "London",
			"geo":  nil,
		},
		"tags": []any{"x", "y"},
	})
	require.NoError(t, err)

	assert.Equal(t, "London", rec.Lookup("address.city").String())
	assert.Equal(t, "y", rec.Lookup("tags[1]").String())
	assert.Equal(t, "y", rec.Lookup("tags.1").String())

	t.Run("missing intermediate short-circuits", func(t *testing.T) {
		v := rec.Lookup("company.name")
		assert.Equal(t, KindAbsent, v.Kind())
		assert.True(t, v.IsAbsent())
	})

	t.Run("null intermediate short-circuits", func(t *testing.T) {
		assert.Equal(t, KindAbsent, rec.Lookup("address.geo.lat").Kind())
	})

	t.Run("null leaf is null", func(t *testing.T) {
		v := rec.Lookup("address.geo")
		assert.Equal(t, KindNull, v.Kind())
		assert.True(t, v.IsAbsent())
		assert.Equal(t, "", v.String())
	})

	t.Run("scalar cannot be descended", func(t *testing.T) {
		assert.Equal(t, KindAbsent, rec.Lookup("name.first").Kind())
	})

	t.Run("bad list index", func(t *testing.T) {
		assert.Equal(t, KindAbsent, rec.Lookup("tags.x").Kind())
		assert.Equal(t, KindAbsent, rec.Lookup("tags[5]").Kind())
	})

	assert.Equal(t, "1", rec.ID())
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "absent", v: Absent(), want: ""},
		{name: "null", v: Null(), want: ""},
		{name: "string", v: String("Active"), want: "Active"},
		{name: "integer", v: Number(1500), want: "1500"},
		{name: "fraction", v: Number(12.5), want: "12.5"},
		{name: "negative", v: Number(-3), want: "-3"},
		{name: "bool", v: Bool(true), want: "true"},
		{name: "map", v: Map(map[string]Value{"b": Number(2), "a": String("x")}), want: `{"a":"x","b":2}`},
		{name: "list", v: List([]Value{Number(1), Null()}), want: `[1,null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{name: "number", v: Number(9), want: 9, wantOK: true},
		{name: "numeric string", v: String("10"), want: 10, wantOK: true},
		{name: "padded string", v: String(" 2.5 "), want: 2.5, wantOK: true},
		{name: "exponent", v: String("1e3"), want: 1000, wantOK: true},
		{name: "word", v: String("abc"), wantOK: false},
		{name: "numeric prefix", v: String("2021-03-04"), wantOK: false},
		{name: "empty", v: String(""), wantOK: false},
		{name: "infinity", v: String("Inf"), wantOK: false},
		{name: "nan", v: String("NaN"), wantOK: false},
		{name: "bool", v: Bool(true), wantOK: false},
		{name: "absent", v: Absent(), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Float()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, KindNull, FromAny(nil).Kind())
	assert.Equal(t, "42", FromAny(int64(42)).String())
	assert.Equal(t, "7", FromAny(json.Number("7")).String())
	assert.Equal(t, "x", FromAny([]byte("x")).String())
	assert.Equal(t, "2024-03-01T12:00:00Z", FromAny(when).String())

	typed := FromAny(map[string]string{"k": "v"})
	assert.Equal(t, KindMap, typed.Kind())
	assert.Equal(t, "v", typed.Field("k").String())

	ints := FromAny([]int{3, 4})
	assert.Equal(t, KindList, ints.Kind())
	assert.Equal(t, 2, ints.Len())

	anyKeys := FromAny(map[any]any{1: "one"})
	assert.Equal(t, "one", anyKeys.Field("1").String())

	type person struct {
		Name string `json:"name"`
	}
	fromStruct := FromAny(person{Name: "Grace"})
	assert.Equal(t, "Grace", fromStruct.Field("name").String())

	var nilPtr *person
	assert.Equal(t, KindNull, FromAny(nilPtr).Kind())
}

func TestFromObjectRejectsScalars(t *testing.T) {
	_, err := FromObject("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestInterfaceRoundTrip(t *testing.T) {
	rec, err := FromObject(map[string]any{"id": 1.0, "n": map[string]any{"x": []any{"a"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1.0, "n": map[string]any{"x": []any{"a"}}}, rec.Interface())
	assert.Equal(t, []string{"id", "n"}, rec.Value().Keys())
}
