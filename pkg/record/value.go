// Package record models the rows a view operates on: field-path-addressable
// mappings whose leaves are a small closed set of value kinds.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindAbsent marks a value that does not exist (missing key, broken path).
	KindAbsent Kind = iota
	// KindNull is an explicit null.
	KindNull
	// KindString holds text.
	KindString
	// KindNumber holds a float64.
	KindNumber
	// KindBool holds a boolean.
	KindBool
	// KindMap holds nested fields.
	KindMap
	// KindList holds an ordered sequence of values.
	KindList
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Value is a tagged variant. The zero Value is Absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	m    map[string]Value
	l    []Value
}

// Absent returns the absent marker.
func Absent() Value { return Value{} }

// Null returns an explicit null.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Map returns a nested mapping value. The map is not copied.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// List returns a list value. The slice is not copied.
func List(l []Value) Value { return Value{kind: KindList, l: l} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is absent or null. Both are treated as "no value"
// by filtering and sorting.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent || v.kind == KindNull
}

// Field returns the nested field named key, or Absent when v is not a map or
// the key is missing.
func (v Value) Field(key string) Value {
	if v.kind != KindMap {
		return Absent()
	}
	return v.m[key]
}

// Index returns the i-th list element, or Absent when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.l) {
		return Absent()
	}
	return v.l[i]
}

// Len returns the number of fields or elements for maps and lists, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.m)
	case KindList:
		return len(v.l)
	default:
		return 0
	}
}

// Float returns the numeric reading of v. Numbers are returned directly;
// strings are parsed as a whole (surrounding whitespace allowed). Infinite
// and NaN results are rejected.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.kind {
	case KindNumber:
		f = v.num
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// String returns the display form of v. Absent and null render as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindMap, KindList:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// Interface converts v to plain Go values (map[string]any, []any, string,
// float64, bool, nil) for encoders and expression engines.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, f := range v.m {
			if f.kind == KindAbsent {
				continue
			}
			out[k] = f.Interface()
		}
		return out
	case KindList:
		out := make([]any, len(v.l))
		for i, e := range v.l {
			out[i] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Keys returns the sorted field names of a map value.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
