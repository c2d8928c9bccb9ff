package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// IDField is the field that uniquely identifies a record.
const IDField = "id"

// ErrNotObject is returned when a value cannot become a Record.
var ErrNotObject = errors.New("record must be an object")

// Record is one data row. Records are borrowed by views and never mutated.
type Record map[string]Value

// ID returns the string form of the record's id field.
func (r Record) ID() string {
	return r[IDField].String()
}

// Value wraps the record as a map Value so it can be walked by a Path.
func (r Record) Value() Value {
	return Map(r)
}

// Resolve returns the value at p, or Absent.
func (r Record) Resolve(p Path) Value {
	return p.Resolve(r.Value())
}

// Lookup parses path and resolves it.
func (r Record) Lookup(path string) Value {
	return r.Resolve(ParsePath(path))
}

// AsRecord returns the fields of a map value as a Record.
func (v Value) AsRecord() (Record, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return Record(v.m), true
}

// Interface converts the record to a map[string]any.
func (r Record) Interface() map[string]any {
	out, _ := r.Value().Interface().(map[string]any)
	return out
}

// FromObject builds a Record from a decoded object.
func FromObject(obj any) (Record, error) {
	v := FromAny(obj)
	if v.kind != KindMap {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.kind)
	}
	return Record(v.m), nil
}

// FromAny converts decoded data (JSON, YAML, TOML, SQL scans, plain Go
// values) into a Value. Unsupported kinds become their fmt string form.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Record:
		return Map(t)
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case time.Time:
		return String(t.Format(time.RFC3339))
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return Map(m)
	case []any:
		l := make([]Value, len(t))
		for i, e := range t {
			l[i] = FromAny(e)
		}
		return List(l)
	}
	return fromReflect(raw)
}

// fromReflect handles typed containers (map[string]string, []int, map[any]any
// from older YAML decoders, pointers, structs via JSON).
func fromReflect(raw any) Value {
	rv := reflect.ValueOf(raw)
	//exhaustive:ignore // only containers and pointers need special handling
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			m[key] = FromAny(iter.Value().Interface())
		}
		return Map(m)
	case reflect.Slice, reflect.Array:
		l := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			l[i] = FromAny(rv.Index(i).Interface())
		}
		return List(l)
	case reflect.Struct:
		data, err := json.Marshal(raw)
		if err != nil {
			return String(fmt.Sprintf("%v", raw))
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return String(fmt.Sprintf("%v", raw))
		}
		return FromAny(decoded)
	default:
		return String(fmt.Sprintf("%v", raw))
	}
}
