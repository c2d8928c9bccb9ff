package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/tabula/pkg/record"
)

var (
	// ErrNoCollection is returned when no array of records can be located.
	ErrNoCollection = errors.New("no record collection found")
	// ErrNotRecord is returned when a collection element is not an object.
	ErrNotRecord = errors.New("collection element is not an object")
	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Records turns decoded documents into records. With root set, the
// collection is the list at that path in the single document. Otherwise a
// stream of several documents is one record per document, and a single
// document must be a list or an object with exactly one list field.
func Records(docs []any, root string) ([]record.Record, error) {
	items, err := collection(docs, root)
	if err != nil {
		return nil, err
	}

	out := make([]record.Record, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		rec, ok := item.AsRecord()
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s", ErrNotRecord, i, item.Kind())
		}
		if rec[record.IDField].IsAbsent() {
			rec = withID(rec, i+1)
		}
		id := rec.ID()
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q at elements %d and %d", ErrDuplicateID, id, prev, i)
		}
		seen[id] = i
		out = append(out, rec)
	}
	return out, nil
}

// FromRows converts already decoded rows (for example SQL scans).
func FromRows(rows []map[string]any) ([]record.Record, error) {
	items := make([]any, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	return Records([]any{items}, "")
}

func collection(docs []any, root string) ([]record.Value, error) {
	if root != "" {
		if len(docs) != 1 {
			return nil, fmt.Errorf("%w: --root needs a single document, got %d", ErrNoCollection, len(docs))
		}
		v := record.ParsePath(root).Resolve(record.FromAny(docs[0]))
		if v.Kind() != record.KindList {
			return nil, fmt.Errorf("%w: %q is %s, not a list", ErrNoCollection, root, v.Kind())
		}
		return elements(v), nil
	}

	if len(docs) > 1 {
		items := make([]record.Value, len(docs))
		for i, d := range docs {
			items[i] = record.FromAny(d)
		}
		return items, nil
	}
	if len(docs) == 0 {
		return nil, ErrNoCollection
	}

	v := record.FromAny(docs[0])
	switch v.Kind() {
	case record.KindList:
		return elements(v), nil
	case record.KindMap:
		var lists []string
		for _, k := range v.Keys() {
			if v.Field(k).Kind() == record.KindList {
				lists = append(lists, k)
			}
		}
		if len(lists) == 1 {
			return elements(v.Field(lists[0])), nil
		}
		if len(lists) > 1 {
			return nil, fmt.Errorf("%w: several list fields (%s), pick one with --root", ErrNoCollection, strings.Join(lists, ", "))
		}
		return nil, fmt.Errorf("%w: object has no list field", ErrNoCollection)
	default:
		return nil, fmt.Errorf("%w: document is %s", ErrNoCollection, v.Kind())
	}
}

func elements(v record.Value) []record.Value {
	out := make([]record.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

func withID(rec record.Record, pos int) record.Record {
	out := make(record.Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	out[record.IDField] = record.Number(float64(pos))
	return out
}
