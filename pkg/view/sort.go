package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Direction is the order of a single sort key.
type Direction int

const (
	// Ascending sorts smaller values first.
	Ascending Direction = iota
	// Descending sorts larger values first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// ParseDirection accepts asc/ascending and desc/descending, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q (use asc or desc)", s)
	}
}

// MarshalText encodes the direction as "asc" or "desc".
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "asc"/"desc" (and their long forms).
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortKey is one entry of a SortSpec.
type SortKey struct {
	Key       string    `yaml:"key" json:"key"`
	Direction Direction `yaml:"direction" json:"direction"`
}

// SortSpec is an ordered list of sort keys. The first entry is the primary
// key; each field key appears at most once.
type SortSpec []SortKey

// KeyState is the per-key position in the sort cycle.
type KeyState int

const (
	// Unsorted means the key is not in the spec.
	Unsorted KeyState = iota
	// SortedAscending means the key is in the spec ascending.
	SortedAscending
	// SortedDescending means the key is in the spec descending.
	SortedDescending
)

// next is the per-key transition table driven by a toggle.
var next = map[KeyState]KeyState{
	Unsorted:         SortedAscending,
	SortedAscending:  SortedDescending,
	SortedDescending: Unsorted,
}

// Index returns the priority position of key, or -1.
func (s SortSpec) Index(key string) int {
	for i, k := range s {
		if k.Key == key {
			return i
		}
	}
	return -1
}

// State reports where key currently sits in the cycle.
func (s SortSpec) State(key string) KeyState {
	i := s.Index(key)
	if i < 0 {
		return Unsorted
	}
	if s[i].Direction == Descending {
		return SortedDescending
	}
	return SortedAscending
}

// Toggle returns a new spec with key advanced one step through
// unsorted -> ascending -> descending -> unsorted. A newly added key goes to
// the end; a flip keeps its position; a removal shifts later keys up.
// The receiver is not modified.
func (s SortSpec) Toggle(key string) SortSpec {
	i := s.Index(key)
	switch next[s.State(key)] {
	case SortedAscending:
		out := slices.Clone(s)
		return append(out, SortKey{Key: key, Direction: Ascending})
	case SortedDescending:
		out := slices.Clone(s)
		out[i].Direction = Descending
		return out
	default:
		out := make(SortSpec, 0, len(s))
		out = append(out, s[:i]...)
		return append(out, s[i+1:]...)
	}
}

// String renders the spec as "a:asc,b:desc".
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.Key + ":" + k.Direction.String()
	}
	return strings.Join(parts, ",")
}

// Sort returns records ordered by spec. An empty spec returns the input
// unchanged. Otherwise a new slice is stably sorted: keys are compared in
// priority order, descending keys negate the comparison, and records that tie
// on every key keep their input order.
func Sort(records []record.Record, spec SortSpec) []record.Record {
	if len(spec) == 0 {
		return records
	}

	paths := make([]record.Path, len(spec))
	for i, k := range spec {
		paths[i] = record.ParsePath(k.Key)
	}

	// Resolve every key once per record instead of once per comparison.
	type keyed struct {
		rec  record.Record
		vals []record.Value
	}
	rows := make([]keyed, len(records))
	for i, r := range records {
		vals := make([]record.Value, len(paths))
		for j, p := range paths {
			vals[j] = r.Resolve(p)
		}
		rows[i] = keyed{rec: r, vals: vals}
	}

	cmp := NewComparer()
	slices.SortStableFunc(rows, func(a, b keyed) int {
		for j, k := range spec {
			c := cmp.Compare(a.vals[j], b.vals[j])
			if c == 0 {
				continue
			}
			if k.Direction == Descending {
				return -c
			}
			return c
		}
		return 0
	})

	out := make([]record.Record, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out
}
