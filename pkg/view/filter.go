package view

import (
	"strings"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Filter keeps the records whose value at column contains text, ignoring
// case. Absent and null values read as the empty string. Matches keep their
// input order. An empty text returns records itself.
func Filter(records []record.Record, column, text string) []record.Record {
	if text == "" {
		return records
	}
	needle := strings.ToLower(text)
	path := record.ParsePath(column)

	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Resolve(path).String()), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Predicate decides whether a record takes part in a view at all. It runs
// before the text filter.
type Predicate func(record.Record) bool

// Where keeps the records accepted by pred. A nil predicate returns records
// itself.
func Where(records []record.Record, pred Predicate) []record.Record {
	if pred == nil {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
