// Package view derives the visible page of a record collection from view
// state: filter, multi-key sort, pagination and column visibility.
package view

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Common errors returned by the view package.
var (
	// ErrEmptySchema is returned when a view is created without columns.
	ErrEmptySchema = errors.New("column schema is empty")

	// ErrDuplicateColumn is returned when two columns share a key.
	ErrDuplicateColumn = errors.New("duplicate column key")

	// ErrEmptyColumnKey is returned when a column has no key.
	ErrEmptyColumnKey = errors.New("column key is empty")

	// ErrInvalidPageSize is returned for page sizes below 1.
	ErrInvalidPageSize = errors.New("page size must be at least 1")
)

// Column binds a field path to a display label.
type Column struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Title returns the label, falling back to the key.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Schema is the ordered, immutable column configuration of a view.
type Schema []Column

// Validate checks that the schema is non-empty and keys are unique.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return ErrEmptySchema
	}
	seen := make(map[string]bool, len(s))
	for i, c := range s {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("%w: column %d", ErrEmptyColumnKey, i+1)
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

// Has reports whether key names a column.
func (s Schema) Has(key string) bool {
	return s.Index(key) >= 0
}

// Index returns the position of key, or -1.
func (s Schema) Index(key string) int {
	for i, c := range s {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Keys returns the column keys in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, c := range s {
		keys[i] = c.Key
	}
	return keys
}

// InferSchema builds a schema from the top-level fields of the first record,
// with the id field first and the rest in sorted order.
func InferSchema(records []record.Record) Schema {
	if len(records) == 0 {
		return nil
	}
	keys := records[0].Value().Keys()
	schema := make(Schema, 0, len(keys))
	if _, ok := records[0][record.IDField]; ok {
		schema = append(schema, Column{Key: record.IDField, Label: labelFromKey(record.IDField)})
	}
	for _, k := range keys {
		if k == record.IDField {
			continue
		}
		schema = append(schema, Column{Key: k, Label: labelFromKey(k)})
	}
	return schema
}

func labelFromKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, p := range parts {
		if p == "" {
			continue
		}
		if strings.EqualFold(p, "id") {
			parts[i] = "ID"
			continue
		}
		r, n := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[n:]
	}
	return strings.Join(parts, " ")
}
