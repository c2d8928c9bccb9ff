package view

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Comparer orders record values. It holds a collator and is not safe for
// concurrent use; create one per goroutine.
type Comparer struct {
	col *collate.Collator
}

// NewComparer returns a Comparer using the root-locale collation.
func NewComparer() *Comparer {
	return &Comparer{col: collate.New(language.Und)}
}

// Compare returns a negative, zero, or positive number.
//
// Absent and null values sort before any present value. When both values read
// as finite numbers they compare numerically. Everything else, including a
// numeric value against a non-numeric one, compares by string form under the
// collator. That last case is total but not numerically consistent across a
// mixed column ("9" vs "abc" is decided lexically).
func (c *Comparer) Compare(a, b record.Value) int {
	aAbsent, bAbsent := a.IsAbsent(), b.IsAbsent()
	switch {
	case aAbsent && bAbsent:
		return 0
	case aAbsent:
		return -1
	case bAbsent:
		return 1
	}

	if af, ok := a.Float(); ok {
		if bf, ok := b.Float(); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	return c.col.CompareString(a.String(), b.String())
}

// CompareValues compares a and b with a fresh Comparer.
func CompareValues(a, b record.Value) int {
	return NewComparer().Compare(a, b)
}
