package view

import (
	"strconv"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Indicator describes how a column takes part in the sort. A zero Priority
// means the column is not sorted.
type Indicator struct {
	Direction Direction
	// Priority is the 1-based position in the sort spec.
	Priority int
}

// Active reports whether the column is sorted.
func (i Indicator) Active() bool {
	return i.Priority > 0
}

// Glyph returns ▲ for ascending, ▼ for descending, "" when unsorted.
func (i Indicator) Glyph() string {
	if !i.Active() {
		return ""
	}
	if i.Direction == Descending {
		return "▼"
	}
	return "▲"
}

// String returns the glyph followed by the priority, e.g. "▲1".
func (i Indicator) String() string {
	if !i.Active() {
		return ""
	}
	return i.Glyph() + strconv.Itoa(i.Priority)
}

// ColumnView is a schema column as seen by the presentation layer.
type ColumnView struct {
	Column
	Visible bool
	Sort    Indicator
}

// Snapshot is the derived, ready-to-render view.
type Snapshot struct {
	Rows         []record.Record
	Page         int
	TotalPages   int
	TotalRows    int
	PageSize     int
	Sort         SortSpec
	Columns      []ColumnView
	FilterText   string
	FilterColumn string
	EditMode     bool
}

// Empty reports whether no record matches; presentations show a
// "no results" state instead of an empty grid.
func (s Snapshot) Empty() bool {
	return s.TotalRows == 0
}

// VisibleColumns returns the columns whose cells are shown.
func (s Snapshot) VisibleColumns() []ColumnView {
	out := make([]ColumnView, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// HeaderColumns returns the columns that get a header: the visible ones, or
// all of them in edit mode so hidden columns can be toggled back on.
func (s Snapshot) HeaderColumns() []ColumnView {
	if s.EditMode {
		return s.Columns
	}
	return s.VisibleColumns()
}

// HasPrev reports whether a previous page exists.
func (s Snapshot) HasPrev() bool {
	return s.Page > 1
}

// HasNext reports whether a next page exists.
func (s Snapshot) HasNext() bool {
	return s.Page < s.TotalPages
}

// FirstRow returns the 1-based position of the first row on the page within
// the matching set, or 0 when the page is empty.
func (s Snapshot) FirstRow() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return (s.Page-1)*s.PageSize + 1
}

// LastRow returns the 1-based position of the last row on the page.
func (s Snapshot) LastRow() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.FirstRow() + len(s.Rows) - 1
}
