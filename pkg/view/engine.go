package view

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// DefaultPageSize is used when no page size option is given.
const DefaultPageSize = 10

// Engine owns the state of one view over a borrowed record collection and
// derives the visible page from it. It is not safe for concurrent use; drive
// it from a single event loop.
type Engine struct {
	records  []record.Record
	schema   Schema
	pageSize int
	pred     Predicate
	log      logr.Logger
	state    State
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the number of rows per page.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		e.pageSize = n
	}
}

// WithPredicate restricts the view to records accepted by pred.
func WithPredicate(pred Predicate) Option {
	return func(e *Engine) {
		e.pred = pred
	}
}

// WithLogger sets the logger used for transition tracing at V(1).
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an Engine with default state. records are not copied and must
// not be modified while the Engine is in use.
func New(records []record.Record, schema Schema, opts ...Option) (*Engine, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		records:  records,
		schema:   schema,
		pageSize: DefaultPageSize,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pageSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, e.pageSize)
	}
	e.state = NewState(schema)
	return e, nil
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state.Clone()
}

// Schema returns the column schema.
func (e *Engine) Schema() Schema {
	return e.schema
}

// PageSize returns the number of rows per page.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Records returns the full, underived collection.
func (e *Engine) Records() []record.Record {
	return e.records
}

// SetFilterText replaces the filter text. The page is clamped into the new
// page range so a narrower filter never leaves the view past its last page.
func (e *Engine) SetFilterText(text string) {
	e.state.FilterText = text
	e.clamp()
	e.log.V(1).Info("set filter text", "text", text, "page", e.state.Page)
}

// SetFilterColumn selects the column the filter text applies to. Keys that
// are not in the schema are ignored and false is returned.
func (e *Engine) SetFilterColumn(key string) bool {
	if !e.schema.Has(key) {
		e.log.V(1).Info("ignoring unknown filter column", "column", key)
		return false
	}
	e.state.FilterColumn = key
	e.clamp()
	e.log.V(1).Info("set filter column", "column", key, "page", e.state.Page)
	return true
}

// CycleFilterColumn moves the filter column to the next schema column,
// wrapping around.
func (e *Engine) CycleFilterColumn() {
	i := e.schema.Index(e.state.FilterColumn)
	e.SetFilterColumn(e.schema[(i+1)%len(e.schema)].Key)
}

// ClearFilter empties the filter text.
func (e *Engine) ClearFilter() {
	e.SetFilterText("")
}

// ToggleSort advances key through unsorted -> ascending -> descending ->
// unsorted and returns to the first page.
func (e *Engine) ToggleSort(key string) {
	e.state.Sort = e.state.Sort.Toggle(key)
	e.state.Page = 1
	e.log.V(1).Info("toggle sort", "key", key, "sort", e.state.Sort.String())
}

// ClearSort removes every sort key and returns to the first page.
func (e *Engine) ClearSort() {
	e.state.Sort = SortSpec{}
	e.state.Page = 1
	e.log.V(1).Info("clear sort")
}

// SetPage moves to page n. Pages outside [1, max(TotalPages, 1)] are
// rejected and leave the state unchanged.
func (e *Engine) SetPage(n int) bool {
	total := e.TotalPages()
	if n < 1 || n > max(total, 1) {
		e.log.V(1).Info("ignoring out-of-range page", "page", n, "total_pages", total)
		return false
	}
	e.state.Page = n
	e.log.V(1).Info("set page", "page", n)
	return true
}

// NextPage advances one page when possible.
func (e *Engine) NextPage() bool {
	return e.SetPage(e.state.Page + 1)
}

// PrevPage goes back one page when possible.
func (e *Engine) PrevPage() bool {
	return e.SetPage(e.state.Page - 1)
}

// ToggleColumnVisibility flips the visibility of a schema column. Unknown
// keys are ignored and false is returned.
func (e *Engine) ToggleColumnVisibility(key string) bool {
	if _, ok := e.state.Visible[key]; !ok {
		return false
	}
	e.state.Visible[key] = !e.state.Visible[key]
	e.log.V(1).Info("toggle column visibility", "column", key, "visible", e.state.Visible[key])
	return true
}

// ShowAllColumns marks every column visible.
func (e *Engine) ShowAllColumns() {
	for k := range e.state.Visible {
		e.state.Visible[k] = true
	}
}

// ToggleEditMode flips the column-editing presentation flag.
func (e *Engine) ToggleEditMode() {
	e.state.EditMode = !e.state.EditMode
}

// Matching returns the filtered and sorted collection, before pagination.
func (e *Engine) Matching() []record.Record {
	return Sort(e.filtered(), e.state.Sort)
}

// TotalPages returns the page count of the current filter.
func (e *Engine) TotalPages() int {
	return TotalPages(len(e.filtered()), e.pageSize)
}

// Snapshot derives the current page and everything a presentation layer
// needs to draw it. The result is valid until the next transition.
func (e *Engine) Snapshot() Snapshot {
	matching := e.Matching()
	rows, total := Paginate(matching, e.state.Page, e.pageSize)

	columns := make([]ColumnView, len(e.schema))
	for i, c := range e.schema {
		cv := ColumnView{Column: c, Visible: e.state.Visible[c.Key]}
		if p := e.state.Sort.Index(c.Key); p >= 0 {
			cv.Sort = Indicator{Direction: e.state.Sort[p].Direction, Priority: p + 1}
		}
		columns[i] = cv
	}

	return Snapshot{
		Rows:         rows,
		Page:         e.state.Page,
		TotalPages:   total,
		TotalRows:    len(matching),
		PageSize:     e.pageSize,
		Sort:         e.state.Clone().Sort,
		Columns:      columns,
		FilterText:   e.state.FilterText,
		FilterColumn: e.state.FilterColumn,
		EditMode:     e.state.EditMode,
	}
}

func (e *Engine) filtered() []record.Record {
	return Filter(Where(e.records, e.pred), e.state.FilterColumn, e.state.FilterText)
}

func (e *Engine) clamp() {
	e.state.Page = clampPage(e.state.Page, e.TotalPages())
}
