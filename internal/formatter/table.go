package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// NoResults is printed in place of rows when nothing matches.
const NoResults = "No results found."

const (
	sepWidth    = 2
	minColWidth = 3
	// maxColWidth caps columns before proportional shrinking kicks in.
	maxColWidth = 40
)

// ColumnHint carries per-column display hints from the column file.
type ColumnHint struct {
	// MaxWidth caps the column width in cells. 0 means no cap.
	MaxWidth int `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	// Priority controls shrinking: lower values shrink first.
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`
	// Align is "right" or "left" (default).
	Align string `yaml:"align,omitempty" json:"align,omitempty"`
}

// TableOptions configures RenderTable.
type TableOptions struct {
	NoColor bool
	// Width is the total available width. 0 uses the terminal width.
	Width int
	// HideRowNumbers drops the leading # column.
	HideRowNumbers bool
	// HideFooter drops the page/filter/sort summary line.
	HideFooter bool
	Hints      map[string]ColumnHint
}

// RenderTable renders the snapshot page as an aligned text table with a
// header row, sort indicators, and a summary footer. In edit mode every
// column is listed with a visibility checkbox.
func RenderTable(snap view.Snapshot, opts TableOptions) string {
	cols := snap.HeaderColumns()
	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = headerText(c, snap.EditMode)
	}
	rows := CellRows(snap.Rows, cols)

	showRowNum := !opts.HideRowNumbers
	rowNumWidth := 0
	if showRowNum {
		rowNumWidth = len(strconv.Itoa(max(snap.LastRow(), 1)))
	}

	available := totalWidth
	if showRowNum {
		available -= rowNumWidth + sepWidth
	}
	hints := make([]ColumnHint, len(cols))
	for i, c := range cols {
		hints[i] = opts.Hints[c.Key]
	}
	widths := calculateColumnWidths(headers, rows, available, hints)

	var b strings.Builder
	b.WriteString(renderHeader(cols, headers, widths, rowNumWidth, showRowNum, snap.EditMode, opts.NoColor))
	b.WriteByte('\n')

	lineWidth := 0
	if showRowNum {
		lineWidth = rowNumWidth + sepWidth
	}
	for i, w := range widths {
		lineWidth += w
		if i < len(widths)-1 {
			lineWidth += sepWidth
		}
	}
	if snap.Empty() {
		lineWidth = max(lineWidth, len(NoResults))
	}
	separator := strings.Repeat("─", lineWidth)
	if !opts.NoColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator)
	b.WriteByte('\n')

	if snap.Empty() {
		b.WriteString(NoResults)
		b.WriteByte('\n')
	}
	for i, row := range rows {
		b.WriteString(renderDataRow(snap.FirstRow()+i, row, widths, rowNumWidth, showRowNum, hints, opts.NoColor))
		b.WriteByte('\n')
	}

	if !opts.HideFooter {
		b.WriteString(Footer(snap))
		b.WriteByte('\n')
	}
	return b.String()
}

// CellRows resolves each record against cols.
func CellRows(records []record.Record, cols []view.ColumnView) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = Cell(rec.Lookup(c.Key))
		}
		rows[i] = row
	}
	return rows
}

// HeaderText is the title of c followed by its sort indicator, e.g.
// "Amount ▼1".
func HeaderText(c view.ColumnView) string {
	if c.Sort.Active() {
		return c.Title() + " " + c.Sort.String()
	}
	return c.Title()
}

func headerText(c view.ColumnView, editMode bool) string {
	if !editMode {
		return HeaderText(c)
	}
	box := "[ ] "
	if c.Visible {
		box = "[x] "
	}
	return box + HeaderText(c)
}

// Footer summarizes paging, filter and sort, e.g.
// `Page 2 of 3 · 25 rows · filter name ~ "user" · sort amount:desc`.
func Footer(snap view.Snapshot) string {
	parts := make([]string, 0, 4)
	if snap.Empty() {
		parts = append(parts, "0 rows")
	} else {
		parts = append(parts, fmt.Sprintf("Page %d of %d", snap.Page, snap.TotalPages), pluralRows(snap.TotalRows))
	}
	if snap.FilterText != "" {
		parts = append(parts, fmt.Sprintf("filter %s ~ %q", snap.FilterColumn, snap.FilterText))
	}
	if len(snap.Sort) > 0 {
		parts = append(parts, "sort "+snap.Sort.String())
	}
	if snap.EditMode {
		parts = append(parts, "editing columns")
	}
	return strings.Join(parts, " · ")
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}

func renderHeader(cols []view.ColumnView, headers []string, widths []int, rowNumWidth int, showRowNum, editMode, noColor bool) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(headers)+1)

	if showRowNum {
		h := padRight("#", rowNumWidth)
		if !noColor {
			h = headerStyle.Render(h)
		}
		parts = append(parts, h)
	}

	for i, text := range headers {
		cell := padRight(text, widths[i])
		if !noColor {
			switch {
			case editMode && !cols[i].Visible:
				cell = hiddenStyle.Render(cell)
			case cols[i].Sort.Active():
				cell = indicatorStyle.Render(cell)
			default:
				cell = headerStyle.Render(cell)
			}
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, sep)
}

func renderDataRow(rowNum int, values []string, widths []int, rowNumWidth int, showRowNum bool, hints []ColumnHint, noColor bool) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(values)+1)

	if showRowNum {
		n := padLeft(strconv.Itoa(rowNum), rowNumWidth)
		if !noColor {
			n = rowNumberStyle.Render(n)
		}
		parts = append(parts, n)
	}

	for i, val := range values {
		var cell string
		if hints[i].Align == "right" {
			cell = padLeft(val, widths[i])
		} else {
			cell = padRight(val, widths[i])
		}
		if !noColor {
			cell = valueStyle.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.TrimRight(strings.Join(parts, sep), " ")
}

// ColumnWidths sizes columns for the given headers and cell rows so that
// they fit width. hints may be nil.
func ColumnWidths(headers []string, rows [][]string, width int, hints []ColumnHint) []int {
	if len(hints) != len(headers) {
		hints = make([]ColumnHint, len(headers))
	}
	return calculateColumnWidths(headers, rows, width, hints)
}

// calculateColumnWidths sizes columns to their content, then shrinks them to
// fit availableWidth: by priority when hints set one, proportionally
// otherwise.
func calculateColumnWidths(headers []string, rows [][]string, availableWidth int, hints []ColumnHint) []int {
	numCols := len(headers)
	if numCols == 0 {
		return nil
	}

	widths := make([]int, numCols)
	for i, h := range headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if w := visibleWidth(val); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if hints[i].MaxWidth > 0 && widths[i] > hints[i].MaxWidth {
			widths[i] = hints[i].MaxWidth
		}
	}

	usable := availableWidth - (numCols-1)*sepWidth
	if usable <= 0 || sum(widths) <= usable {
		return widths
	}

	if hasPriorities(hints) {
		return shrinkByPriority(widths, usable, hints)
	}

	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	total := sum(widths)
	if total <= usable {
		return widths
	}
	for i := range widths {
		widths[i] = max(widths[i]*usable/total, minColWidth)
	}
	for sum(widths) > usable {
		widest := 0
		for i := 1; i < numCols; i++ {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func hasPriorities(hints []ColumnHint) bool {
	for _, h := range hints {
		if h.Priority != 0 {
			return true
		}
	}
	return false
}

// shrinkByPriority takes width from the lowest-priority columns first.
func shrinkByPriority(widths []int, usable int, hints []ColumnHint) []int {
	excess := sum(widths) - usable
	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return hints[order[a]].Priority < hints[order[b]].Priority
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrink := min(widths[idx]-minColWidth, excess)
		if shrink <= 0 {
			continue
		}
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
