// Package ui is the interactive terminal front end: a Bubble Tea model that
// turns key presses into view engine transitions and renders the snapshot.
package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tabula/internal/formatter"
	"github.com/oakwood-commons/tabula/internal/ui/table"
	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// chromeLines is the number of lines around the table: title, filter,
// footer, status and key hint.
const chromeLines = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	emptyStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))
)

// Options configures the interactive model.
type Options struct {
	// Title is shown in the first line, usually the source file name.
	Title   string
	NoColor bool
	// Width and Height force the window size; 0 waits for the terminal.
	Width  int
	Height int
	Hints  map[string]formatter.ColumnHint
	Colors formatter.TableColors
	Logger logr.Logger
}

// Model drives a view.Engine from the keyboard.
type Model struct {
	engine *view.Engine
	opts   Options
	log    logr.Logger

	table *table.Model[record.Record]
	cols  []view.ColumnView
	snap  view.Snapshot

	filterInput  textinput.Model
	filtering    bool
	filterBefore string

	// focus indexes the header columns of the current snapshot.
	focus    int
	width    int
	height   int
	showHelp bool
	status   string
}

// New builds a model over engine.
func New(engine *view.Engine, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 200
	ti.SetWidth(40)
	ti.Prompt = ""
	ti.SetValue(engine.State().FilterText)

	m := &Model{
		engine:      engine,
		opts:        opts,
		log:         opts.Logger,
		filterInput: ti,
		width:       opts.Width,
		height:      opts.Height,
	}
	m.table = table.NewModel(m.toRow)
	m.table.SetNoColor(opts.NoColor)
	if !opts.NoColor {
		c := opts.Colors
		m.table.SetColors(c.HeaderFG, c.HeaderBG, c.SelectedFG, c.SelectedBG)
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the snapshot currently on screen.
func (m *Model) Snapshot() view.Snapshot {
	return m.snap
}

// FocusedColumn returns the column under the column cursor.
func (m *Model) FocusedColumn() (view.ColumnView, bool) {
	cols := m.snap.HeaderColumns()
	if len(cols) == 0 {
		return view.ColumnView{}, false
	}
	return cols[m.focus], true
}

// Filtering reports whether the filter input has the keyboard.
func (m *Model) Filtering() bool {
	return m.filtering
}

// Status returns the last status message.
func (m *Model) Status() string {
	return m.status
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.opts.Width > 0 && m.opts.Height > 0 {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.sync()
		return m, nil

	case tea.KeyPressMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		m.status = ""
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue(m.filterBefore)
		m.engine.SetFilterText(m.filterBefore)
		m.status = "filter reverted"
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if v := m.filterInput.Value(); v != m.engine.State().FilterText {
		m.engine.SetFilterText(v)
		m.sync()
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.sortByPosition(int(key[0] - '0'))
		return m, nil
	}

	action, ok := KeyBindings[key]
	if !ok {
		// Row navigation (up/down/j/k) belongs to the table.
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.log.V(1).Info("key", "key", key, "action", string(action))

	switch action {
	case ActionQuit:
		return m, tea.Quit
	case ActionLeft:
		if m.focus > 0 {
			m.focus--
		}
	case ActionRight:
		if m.focus < len(m.snap.HeaderColumns())-1 {
			m.focus++
		}
	case ActionSort:
		if c, ok := m.FocusedColumn(); ok {
			m.engine.ToggleSort(c.Key)
			m.status = sortStatus(m.engine.State().Sort)
		}
	case ActionFilter:
		m.filtering = true
		m.filterBefore = m.engine.State().FilterText
		m.filterInput.SetValue(m.filterBefore)
		m.filterInput.CursorEnd()
		m.status = "enter keeps the filter, esc reverts"
		return m, m.filterInput.Focus()
	case ActionFilterColumn:
		m.engine.CycleFilterColumn()
		m.status = "filtering on " + m.engine.State().FilterColumn
	case ActionFilterHere:
		if c, ok := m.FocusedColumn(); ok {
			m.engine.SetFilterColumn(c.Key)
			m.status = "filtering on " + c.Key
		}
	case ActionNextPage:
		if !m.engine.NextPage() {
			m.status = "last page"
		}
	case ActionPrevPage:
		if !m.engine.PrevPage() {
			m.status = "first page"
		}
	case ActionFirstPage:
		m.engine.SetPage(1)
	case ActionLastPage:
		m.engine.SetPage(max(m.snap.TotalPages, 1))
	case ActionEditMode:
		m.engine.ToggleEditMode()
		if m.engine.State().EditMode {
			m.status = "space shows/hides the focused column, e when done"
		} else {
			m.status = ""
		}
	case ActionToggleColumn:
		if c, ok := m.FocusedColumn(); ok && m.snap.EditMode {
			m.engine.ToggleColumnVisibility(c.Key)
		}
	case ActionShowAll:
		if m.snap.EditMode {
			m.engine.ShowAllColumns()
		}
	case ActionClearFilter:
		m.engine.ClearFilter()
		m.filterInput.SetValue("")
		m.status = "filter cleared"
	case ActionClearSort:
		m.engine.ClearSort()
		m.status = "sort cleared"
	case ActionHelp:
		m.showHelp = !m.showHelp
	case ActionNone:
	}
	m.sync()
	return m, nil
}

func (m *Model) sortByPosition(n int) {
	cols := m.snap.HeaderColumns()
	if n > len(cols) {
		m.status = fmt.Sprintf("no column %d", n)
		return
	}
	m.engine.ToggleSort(cols[n-1].Key)
	m.status = sortStatus(m.engine.State().Sort)
	m.sync()
}

func sortStatus(spec view.SortSpec) string {
	if len(spec) == 0 {
		return "unsorted"
	}
	return "sort " + spec.String()
}

// sync recomputes the snapshot and pushes it into the table.
func (m *Model) sync() {
	m.snap = m.engine.Snapshot()
	m.cols = m.snap.HeaderColumns()
	if m.focus >= len(m.cols) {
		m.focus = max(len(m.cols)-1, 0)
	}

	headers := make([]string, len(m.cols))
	for i, c := range m.cols {
		headers[i] = m.headerTitle(i, c)
	}
	cells := formatter.CellRows(m.snap.Rows, m.cols)

	width := m.width
	if width <= 0 {
		width = formatter.DefaultWidth
	}
	hints := make([]formatter.ColumnHint, len(m.cols))
	for i, c := range m.cols {
		hints[i] = m.opts.Hints[c.Key]
	}
	// Each bubbles cell carries one column of right padding.
	widths := formatter.ColumnWidths(headers, cells, width-len(m.cols), hints)

	columns := make([]table.Column, len(m.cols))
	for i := range m.cols {
		columns[i] = table.Column{Title: headers[i], Width: widths[i]}
	}
	m.table.SetData(columns, m.snap.Rows)

	tableHeight := m.snap.PageSize + 2
	if m.height > 0 {
		tableHeight = max(m.height-chromeLines, 3)
	}
	m.table.SetSize(width, tableHeight)
}

func (m *Model) toRow(rec record.Record) table.Row {
	row := make(table.Row, len(m.cols))
	for i, c := range m.cols {
		row[i] = formatter.Cell(rec.Lookup(c.Key))
	}
	return row
}

func (m *Model) headerTitle(i int, c view.ColumnView) string {
	title := formatter.HeaderText(c)
	if m.snap.EditMode {
		if c.Visible {
			title = "[x] " + title
		} else {
			title = "[ ] " + title
		}
	}
	if i == m.focus {
		return "▸" + title
	}
	return title
}

func (m *Model) style(s lipgloss.Style, text string) string {
	if m.opts.NoColor {
		return text
	}
	return s.Render(text)
}

// Render returns the screen content as a string.
func (m *Model) Render() string {
	var b strings.Builder

	title := "tabula"
	if m.opts.Title != "" {
		title += " · " + m.opts.Title
	}
	b.WriteString(m.style(titleStyle, title))
	b.WriteByte('\n')

	label := fmt.Sprintf("Filter (%s): ", m.snap.FilterColumn)
	b.WriteString(m.style(labelStyle, label))
	if m.filtering {
		b.WriteString(m.filterInput.View())
	} else {
		b.WriteString(m.snap.FilterText)
	}
	b.WriteByte('\n')

	b.WriteString(m.table.View())
	b.WriteByte('\n')
	if m.snap.Empty() {
		b.WriteString(m.style(emptyStyle, formatter.NoResults))
		b.WriteByte('\n')
	}

	b.WriteString(m.style(footerStyle, formatter.Footer(m.snap)))
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(m.style(statusStyle, m.status))
		b.WriteByte('\n')
	}

	if m.showHelp {
		for _, row := range helpRows {
			fmt.Fprintf(&b, "  %-10s %s\n", row[0], row[1])
		}
	} else {
		b.WriteString(m.style(footerStyle, "? help · / filter · s sort · e columns · q quit"))
	}
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}
