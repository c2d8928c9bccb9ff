package ui

// Action is what a key press does to the view.
type Action string

const (
	ActionNone         Action = ""
	ActionLeft         Action = "left"
	ActionRight        Action = "right"
	ActionSort         Action = "sort"
	ActionFilter       Action = "filter"
	ActionFilterColumn Action = "filter_column"
	ActionFilterHere   Action = "filter_here"
	ActionNextPage     Action = "next_page"
	ActionPrevPage     Action = "prev_page"
	ActionFirstPage    Action = "first_page"
	ActionLastPage     Action = "last_page"
	ActionEditMode     Action = "edit_mode"
	ActionToggleColumn Action = "toggle_column"
	ActionShowAll      Action = "show_all"
	ActionClearFilter  Action = "clear_filter"
	ActionClearSort    Action = "clear_sort"
	ActionHelp         Action = "help"
	ActionQuit         Action = "quit"
)

// KeyBindings maps key strings (as reported by tea.KeyPressMsg.String) to
// actions. Digits 1-9 are handled separately as "sort by column n".
var KeyBindings = map[string]Action{
	"left":   ActionLeft,
	"h":      ActionLeft,
	"right":  ActionRight,
	"l":      ActionRight,
	"s":      ActionSort,
	"enter":  ActionSort,
	"/":      ActionFilter,
	"tab":    ActionFilterColumn,
	"f":      ActionFilterHere,
	"n":      ActionNextPage,
	"pgdown": ActionNextPage,
	"p":      ActionPrevPage,
	"pgup":   ActionPrevPage,
	"home":   ActionFirstPage,
	"g":      ActionFirstPage,
	"end":    ActionLastPage,
	"G":      ActionLastPage,
	"e":      ActionEditMode,
	"space":  ActionToggleColumn,
	" ":      ActionToggleColumn,
	"a":      ActionShowAll,
	"c":      ActionClearFilter,
	"x":      ActionClearSort,
	"?":      ActionHelp,
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
}

// helpRows lists the bindings shown by the help panel.
var helpRows = [][2]string{
	{"←/→ h/l", "focus column"},
	{"↑/↓", "move row cursor"},
	{"s enter", "cycle sort on focused column (asc, desc, off)"},
	{"1-9", "cycle sort on column n"},
	{"/", "edit filter text (enter keeps, esc reverts)"},
	{"tab", "next filter column"},
	{"f", "filter on focused column"},
	{"n p", "next/previous page"},
	{"g G", "first/last page"},
	{"e", "toggle column edit mode"},
	{"space", "show/hide focused column (edit mode)"},
	{"a", "show all columns (edit mode)"},
	{"c x", "clear filter / clear sort"},
	{"?", "toggle help"},
	{"q", "quit"},
}
