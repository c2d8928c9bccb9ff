package formatter

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/tabula/pkg/record"
)

const (
	ellipsis = "…"
	// DefaultWidth is used when the terminal width cannot be detected.
	DefaultWidth = 120
)

// TerminalWidth returns the width of stdout, or DefaultWidth when stdout is
// not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// Cell returns the single-line display text of v. Absent and null values
// render empty.
func Cell(v record.Value) string {
	if v.IsAbsent() {
		return ""
	}
	s := v.String()
	if strings.ContainsAny(s, "\r\n\t") {
		s = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`, "\t", " ").Replace(s)
	}
	return s
}

// truncate shortens plain text to width display cells, ending in an
// ellipsis when something was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	return runewidth.Truncate(s, width, ellipsis)
}

func padRight(s string, width int) string {
	s = truncate(s, width)
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	s = truncate(s, width)
	return runewidth.FillLeft(s, width)
}

// visibleWidth measures rendered text, ignoring ANSI sequences.
func visibleWidth(s string) int {
	return lipgloss.Width(s)
}
