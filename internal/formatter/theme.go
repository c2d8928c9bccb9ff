// Package formatter renders view snapshots as text: a styled table for
// terminals and JSON, YAML, CSV or tree output for pipes.
package formatter

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultRowNumber  = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")
	defaultIndicator  = lipgloss.Color("11")

	headerStyle    lipgloss.Style
	rowNumberStyle lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	indicatorStyle lipgloss.Style
	hiddenStyle    lipgloss.Style
)

// TableColors controls the rendered colors of RenderTable. Nil fields use
// the defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	RowNumberColor color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
	IndicatorColor color.Color
	// SelectedFG and SelectedBG color the cursor row of the interactive view.
	SelectedFG color.Color
	SelectedBG color.Color
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

func applyTableTheme(tc TableColors) {
	hfg := orDefault(tc.HeaderFG, defaultHeaderFG)
	hbg := orDefault(tc.HeaderBG, defaultHeaderBG)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(hfg).Background(hbg)
	rowNumberStyle = lipgloss.NewStyle().Foreground(orDefault(tc.RowNumberColor, defaultRowNumber))
	valueStyle = lipgloss.NewStyle().Foreground(orDefault(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(orDefault(tc.SeparatorColor, defaultSeparator))
	indicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(orDefault(tc.IndicatorColor, defaultIndicator)).Background(hbg)
	hiddenStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true).Background(hbg)
}

// SetTableTheme overrides the package table styles.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}
