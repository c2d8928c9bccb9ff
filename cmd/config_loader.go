package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabula/internal/formatter"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// columnFile is the YAML column schema given with --columns-file:
//
//	columns:
//	  - key: id
//	    label: ID
//	    align: right
//	  - key: address.city
//	    label: City
//	    max_width: 20
//	    hidden: true
//	page_size: 25
//	filter_column: name
//	sort: [status, "amount:desc"]
//	colors:
//	  header_fg: "15"
//	  header_bg: "24"
type columnFile struct {
	Columns      []columnEntry `yaml:"columns"`
	PageSize     int           `yaml:"page_size,omitempty"`
	FilterColumn string        `yaml:"filter_column,omitempty"`
	Sort         []string      `yaml:"sort,omitempty"`
	Colors       colorConfig   `yaml:"colors,omitempty"`
}

// colorConfig holds lipgloss color strings: ANSI codes ("12") or hex ("#ff8800").
type colorConfig struct {
	HeaderFG   string `yaml:"header_fg,omitempty"`
	HeaderBG   string `yaml:"header_bg,omitempty"`
	RowNumber  string `yaml:"row_number,omitempty"`
	Value      string `yaml:"value,omitempty"`
	Separator  string `yaml:"separator,omitempty"`
	Indicator  string `yaml:"indicator,omitempty"`
	SelectedFG string `yaml:"selected_fg,omitempty"`
	SelectedBG string `yaml:"selected_bg,omitempty"`
}

func (c colorConfig) isZero() bool {
	return c == (colorConfig{})
}

// TableColors converts the configured strings; empty entries stay nil so
// the formatter defaults apply.
func (c colorConfig) TableColors() formatter.TableColors {
	conv := func(s string) color.Color {
		if s == "" {
			return nil
		}
		return lipgloss.Color(s)
	}
	return formatter.TableColors{
		HeaderFG:       conv(c.HeaderFG),
		HeaderBG:       conv(c.HeaderBG),
		RowNumberColor: conv(c.RowNumber),
		ValueColor:     conv(c.Value),
		SeparatorColor: conv(c.Separator),
		IndicatorColor: conv(c.Indicator),
		SelectedFG:     conv(c.SelectedFG),
		SelectedBG:     conv(c.SelectedBG),
	}
}

type columnEntry struct {
	Key    string `yaml:"key"`
	Label  string `yaml:"label,omitempty"`
	Hidden bool   `yaml:"hidden,omitempty"`

	formatter.ColumnHint `yaml:",inline"`
}

func loadColumnFile(path string) (columnFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return columnFile{}, err
	}
	cfg, err := parseColumnFile(data)
	if err != nil {
		return columnFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseColumnFile decodes and validates a column file. Unknown fields are
// rejected so typos do not silently fall back to defaults.
func parseColumnFile(data []byte) (columnFile, error) {
	var cfg columnFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode column file: %w", err)
	}

	if len(cfg.Columns) > 0 {
		if err := cfg.Schema().Validate(); err != nil {
			return cfg, err
		}
	}
	if cfg.PageSize < 0 {
		return cfg, fmt.Errorf("%w: got %d", view.ErrInvalidPageSize, cfg.PageSize)
	}
	for _, c := range cfg.Columns {
		switch strings.ToLower(c.Align) {
		case "", "left", "right":
		default:
			return cfg, fmt.Errorf("column %q: invalid align %q (use left or right)", c.Key, c.Align)
		}
		if c.MaxWidth < 0 {
			return cfg, fmt.Errorf("column %q: max_width must not be negative", c.Key)
		}
	}
	if cfg.FilterColumn != "" && len(cfg.Columns) > 0 && !cfg.Schema().Has(cfg.FilterColumn) {
		return cfg, fmt.Errorf("filter_column %q is not a configured column", cfg.FilterColumn)
	}
	if _, err := cfg.SortKeys(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Schema returns the configured columns, or nil when the file names none.
func (c columnFile) Schema() view.Schema {
	if len(c.Columns) == 0 {
		return nil
	}
	schema := make(view.Schema, len(c.Columns))
	for i, col := range c.Columns {
		schema[i] = view.Column{Key: col.Key, Label: col.Label}
	}
	return schema
}

// Hints returns the display hints keyed by column key.
func (c columnFile) Hints() map[string]formatter.ColumnHint {
	if len(c.Columns) == 0 {
		return nil
	}
	hints := make(map[string]formatter.ColumnHint, len(c.Columns))
	for _, col := range c.Columns {
		h := col.ColumnHint
		h.Align = strings.ToLower(h.Align)
		hints[col.Key] = h
	}
	return hints
}

// HiddenKeys lists the columns hidden at start.
func (c columnFile) HiddenKeys() []string {
	var keys []string
	for _, col := range c.Columns {
		if col.Hidden {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// SortKeys parses the initial sort of the column file.
func (c columnFile) SortKeys() (view.SortSpec, error) {
	var s sortFlag
	for _, v := range c.Sort {
		if err := s.Set(v); err != nil {
			return nil, fmt.Errorf("sort: %w", err)
		}
	}
	return s.keys, nil
}
