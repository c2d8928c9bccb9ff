package view

import (
	"maps"
	"slices"
)

// State is the user-controlled input of a view. It is owned by an Engine and
// changed only through the Engine's transitions.
type State struct {
	FilterText   string          `yaml:"filter_text" json:"filter_text"`
	FilterColumn string          `yaml:"filter_column" json:"filter_column"`
	Sort         SortSpec        `yaml:"sort" json:"sort"`
	Page         int             `yaml:"page" json:"page"`
	Visible      map[string]bool `yaml:"visible" json:"visible"`
	EditMode     bool            `yaml:"edit_mode" json:"edit_mode"`
}

// NewState returns the default state for schema: no filter text, the first
// column as filter column, no sort, page 1, every column visible.
func NewState(schema Schema) State {
	visible := make(map[string]bool, len(schema))
	for _, c := range schema {
		visible[c.Key] = true
	}
	s := State{
		Sort:    SortSpec{},
		Page:    1,
		Visible: visible,
	}
	if len(schema) > 0 {
		s.FilterColumn = schema[0].Key
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Sort = slices.Clone(s.Sort)
	out.Visible = maps.Clone(s.Visible)
	return out
}
