package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// Output names a rendering of a snapshot.
type Output string

// Supported outputs.
const (
	OutputTable Output = "table"
	OutputJSON  Output = "json"
	OutputYAML  Output = "yaml"
	OutputCSV   Output = "csv"
	OutputTree  Output = "tree"
)

// Outputs lists every valid Output, for flag help and completion.
var Outputs = []Output{OutputTable, OutputJSON, OutputYAML, OutputCSV, OutputTree}

// ParseOutput validates an -o value. An empty string means table.
func ParseOutput(s string) (Output, error) {
	o := Output(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return OutputTable, nil
	}
	if o == "yml" {
		return OutputYAML, nil
	}
	for _, valid := range Outputs {
		if o == valid {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid output %q: valid values are table, json, yaml, csv, tree", s)
}

// Render writes snap to w in the given output.
func Render(w io.Writer, snap view.Snapshot, out Output, opts TableOptions) error {
	var (
		text string
		err  error
	)
	switch out {
	case OutputJSON:
		text, err = RenderJSON(snap)
	case OutputYAML:
		text, err = RenderYAML(snap)
	case OutputCSV:
		text, err = RenderCSV(snap)
	case OutputTree:
		text = RenderTree(snap)
	case "", OutputTable:
		text = RenderTable(snap, opts)
	default:
		return fmt.Errorf("unsupported output %q", out)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// orderedRow marshals a record restricted to visible columns, keeping
// column order. Absent fields are left out.
type orderedRow struct {
	rec  record.Record
	cols []view.ColumnView
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, c := range r.cols {
		v := r.rec.Lookup(c.Key)
		if v.Kind() == record.KindAbsent {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RenderJSON renders the page rows as an indented JSON array.
func RenderJSON(snap view.Snapshot) (string, error) {
	cols := snap.VisibleColumns()
	rows := make([]orderedRow, len(snap.Rows))
	for i, rec := range snap.Rows {
		rows[i] = orderedRow{rec: rec, cols: cols}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data) + "\n", nil
}

// RenderYAML renders the page rows as a YAML sequence in column order.
// Multi-line strings become literal blocks.
func RenderYAML(snap view.Snapshot) (string, error) {
	cols := snap.VisibleColumns()
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range snap.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range cols {
			v := rec.Lookup(c.Key)
			if v.Kind() == record.KindAbsent {
				continue
			}
			var val yaml.Node
			if err := val.Encode(v.Interface()); err != nil {
				return "", fmt.Errorf("column %s: %w", c.Key, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key}, &val)
		}
		seq.Content = append(seq.Content, m)
	}
	applyLiteralStyle(seq)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}

// RenderCSV renders a header of column keys followed by the page rows.
func RenderCSV(snap view.Snapshot) (string, error) {
	cols := snap.VisibleColumns()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Key
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, rec := range snap.Rows {
		row := make([]string, len(cols))
		for i, c := range cols {
			if v := rec.Lookup(c.Key); !v.IsAbsent() {
				row[i] = v.String()
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}
	return buf.String(), nil
}
