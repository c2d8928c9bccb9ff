package loader

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// loadCSV turns CSV text into a list of objects keyed by the header row.
// Short rows are padded with empty strings.
func loadCSV(input string) ([]any, error) {
	reader := csv.NewReader(strings.NewReader(input))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(rows) == 0 {
		return []any{}, nil
	}

	headers := rows[0]
	out := make([]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		obj := make(map[string]any, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(row) {
				value = row[j]
			}
			obj[header] = value
		}
		out = append(out, obj)
	}
	return out, nil
}
