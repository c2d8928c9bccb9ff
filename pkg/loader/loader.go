// Package loader decodes JSON, NDJSON, YAML, TOML, CSV and SQLite sources
// into records.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabula/pkg/record"
)

// Format names an input encoding.
type Format string

// Supported formats. FormatAuto sniffs the content.
const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatCSV    Format = "csv"
)

// ErrEmptyInput is returned when there is nothing to decode.
var ErrEmptyInput = errors.New("empty input")

// ParseFormat validates a --format value. An empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatNDJSON, FormatYAML, FormatTOML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, json, ndjson, yaml, toml or csv)", s)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".csv":
		return FormatCSV
	default:
		return FormatAuto
	}
}

// Options controls how a source becomes records.
type Options struct {
	// Format forces a decoder. Zero value and FormatAuto sniff the input.
	Format Format
	// Root is a path (a.b[0].c) to the collection inside the decoded document.
	Root   string
	Logger logr.Logger
}

// Decode parses input into its documents. Single-document formats return a
// one-element slice.
func Decode(input string, format Format, log logr.Logger) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	switch format {
	case FormatJSON:
		return loadJSON(input)
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatYAML:
		if hasDocumentSeparator(input) {
			return loadMultiDocYAML(input)
		}
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatCSV:
		rows, err := loadCSV(input)
		if err != nil {
			return nil, err
		}
		return []any{rows}, nil
	case "", FormatAuto:
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if hasDocumentSeparator(input) {
		log.V(1).Info("detected format", "format", "multi-document yaml")
		return loadMultiDocYAML(input)
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		log.V(1).Info("detected format", "format", FormatNDJSON)
		return loadNDJSON(input)
	}

	// TOML [section] headers look like JSON arrays, so check them first.
	if isLikelyTOML(input) {
		log.V(1).Info("detected format", "format", FormatTOML)
		return loadTOML(input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		docs, err := loadJSON(input)
		if err == nil {
			log.V(1).Info("detected format", "format", FormatJSON)
			return docs, nil
		}
		log.V(1).Info("json decode failed, trying yaml", "error", err.Error())
	}

	log.V(1).Info("detected format", "format", FormatYAML)
	return loadYAML(input)
}

// LoadRecords decodes data and extracts its records.
func LoadRecords(data []byte, opts Options) ([]record.Record, error) {
	docs, err := Decode(string(data), opts.Format, opts.Logger)
	if err != nil {
		return nil, err
	}
	return Records(docs, opts.Root)
}

// LoadReader reads r fully and loads it.
func LoadReader(r io.Reader, opts Options) ([]record.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadRecords(data, opts)
}

// LoadFile loads records from path. With no explicit format the file
// extension is used before falling back to sniffing.
func LoadFile(path string, opts Options) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if opts.Format == "" || opts.Format == FormatAuto {
		opts.Format = FormatFromPath(path)
	}
	records, err := LoadRecords(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	opts.Logger.V(1).Info("loaded file", "path", path, "records", len(records))
	return records, nil
}

func hasDocumentSeparator(input string) bool {
	return strings.Contains(input, "\n---") || strings.HasPrefix(input, "---")
}

func loadJSON(input string) ([]any, error) {
	var data any
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{data}, nil
}

func loadYAML(input string) ([]any, error) {
	var data any
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{data}, nil
}

func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON decodes one JSON value per non-blank line. Unlike free-form
// exploration, every line must parse: a record source has no use for stray
// strings.
func loadNDJSON(input string) ([]any, error) {
	lines := strings.Split(input, "\n")
	results := make([]any, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("invalid NDJSON on line %d: %w", i+1, err)
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, ErrEmptyInput
	}
	return results, nil
}

// isLikelyNDJSON reports whether most non-empty lines start like a JSON
// value. YAML lists ("- name") never qualify.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]; not [1, 2, 3].
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// key = value, as opposed to YAML's key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	return sectionCount > 0 || (nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2)
}

func loadTOML(input string) ([]any, error) {
	var data any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
