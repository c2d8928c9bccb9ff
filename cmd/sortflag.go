package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/tabula/pkg/view"
)

var _ pflag.Value = (*sortFlag)(nil)

// sortFlag collects repeated --sort key[:asc|:desc] values into a SortSpec.
type sortFlag struct {
	keys view.SortSpec
}

func (s *sortFlag) String() string {
	return s.keys.String()
}

func (s *sortFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		k, err := parseSortKey(part)
		if err != nil {
			return err
		}
		if s.keys.Index(k.Key) >= 0 {
			return fmt.Errorf("sort key %q given twice", k.Key)
		}
		s.keys = append(s.keys, k)
	}
	return nil
}

func (s *sortFlag) Type() string {
	return "key[:dir]"
}

// parseSortKey parses "key", "key:asc" or "key:desc". The direction is split
// at the last colon so keys may not contain one.
func parseSortKey(s string) (view.SortKey, error) {
	s = strings.TrimSpace(s)
	key, dir := s, ""
	if i := strings.LastIndex(s, ":"); i >= 0 {
		key, dir = s[:i], s[i+1:]
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return view.SortKey{}, fmt.Errorf("invalid sort %q: missing key", s)
	}
	d, err := view.ParseDirection(dir)
	if err != nil {
		return view.SortKey{}, err
	}
	return view.SortKey{Key: key, Direction: d}, nil
}
