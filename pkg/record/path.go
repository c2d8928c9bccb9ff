package record

import (
	"strconv"
	"strings"
)

// Path is a parsed field path. Each segment is a map key or a list index.
type Path []string

// ParsePath splits a field path into segments, handling both dot and bracket
// notation:
//
//	"address.city"      -> ["address", "city"]
//	"tags[0]"           -> ["tags", "0"]
//	`meta["x.y"].count` -> ["meta", "x.y", "count"]
func ParsePath(path string) Path {
	var parts Path
	var current strings.Builder

	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch ch {
		case '.':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		case '[':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				parts = append(parts, unquote(path[i+1:j]))
				i = j
			}
		default:
			current.WriteByte(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// String joins the path back into dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Resolve walks p from v. Any missing or null intermediate segment yields
// Absent; the walk never fails.
func (p Path) Resolve(v Value) Value {
	cur := v
	for _, seg := range p {
		switch cur.kind {
		case KindMap:
			cur = cur.Field(seg)
		case KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return Absent()
			}
			cur = cur.Index(idx)
		default:
			return Absent()
		}
		if cur.kind == KindAbsent {
			return cur
		}
	}
	return cur
}

func unquote(seg string) string {
	if len(seg) > 1 && strings.HasPrefix(seg, `"`) && strings.HasSuffix(seg, `"`) {
		return seg[1 : len(seg)-1]
	}
	return seg
}
