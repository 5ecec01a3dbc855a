package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPath is returned when a textual path cannot be parsed.
var ErrBadPath = errors.New("malformed field path")

// Segment is one step of a Path: either a named key or a list index.
type Segment struct {
	Key     string
	Index   int
	isIndex bool
}

// IsIndex reports whether the segment addresses a list element.
func (s Segment) IsIndex() bool { return s.isIndex }

func (s Segment) key() string {
	if s.isIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses one value inside a form's value shape, for example
// Field("passengers").At(0).Field("firstName").
type Path []Segment

// Field starts a path at a top-level field.
func Field(name string) Path {
	return Path{{Key: name}}
}

// Field returns a copy of p extended by a named key.
func (p Path) Field(name string) Path {
	return p.with(Segment{Key: name})
}

// At returns a copy of p extended by a list index.
func (p Path) At(i int) Path {
	return p.with(Segment{Index: i, isIndex: true})
}

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// Root is the top-level field name of the path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].key()
}

// String renders the path as `passengers[0].firstName`. The rendering is the
// key used in Errors and the touched map.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		switch {
		case s.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		case i == 0:
			b.WriteString(s.Key)
		default:
			b.WriteByte('.')
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// ParsePath parses the String form of a path. Bracketed numbers become
// index segments; any other bracketed text becomes a key segment.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadPath)
	}
	var p Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			if i == 0 || i == len(s)-1 || s[i+1] == '.' || s[i+1] == '[' {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
			}
			i++
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end <= 1 {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
			}
			inner := s[i+1 : i+end]
			if n, err := strconv.Atoi(inner); err == nil && n >= 0 {
				p = append(p, Segment{Index: n, isIndex: true})
			} else {
				p = append(p, Segment{Key: inner})
			}
			i += end + 1
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			p = append(p, Segment{Key: s[i:j]})
			i = j
		}
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
	}
	return p, nil
}

// MustParsePath is ParsePath for literals known to be valid.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}
