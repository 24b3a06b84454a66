package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one hop of a field path: either an object key or a list index.
type Segment struct {
	Key   string
	Index int
	IsIdx bool
}

func Key(k string) Segment { return Segment{Key: k} }
func Idx(i int) Segment    { return Segment{Index: i, IsIdx: true} }

// FieldPath addresses one field inside the draft as an ordered list of
// segments. Callers build paths from segments directly; the dotted-string
// form only exists at the HTTP boundary.
type FieldPath []Segment

func Path(segs ...Segment) FieldPath { return FieldPath(segs) }

func (p FieldPath) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		if s.IsIdx {
			b.WriteString(strconv.Itoa(s.Index))
		} else {
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// ParsePath converts the dashboard's dotted/bracketed form ("address.city",
// "location.coordinates[1]") into segments. Only used where client strings
// enter the system.
func ParsePath(s string) (FieldPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty field path")
	}
	raw := strings.FieldsFunc(strings.ReplaceAll(s, "]", ""), func(r rune) bool {
		return r == '.' || r == '['
	})
	p := make(FieldPath, 0, len(raw))
	for _, part := range raw {
		if n, err := strconv.Atoi(part); err == nil {
			p = append(p, Idx(n))
			continue
		}
		p = append(p, Key(part))
	}
	return p, nil
}

// ChangeOp selects the update discipline for a field change.
type ChangeOp int

const (
	// OpSet assigns the value directly (with numeric coercion where the
	// target field is numeric).
	OpSet ChangeOp = iota
	// OpToggle adds or removes Value from a multi-select list field
	// depending on Checked.
	OpToggle
	// OpAppend appends Value to a list field (highlight tags).
	OpAppend
)

// FieldChange is one user edit applied to the draft.
type FieldChange struct {
	Path    FieldPath
	Value   any
	Op      ChangeOp
	Checked bool // only for OpToggle
}
