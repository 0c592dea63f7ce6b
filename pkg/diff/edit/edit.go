// Package edit defines the unit of a line-level diff: the Edit and its two
// HalfEdits, joinability between edits, and the edit-script text format
// they serialize to and parse from.
package edit

import (
	"strconv"
	"strings"

	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/diff/parser"
)

const pkgName = "diff/edit"

// Operation tags which side of an Edit carries content.
type Operation int

const (
	Insert Operation = iota
	Delete
	Replace
)

func (op Operation) script() byte {
	switch op {
	case Insert:
		return 'a'
	case Delete:
		return 'd'
	default:
		return 'r'
	}
}

// HalfEdit is one side (original or modified) of an Edit: the 0-based
// starting line in that side's sequence, and the lines it carries.
type HalfEdit struct {
	Line    uint64
	Content []string
}

// joinable reports whether the end of one half meets the start of the
// other, on either side.
func (h HalfEdit) joinable(other HalfEdit) bool {
	return h.Line+uint64(len(h.Content)) == other.Line ||
		other.Line+uint64(len(other.Content)) == h.Line
}

// Edit is one section of a diff: an Insert, Delete, or Replace spanning a
// contiguous run of lines on each side.
type Edit struct {
	Op       Operation
	Original HalfEdit
	Modified HalfEdit
}

// New builds an Edit of the given kind at edit-graph position (x, y), with
// the given per-side content.
func New(op Operation, x, y uint64, originalContent, modifiedContent []string) Edit {
	switch op {
	case Insert:
		return Edit{
			Op:       Insert,
			Original: HalfEdit{Line: x},
			Modified: HalfEdit{Line: y, Content: modifiedContent},
		}
	case Delete:
		return Edit{
			Op:       Delete,
			Original: HalfEdit{Line: x, Content: originalContent},
			Modified: HalfEdit{Line: y},
		}
	default:
		return Edit{
			Op:       Replace,
			Original: HalfEdit{Line: x, Content: originalContent},
			Modified: HalfEdit{Line: y, Content: modifiedContent},
		}
	}
}

// Joinable reports whether e and other can be fused into a single Edit:
// their Original halves are contiguous and their Modified halves are
// contiguous.
func (e Edit) Joinable(other Edit) bool {
	return e.Original.joinable(other.Original) && e.Modified.joinable(other.Modified)
}

// Join fuses other into e, consuming it. Joining an Insert with a Delete
// (or vice versa) promotes e.Op to Replace, since both sides end up
// carrying content. Returns an error if the edits are not joinable.
func (e *Edit) Join(other Edit) error {
	if !e.Joinable(other) {
		return err.New(pkgName, err.CodeParse, "join", "edits are not joinable", nil)
	}

	e.Original.Content = append(e.Original.Content, other.Original.Content...)
	if other.Original.Line < e.Original.Line {
		e.Original.Line = other.Original.Line
	}

	e.Modified.Content = append(e.Modified.Content, other.Modified.Content...)
	if other.Modified.Line < e.Modified.Line {
		e.Modified.Line = other.Modified.Line
	}

	if len(e.Original.Content) > 0 && len(e.Modified.Content) > 0 {
		e.Op = Replace
	}
	return nil
}

// ToEditScript renders e in the edit-script text format: a header line
// "o1,o2Xm1,m2", the original lines prefixed "< ", a "---" separator, and
// the modified lines prefixed "> ". The end of an empty half (Insert's
// original side, Delete's modified side) is one less than its start,
// computed with uint64 wraparound; lineSpanCount's matching wraparound
// subtraction on the parse side recovers a length of 0 from it.
func (e Edit) ToEditScript() string {
	var b strings.Builder

	o1 := e.Original.Line
	o2 := o1 + uint64(len(e.Original.Content)) - 1
	m1 := e.Modified.Line
	m2 := m1 + uint64(len(e.Modified.Content)) - 1

	b.WriteString(strconv.FormatUint(o1, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(o2, 10))
	b.WriteByte(e.Op.script())
	b.WriteString(strconv.FormatUint(m1, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(m2, 10))
	b.WriteByte('\n')

	for i, line := range e.Original.Content {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("< ")
		b.WriteString(line)
	}
	if len(e.Original.Content) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("---\n")
	for i, line := range e.Modified.Content {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("> ")
		b.WriteString(line)
	}

	return b.String()
}

// ParseEditScript parses one Edit's text off the front of script, returning
// the unconsumed remainder.
func ParseEditScript(script string) (remainder string, e Edit, parseErr error) {
	r, ogStart, readErr := parser.ReadUint64(script)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}
	r, skipErr := parser.SkipSequence(r, ",")
	if skipErr != nil {
		return "", Edit{}, err.Wrap(skipErr, pkgName, "parse_edit_script")
	}
	r, ogEnd, readErr := parser.ReadUint64(r)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}

	if len(r) == 0 {
		return "", Edit{}, err.New(pkgName, err.CodeParse, "parse_edit_script", "missing operation", nil)
	}
	var op Operation
	switch r[0] {
	case 'r':
		op = Replace
	case 'a':
		op = Insert
	case 'd':
		op = Delete
	default:
		return "", Edit{}, err.New(pkgName, err.CodeParse, "parse_edit_script",
			"invalid operation", nil).WithContext("char", string(r[0]))
	}
	r = r[1:]

	r, modStart, readErr := parser.ReadUint64(r)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}
	r, skipErr = parser.SkipSequence(r, ",")
	if skipErr != nil {
		return "", Edit{}, err.Wrap(skipErr, pkgName, "parse_edit_script")
	}
	r, modEnd, readErr := parser.ReadUint64(r)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}

	r, skipErr = parser.SkipSequence(r, "\n")
	if skipErr != nil {
		return "", Edit{}, err.Wrap(skipErr, pkgName, "parse_edit_script")
	}

	ogCount := lineSpanCount(ogStart, ogEnd)
	r, ogLines, readErr := parser.ReadLines(r, ogCount)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}
	r, skipErr = parser.SkipSequence(r, "---\n")
	if skipErr != nil {
		return "", Edit{}, err.Wrap(skipErr, pkgName, "parse_edit_script")
	}

	modCount := lineSpanCount(modStart, modEnd)
	r, modLines, readErr := parser.ReadLines(r, modCount)
	if readErr != nil {
		return "", Edit{}, err.Wrap(readErr, pkgName, "parse_edit_script")
	}

	ogContent, stripErr := stripPrefixAll(ogLines, "< ")
	if stripErr != nil {
		return "", Edit{}, err.Wrap(stripErr, pkgName, "parse_edit_script")
	}
	modContent, stripErr := stripPrefixAll(modLines, "> ")
	if stripErr != nil {
		return "", Edit{}, err.Wrap(stripErr, pkgName, "parse_edit_script")
	}

	return r, Edit{
		Op:       op,
		Original: HalfEdit{Line: ogStart, Content: ogContent},
		Modified: HalfEdit{Line: modStart, Content: modContent},
	}, nil
}

// lineSpanCount recovers |content| from a serialized "start,end" pair via
// end - start + 1. For an empty half this is exactly the wraparound
// inverse of how ToEditScript computed end from a zero-length content
// (start - 1), so the subtraction lands back on 0 regardless of start.
func lineSpanCount(start, end uint64) uint64 {
	return end - start + 1
}

func stripPrefixAll(lines []string, prefix string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		stripped, ok := strings.CutPrefix(l, prefix)
		if !ok {
			return nil, err.New(pkgName, err.CodeParse, "parse_edit_script",
				"content formatted incorrectly", nil).WithContext("line", l)
		}
		out[i] = stripped
	}
	return out, nil
}
