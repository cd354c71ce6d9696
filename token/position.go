package token

import "fmt"

// Position is a location in a document. Line and Column are zero-based;
// Column and Offset count UTF-8 bytes.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Before reports whether p sorts before q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// TextRange spans [Start, End). A token's range is relative to the document
// it was produced from and is stale after any edit that shifts lines.
type TextRange struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Valid reports whether End is not before Start on every axis.
func (r TextRange) Valid() bool {
	return r.End.Line >= r.Start.Line &&
		r.End.Offset >= r.Start.Offset &&
		(r.End.Line > r.Start.Line || r.End.Column >= r.Start.Column)
}

// Contains reports whether p falls inside r.
func (r TextRange) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// Overlaps reports whether r and o share at least one position.
func (r TextRange) Overlaps(o TextRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Shift moves r by lineDelta lines and offsetDelta bytes.
func (r TextRange) Shift(lineDelta, offsetDelta int) TextRange {
	r.Start.Line += lineDelta
	r.End.Line += lineDelta
	r.Start.Offset += offsetDelta
	r.End.Offset += offsetDelta
	return r
}

func (r TextRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
