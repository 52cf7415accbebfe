package hwpxfill

import (
	"fmt"
	"strconv"
)

// HWPX table markup the engine searches for. Matching is textual: a document
// that writes these tags with a different prefix or attribute order is not
// recognised.
const (
	cellOpenTag  = "<hp:tc"
	cellCloseTag = "</hp:tc>"
)

// DefaultSection is the section part most HWPX templates keep their body in.
const DefaultSection = "Contents/section0.xml"

// CellAddr is a 0-based table coordinate as written in <hp:cellAddr>.
type CellAddr struct {
	Col int
	Row int
}

// NewCellAddr creates a CellAddr.
func NewCellAddr(col, row int) CellAddr {
	return CellAddr{Col: col, Row: row}
}

// Marker returns the literal address element for this coordinate:
// <hp:cellAddr colAddr="1" rowAddr="0"/>
func (a CellAddr) Marker() string {
	return `<hp:cellAddr colAddr="` + strconv.Itoa(a.Col) + `" rowAddr="` + strconv.Itoa(a.Row) + `"/>`
}

// String formats the coordinate as "(col,row)".
func (a CellAddr) String() string {
	return fmt.Sprintf("(%d,%d)", a.Col, a.Row)
}

// Span is a half-open byte range [Start, End) of a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether byte offset pos lies within the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Of returns the slice of doc covered by the span.
func (s Span) Of(doc string) string {
	return doc[s.Start:s.End]
}

// String formats the span as "[start,end)".
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
