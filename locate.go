package hwpxfill

import (
	"fmt"
	"strings"
)

// Locate finds the <hp:tc> element holding the cell at (col,row).
// ok is false when the coordinate is absent or its boundaries cannot be
// trusted; callers should then leave the document alone.
func Locate(doc string, col, row int) (Span, bool) {
	span, err := LocateAddr(doc, NewCellAddr(col, row))
	return span, err == nil
}

// LocateAddr is the strict form of Locate. It returns ErrCellNotFound,
// ErrMalformedDocument or ErrNestedCell when no span can be produced.
//
// Only the first marker occurrence is considered. Cells are assumed not to
// nest: the span is the nearest <hp:tc> before the marker up to the nearest
// </hp:tc> after it.
func LocateAddr(doc string, addr CellAddr) (Span, error) {
	pos := strings.Index(doc, addr.Marker())
	if pos < 0 {
		return Span{}, fmt.Errorf("locate %s: %w", addr, ErrCellNotFound)
	}
	span, err := enclosingCell(doc, pos)
	if err != nil {
		return Span{}, fmt.Errorf("locate %s: %w", addr, err)
	}
	return span, nil
}

// enclosingCell scans outward from the marker at pos for the cell boundaries.
func enclosingCell(doc string, pos int) (Span, error) {
	start := lastCellOpen(doc[:pos])
	if start < 0 {
		return Span{}, ErrMalformedDocument
	}
	rel := strings.Index(doc[pos:], cellCloseTag)
	if rel < 0 {
		return Span{}, ErrMalformedDocument
	}
	closeAt := pos + rel

	// A close tag between the open tag and the marker, or an open tag between
	// the marker and the close tag, means another cell sits inside this one.
	if strings.Contains(doc[start:pos], cellCloseTag) || nextCellOpen(doc[pos:closeAt]) >= 0 {
		return Span{}, ErrNestedCell
	}
	return Span{Start: start, End: closeAt + len(cellCloseTag)}, nil
}

// lastCellOpen returns the offset of the last "<hp:tc" token in s that opens
// a cell element, or -1.
func lastCellOpen(s string) int {
	for end := len(s); end > 0; {
		i := strings.LastIndex(s[:end], cellOpenTag)
		if i < 0 {
			return -1
		}
		if isCellOpenAt(s, i) {
			return i
		}
		end = i
	}
	return -1
}

// nextCellOpen returns the offset of the first cell-opening token in s, or -1.
func nextCellOpen(s string) int {
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], cellOpenTag)
		if i < 0 {
			return -1
		}
		i += from
		if isCellOpenAt(s, i) {
			return i
		}
		from = i + len(cellOpenTag)
	}
	return -1
}

// isCellOpenAt reports whether the "<hp:tc" at i is the whole element name,
// not a prefix of a longer one.
func isCellOpenAt(s string, i int) bool {
	next := i + len(cellOpenTag)
	if next >= len(s) {
		// Truncated at the name; the tag may still continue past s.
		return true
	}
	switch s[next] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}
