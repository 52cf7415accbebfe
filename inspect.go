package hwpxfill

import (
	"errors"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Cell is the structural inventory of one table cell.
type Cell struct {
	Addr    CellAddr
	Span    Span
	ColSpan int
	RowSpan int
	// Text is every <hp:t> content joined and trimmed, with entities decoded.
	Text string
	// Refs holds the charPrIDRef of each self-closing run, in document order.
	Refs []string
	// Empty is true for a blank input cell: no text and at least one empty run.
	Empty bool
	// HasTextAndEmptyRun marks template cells that carry a label and an
	// unfilled run side by side.
	HasTextAndEmptyRun bool

	// Nested and Malformed flag markers whose enclosing cell could not be
	// bounded. Such records have an empty Span at the marker and no content.
	Nested    bool
	Malformed bool
	// Duplicate marks a repeat of an earlier marker. Locate and FillCell
	// only ever reach the first occurrence.
	Duplicate bool
}

// Fillable reports whether FillCell can reach this cell.
func (c Cell) Fillable() bool {
	return !c.Nested && !c.Malformed && !c.Duplicate
}

var (
	cellAddrRe    = regexp.MustCompile(`<hp:cellAddr colAddr="(\d+)" rowAddr="(\d+)"/>`)
	cellSpanRe    = regexp.MustCompile(`<hp:cellSpan colSpan="(\d+)" rowSpan="(\d+)"/>`)
	textRunRe     = regexp.MustCompile(`<hp:t>(.*?)</hp:t>`)
	charPrIDRefRe = regexp.MustCompile(`\bcharPrIDRef="([^"]*)"`)
	innerTagRe    = regexp.MustCompile(`<[^>]*>`)

	textUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

// UnescapeText reverses EscapeText and also decodes &quot; and &apos;.
func UnescapeText(s string) string {
	return textUnescaper.Replace(s)
}

// Cells yields one record per address marker in doc, in document order, so
// the count always equals the number of markers. Duplicate markers are
// reported once per occurrence, each with the span enclosing that
// occurrence, and every occurrence after the first is flagged Duplicate.
// Markers whose span cannot be derived are flagged Nested or Malformed.
// The sequence rescans doc on every iteration.
func Cells(doc string) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		seen := make(map[CellAddr]bool)
		for _, m := range cellAddrRe.FindAllStringSubmatchIndex(doc, -1) {
			col, _ := strconv.Atoi(doc[m[2]:m[3]])
			row, _ := strconv.Atoi(doc[m[4]:m[5]])
			addr := NewCellAddr(col, row)

			var c Cell
			span, err := enclosingCell(doc, m[0])
			if err != nil {
				c = Cell{
					Addr:      addr,
					Span:      Span{Start: m[0], End: m[0]},
					ColSpan:   1,
					RowSpan:   1,
					Refs:      []string{},
					Nested:    errors.Is(err, ErrNestedCell),
					Malformed: errors.Is(err, ErrMalformedDocument),
				}
			} else {
				c = InspectCell(doc, span, addr)
			}
			c.Duplicate = seen[addr]
			seen[addr] = true
			if !yield(c) {
				return
			}
		}
	}
}

// InspectAll returns every cell in doc. See Cells.
func InspectAll(doc string) []Cell {
	return slices.Collect(Cells(doc))
}

// Inspect returns the cell at (col,row), or false when Locate would fail.
func Inspect(doc string, col, row int) (Cell, bool) {
	addr := NewCellAddr(col, row)
	span, err := LocateAddr(doc, addr)
	if err != nil {
		return Cell{}, false
	}
	return InspectCell(doc, span, addr), true
}

// InspectCell extracts the metadata of the cell occupying span.
func InspectCell(doc string, span Span, addr CellAddr) Cell {
	content := span.Of(doc)
	c := Cell{
		Addr:    addr,
		Span:    span,
		ColSpan: 1,
		RowSpan: 1,
		Refs:    []string{},
	}

	var b strings.Builder
	for _, m := range textRunRe.FindAllStringSubmatch(content, -1) {
		b.WriteString(m[1])
	}
	c.Text = strings.TrimSpace(UnescapeText(innerTagRe.ReplaceAllString(b.String(), "")))

	if m := cellSpanRe.FindStringSubmatch(content); m != nil {
		c.ColSpan, _ = strconv.Atoi(m[1])
		c.RowSpan, _ = strconv.Atoi(m[2])
	}

	runs := placeholderRunRe.FindAllString(content, -1)
	for _, run := range runs {
		if m := charPrIDRefRe.FindStringSubmatch(run); m != nil {
			c.Refs = append(c.Refs, m[1])
		}
	}
	hasEmptyRun := len(runs) > 0
	c.Empty = c.Text == "" && hasEmptyRun
	c.HasTextAndEmptyRun = c.Text != "" && hasEmptyRun
	return c
}
