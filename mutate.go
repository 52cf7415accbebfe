package hwpxfill

import (
	"regexp"
	"strings"
)

// FillResult reports which branch of Fill acted on the cell.
type FillResult int

const (
	FillNotFound    FillResult = iota // coordinate absent or boundaries untrusted
	FillPlaceholder                   // first empty <hp:run/> received a <hp:t>
	FillReplaced                      // existing <hp:t> content was replaced
	FillNoTarget                      // cell has neither an empty run nor a <hp:t>
)

// String returns a short lowercase label for logs.
func (r FillResult) String() string {
	switch r {
	case FillNotFound:
		return "not-found"
	case FillPlaceholder:
		return "placeholder"
	case FillReplaced:
		return "replaced"
	case FillNoTarget:
		return "no-target"
	}
	return "unknown"
}

// Changed reports whether the document was modified.
func (r FillResult) Changed() bool {
	return r == FillPlaceholder || r == FillReplaced
}

var (
	placeholderRunRe = regexp.MustCompile(`<hp:run\b[^>]*/>`)
	textElementRe    = regexp.MustCompile(`<hp:t>[^<]*</hp:t>`)

	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// EscapeText escapes &, < and > for use as element content. Quotes and
// control characters are passed through.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// FillCell writes value into the cell at (col,row) and returns the new
// document. If the cell cannot be found or has nothing to fill, doc is
// returned unchanged.
func FillCell(doc string, col, row int, value string) string {
	out, _ := Fill(doc, NewCellAddr(col, row), value)
	return out
}

// Fill is FillCell with a report of what happened.
//
// The first self-closing run in the cell is expanded to hold the value; any
// further empty runs are left as they are. A cell without one has the
// content of its first <hp:t> replaced instead.
func Fill(doc string, addr CellAddr, value string) (string, FillResult) {
	span, err := LocateAddr(doc, addr)
	if err != nil {
		return doc, FillNotFound
	}
	cell := span.Of(doc)
	escaped := EscapeText(value)

	var newCell string
	result := FillNoTarget
	if loc := placeholderRunRe.FindStringIndex(cell); loc != nil {
		run := cell[loc[0]:loc[1]]
		open := run[:len(run)-2] + ">"
		newCell = cell[:loc[0]] + open + "<hp:t>" + escaped + "</hp:t></hp:run>" + cell[loc[1]:]
		result = FillPlaceholder
	} else if loc := textElementRe.FindStringIndex(cell); loc != nil {
		newCell = cell[:loc[0]] + "<hp:t>" + escaped + "</hp:t>" + cell[loc[1]:]
		result = FillReplaced
	}
	if result == FillNoTarget {
		return doc, result
	}
	return doc[:span.Start] + newCell + doc[span.End:], result
}
