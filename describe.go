package hwpxfill

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Describe reads one section of an HWPX archive and returns a human-readable
// listing of its cells. The section defaults to DefaultSection.
func Describe(path string, opts ...Option) (string, error) {
	filler := NewFiller(append([]Option{WithTemplate(path)}, opts...)...)
	return filler.Describe()
}

// Describe lists the cells of the Filler's template.
func (f *Filler) Describe() (string, error) {
	cells, err := f.Cells()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := WriteCellsText(&b, cells); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Cells reads the template section and returns its cell inventory.
func (f *Filler) Cells() ([]Cell, error) {
	if f.opts.templatePath == "" {
		return nil, fmt.Errorf("no template specified: use WithTemplate")
	}
	doc, err := ReadPart(f.opts.templatePath, f.section(nil))
	if err != nil {
		return nil, err
	}
	return InspectAll(doc), nil
}

// WriteCellsText writes the listing format:
//
//	Total cells: 3
//	Row range: 0~0
//	Column range: 0~3
//
//	  ( 0, 0) span=(1,1) text='No.'
//	  ( 1, 0) span=(2,1) text='Address' [HAS TEXT + EMPTY RUN, refs=['18']]
//	  ( 3, 0) span=(1,1) text='' [EMPTY, refs=['18']]
//
// Markers without a bounded cell are listed as [NESTED] or [MALFORMED], and
// repeats of an earlier marker carry [DUPLICATE].
func WriteCellsText(w io.Writer, cells []Cell) error {
	if len(cells) == 0 {
		_, err := fmt.Fprintln(w, "No cells found.")
		return err
	}

	maxRow, maxCol := 0, 0
	for _, c := range cells {
		maxRow = max(maxRow, c.Addr.Row)
		maxCol = max(maxCol, c.Addr.Col)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total cells: %d\n", len(cells))
	fmt.Fprintf(&b, "Row range: 0~%d\n", maxRow)
	fmt.Fprintf(&b, "Column range: 0~%d\n", maxCol)
	b.WriteByte('\n')

	for _, c := range cells {
		status := ""
		switch {
		case c.Nested:
			status = " [NESTED]"
		case c.Malformed:
			status = " [MALFORMED]"
		case c.Empty:
			status = fmt.Sprintf(" [EMPTY, refs=%s]", formatRefs(c.Refs))
		case c.HasTextAndEmptyRun:
			status = fmt.Sprintf(" [HAS TEXT + EMPTY RUN, refs=%s]", formatRefs(c.Refs))
		}
		if c.Duplicate {
			status += " [DUPLICATE]"
		}
		fmt.Fprintf(&b, "  (%2d,%2d) span=(%d,%d) text='%s'%s\n",
			c.Addr.Col, c.Addr.Row, c.ColSpan, c.RowSpan, c.Text, status)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatRefs(refs []string) string {
	quoted := make([]string, len(refs))
	for i, r := range refs {
		quoted[i] = "'" + r + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// cellRecord is the JSON shape of a Cell.
type cellRecord struct {
	Col             int      `json:"col"`
	Row             int      `json:"row"`
	ColSpan         int      `json:"colspan"`
	RowSpan         int      `json:"rowspan"`
	Text            string   `json:"text"`
	Empty           bool     `json:"empty"`
	HasTextAndEmpty bool     `json:"has_text_and_empty"`
	Refs            []string `json:"refs"`
	Nested          bool     `json:"nested,omitempty"`
	Malformed       bool     `json:"malformed,omitempty"`
	Duplicate       bool     `json:"duplicate,omitempty"`
}

// WriteCellsJSON writes cells as an indented JSON array. Non-ASCII text is
// written as-is.
func WriteCellsJSON(w io.Writer, cells []Cell) error {
	records := make([]cellRecord, 0, len(cells))
	for _, c := range cells {
		refs := c.Refs
		if refs == nil {
			refs = []string{}
		}
		records = append(records, cellRecord{
			Col:             c.Addr.Col,
			Row:             c.Addr.Row,
			ColSpan:         c.ColSpan,
			RowSpan:         c.RowSpan,
			Text:            c.Text,
			Empty:           c.Empty,
			HasTextAndEmpty: c.HasTextAndEmptyRun,
			Refs:            refs,
			Nested:          c.Nested,
			Malformed:       c.Malformed,
			Duplicate:       c.Duplicate,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
