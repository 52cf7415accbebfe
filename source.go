package hwpxfill

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row keyed by header name.
type Row map[string]any

// Table is the tabular data read from a spreadsheet.
type Table struct {
	Headers []string
	Rows    []Row
}

// Group is a run of rows sharing the same group-key value.
type Group struct {
	Key  string
	Rows []Row
}

type sourceOptions struct {
	sheetName  string
	sheetIndex int
}

// SourceOption configures ReadRows.
type SourceOption func(*sourceOptions)

// WithSheetName selects the sheet by name. It takes precedence over WithSheetIndex.
func WithSheetName(name string) SourceOption {
	return func(o *sourceOptions) { o.sheetName = name }
}

// WithSheetIndex selects the sheet by 0-based position (default: 0).
func WithSheetIndex(index int) SourceOption {
	return func(o *sourceOptions) { o.sheetIndex = index }
}

// ReadRows reads a worksheet into a Table. Row 1 is the header row; data
// starts at row 2 and ends before the first row whose first cell is empty.
// Blank headers, including those past the end of the header row when data
// runs wider, are named "col_<n>" after their 1-based column.
func ReadRows(path string, opts ...SourceOption) (*Table, error) {
	o := &sourceOptions{}
	for _, opt := range opts {
		opt(o)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %q: %w: %w", path, ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f, o)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet %q: %w", path, err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	return tableFromRows(rows), nil
}

// ReadGrouped reads a worksheet and groups its rows by the groupKey column.
func ReadGrouped(path, groupKey string, opts ...SourceOption) (*Table, []Group, error) {
	t, err := ReadRows(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	return t, t.GroupBy(groupKey), nil
}

func resolveSheet(f *excelize.File, o *sourceOptions) (string, error) {
	if o.sheetName != "" {
		idx, err := f.GetSheetIndex(o.sheetName)
		if err != nil || idx < 0 {
			return "", fmt.Errorf("sheet %q: %w", o.sheetName, ErrSourceUnavailable)
		}
		return o.sheetName, nil
	}
	sheets := f.GetSheetList()
	if o.sheetIndex < 0 || o.sheetIndex >= len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (%d sheets): %w", o.sheetIndex, len(sheets), ErrSourceUnavailable)
	}
	return sheets[o.sheetIndex], nil
}

func tableFromRows(rows [][]string) *Table {
	t := &Table{}
	if len(rows) == 0 {
		return t
	}

	data := rows[1:]
	for i, cells := range data {
		if len(cells) == 0 || cells[0] == "" {
			data = data[:i]
			break
		}
	}

	// GetRows drops trailing blank cells, so a blank header at the end of the
	// header row is only visible through the data rows.
	width := len(rows[0])
	for _, cells := range data {
		width = max(width, len(cells))
	}
	for i := range width {
		h := ""
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("col_%d", i+1)
		}
		t.Headers = append(t.Headers, h)
	}

	for _, cells := range data {
		row := make(Row, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GroupBy groups rows by the trimmed string value of key, keeping groups in
// the order their key was first seen. Rows without the key fall into "".
func (t *Table) GroupBy(key string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range t.Rows {
		k := strings.TrimSpace(toString(r[key]))
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// Singletons returns one group per row, keyed by the 1-based row position.
func (t *Table) Singletons() []Group {
	groups := make([]Group, 0, len(t.Rows))
	for i, r := range t.Rows {
		groups = append(groups, Group{Key: strconv.Itoa(i + 1), Rows: []Row{r}})
	}
	return groups
}
