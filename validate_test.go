package hwpxfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanPlan(t *testing.T) {
	tmpl := writeHWPX(t, t.TempDir(), "form.hwpx", formSection())
	plan, err := ParsePlan([]byte(formPlan))
	require.NoError(t, err)

	issues, err := Validate(tmpl, plan)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestValidate_ReportsProblems(t *testing.T) {
	tmpl := writeHWPX(t, t.TempDir(), "form.hwpx", sampleSection())
	plan, err := ParsePlan([]byte(`
output: 'key +'
cells:
  - {col: 3, row: 0, value: key}
  - {col: 9, row: 9, value: key}
  - {col: 2, row: 1, value: key}
  - {col: 3, row: 1, value: key}
  - {col: 0, row: 1, value: "first."}
`))
	require.NoError(t, err)

	issues, err := Validate(tmpl, plan)
	require.NoError(t, err)
	require.True(t, HasErrors(issues))

	var lines []string
	for _, is := range issues {
		lines = append(lines, is.String())
	}
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], `[ERROR] (0,0): invalid output expression "key +"`)
	assert.Equal(t, "[WARN] (9,9): cell not found in template; fill will be skipped", lines[1])
	assert.Equal(t, `[WARN] (2,1): cell text "0" will be overwritten`, lines[2])
	assert.Equal(t, "[WARN] (3,1): cell has no empty run and no text element; fill will be skipped", lines[3])
	assert.Contains(t, lines[4], `[ERROR] (0,1): invalid expression syntax "first."`)
}

func TestValidate_EachBlockChecksFirstAndLastRow(t *testing.T) {
	tmpl := writeHWPX(t, t.TempDir(), "form.hwpx", formSection())
	plan, err := ParsePlan([]byte(`
each:
  startRow: 2
  limit: 3
  cells:
    - {col: 1, row: 0, value: r.area}
`))
	require.NoError(t, err)

	issues, err := Validate(tmpl, plan)
	require.NoError(t, err)
	require.Len(t, issues, 1, "row 4 is past the table")
	assert.Equal(t, NewCellAddr(1, 4), issues[0].Addr)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.False(t, HasErrors(issues))
}

func TestValidate_NestedCell(t *testing.T) {
	inner := `<hp:tbl><hp:tr>` + tc(0, 0, 1, 1, emptyRun("5")) + `</hp:tr></hp:tbl>`
	tmpl := writeHWPX(t, t.TempDir(), "nested.hwpx", section([]string{tc(4, 2, 1, 1, `<hp:run charPrIDRef="1">`+inner+`</hp:run>`)}))

	issues, err := Validate(tmpl, &Plan{Cells: []CellBinding{{Col: 4, Row: 2, Value: "key"}}})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "nested table")
}

func TestValidate_UnreadableTemplate(t *testing.T) {
	_, err := Validate("does-not-exist.hwpx", &Plan{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = NewFiller().Validate(&Plan{})
	assert.Error(t, err)
}

func TestValidate_AddressPlanHasNoErrors(t *testing.T) {
	tmpl := writeHWPX(t, t.TempDir(), "form.hwpx", addressSection())
	plan, err := ParsePlan([]byte(addressPlan))
	require.NoError(t, err)

	issues, err := Validate(tmpl, plan)
	require.NoError(t, err)
	assert.False(t, HasErrors(issues), "first[...] and r[...] compile against the fill environment: %v", issues)

	// limit 10 puts the last repetition on row 12, past the table.
	require.Len(t, issues, 2)
	for _, is := range issues {
		assert.Equal(t, SeverityWarning, is.Severity)
		assert.Equal(t, 12, is.Addr.Row)
	}
}

func TestValidate_UnlimitedEachChecksLastTableRow(t *testing.T) {
	tmpl := writeHWPX(t, t.TempDir(), "form.hwpx", sampleSection())
	plan, err := ParsePlan([]byte(`
each:
  cells:
    - {col: 3, row: 0, value: r.area}
`))
	require.NoError(t, err)

	issues, err := Validate(tmpl, plan)
	require.NoError(t, err)
	require.Len(t, issues, 1, "row 0 is fillable; row 1 is the last table row")
	assert.Equal(t, NewCellAddr(3, 1), issues[0].Addr)
	assert.Contains(t, issues[0].Message, "no empty run and no text element")
}

func TestEachCheckRows(t *testing.T) {
	c := CellBinding{Col: 0, Row: 1}
	assert.Equal(t, []int{0, 4}, eachCheckRows(&EachBinding{StartRow: 2, Step: 1, Limit: 5}, c, 3))
	assert.Equal(t, []int{0}, eachCheckRows(&EachBinding{StartRow: 2, Step: 1, Limit: 1}, c, 30))
	assert.Equal(t, []int{0, 3}, eachCheckRows(&EachBinding{StartRow: 2, Step: 2, Limit: 0}, c, 10))
	assert.Equal(t, []int{0}, eachCheckRows(&EachBinding{StartRow: 2, Step: 1, Limit: 0}, c, 3))
	assert.Equal(t, []int{0}, eachCheckRows(&EachBinding{StartRow: 2, Step: 0, Limit: 0}, c, 10))
}
