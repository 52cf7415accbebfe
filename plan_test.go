package hwpxfill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
source:
  path: owners.xlsx
  sheet: Data
  groupBy: owner
output: key + "_form.hwpx"
cells:
  - {col: 1, row: 0, value: key}
  - {col: 1, row: 1, value: phone(first.phone)}
each:
  startRow: 2
  limit: 2
  cells:
    - {col: 0, row: 0, value: string(i + 1)}
    - {col: 1, row: 0, value: areaText(r.area)}
`

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	assert.Equal(t, DefaultSection, p.Section)
	assert.Equal(t, SourceSpec{Path: "owners.xlsx", Sheet: "Data", GroupBy: "owner"}, p.Source)
	assert.Equal(t, `key + "_form.hwpx"`, p.Output)
	assert.Equal(t, []CellBinding{
		{Col: 1, Row: 0, Value: "key"},
		{Col: 1, Row: 1, Value: "phone(first.phone)"},
	}, p.Cells)

	require.NotNil(t, p.Each)
	assert.Equal(t, 2, p.Each.StartRow)
	assert.Equal(t, 1, p.Each.Step, "step defaults to 1")
	assert.Equal(t, 2, p.Each.Limit)
	assert.Len(t, p.Each.Cells, 2)
}

func TestParsePlan_Defaults(t *testing.T) {
	p, err := ParsePlan([]byte(`cells: [{col: 0, row: 0, value: key}]`))
	require.NoError(t, err)
	assert.Equal(t, DefaultSection, p.Section)
	assert.Equal(t, defaultOutputExpr, p.Output)
	assert.Nil(t, p.Each)
}

func TestParsePlan_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "cells: [\n"},
		{"negative col", `cells: [{col: -1, row: 0, value: key}]`},
		{"negative each row", `each: {cells: [{col: 0, row: -2, value: key}]}`},
		{"negative step", `each: {step: -1}`},
		{"negative limit", `each: {limit: -3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "owner", p.Source.GroupBy)

	_, err = LoadPlan(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestEachBinding_RowAddr(t *testing.T) {
	e := &EachBinding{StartRow: 3, Step: 2}
	c := CellBinding{Col: 4, Row: 1}
	assert.Equal(t, NewCellAddr(4, 4), e.RowAddr(c, 0))
	assert.Equal(t, NewCellAddr(4, 8), e.RowAddr(c, 2))
}

func TestEachBinding_RowCount(t *testing.T) {
	assert.Equal(t, 5, (&EachBinding{}).RowCount(5))
	assert.Equal(t, 3, (&EachBinding{Limit: 3}).RowCount(5))
	assert.Equal(t, 2, (&EachBinding{Limit: 3}).RowCount(2))
}

func TestPlan_Groups(t *testing.T) {
	tbl := &Table{Rows: []Row{{"o": "a"}, {"o": "a"}, {"o": "b"}}}

	assert.Len(t, (&Plan{}).Groups(tbl), 3, "no groupBy means one document per row")

	groups := (&Plan{Source: SourceSpec{GroupBy: "o"}}).Groups(tbl)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Key)
}

func TestPlan_SourceOptions(t *testing.T) {
	apply := func(opts []SourceOption) sourceOptions {
		var o sourceOptions
		for _, opt := range opts {
			opt(&o)
		}
		return o
	}
	assert.Equal(t, sourceOptions{sheetName: "Data"}, apply((&Plan{Source: SourceSpec{Sheet: "Data", SheetIndex: 2}}).SourceOptions()))
	assert.Equal(t, sourceOptions{sheetIndex: 2}, apply((&Plan{Source: SourceSpec{SheetIndex: 2}}).SourceOptions()))
}
