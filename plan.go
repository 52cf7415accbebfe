package hwpxfill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes how spreadsheet rows are written into a template.
type Plan struct {
	// Section is the archive part holding the table (default: DefaultSection).
	Section string `yaml:"section"`
	// Source locates the spreadsheet. Filler options may override Path.
	Source SourceSpec `yaml:"source"`
	// Output is an expression producing the output file name of a group.
	// The result is passed through SanitizeFilename. Default: key + ".hwpx".
	Output string `yaml:"output"`
	// Cells are filled once per document.
	Cells []CellBinding `yaml:"cells"`
	// Each repeats its cells for every row of the group.
	Each *EachBinding `yaml:"each"`
}

// SourceSpec selects the spreadsheet, its sheet, and the grouping column.
type SourceSpec struct {
	Path       string `yaml:"path"`
	Sheet      string `yaml:"sheet"`
	SheetIndex int    `yaml:"sheetIndex"`
	// GroupBy names the column whose value groups rows into one document.
	// Empty means one document per row.
	GroupBy string `yaml:"groupBy"`
}

// CellBinding writes the result of Value into the cell at (Col,Row).
type CellBinding struct {
	Col   int    `yaml:"col"`
	Row   int    `yaml:"row"`
	Value string `yaml:"value"`
}

// EachBinding writes one table row per group row. Row i of the group lands
// on table row StartRow + i*Step + cell.Row.
type EachBinding struct {
	StartRow int           `yaml:"startRow"`
	Step     int           `yaml:"step"`
	Limit    int           `yaml:"limit"`
	Cells    []CellBinding `yaml:"cells"`
}

const defaultOutputExpr = `key + ".hwpx"`

// LoadPlan reads a YAML fill plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %q: %w: %w", path, ErrSourceUnavailable, err)
	}
	p, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("plan %q: %w", path, err)
	}
	return p, nil
}

// ParsePlan decodes a YAML fill plan and applies defaults.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) normalize() error {
	if p.Section == "" {
		p.Section = DefaultSection
	}
	if p.Output == "" {
		p.Output = defaultOutputExpr
	}
	for _, c := range p.Cells {
		if c.Col < 0 || c.Row < 0 {
			return fmt.Errorf("cell (%d,%d): negative coordinate", c.Col, c.Row)
		}
	}
	if p.Each != nil {
		if p.Each.Step == 0 {
			p.Each.Step = 1
		}
		if p.Each.Step < 0 || p.Each.StartRow < 0 || p.Each.Limit < 0 {
			return fmt.Errorf("each: startRow, step and limit must not be negative")
		}
		for _, c := range p.Each.Cells {
			if c.Col < 0 || c.Row < 0 {
				return fmt.Errorf("each cell (%d,%d): negative coordinate", c.Col, c.Row)
			}
		}
	}
	return nil
}

// RowAddr returns the coordinate of cell c for the i-th group row.
func (e *EachBinding) RowAddr(c CellBinding, i int) CellAddr {
	return NewCellAddr(c.Col, e.StartRow+i*e.Step+c.Row)
}

// RowCount returns how many of n group rows the block writes.
func (e *EachBinding) RowCount(n int) int {
	if e.Limit > 0 && n > e.Limit {
		return e.Limit
	}
	return n
}

// Groups splits t according to Source.GroupBy.
func (p *Plan) Groups(t *Table) []Group {
	if p.Source.GroupBy == "" {
		return t.Singletons()
	}
	return t.GroupBy(p.Source.GroupBy)
}

// SourceOptions translates the sheet selection into ReadRows options.
func (p *Plan) SourceOptions() []SourceOption {
	if p.Source.Sheet != "" {
		return []SourceOption{WithSheetName(p.Source.Sheet)}
	}
	return []SourceOption{WithSheetIndex(p.Source.SheetIndex)}
}
