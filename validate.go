package hwpxfill

import (
	"errors"
	"fmt"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Plan will fail at runtime
	SeverityWarning                 // Plan may leave cells unfilled or overwrite text
)

// ValidationIssue represents a single problem found during plan validation.
type ValidationIssue struct {
	Severity Severity
	Addr     CellAddr
	Message  string
}

// String formats the issue as "[ERROR] (1,0): message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Addr, v.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks a plan against a template without any data. A non-nil
// error means the template could not be read at all.
func Validate(templatePath string, plan *Plan, opts ...Option) ([]ValidationIssue, error) {
	filler := NewFiller(append([]Option{WithTemplate(templatePath)}, opts...)...)
	return filler.Validate(plan)
}

// Validate reports expression syntax errors and coordinates that a fill
// would skip or overwrite. Each block cells are checked at the block's first
// row and at its last row: row Limit-1 when a limit is set, otherwise the
// last repetition that still lies within the template's table rows.
func (f *Filler) Validate(plan *Plan) ([]ValidationIssue, error) {
	if f.opts.templatePath == "" {
		return nil, fmt.Errorf("no template specified: use WithTemplate")
	}
	doc, err := ReadPart(f.opts.templatePath, f.section(plan))
	if err != nil {
		return nil, err
	}

	var issues []ValidationIssue
	if err := f.eval.Compile(plan.Output, shapeEnv(false)); err != nil {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("invalid output expression %q: %v", plan.Output, err),
		})
	}
	for _, c := range plan.Cells {
		addr := NewCellAddr(c.Col, c.Row)
		if err := f.eval.Compile(c.Value, shapeEnv(false)); err != nil {
			issues = append(issues, expressionIssue(addr, c.Value, err))
		}
		issues = append(issues, cellIssues(doc, addr)...)
	}
	if each := plan.Each; each != nil {
		maxRow := templateMaxRow(doc)
		for _, c := range each.Cells {
			if err := f.eval.Compile(c.Value, shapeEnv(true)); err != nil {
				issues = append(issues, expressionIssue(each.RowAddr(c, 0), c.Value, err))
			}
			for _, i := range eachCheckRows(each, c, maxRow) {
				issues = append(issues, cellIssues(doc, each.RowAddr(c, i))...)
			}
		}
	}
	return issues, nil
}

// eachCheckRows returns the repetition indexes checked for c.
func eachCheckRows(each *EachBinding, c CellBinding, maxRow int) []int {
	last := 0
	switch {
	case each.Limit > 1:
		last = each.Limit - 1
	case each.Limit == 0 && each.Step > 0:
		for each.RowAddr(c, last+1).Row <= maxRow {
			last++
		}
	}
	if last == 0 {
		return []int{0}
	}
	return []int{0, last}
}

func templateMaxRow(doc string) int {
	maxRow := -1
	for c := range Cells(doc) {
		maxRow = max(maxRow, c.Addr.Row)
	}
	return maxRow
}

func expressionIssue(addr CellAddr, expression string, err error) ValidationIssue {
	return ValidationIssue{
		Severity: SeverityError,
		Addr:     addr,
		Message:  fmt.Sprintf("invalid expression syntax %q: %v", expression, err),
	}
}

// cellIssues classifies the target cell's fill-state.
func cellIssues(doc string, addr CellAddr) []ValidationIssue {
	span, err := LocateAddr(doc, addr)
	if err != nil {
		msg := "cell not found in template; fill will be skipped"
		switch {
		case errors.Is(err, ErrNestedCell):
			msg = "cell contains a nested table; fill will be skipped"
		case errors.Is(err, ErrMalformedDocument):
			msg = "cell boundaries not found; fill will be skipped"
		}
		return []ValidationIssue{{Severity: SeverityWarning, Addr: addr, Message: msg}}
	}

	cell := InspectCell(doc, span, addr)
	content := span.Of(doc)
	switch {
	case !placeholderRunRe.MatchString(content) && !textElementRe.MatchString(content):
		return []ValidationIssue{{Severity: SeverityWarning, Addr: addr,
			Message: "cell has no empty run and no text element; fill will be skipped"}}
	case cell.Text != "" && !placeholderRunRe.MatchString(content):
		return []ValidationIssue{{Severity: SeverityWarning, Addr: addr,
			Message: fmt.Sprintf("cell text %q will be overwritten", cell.Text)}}
	}
	return nil
}
