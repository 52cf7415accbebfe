package hwpxfill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Filler writes spreadsheet groups into copies of an HWPX template.
type Filler struct {
	opts *Options
	eval ExpressionEvaluator
}

// FillOutcome records the result of one cell binding.
type FillOutcome struct {
	Addr   CellAddr
	Value  string
	Result FillResult
}

// NewFiller creates a Filler with the given options.
func NewFiller(opts ...Option) *Filler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ev := o.evaluator
	if ev == nil {
		ev = NewExpressionEvaluator()
	}
	return &Filler{opts: o, eval: ev}
}

// FillFiles loads the plan at planPath, reads the spreadsheet at dataPath (or the
// plan's source path when dataPath is empty), and writes one document per
// group into outputDir. It returns the written paths in group order.
func FillFiles(ctx context.Context, templatePath, dataPath, planPath, outputDir string, opts ...Option) ([]string, error) {
	plan, err := LoadPlan(planPath)
	if err != nil {
		return nil, err
	}
	if dataPath == "" {
		dataPath = plan.Source.Path
	}
	table, err := ReadRows(dataPath, plan.SourceOptions()...)
	if err != nil {
		return nil, err
	}
	allOpts := append([]Option{WithTemplate(templatePath), WithOutputDir(outputDir)}, opts...)
	return NewFiller(allOpts...).Run(ctx, plan, plan.Groups(table))
}

// section returns the archive part to fill: the WithSection option, then the
// plan's section, then DefaultSection.
func (f *Filler) section(plan *Plan) string {
	if f.opts.section != "" {
		return f.opts.section
	}
	if plan != nil && plan.Section != "" {
		return plan.Section
	}
	return DefaultSection
}

// Run fills the template once per group and returns the output paths in
// group order. Groups are processed concurrently up to WithConcurrency; the
// fills within one document are applied in sequence.
func (f *Filler) Run(ctx context.Context, plan *Plan, groups []Group) ([]string, error) {
	if f.opts.templatePath == "" {
		return nil, fmt.Errorf("no template specified: use WithTemplate")
	}
	section := f.section(plan)
	doc, err := ReadPart(f.opts.templatePath, section)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(f.opts.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %q: %w", f.opts.outputDir, err)
	}

	names, err := f.outputNames(plan, groups)
	if err != nil {
		return nil, err
	}

	log := f.opts.logger.With(zap.String("template", f.opts.templatePath), zap.String("section", section))
	log.Info("Filling template", zap.Int("groups", len(groups)), zap.Int("concurrency", f.opts.concurrency))

	outputs := make([]string, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.concurrency)
	for i, grp := range groups {
		if gctx.Err() != nil {
			break
		}
		outPath := filepath.Join(f.opts.outputDir, names[i])
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			filled, outcomes, err := f.FillDocument(doc, plan, grp, i)
			if err != nil {
				return fmt.Errorf("group %q: %w", grp.Key, err)
			}
			changed := 0
			for _, o := range outcomes {
				if o.Result.Changed() {
					changed++
					continue
				}
				log.Debug("Cell not filled",
					zap.String("group", grp.Key),
					zap.Stringer("cell", o.Addr),
					zap.Stringer("result", o.Result))
			}
			if err := WritePartTo(f.opts.templatePath, outPath, section, filled); err != nil {
				return fmt.Errorf("group %q: %w", grp.Key, err)
			}
			log.Info("Wrote document",
				zap.String("group", grp.Key),
				zap.String("path", outPath),
				zap.Int("filled", changed),
				zap.Int("skipped", len(outcomes)-changed))
			outputs[i] = outPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// FillDocument applies every binding of plan to doc for one group and returns
// the new document. Cells that cannot be filled are reported in the outcomes
// and leave the document unchanged; only expression errors fail.
func (f *Filler) FillDocument(doc string, plan *Plan, g Group, index int) (string, []FillOutcome, error) {
	env := groupEnv(g, index)
	var outcomes []FillOutcome

	apply := func(addr CellAddr, expression string) error {
		v, err := f.eval.Evaluate(expression, env)
		if err != nil {
			return fmt.Errorf("cell %s: %w", addr, err)
		}
		value := ValueString(v)
		var res FillResult
		doc, res = Fill(doc, addr, value)
		outcomes = append(outcomes, FillOutcome{Addr: addr, Value: value, Result: res})
		return nil
	}

	for _, c := range plan.Cells {
		if err := apply(NewCellAddr(c.Col, c.Row), c.Value); err != nil {
			return "", nil, err
		}
	}

	if each := plan.Each; each != nil {
		for i := 0; i < each.RowCount(len(g.Rows)); i++ {
			env["r"] = g.Rows[i]
			env["i"] = i
			for _, c := range each.Cells {
				if err := apply(each.RowAddr(c, i), c.Value); err != nil {
					return "", nil, err
				}
			}
		}
	}
	return doc, outcomes, nil
}

// OutputName evaluates the plan's output expression for a group.
func (f *Filler) OutputName(plan *Plan, g Group, index int) (string, error) {
	expression := plan.Output
	if expression == "" {
		expression = defaultOutputExpr
	}
	v, err := f.eval.Evaluate(expression, groupEnv(g, index))
	if err != nil {
		return "", fmt.Errorf("output name for group %q: %w", g.Key, err)
	}
	name := SanitizeFilename(strings.TrimSpace(ValueString(v)))
	if name == "" {
		return "", fmt.Errorf("output name for group %q is empty", g.Key)
	}
	return name, nil
}

// outputNames resolves a distinct file name for every group, suffixing
// repeats with _2, _3, ... so concurrent groups never share a path.
func (f *Filler) outputNames(plan *Plan, groups []Group) ([]string, error) {
	names := make([]string, len(groups))
	seen := make(map[string]int)
	for i, g := range groups {
		name, err := f.OutputName(plan, g, i)
		if err != nil {
			return nil, err
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			ext := filepath.Ext(name)
			name = strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(n) + ext
		}
		names[i] = name
	}
	return names, nil
}

// shapeEnv returns an environment with the names and types a binding sees
// while filling, for checking expressions without data.
func shapeEnv(inEach bool) map[string]any {
	env := groupEnv(Group{Rows: []Row{{}}}, 0)
	if inEach {
		env["r"] = Row{}
		env["i"] = 0
	}
	return env
}

// groupEnv builds the expression environment for a group.
func groupEnv(g Group, index int) map[string]any {
	var first Row
	if len(g.Rows) > 0 {
		first = g.Rows[0]
	}
	return map[string]any{
		"key":   g.Key,
		"rows":  g.Rows,
		"first": first,
		"group": index,
	}
}
