package hwpxfill

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExpressionEvaluator evaluates fill-plan value expressions.
type ExpressionEvaluator interface {
	Evaluate(expression string, env map[string]any) (any, error)
	// Compile checks expression against the variable names and types of env.
	Compile(expression string, env map[string]any) error
}

// exprEvaluator implements ExpressionEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // cacheKey(expression, env) → compiled *vm.Program
}

// NewExpressionEvaluator creates an evaluator backed by expr-lang/expr with
// the normalization helpers registered as functions:
//
//	phone(v)    NormalizePhone
//	dateText(v) NormalizeDate
//	area(v)     NormalizeArea
//	areaText(v) AreaText of area(v)
//	sanitize(v) SanitizeFilename
func NewExpressionEvaluator() ExpressionEvaluator {
	return &exprEvaluator{}
}

var exprFunctions = []expr.Option{
	expr.Function("phone", func(params ...any) (any, error) {
		return NormalizePhone(params[0]), nil
	}, new(func(any) string)),
	expr.Function("dateText", func(params ...any) (any, error) {
		return NormalizeDate(params[0]), nil
	}, new(func(any) string)),
	expr.Function("area", func(params ...any) (any, error) {
		return NormalizeArea(params[0]), nil
	}, new(func(any) float64)),
	expr.Function("areaText", func(params ...any) (any, error) {
		return AreaText(NormalizeArea(params[0])), nil
	}, new(func(any) string)),
	expr.Function("sanitize", func(params ...any) (any, error) {
		return SanitizeFilename(toString(params[0])), nil
	}, new(func(any) string)),
}

func (e *exprEvaluator) Evaluate(expression string, env map[string]any) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	program, err := e.compile(expression, env)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) Compile(expression string, env map[string]any) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	_, err := e.compile(expression, env)
	return err
}

// compile type-checks against env so that plan variables such as "first"
// shadow the expr builtins of the same name.
func (e *exprEvaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	key := cacheKey(expression, env)
	if cached, ok := e.cache.Load(key); ok {
		return cached.(*vm.Program), nil
	}
	if env == nil {
		env = map[string]any{}
	}
	opts := append([]expr.Option{expr.Env(env), expr.AllowUndefinedVariables()}, exprFunctions...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}
	e.cache.Store(key, program)
	return program, nil
}

// cacheKey identifies a program by its source and the shape of the
// environment it was checked against.
func cacheKey(expression string, env map[string]any) string {
	var b strings.Builder
	b.WriteString(expression)
	for _, name := range slices.Sorted(maps.Keys(env)) {
		fmt.Fprintf(&b, "\x00%s:%T", name, env[name])
	}
	return b.String()
}

// ValueString renders an expression result as cell text.
func ValueString(v any) string {
	return toString(v)
}
