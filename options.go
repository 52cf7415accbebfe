package hwpxfill

import "go.uber.org/zap"

// Options holds configuration for the Filler.
type Options struct {
	templatePath string
	section      string
	outputDir    string
	concurrency  int
	logger       *zap.Logger
	evaluator    ExpressionEvaluator
}

func defaultOptions() *Options {
	return &Options{
		outputDir:   ".",
		concurrency: 1,
		logger:      zap.NewNop(),
	}
}

// Option configures the Filler.
type Option func(*Options)

// WithTemplate sets the template archive path.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithSection overrides the archive part holding the table. It takes
// precedence over the plan's section.
func WithSection(part string) Option {
	return func(o *Options) { o.section = part }
}

// WithOutputDir sets the directory output documents are written to (default: ".").
func WithOutputDir(dir string) Option {
	return func(o *Options) { o.outputDir = dir }
}

// WithConcurrency sets how many groups are filled at once (default: 1).
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger. Skipped cells are reported at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEvaluator replaces the expression evaluator.
func WithEvaluator(ev ExpressionEvaluator) Option {
	return func(o *Options) {
		if ev != nil {
			o.evaluator = ev
		}
	}
}
