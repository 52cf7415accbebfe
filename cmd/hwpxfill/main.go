// Command hwpxfill fills HWPX form templates from spreadsheet rows according
// to a YAML fill plan, one output document per group of rows.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/javajack/hwpxfill"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose  bool
	template string
	planPath string
	section  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hwpxfill",
	Short: "Fill HWPX form templates from spreadsheet data",
	Long: `hwpxfill writes spreadsheet values into the table cells of an HWPX template.

Cells are addressed by their (col,row) table coordinate. A YAML plan maps
expressions over each row group to coordinates; see "hwpxcells" to list the
coordinates and blank input cells of a template.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	dataPath    string
	outputDir   string
	concurrency int
)

// fillCmd writes one document per row group
var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the template once per row group",
	Long: `Reads the spreadsheet, groups its rows as the plan's source.groupBy says,
and writes one filled copy of the template per group into --out.

Example:
  hwpxfill fill --template form.hwpx --plan plan.yaml --data farms.xlsx --out out/`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

// validateCmd checks a plan against a template
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check plan expressions and target cells against a template",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&template, "template", "t", "", "template .hwpx file (required)")
	rootCmd.PersistentFlags().StringVarP(&planPath, "plan", "p", "", "YAML fill plan (required)")
	rootCmd.PersistentFlags().StringVar(&section, "section", "", "archive part to fill (default: plan section)")
	_ = rootCmd.MarkPersistentFlagRequired("template")
	_ = rootCmd.MarkPersistentFlagRequired("plan")

	fillCmd.Flags().StringVarP(&dataPath, "data", "d", "", "spreadsheet .xlsx (default: plan source.path)")
	fillCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "output directory")
	fillCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 1, "groups filled in parallel")

	rootCmd.AddCommand(fillCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func commonOptions() []hwpxfill.Option {
	opts := []hwpxfill.Option{hwpxfill.WithLogger(logger)}
	if section != "" {
		opts = append(opts, hwpxfill.WithSection(section))
	}
	return opts
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(commonOptions(), hwpxfill.WithConcurrency(concurrency))
	outputs, err := hwpxfill.FillFiles(ctx, template, dataPath, planPath, outputDir, opts...)
	if err != nil {
		return err
	}
	for _, p := range outputs {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	logger.Info("Fill complete", zap.Int("documents", len(outputs)))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	plan, err := hwpxfill.LoadPlan(planPath)
	if err != nil {
		return err
	}
	issues, err := hwpxfill.Validate(template, plan, commonOptions()...)
	if err != nil {
		return err
	}
	for _, is := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), is.String())
	}
	if hwpxfill.HasErrors(issues) {
		return fmt.Errorf("plan has %d issue(s)", len(issues))
	}
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
	}
	return nil
}
