package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/logging"
	"github.com/yaklabco/razorparse/pkg/analysis"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/reporter"
	"github.com/yaklabco/razorparse/pkg/runner"
)

// ErrDiagnosticsFound is returned when parsing reported errors, or warnings
// in strict mode.
var ErrDiagnosticsFound = errors.New("diagnostics found")

type parseFlags struct {
	format          string
	ignore          []string
	strict          bool
	noContext       bool
	compact         bool
	noCodegen       bool
	includeVendored bool
	summaryOrder    string
	sortBy          string
}

func newParseCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:     "parse [paths...]",
		Short:   "Parse Razor files and report diagnostics",
		Long:    parseLongDescription,
		Example: parseExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, &cfg, flags, info)
		},
	}

	addParseFlags(cmd, &cfg, flags)
	addLanguageFlags(cmd, &cfg)

	return cmd
}

const parseLongDescription = `Parse Razor files and report syntax diagnostics.

By default, parses all .cshtml and .razor files in the current directory
and subdirectories. Every file runs through the whole pipeline, C#
generation included, so generation failures are reported too.`

const parseExamples = `  razorparse parse                     # Parse current directory
  razorparse parse Views/              # Parse a directory
  razorparse parse Pages/Index.cshtml  # Parse a single file
  razorparse parse --format sarif      # SARIF output for code scanning
  razorparse parse --format summary    # Tables by diagnostic and file
  razorparse parse --sort category     # Order IDs by pipeline stage
  razorparse parse --strict            # Fail on warnings too`

func runParse(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *parseFlags, info BuildInfo) error {
	cliCfg.Ignore = flags.ignore

	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(sess.cfg)
	if err != nil {
		return err
	}
	eng.SkipCodegen = flags.noCodegen

	runOpts := runner.OptionsFromConfig(sess.cfg, args)
	runOpts.WorkingDir = sess.workDir
	runOpts.IncludeVendored = flags.includeVendored

	logger := logging.FromContext(sess.ctx)
	logger.Debug("starting parse run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(eng).Run(sess.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("parse run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	sortBy, err := analysis.ParseSortField(flags.sortBy)
	if err != nil {
		return fmt.Errorf("invalid sort: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		SummaryOrder: reporter.SummaryOrder(flags.summaryOrder),
		SortBy:       sortBy,
		ToolVersion:  info.Version,
		WorkingDir:   sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrDiagnosticsFound
	}
	return nil
}

func addParseFlags(cmd *cobra.Command, cfg *config.Config, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+reporter.FormatNames())
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noCodegen, "no-codegen", false, "stop after parsing and rewriting")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false,
		"also parse files under vendored directories such as node_modules")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "ids",
		"order of tables in summary output: ids, files")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"order of diagnostic groups: count, alpha, severity, category")
}
