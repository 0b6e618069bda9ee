package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/logging"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/fsutil"
	"github.com/yaklabco/razorparse/pkg/reporter"
	"github.com/yaklabco/razorparse/pkg/runner"
)

type generateFlags struct {
	ignore      []string
	noPragmas   bool
	allowErrors bool
	stdout      bool
}

func newGenerateCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate C# from Razor files",
		Long: `Generate the C# class of each Razor file.

Output is written next to each source as <file>.g.cs, or mirrored under
--output-dir. Files are only rewritten when their content changed. Files
with error diagnostics are skipped unless --allow-errors is given.`,
		Example: `  razorparse generate                          # Generate next to sources
  razorparse generate --output-dir obj/razor   # Mirror into a directory
  razorparse generate --dry-run                # Show what would be written
  razorparse generate Counter.razor --stdout   # Print instead of writing`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, &cfg, flags, info)
		},
	}

	cmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "", "directory receiving generated files")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "report what would be written without writing")
	cmd.Flags().StringVar(&cfg.Namespace, "namespace", "", "namespace of generated classes")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.noPragmas, "no-line-pragmas", false, "omit #line regions")
	cmd.Flags().BoolVar(&flags.allowErrors, "allow-errors", false, "write output for files with errors")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print generated code instead of writing files")
	addLanguageFlags(cmd, &cfg)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *generateFlags, info BuildInfo) error {
	cliCfg.Ignore = flags.ignore
	if flags.noPragmas {
		disabled := false
		cliCfg.LinePragmas = &disabled
	}

	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(sess.cfg)
	if err != nil {
		return err
	}

	runOpts := runner.OptionsFromConfig(sess.cfg, args)
	runOpts.WorkingDir = sess.workDir

	result, err := runner.New(eng).Run(sess.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("generate run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	// Diagnostics go to stderr so --stdout output stays clean.
	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.ErrOrStderr(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.FormatText,
		Color:       colorMode,
		ShowContext: true,
		GroupByFile: true,
		ToolVersion: info.Version,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if result.HasIssues() || result.Stats.FilesErrored > 0 {
		if _, err := rep.Report(sess.ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
	}

	if flags.stdout {
		writeGeneratedTo(cmd.OutOrStdout(), result, flags.allowErrors)
	} else if err := writeGenerated(sess, result, flags.allowErrors); err != nil {
		return err
	}

	if ExitCodeFromResult(result, false) != ExitSuccess {
		return ErrDiagnosticsFound
	}
	return nil
}

// writeGenerated writes the output of every eligible file through fsutil.
func writeGenerated(sess *session, result *runner.Result, allowErrors bool) error {
	logger := logging.FromContext(sess.ctx)
	fsys := afero.NewOsFs()

	outputDir := sess.cfg.OutputDir
	if outputDir != "" && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(sess.workDir, outputDir)
	}

	written := 0
	for _, file := range result.Files {
		if !generatable(file, allowErrors) {
			continue
		}

		target, err := fsutil.GeneratedPath(file.Path, sess.workDir, outputDir)
		if err != nil {
			return fmt.Errorf("output path: %w", err)
		}

		if sess.cfg.DryRun {
			logger.Info("would write", logging.FieldPath, target)
			continue
		}

		changed, err := fsutil.WriteAtomicIfChanged(sess.ctx, fsys, target, []byte(file.Result.Generated.Text), 0)
		if err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		if changed {
			written++
			logger.Debug("wrote generated file", logging.FieldPath, target)
		}
	}

	logger.Info("generation complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWritten, written,
	)
	return nil
}

func writeGeneratedTo(w io.Writer, result *runner.Result, allowErrors bool) {
	for _, file := range result.Files {
		if generatable(file, allowErrors) {
			fmt.Fprint(w, file.Result.Generated.Text)
		}
	}
}

func generatable(file runner.FileOutcome, allowErrors bool) bool {
	if file.Error != nil || file.Result == nil || file.Result.Generated == nil {
		return false
	}
	return allowErrors || !file.Result.HasErrors()
}
