package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/logging"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new razorparse configuration file",
		Long: `Create a new .razorparse.yml configuration file in the current directory
with sensible defaults. The file selects the language version and file
kinds, and declares custom directives and tag helpers.`,
		Example: `  razorparse init                      # Create minimal .razorparse.yml
  razorparse init --full               # Document every built-in directive
  razorparse init --format json        # Create .razorparse.json instead
  razorparse init --output custom.yml  # Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), afero.NewOsFs(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with directives and a tag helper")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .razorparse.yml or .razorparse.json)")

	return cmd
}

func runInit(ctx context.Context, fsys afero.Fs, flags *initFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("invalid format %q: must be yaml or json", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".razorparse.yml"
		if flags.format == "json" {
			outputPath = ".razorparse.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	exists, err := afero.Exists(fsys, absPath)
	if err != nil {
		return fmt.Errorf("check %s: %w", outputPath, err)
	}
	if exists {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, fsys, absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template documents every built-in directive")
	}
	logger.Info("run 'razorparse directives' to see the directives in scope")

	return nil
}
