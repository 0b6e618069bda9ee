package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/razorparse/internal/configloader"
	"github.com/yaklabco/razorparse/internal/logging"
	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/engine"
)

// ErrConfig wraps every failure to resolve the configuration.
var ErrConfig = errors.New("failed to load configuration")

// session is the resolved state a command runs with.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	workDir string
}

// addLanguageFlags registers the flags that select how documents are parsed.
// Empty values leave the configured setting in place.
func addLanguageFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.LanguageVersion, "language-version", "",
		"Razor language version: 1.0 through 8.0, latest, experimental")
	cmd.Flags().StringVar(&cfg.FileKind, "file-kind", "",
		"force the file kind: legacy, component, import (default: from extension)")
	cmd.Flags().StringVar(&cfg.Tokenizer, "tokenizer", "", "C# tokenizer: legacy, host")
	cmd.Flags().BoolVar(&cfg.DesignTime, "design-time", false, "parse and generate in design-time mode")
}

// loadSession resolves the configuration for cmd, layering cliCfg on top of
// every discovered source.
func loadSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	logger := logging.Default()
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldVersion, cfg.LanguageVersion,
		logging.FieldFileKind, cfg.FileKind,
		logging.FieldTokenizer, cfg.Tokenizer,
		logging.FieldJobs, cfg.Jobs,
	)

	return &session{
		ctx:     logging.WithLogger(ctx, logger),
		cfg:     cfg,
		workDir: workDir,
	}, nil
}

// newEngine builds the pipeline described by cfg.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	opts, err := cfg.LanguageOptions()
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	custom, err := cfg.CustomDirectives()
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	binder, err := cfg.Binder()
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	eng := engine.New(binder)
	eng.Options = opts
	eng.Directives = custom
	eng.Codegen = cfg.CodegenOptions()

	logger := logging.Default()
	if len(custom) > 0 {
		logger.Debug("registered custom directives", logging.FieldCount, len(custom))
	}
	if binder != nil {
		logger.Debug("tag helpers in scope", logging.FieldCount, len(cfg.TagHelpers))
	}
	return eng, nil
}
