package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/razorparse/internal/logging"
	"github.com/yaklabco/razorparse/pkg/engine"
	"github.com/yaklabco/razorparse/pkg/source"
)

// Runner runs an engine over many files.
type Runner struct {
	Engine *engine.Engine
}

// New creates a new Runner with the given engine.
func New(eng *engine.Engine) *Runner {
	return &Runner{Engine: eng}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are ordered by path regardless of completion order. A file that
// cannot be read is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	logger := logging.FromContext(ctx)
	logger.Debug("processing files", logging.FieldFilesDiscovered, len(files), logging.FieldJobs, jobs)

	fsys := opts.fs()
	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processFile(groupCtx, fsys, path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	result.Stats.Duration = time.Since(start)

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithErrors, result.Stats.FilesErrored,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldDuration, result.Stats.Duration,
	)
	return result, nil
}

// ProcessFile reads and processes a single file.
func (r *Runner) ProcessFile(ctx context.Context, fsys afero.Fs, path string) FileOutcome {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return r.processFile(ctx, fsys, path)
}

func (r *Runner) processFile(ctx context.Context, fsys afero.Fs, path string) FileOutcome {
	outcome := FileOutcome{Path: path}
	ctx, logger := logging.ForFile(ctx, path)

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", path, err)
		logger.Debug("read failed", logging.FieldError, err)
		return outcome
	}

	res, err := r.Engine.Process(ctx, source.NewDocument(path, content))
	if err != nil {
		outcome.Error = err
		logger.Debug("processing failed", logging.FieldError, err)
		return outcome
	}

	logger.Debug("processed", logging.FieldFileKind, res.Tree.Options.FileKind, logging.FieldCount, len(res.Diagnostics))
	outcome.Result = res
	return outcome
}
