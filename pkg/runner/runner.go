package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/htmlindent/internal/logging"
	"github.com/yaklabco/htmlindent/pkg/format"
)

// Runner indents many files with a shared format.Pipeline.
type Runner struct {
	// Pipeline processes individual files.
	Pipeline *format.Pipeline
}

// New creates a Runner around pipeline.
func New(pipeline *format.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files and processes them with a bounded worker pool.
// Outcomes are returned in discovery order regardless of completion order.
// A file error is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	type indexed struct {
		index   int
		outcome FileOutcome
	}

	workCh := make(chan int)
	outCh := make(chan indexed)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				outcome := r.process(ctx, files[i], opts.Format)
				select {
				case <-ctx.Done():
					return
				case outCh <- indexed{index: i, outcome: outcome}:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]*FileOutcome, len(files))
	for item := range outCh {
		outcomes[item.index] = &item.outcome
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}
	result.Stats.Duration = time.Since(start)

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string, opts format.Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	res, err := r.Pipeline.ProcessFile(ctx, path, opts)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		outcome.Error = err
		return outcome
	}
	outcome.Result = res
	return outcome
}
