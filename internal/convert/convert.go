// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives HEIC-to-JPEG conversion: one file, or every HEIC
// file of a directory on a bounded worker pool, skipping outputs that
// already exist.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/heic2jpeg/internal/codec"
	"github.com/pdiddy/heic2jpeg/internal/plan"
	"github.com/pdiddy/heic2jpeg/pkg/types"
)

// Options controls a conversion run.
type Options struct {
	// Workers bounds concurrent conversions in directory mode. Values below
	// one run sequentially.
	Workers int

	// FailFast stops starting new conversions after the first failure.
	FailFast bool

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// NotStarted counts tasks abandoned after cancellation or a fail-fast
	// stop.
	NotStarted int

	// Results holds one entry per task that ran, in task order.
	Results []types.TaskResult
}

// Total returns the number of tasks that ran.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any conversion failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Err aggregates every failure, plus a cancellation error when tasks were
// left unstarted. It returns nil for a clean run.
func (r BatchResult) Err() error {
	var merr *multierror.Error
	for _, res := range r.Results {
		if res.Status == types.ConversionFailed {
			merr = multierror.Append(merr, res.Err)
		}
	}
	if r.NotStarted > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d conversion(s) not started: %w", r.NotStarted, context.Canceled))
	}
	return merr.ErrorOrNil()
}

// ConvertFile converts one task unconditionally, replacing any existing
// output. It prints a "Converting" line to w first.
func ConvertFile(ctx context.Context, c codec.Codec, task types.ConversionTask, w io.Writer) types.TaskResult {
	fmt.Fprintf(w, "Converting %s => %s\n", task.InputFile, task.OutputFile)

	start := time.Now()
	err := c.Convert(ctx, task.InputFile, task.OutputFile)
	res := types.TaskResult{Task: task, Duration: time.Since(start)}
	if err != nil {
		res.Status = types.ConversionFailed
		res.Err = err
		return res
	}

	res.Status = types.ConversionDone
	if info, err := os.Stat(task.OutputFile); err == nil {
		res.Bytes = info.Size()
	}
	return res
}

// convertIfMissing skips tasks whose output already exists and converts the
// rest.
func convertIfMissing(ctx context.Context, c codec.Codec, task types.ConversionTask, w io.Writer) types.TaskResult {
	_, err := os.Stat(task.OutputFile)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Skipping previously converted file %s\n", task.InputFile)
		return types.TaskResult{Task: task, Status: types.ConversionSkipped}
	case !errors.Is(err, fs.ErrNotExist):
		return types.TaskResult{Task: task, Status: types.ConversionFailed, Err: fmt.Errorf("checking %s: %w", task.OutputFile, err)}
	}
	return ConvertFile(ctx, c, task, w)
}

// ConvertBatch converts tasks on a pool of opts.Workers goroutines, printing
// per-file lines and a closing summary to w. A failure does not stop other
// tasks unless opts.FailFast is set, in which case no further task starts
// but those already running finish. Outputs already written are kept.
func ConvertBatch(ctx context.Context, c codec.Codec, tasks []types.ConversionTask, opts Options, w io.Writer) BatchResult {
	logger := opts.logger()
	out := &syncWriter{w: w}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	// gctx only gates starting new tasks. Running conversions use ctx, so
	// fail-fast lets them finish while a signal still stops them.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]types.TaskResult, len(tasks))
	for i, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := convertIfMissing(ctx, c, task, out)
			results[i] = res
			logTask(logger, res)
			if res.Status == types.ConversionFailed && opts.FailFast {
				return res.Err
			}
			return nil
		})
	}
	_ = g.Wait()

	result := collect(results)
	result.NotStarted = len(tasks) - result.Total()

	fmt.Fprintf(out, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	if result.NotStarted > 0 {
		fmt.Fprintf(out, "%d file(s) not started\n", result.NotStarted)
	}
	return result
}

// Run expands p into tasks, creates a missing output directory, and converts
// them: a directory input goes through ConvertBatch, a single file through
// ConvertFile with no skip check.
func Run(ctx context.Context, p plan.Plan, c codec.Codec, opts Options, w io.Writer) (BatchResult, error) {
	tasks, err := plan.Tasks(p)
	if err != nil {
		return BatchResult{}, err
	}
	if err := p.Prepare(); err != nil {
		return BatchResult{}, err
	}

	logger := opts.logger()
	logger.Info("starting", "backend", c.Name(), "files", len(tasks), "workers", opts.Workers, "batch", p.Batch())

	var result BatchResult
	if p.Batch() {
		result = ConvertBatch(ctx, c, tasks, opts, w)
	} else {
		res := ConvertFile(ctx, c, tasks[0], w)
		logTask(logger, res)
		result = collect([]types.TaskResult{res})
	}
	return result, result.Err()
}

func collect(results []types.TaskResult) BatchResult {
	var r BatchResult
	for _, res := range results {
		switch res.Status {
		case types.ConversionDone:
			r.Converted++
		case types.ConversionSkipped:
			r.Skipped++
		case types.ConversionFailed:
			r.Failed++
		default:
			continue
		}
		r.Results = append(r.Results, res)
	}
	return r
}

func logTask(logger *log.Logger, res types.TaskResult) {
	switch res.Status {
	case types.ConversionDone:
		logger.Debug("converted", "file", res.Task.InputFile,
			"size", humanize.Bytes(uint64(res.Bytes)), "took", res.Duration.Truncate(time.Millisecond))
	case types.ConversionFailed:
		logger.Error("conversion failed", "file", res.Task.InputFile, "err", res.Err)
	}
}

// syncWriter serialises writes from concurrent workers so console lines
// never interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
