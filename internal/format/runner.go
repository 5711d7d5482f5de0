package format

import (
	"context"
	"log/slog"
)

// Result is the outcome of formatting one file. A nil Err means success.
type Result struct {
	Path string
	Err  error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Runner formats files one at a time, in the order given.
type Runner struct {
	formatter Formatter
	logger    *slog.Logger
}

func NewRunner(f Formatter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{formatter: f, logger: logger}
}

// Run formats every path and returns one Result per path, in order. A failing file
// does not stop the run; cancelling ctx does, leaving later paths without a Result.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		err := r.formatter.Format(ctx, p)
		if err != nil {
			r.logger.Debug("format failed", "path", p, "error", err)
		}
		results = append(results, Result{Path: p, Err: err})
	}
	return results
}

// Failures returns the failed results, preserving order.
func Failures(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}
