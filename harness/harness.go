// Package harness times repeated invocations of an operation and summarizes
// the durations.
package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrInvalidRepetitions is returned for a negative repetition count.
var ErrInvalidRepetitions = errors.New("repetitions must not be negative")

// Result holds the ordered return values and per-repetition timings of one
// benchmark.
type Result[R any] struct {
	Name    string
	Values  []R
	Timings []float64
	Stats   Statistics
}

// Runner executes benchmarks and writes a one-line report for each.
type Runner struct {
	Name   string
	Out    io.Writer
	Logger *slog.Logger

	// OnRepetition, when set, is called after every successful repetition.
	OnRepetition func(i int, elapsed time.Duration)
}

// NewRunner creates a Runner that reports to out.
func NewRunner(name string, out io.Writer, logger *slog.Logger) *Runner {
	return &Runner{
		Name:   name,
		Out:    out,
		Logger: logger.With(slog.String("benchmark", name)),
	}
}

// Run invokes op repetitions times, one after another, and returns the
// values in invocation order along with timing statistics. The first error
// from op aborts the run: nothing is reported and no statistics are
// computed.
func Run[R any](
	r *Runner,
	op func() (R, error),
	repetitions int,
) (*Result[R], error) {
	if repetitions < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRepetitions, repetitions)
	}

	values := make([]R, 0, repetitions)
	timings := make([]float64, 0, repetitions)

	r.Logger.Info("starting benchmark",
		slog.Int("repetitions", repetitions),
	)

	for i := range repetitions {
		start := time.Now()

		v, err := op()
		if err != nil {
			return nil, fmt.Errorf("%s: repetition %d: %w", r.Name, i, err)
		}

		elapsed := time.Since(start)

		values = append(values, v)
		timings = append(timings, elapsed.Seconds())

		r.Logger.Debug("repetition finished",
			slog.Int("repetition", i),
			slog.Duration("elapsed", elapsed),
		)

		if r.OnRepetition != nil {
			r.OnRepetition(i, elapsed)
		}
	}

	stats := Summarize(timings)

	if _, err := fmt.Fprintln(r.Out, stats); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	r.Logger.Info("benchmark finished",
		slog.Float64("mean_s", stats.Mean),
		slog.Float64("stddev_s", stats.StdDev),
	)

	return &Result[R]{
		Name:    r.Name,
		Values:  values,
		Timings: timings,
		Stats:   stats,
	}, nil
}
