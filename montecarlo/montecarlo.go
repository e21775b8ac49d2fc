// Package montecarlo estimates π by sampling points in the unit square and
// counting how many land inside the unit quarter-circle.
package montecarlo

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidWorkers is returned when fewer than one worker is requested.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")

	// ErrInvalidParticles is returned for a negative particle count.
	ErrInvalidParticles = errors.New("particle count must not be negative")

	// ErrWorkerFailed wraps any failure raised inside a parallel worker.
	ErrWorkerFailed = errors.New("worker failed")
)

// Sampler yields independent coordinate pairs drawn uniformly from [0,1).
// A Sampler is owned by a single goroutine.
type Sampler interface {
	Next() (x, y float64)
}

// SamplerFactory returns a fresh Sampler for the given partition. It is
// called once per non-empty partition, on that partition's worker goroutine,
// so it must be safe for concurrent use.
type SamplerFactory func(p Partition) Sampler

// Partition is the half-open range of sample indices [Start, End) assigned
// to one worker.
type Partition struct {
	Index int
	Start int
	End   int
}

// Len returns the number of samples in the partition.
func (p Partition) Len() int {
	return max(0, p.End-p.Start)
}

// WorkerResult is the inside count produced for one partition.
type WorkerResult struct {
	Partition Partition
	Inside    int
}

// CountInside draws n points from s and returns how many fall inside the
// unit quarter-circle (x²+y² ≤ 1).
func CountInside(s Sampler, n int) int {
	inside := 0

	for range n {
		x, y := s.Next()
		if x*x+y*y <= 1.0 {
			inside++
		}
	}

	return inside
}

// Sequential estimates π from particles samples drawn from s on the calling
// goroutine. A particle count of zero yields NaN.
func Sequential(particles int, s Sampler) float64 {
	return estimate(CountInside(s, particles), particles)
}

// Partitions splits [0, particles) into workers contiguous ranges of
// ceil(particles/workers) samples. Trailing partitions may be empty when
// workers exceeds particles; their Start is clamped to particles, so an
// empty partition is always [particles, particles) rather than [i·chunk,
// particles).
func Partitions(particles, workers int) []Partition {
	if workers < 1 || particles < 0 {
		return nil
	}

	chunk := (particles + workers - 1) / workers
	parts := make([]Partition, workers)

	for i := range parts {
		start := min(i*chunk, particles)
		end := min(start+chunk, particles)
		parts[i] = Partition{Index: i, Start: start, End: end}
	}

	return parts
}

// Count runs one goroutine per non-empty partition and returns the
// per-partition results in partition order. A failure in any worker
// discards every result.
func Count(
	particles, workers int,
	factory SamplerFactory,
) ([]WorkerResult, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}

	if particles < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidParticles, particles)
	}

	parts := Partitions(particles, workers)
	results := make([]WorkerResult, len(parts))

	var g errgroup.Group

	for i, p := range parts {
		results[i].Partition = p

		if p.Len() == 0 {
			continue
		}

		g.Go(func() error {
			var (
				inside int
				nilErr error
				pc     panics.Catcher
			)

			pc.Try(func() {
				s := factory(p)
				if s == nil {
					nilErr = fmt.Errorf("%w: partition %d: nil sampler",
						ErrWorkerFailed, p.Index)

					return
				}

				inside = CountInside(s, p.Len())
			})

			if recovered := pc.Recovered(); recovered != nil {
				return fmt.Errorf("%w: partition %d [%d,%d): %w",
					ErrWorkerFailed, p.Index, p.Start, p.End,
					recovered.AsError(),
				)
			}

			if nilErr != nil {
				return nilErr
			}

			results[i].Inside = inside

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Parallel estimates π by fanning particles out across workers goroutines,
// each drawing from its own Sampler, and summing their counts after all of
// them have finished.
func Parallel(
	particles, workers int,
	factory SamplerFactory,
) (float64, error) {
	results, err := Count(particles, workers, factory)
	if err != nil {
		return 0, err
	}

	return estimate(Total(results), particles), nil
}

// Total sums the inside counts of results.
func Total(results []WorkerResult) int {
	total := 0
	for _, r := range results {
		total += r.Inside
	}

	return total
}

func estimate(inside, particles int) float64 {
	return 4.0 * float64(inside) / float64(particles)
}
