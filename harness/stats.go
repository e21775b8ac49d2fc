package harness

import (
	"fmt"
	"math"
)

// Statistics summarizes a set of timings in seconds. StdDev is the
// population standard deviation.
//
// With no timings every field but Count is NaN.
type Statistics struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes Statistics over timings.
func Summarize(timings []float64) Statistics {
	n := len(timings)
	if n == 0 {
		nan := math.NaN()

		return Statistics{Mean: nan, StdDev: nan, Min: nan, Max: nan}
	}

	lo, hi := math.Inf(1), math.Inf(-1)

	var sum float64
	for _, t := range timings {
		sum += t
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}

	mean := sum / float64(n)

	var sq float64
	for _, t := range timings {
		d := t - mean
		sq += d * d
	}

	return Statistics{
		Count:  n,
		Mean:   mean,
		StdDev: math.Sqrt(sq / float64(n)),
		Min:    lo,
		Max:    hi,
	}
}

func (s Statistics) String() string {
	return fmt.Sprintf("mean: %.4fs, stddev: %.4f, min: %.4fs, max: %.4fs",
		s.Mean, s.StdDev, s.Min, s.Max)
}
