package harness

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
)

func newTestRunner(out io.Writer) *Runner {
	return NewRunner("test", out, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunPreservesOrder(t *testing.T) {
	var buf bytes.Buffer

	calls := 0
	op := func() (int, error) {
		calls++

		return calls * 10, nil
	}

	res, err := Run(newTestRunner(&buf), op, 5)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Values) != 5 {
		t.Fatalf("got %d values, want 5", len(res.Values))
	}
	for i, v := range res.Values {
		if v != (i+1)*10 {
			t.Errorf("values[%d] = %d, want %d", i, v, (i+1)*10)
		}
	}
	if len(res.Timings) != 5 {
		t.Errorf("got %d timings, want 5", len(res.Timings))
	}
	if res.Stats.Count != 5 {
		t.Errorf("stats count = %d, want 5", res.Stats.Count)
	}
	if res.Stats.Min > res.Stats.Mean || res.Stats.Mean > res.Stats.Max {
		t.Errorf("stats out of order: %+v", res.Stats)
	}
	if res.Name != "test" {
		t.Errorf("name = %q, want test", res.Name)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "mean: ") || !strings.Contains(out, "max: ") {
		t.Errorf("unexpected report %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single report line, got %q", out)
	}
}

func TestRunZeroRepetitions(t *testing.T) {
	var buf bytes.Buffer

	called := false
	op := func() (float64, error) {
		called = true

		return 0, nil
	}

	res, err := Run(newTestRunner(&buf), op, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if called {
		t.Error("op must not be called for zero repetitions")
	}
	if len(res.Values) != 0 {
		t.Errorf("got %d values, want 0", len(res.Values))
	}
	if res.Stats.Count != 0 || !math.IsNaN(res.Stats.Mean) ||
		!math.IsNaN(res.Stats.Min) {
		t.Errorf("stats = %+v, want zero count and NaN fields", res.Stats)
	}
	if !strings.Contains(buf.String(), "mean: NaNs") {
		t.Errorf("report %q does not show NaN mean", buf.String())
	}
}

func TestRunAbortsOnFailure(t *testing.T) {
	var buf bytes.Buffer

	boom := errors.New("boom")
	calls := 0
	op := func() (int, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}

		return calls, nil
	}

	res, err := Run(newTestRunner(&buf), op, 10)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if res != nil {
		t.Errorf("expected nil result on failure, got %+v", res)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no report on failure, got %q", buf.String())
	}
	if !strings.Contains(err.Error(), "repetition 2") {
		t.Errorf("error %q does not name the repetition", err)
	}
}

func TestRunNegativeRepetitions(t *testing.T) {
	op := func() (int, error) { return 0, nil }

	_, err := Run(newTestRunner(io.Discard), op, -1)
	if !errors.Is(err, ErrInvalidRepetitions) {
		t.Errorf("err = %v, want ErrInvalidRepetitions", err)
	}
}

func TestRunProgressHook(t *testing.T) {
	r := newTestRunner(io.Discard)

	var seen []int
	r.OnRepetition = func(i int, elapsed time.Duration) {
		if elapsed < 0 {
			t.Errorf("negative elapsed %v", elapsed)
		}
		seen = append(seen, i)
	}

	if _, err := Run(r, func() (int, error) { return 1, nil }, 4); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 4 || seen[0] != 0 || seen[3] != 3 {
		t.Errorf("hook saw %v, want [0 1 2 3]", seen)
	}
}
