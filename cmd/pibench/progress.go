package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/weiihann/pibench/harness"
)

// attachProgress wires a progress bar into r when cfg.Progress is set. The
// bar closes on the last repetition, before the runner prints its report.
// The returned func closes the bar early if the run is aborted and is always
// safe to call.
func attachProgress(r *harness.Runner, cfg runConfig, w io.Writer) func() {
	if !cfg.Progress || cfg.Repetitions == 0 {
		return func() {}
	}

	bar := pb.New(cfg.Repetitions)
	bar.SetWriter(w)
	bar.Set("prefix", r.Name+" ")
	bar.Start()

	finished := false
	finish := func() {
		if finished {
			return
		}

		finished = true
		bar.Finish()
		fmt.Fprintln(w)
	}

	r.OnRepetition = func(i int, _ time.Duration) {
		bar.Increment()

		if i == cfg.Repetitions-1 {
			finish()
		}
	}

	return finish
}
