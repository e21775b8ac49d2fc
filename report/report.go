// Package report formats benchmark summaries into a comparison table.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/weiihann/pibench/harness"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Summary describes one finished benchmark.
type Summary struct {
	Name      string
	Particles int
	Workers   int
	Stats     harness.Statistics
	Estimates []float64
}

// Generate writes a comparison table for the given summaries. Speedup is
// measured against the first summary.
func Generate(w io.Writer, summaries []Summary) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to report")
	}

	baseline := summaries[0].Stats.Mean

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Benchmark", "Particles", "Workers", "Mean", "Stddev",
			"Min", "Max", "Estimate", "Error", "Speedup").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for _, s := range summaries {
		est := meanOf(s.Estimates)

		t.Row(
			s.Name,
			strconv.Itoa(s.Particles),
			strconv.Itoa(s.Workers),
			formatSeconds(s.Stats.Mean),
			formatSeconds(s.Stats.StdDev),
			formatSeconds(s.Stats.Min),
			formatSeconds(s.Stats.Max),
			formatFloat(est, 6),
			formatFloat(math.Abs(est-math.Pi), 6),
			formatSpeedup(baseline, s.Stats.Mean),
		)
	}

	if _, err := fmt.Fprintln(w, titleStyle.Render("Benchmark Summary")); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, t.String())

	return err
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func formatSeconds(s float64) string {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return "-"
	}

	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}

	return fmt.Sprintf("%.3fs", s)
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatSpeedup(baseline, mean float64) string {
	speedup := baseline / mean
	if math.IsNaN(speedup) || math.IsInf(speedup, 0) {
		return "-"
	}

	return fmt.Sprintf("%.2fx", speedup)
}
