// Package main provides the CLI entry point for pibench, a benchmark of
// sequential and parallel Monte Carlo π estimation.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/weiihann/pibench/harness"
	"github.com/weiihann/pibench/montecarlo"
	"github.com/weiihann/pibench/report"
	"github.com/weiihann/pibench/sampler"
)

const (
	defaultParticles   = 10_000_000
	defaultRepetitions = 10
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("pibench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PIBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "pibench",
		Short: "Benchmark sequential and parallel Monte Carlo π estimation",
		Long: `Pibench estimates π by Monte Carlo sampling, once on a single goroutine
and once fanned out across one goroutine per CPU, timing each estimator over
a fixed number of repetitions and printing summary statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if v.GetBool("verbose") {
				level.Set(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			if cfg.Debug {
				pp.Fprintln(cmd.ErrOrStderr(), cfg)
			}

			return runBenchmark(
				cmd.Context(), logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg,
			)
		},
	}

	pflags := root.PersistentFlags()
	pflags.Int("particles", defaultParticles,
		"Number of samples per estimate")
	pflags.Int("workers", 0,
		"Parallel worker count (0 = number of CPUs)")
	pflags.Bool("verbose", false,
		"Enable debug logging")

	flags := root.Flags()
	flags.Int("repetitions", defaultRepetitions,
		"Timed runs per estimator")
	flags.String("sampler", sampler.KindPCG,
		"Random source: "+strings.Join(sampler.Kinds(), ", "))
	flags.Uint64("seed", 0,
		"Base random seed (0 = use current time)")
	flags.Bool("progress", false,
		"Show a progress bar on stderr")
	flags.Bool("debug", false,
		"Dump the resolved configuration to stderr")

	for _, fs := range []*pflag.FlagSet{pflags, flags} {
		if err := v.BindPFlags(fs); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newPartitionsCmd(v))

	return root
}

type runConfig struct {
	Particles   int
	Repetitions int
	Workers     int
	Sampler     string
	Seed        uint64
	Progress    bool
	Debug       bool
}

func loadConfig(v *viper.Viper) (runConfig, error) {
	cfg := runConfig{
		Particles:   v.GetInt("particles"),
		Repetitions: v.GetInt("repetitions"),
		Workers:     v.GetInt("workers"),
		Sampler:     v.GetString("sampler"),
		Seed:        v.GetUint64("seed"),
		Progress:    v.GetBool("progress"),
		Debug:       v.GetBool("debug"),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.Particles < 0 {
		return cfg, fmt.Errorf("--particles must not be negative, got %d",
			cfg.Particles)
	}

	if cfg.Repetitions < 0 {
		return cfg, fmt.Errorf("--repetitions must not be negative, got %d",
			cfg.Repetitions)
	}

	return cfg, nil
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	out, errOut io.Writer,
	cfg runConfig,
) error {
	// Fail on a bad sampler kind before any benchmark starts.
	if _, err := sampler.NewFactory(sampler.Config{Kind: cfg.Sampler}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("particles", cfg.Particles),
		slog.Int("repetitions", cfg.Repetitions),
		slog.Int("workers", cfg.Workers),
		slog.String("sampler", cfg.Sampler),
		slog.Uint64("seed", cfg.Seed),
	)

	// Step 1: Sequential.
	fmt.Fprintf(out,
		"Benchmarking sequential Monte Carlo Pi simulation with %d particles:\n",
		cfg.Particles)

	seqRunner := harness.NewRunner("sequential", out, logger)
	done := attachProgress(seqRunner, cfg, errOut)

	seeds := newSeedSequence(cfg)

	seq, err := harness.Run(seqRunner, func() (float64, error) {
		factory, err := seeds.factory()
		if err != nil {
			return 0, err
		}

		whole := montecarlo.Partition{End: cfg.Particles}

		return montecarlo.Sequential(cfg.Particles, factory(whole)), nil
	}, cfg.Repetitions)

	done()

	if err != nil {
		return fmt.Errorf("sequential benchmark: %w", err)
	}

	fmt.Fprintf(out, "result: %v\n", seq.Values)

	// Step 2: Parallel.
	fmt.Fprintf(out,
		"Benchmarking parallel Monte Carlo Pi simulation with %d particles, %d workers:\n",
		cfg.Particles, cfg.Workers)

	parRunner := harness.NewRunner("parallel", out, logger)
	done = attachProgress(parRunner, cfg, errOut)

	seeds = newSeedSequence(cfg)

	par, err := harness.Run(parRunner, func() (float64, error) {
		factory, err := seeds.factory()
		if err != nil {
			return 0, err
		}

		return montecarlo.Parallel(cfg.Particles, cfg.Workers, factory)
	}, cfg.Repetitions)

	done()

	if err != nil {
		return fmt.Errorf("parallel benchmark: %w", err)
	}

	fmt.Fprintf(out, "result: %v\n", par.Values)

	// Step 3: Summary.
	fmt.Fprintln(out)

	err = report.Generate(out, []report.Summary{
		{
			Name:      seq.Name,
			Particles: cfg.Particles,
			Workers:   1,
			Stats:     seq.Stats,
			Estimates: seq.Values,
		},
		{
			Name:      par.Name,
			Particles: cfg.Particles,
			Workers:   cfg.Workers,
			Stats:     par.Stats,
			Estimates: par.Values,
		},
	})
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

// seedSequence hands out one sampler factory per repetition. With a fixed
// base seed each repetition draws a different stream while the run as a
// whole stays reproducible.
type seedSequence struct {
	kind string
	base uint64
	n    uint64
}

func newSeedSequence(cfg runConfig) *seedSequence {
	return &seedSequence{kind: cfg.Sampler, base: cfg.Seed}
}

func (s *seedSequence) factory() (montecarlo.SamplerFactory, error) {
	seed := s.base
	if seed != 0 {
		seed += s.n * 0x9E3779B97F4A7C15
		s.n++
	}

	return sampler.NewFactory(sampler.Config{Kind: s.kind, Seed: seed})
}
