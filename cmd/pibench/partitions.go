package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/weiihann/pibench/montecarlo"
)

func newPartitionsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "partitions",
		Short: "Print how particles are split across workers",
		Long: `Print the sample index range each parallel worker is assigned for the
configured particle and worker counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			particles := v.GetInt("particles")
			workers := v.GetInt("workers")

			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			if particles < 0 {
				return fmt.Errorf("--particles must not be negative, got %d",
					particles)
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%d particles across %d workers:\n",
				particles, workers)

			for _, p := range montecarlo.Partitions(particles, workers) {
				fmt.Fprintf(out, "  worker %-4d [%d, %d)  %d samples\n",
					p.Index, p.Start, p.End, p.Len())
			}

			return nil
		},
	}
}
