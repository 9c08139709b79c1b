package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lennartvoss/geocluster/pkg/cluster"
	"github.com/lennartvoss/geocluster/pkg/ingest"
	"github.com/lennartvoss/geocluster/pkg/render"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <file>",
	Short: "Cluster a local coordinate file",
	Long: `Reads a text file of "x, y" coordinate pairs, one per line, and
partitions the points into density-based clusters. Emits one line per
cluster with its member count.

Exit code 0 on success, 2 on invalid clustering parameters or an input
file that cannot be opened or parsed, 1 on any other failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)

	clusterCmd.Flags().Float64("eps", 0.5, "clustering radius")
	clusterCmd.Flags().Uint("min-pts", 5, "minimum neighborhood size")
	clusterCmd.Flags().Int64("seed", 0, "k-d tree construction seed (0 derives from wall-clock time)")
	clusterCmd.Flags().Bool("strict-noise", false, "collapse unresolved noise into a single shared cluster")
	clusterCmd.Flags().String("plot", "", "write a PNG scatter plot of the result to this path")
	clusterCmd.Flags().Bool("progress", false, "show a progress bar while reading the input file")
}

func runCluster(cmd *cobra.Command, args []string) error {
	eps, _ := cmd.Flags().GetFloat64("eps")
	minPts, _ := cmd.Flags().GetUint("min-pts")
	seed, _ := cmd.Flags().GetInt64("seed")
	strictNoise, _ := cmd.Flags().GetBool("strict-noise")
	plotPath, _ := cmd.Flags().GetString("plot")
	showProgress, _ := cmd.Flags().GetBool("progress")

	points, err := ingest.ReadFile(args[0], showProgress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geocluster: %v\n", err)
		os.Exit(2)
	}

	n, err := cluster.Cluster(points, eps, minPts, cluster.Options{Seed: seed, StrictNoise: strictNoise})
	if err != nil {
		fmt.Fprintf(os.Stderr, "geocluster: %v\n", err)
		if errors.Is(err, cluster.ErrInvalidArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	counts := make(map[uint64]int, n)
	for _, p := range points {
		counts[p.ClusterID]++
	}
	for id := uint64(1); id <= n; id++ {
		fmt.Printf("cluster %d: %d points\n", id, counts[id])
	}

	if plotPath != "" {
		if err := render.ScatterPNG(plotPath, points); err != nil {
			fmt.Fprintf(os.Stderr, "geocluster: %v\n", err)
			os.Exit(1)
		}
	}

	return nil
}
