package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geocluster",
	Short: "Density-based 2-D spatial clustering",
	Long: `geocluster partitions a set of 2-D points into density-based clusters,
either locally against a coordinate file or against a running geocluster
server's dataset API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
