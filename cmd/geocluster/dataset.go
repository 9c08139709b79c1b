package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage datasets on a running geocluster server",
}

var datasetServerURL string

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.PersistentFlags().StringVar(&datasetServerURL, "server", "http://localhost:8080", "base URL of the geocluster server")

	datasetCmd.AddCommand(datasetCreateCmd)
	datasetCmd.AddCommand(datasetPointsCmd)
	datasetCmd.AddCommand(datasetClusterCmd)
	datasetCmd.AddCommand(datasetStatsCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetDeleteCmd)

	datasetCreateCmd.Flags().Int64("max-points", 0, "maximum points the dataset may hold (0 uses the server default)")
	datasetPointsCmd.Flags().String("file", "", "path to a coordinate file (\"x, y\" per line) to append")
	datasetClusterCmd.Flags().Float64("eps", 0, "clustering radius (0 uses the server default)")
	datasetClusterCmd.Flags().Uint("min-pts", 0, "minimum neighborhood size (0 uses the server default)")
	datasetClusterCmd.Flags().Bool("no-cache", false, "bypass the server's cached result")
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func serverURL(path string) string {
	return strings.TrimRight(datasetServerURL, "/") + path
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return fmt.Errorf("server returned %s: %s", resp.Status, body.Error)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, string(data))
}

var datasetCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxPoints, _ := cmd.Flags().GetInt64("max-points")

		payload, err := json.Marshal(map[string]interface{}{
			"name":       args[0],
			"max_points": maxPoints,
		})
		if err != nil {
			return err
		}

		resp, err := httpClient.Post(serverURL("/v1/datasets"), "application/json", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return decodeAPIError(resp)
		}

		io.Copy(cmd.OutOrStdout(), resp.Body)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var datasetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := http.NewRequest(http.MethodDelete, serverURL("/v1/datasets/"+args[0]), nil)
		if err != nil {
			return err
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			return decodeAPIError(resp)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted dataset %q\n", args[0])
		return nil
	},
}

var datasetPointsCmd = &cobra.Command{
	Use:   "points <name>",
	Short: "Append points to a dataset from a coordinate file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			return fmt.Errorf("--file is required")
		}

		points, err := readCoordinatePairs(filePath)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]interface{}{"points": points})
		if err != nil {
			return err
		}

		resp, err := httpClient.Post(serverURL("/v1/datasets/"+args[0]+"/points"), "application/json", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		io.Copy(cmd.OutOrStdout(), resp.Body)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var datasetClusterCmd = &cobra.Command{
	Use:   "cluster <name>",
	Short: "Run clustering on a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eps, _ := cmd.Flags().GetFloat64("eps")
		minPts, _ := cmd.Flags().GetUint("min-pts")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		body := map[string]interface{}{"no_cache": noCache}
		if eps != 0 {
			body["eps"] = eps
		}
		if minPts != 0 {
			body["min_pts"] = minPts
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}

		resp, err := httpClient.Post(serverURL("/v1/datasets/"+args[0]+"/cluster"), "application/json", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		var result struct {
			ClusterCount uint64 `json:"cluster_count"`
			FromCache    bool   `json:"from_cache"`
			Points       []struct {
				ClusterID uint64 `json:"ClusterID"`
			} `json:"points"`
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		counts := make(map[uint64]int, result.ClusterCount)
		for _, p := range result.Points {
			counts[p.ClusterID]++
		}
		for id := uint64(1); id <= result.ClusterCount; id++ {
			fmt.Fprintf(cmd.OutOrStdout(), "cluster %d: %d points\n", id, counts[id])
		}
		if result.FromCache {
			fmt.Fprintln(cmd.OutOrStdout(), "(served from cache)")
		}
		return nil
	},
}

var datasetStatsCmd = &cobra.Command{
	Use:   "stats <name>",
	Short: "Show usage statistics for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := httpClient.Get(serverURL("/v1/datasets/" + args[0] + "/stats"))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		io.Copy(cmd.OutOrStdout(), resp.Body)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := httpClient.Get(serverURL("/v1/datasets"))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		io.Copy(cmd.OutOrStdout(), resp.Body)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

// readCoordinatePairs parses a coordinate file without pulling in the
// ingest package's progress-bar machinery, which only makes sense for
// local clustering runs.
func readCoordinatePairs(path string) ([][2]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var points [][2]float64
	for i, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"x, y\", got %q", path, i+1, line)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid x coordinate: %w", path, i+1, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid y coordinate: %w", path, i+1, err)
		}
		points = append(points, [2]float64{x, y})
	}
	return points, nil
}
