// Package ingest reads a text file of coordinate pairs into clusterable
// points, one line per point in "x, y" format. Blank or malformed lines
// fail the read outright.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

// ParseError reports the line a malformed input failed on.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ingest: line %d: %s", e.Line, e.Reason)
}

// ReadFile reads a coordinate file from path. showProgress displays a
// terminal progress bar while scanning, sized against the file's byte
// length; pass false for non-interactive use.
func ReadFile(path string, showProgress bool) ([]cluster.ClusterablePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	var bar *progressbar.ProgressBar
	if showProgress {
		info, err := f.Stat()
		if err == nil {
			bar = progressbar.DefaultBytes(info.Size(), "reading points")
		}
	}

	return Read(f, bar)
}

// Read parses coordinate pairs from r, one "x, y" pair per line. A nil bar
// disables progress reporting.
func Read(r io.Reader, bar *progressbar.ProgressBar) ([]cluster.ClusterablePoint, error) {
	scanner := bufio.NewScanner(r)

	var points []cluster.ClusterablePoint
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if bar != nil {
			bar.Add(len(line) + 1)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil, &ParseError{Line: lineNo, Reason: "blank line"}
		}

		x, y, err := parseLine(trimmed)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: err.Error()}
		}

		points = append(points, cluster.ClusterablePoint{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest: scan: %w", err)
	}

	return points, nil
}

// parseLine parses one "%lg, %lg" coordinate pair.
func parseLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"x, y\", got %q", line)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x coordinate: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y coordinate: %w", err)
	}

	return x, y, nil
}
