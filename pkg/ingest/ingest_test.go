package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadParsesPairs(t *testing.T) {
	points, err := Read(strings.NewReader("1.0, 2.0\n-3.5, 4.25\n0, 0\n"), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].X != 1.0 || points[0].Y != 2.0 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].X != -3.5 || points[1].Y != 4.25 {
		t.Errorf("unexpected second point: %+v", points[1])
	}
}

func TestReadRejectsBlankLine(t *testing.T) {
	_, err := Read(strings.NewReader("1.0, 2.0\n\n3.0, 4.0\n"), nil)
	if err == nil {
		t.Fatal("expected error for blank line")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 2 {
		t.Errorf("expected error on line 2, got %d", pe.Line)
	}
}

func TestReadRejectsMalformedLine(t *testing.T) {
	_, err := Read(strings.NewReader("1.0, 2.0\nnot-a-number, 4.0\n"), nil)
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestReadRejectsMissingComma(t *testing.T) {
	_, err := Read(strings.NewReader("1.0 2.0\n"), nil)
	if err == nil {
		t.Fatal("expected error for missing comma separator")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.txt")
	if err := os.WriteFile(path, []byte("0, 0\n1, 1\n2, 2\n"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	points, err := ReadFile(path, false)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/points.txt", false); err == nil {
		t.Fatal("expected error for missing file")
	}
}
