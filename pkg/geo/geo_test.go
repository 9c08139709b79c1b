package geo

import "testing"

func TestDist2(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := Dist2(a, b); got != 25 {
		t.Errorf("Dist2 = %v, want 25", got)
	}
}

func TestEquals(t *testing.T) {
	a := Point{X: 1, Y: 2}
	b := Point{X: 1, Y: 2}
	c := Point{X: 1, Y: 3}
	if !Equals(a, b) {
		t.Errorf("expected %v == %v", a, b)
	}
	if Equals(a, c) {
		t.Errorf("expected %v != %v", a, c)
	}
}

func TestIntervalEnlargeTo(t *testing.T) {
	iv := Interval{Lower: 1, Upper: 2}

	if got := iv.EnlargeTo(0.5); got.Lower != 0.5 || got.Upper != 2 {
		t.Errorf("enlarge below: got %+v", got)
	}
	if got := iv.EnlargeTo(2.5); got.Lower != 1 || got.Upper != 2.5 {
		t.Errorf("enlarge above: got %+v", got)
	}
	if got := iv.EnlargeTo(1.5); got != iv {
		t.Errorf("enlarge within should be no-op: got %+v", got)
	}
}

func TestRectContainsAndEnlarge(t *testing.T) {
	r := RectForPoint(Point{X: 0, Y: 0})
	if !r.Contains(Point{X: 0, Y: 0}) {
		t.Fatal("rect should contain its own defining point")
	}
	if r.Contains(Point{X: 1, Y: 0}) {
		t.Fatal("degenerate rect should not contain unrelated point")
	}

	r = r.EnlargeTo(Point{X: 5, Y: -5})
	if !r.Contains(Point{X: 5, Y: -5}) || !r.Contains(Point{X: 0, Y: 0}) {
		t.Fatalf("rect did not enlarge correctly: %+v", r)
	}
}

func TestRectMinDist2To(t *testing.T) {
	r := Rect{X: Interval{Lower: 0, Upper: 10}, Y: Interval{Lower: 0, Upper: 10}}

	if got := r.MinDist2To(Point{X: 5, Y: 5}); got != 0 {
		t.Errorf("interior point should have zero min-dist, got %v", got)
	}
	if got := r.MinDist2To(Point{X: -3, Y: 0}); got != 9 {
		t.Errorf("want 9, got %v", got)
	}
	if got := r.MinDist2To(Point{X: 13, Y: 14}); got != 9+16 {
		t.Errorf("want 25, got %v", got)
	}
}

func TestRectSplitUpperLower(t *testing.T) {
	r := Rect{X: Interval{Lower: 0, Upper: 10}, Y: Interval{Lower: 0, Upper: 10}}
	pivot := Point{X: 4, Y: 4}

	upper, err := r.SplitUpper(pivot, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper.X.Lower != 4 || upper.X.Upper != 10 {
		t.Errorf("split upper on x: got %+v", upper.X)
	}

	lower, err := r.SplitLower(pivot, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lower.X.Lower != 0 || lower.X.Upper != 4 {
		t.Errorf("split lower on x: got %+v", lower.X)
	}

	// Source is not mutated by either split.
	if r.X.Lower != 0 || r.X.Upper != 10 {
		t.Errorf("SplitUpper/SplitLower mutated the source rectangle: %+v", r.X)
	}
}

func TestRectSplitOutOfRange(t *testing.T) {
	r := Rect{X: Interval{Lower: 0, Upper: 10}, Y: Interval{Lower: 0, Upper: 10}}

	if _, err := r.SplitUpper(Point{X: 20, Y: 0}, 0); err != ErrOutOfRange {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := r.SplitLower(Point{X: -1, Y: 0}, 0); err != ErrOutOfRange {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
