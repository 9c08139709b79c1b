package hull

import (
	"reflect"
	"testing"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

func pt(x, y float64) geo.Point { return geo.Point{X: x, Y: y} }

func TestHullSmallInputsUnchanged(t *testing.T) {
	for _, pts := range [][]geo.Point{
		{},
		{pt(1, 1)},
		{pt(1, 1), pt(2, 2)},
		{pt(1, 1), pt(2, 2), pt(3, 0)},
	} {
		got := Hull(pts)
		if !reflect.DeepEqual(got, pts) && !(len(got) == 0 && len(pts) == 0) {
			t.Errorf("Hull(%v) = %v, want unchanged", pts, got)
		}
	}
}

func TestHullSquareWithInteriorPoint(t *testing.T) {
	// A square with one point strictly inside it: the hull must drop the
	// interior point and keep only the four corners.
	points := []geo.Point{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2), pt(1, 1)}
	want := []geo.Point{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2)}

	got := Hull(points)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Hull(square+interior) = %v, want %v", got, want)
	}
}

func TestHullDropsCollinearBoundaryPoints(t *testing.T) {
	// Points on the segment from (0,0) to (4,0) should not all survive.
	points := []geo.Point{pt(0, 0), pt(1, 0), pt(2, 0), pt(4, 0), pt(2, 3)}
	got := Hull(points)

	for _, p := range got {
		if p == pt(1, 0) || p == pt(2, 0) {
			t.Errorf("expected interior collinear point %v to be dropped from %v", p, got)
		}
	}
}

func TestHullIdempotent(t *testing.T) {
	points := []geo.Point{pt(0, 0), pt(4, 0), pt(4, 4), pt(0, 4), pt(2, 2), pt(1, 3), pt(3, 1)}

	first := Hull(points)
	second := Hull(first)

	if !sameVertexSet(first, second) {
		t.Errorf("Hull(Hull(S)) != Hull(S): %v vs %v", first, second)
	}
}

func sameVertexSet(a, b []geo.Point) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[geo.Point]bool, len(a))
	for _, p := range a {
		seen[p] = true
	}
	for _, p := range b {
		if !seen[p] {
			return false
		}
	}
	return true
}
