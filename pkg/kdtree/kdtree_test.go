package kdtree

import (
	"sort"
	"testing"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

type testItem struct {
	p geo.Point
}

func (t testItem) Coords() geo.Point { return t.p }

func items(pts ...[2]float64) []testItem {
	out := make([]testItem, len(pts))
	for i, p := range pts {
		out[i] = testItem{geo.Point{X: p[0], Y: p[1]}}
	}
	return out
}

func TestBuildDedupesExactDuplicates(t *testing.T) {
	in := items([2]float64{1, 1}, [2]float64{1, 1}, [2]float64{2, 2})
	tree := Build(in, 42)
	if tree.Size() != 2 {
		t.Fatalf("expected 2 unique points, got %d", tree.Size())
	}
}

func TestBuildAllDuplicatesKeepsOneRepresentative(t *testing.T) {
	in := items([2]float64{1, 1}, [2]float64{1, 1}, [2]float64{1, 1})
	tree := Build(in, 42)
	if tree.Size() != 1 {
		t.Fatalf("expected a single representative, got size %d", tree.Size())
	}
	if got := tree.Within(geo.Point{X: 1, Y: 1}, 100); len(got) != 1 || got[0].p != (geo.Point{X: 1, Y: 1}) {
		t.Fatalf("expected exactly the one representative at (1,1), got %v", got)
	}
}

func TestWithinSoundness(t *testing.T) {
	in := items(
		[2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1}, [2]float64{5, 5},
		[2]float64{-3, -3}, [2]float64{2, 2}, [2]float64{10, 0},
	)
	tree := Build(in, 7)

	query := geo.Point{X: 0, Y: 0}
	radius2 := 4.0 // radius 2

	got := tree.Within(query, radius2)

	var want []geo.Point
	for _, it := range in {
		if geo.Dist2(it.p, query) <= radius2 {
			want = append(want, it.p)
		}
	}

	if !sameSet(toPoints(got), want) {
		t.Errorf("Within mismatch: got %v, want %v", toPoints(got), want)
	}
}

func TestKNearestSortedOrder(t *testing.T) {
	in := items([2]float64{3, 0}, [2]float64{1, 0}, [2]float64{2, 0}, [2]float64{0, 0})
	tree := Build(in, 1)

	got := tree.KNearestSorted(geo.Point{X: 0, Y: 0}, 100)
	if !sort.SliceIsSorted(got, func(i, j int) bool {
		return geo.Dist2(got[i].Coords(), geo.Point{}) < geo.Dist2(got[j].Coords(), geo.Point{})
	}) {
		t.Errorf("result not sorted by distance: %v", got)
	}
}

func TestInsertDeleteNotSupported(t *testing.T) {
	tree := Build(items([2]float64{0, 0}), 1)
	if err := tree.Insert(testItem{geo.Point{X: 1, Y: 1}}); err != ErrNotSupported {
		t.Errorf("Insert: got %v, want ErrNotSupported", err)
	}
	if err := tree.Delete(testItem{geo.Point{X: 0, Y: 0}}); err != ErrNotSupported {
		t.Errorf("Delete: got %v, want ErrNotSupported", err)
	}
}

func toPoints(items []testItem) []geo.Point {
	out := make([]geo.Point, len(items))
	for i, it := range items {
		out[i] = it.p
	}
	return out
}

func sameSet(a, b []geo.Point) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[geo.Point]int)
	for _, p := range a {
		count[p]++
	}
	for _, p := range b {
		count[p]--
	}
	for _, c := range count {
		if c != 0 {
			return false
		}
	}
	return true
}
