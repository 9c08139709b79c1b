package coalesce

import (
	"testing"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

type testPoint struct {
	p geo.Point
}

func (t testPoint) Coords() geo.Point { return t.p }

func TestCoalesceGroupsDuplicates(t *testing.T) {
	pts := []testPoint{
		{geo.Point{X: 5, Y: 5}},
		{geo.Point{X: 1, Y: 1}},
		{geo.Point{X: 5, Y: 5}},
		{geo.Point{X: 5, Y: 5}},
		{geo.Point{X: 2, Y: 2}},
	}

	groups := Coalesce(pts)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	byCoord := make(map[geo.Point]int)
	for _, g := range groups {
		byCoord[g.Point] = g.Multiplicity()
	}

	if byCoord[geo.Point{X: 5, Y: 5}] != 3 {
		t.Errorf("expected multiplicity 3 for (5,5), got %d", byCoord[geo.Point{X: 5, Y: 5}])
	}
	if byCoord[geo.Point{X: 1, Y: 1}] != 1 {
		t.Errorf("expected multiplicity 1 for (1,1), got %d", byCoord[geo.Point{X: 1, Y: 1}])
	}
}

func TestCoalesceEmpty(t *testing.T) {
	if got := Coalesce[testPoint](nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestCoalesceSinglePoint(t *testing.T) {
	groups := Coalesce([]testPoint{{geo.Point{X: 3, Y: 4}}})
	if len(groups) != 1 || groups[0].Multiplicity() != 1 {
		t.Fatalf("unexpected result: %+v", groups)
	}
}
