// Package coalesce groups points sharing identical coordinates into
// point-sets, so the clustering engine and the k-d tree never have to deal
// with duplicate representatives.
package coalesce

import (
	"sort"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

// Member is the minimal view a coalesced group needs of an underlying input
// point: its coordinates. The coalescer never reads or writes any other
// field of the point.
type Member interface {
	Coords() geo.Point
}

// PointSet is one coalesced group: a representative point and every input
// member sharing those coordinates.
type PointSet[M Member] struct {
	Point   geo.Point
	Members []M
}

// Multiplicity returns the number of underlying members in the group.
func (ps *PointSet[M]) Multiplicity() int {
	return len(ps.Members)
}

// Coords implements kdtree.Item, letting a tree index point-sets directly.
func (ps *PointSet[M]) Coords() geo.Point {
	return ps.Point
}

// Coalesce stable-sorts points by (x, y) and groups consecutive points
// sharing coordinates into point-sets. The first point-set observed for a
// given coordinate owns the whole group; membership order matches input
// order within each group.
func Coalesce[M Member](points []M) []*PointSet[M] {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]M, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Coords(), sorted[j].Coords()
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	var groups []*PointSet[M]
	for _, p := range sorted {
		c := p.Coords()
		if len(groups) > 0 && geo.Equals(groups[len(groups)-1].Point, c) {
			last := groups[len(groups)-1]
			last.Members = append(last.Members, p)
			continue
		}
		groups = append(groups, &PointSet[M]{
			Point:   c,
			Members: []M{p},
		})
	}

	return groups
}
