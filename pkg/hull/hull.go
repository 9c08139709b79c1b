// Package hull computes the 2-D convex hull of a point set via a Graham
// scan, used by pkg/cluster to prune the expansion frontier.
package hull

import (
	"sort"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

// Hull returns the vertices of the convex hull of points, in counterclockwise
// order starting at the anchor (lowest y, ties broken by lowest x).
//
// Inputs of three points or fewer are returned unchanged. Collinear
// boundary points are dropped: when two candidate segments from the anchor
// are collinear, only the longer one survives, so the result never
// contains three consecutive collinear vertices.
func Hull(points []geo.Point) []geo.Point {
	if len(points) <= 3 {
		out := make([]geo.Point, len(points))
		copy(out, points)
		return out
	}

	anchor, rest := pickAnchor(points)
	tails := sortedTails(anchor, rest)

	if len(tails) < 2 {
		out := make([]geo.Point, 0, len(tails)+1)
		out = append(out, anchor)
		out = append(out, tails...)
		return out
	}

	stack := make([]geo.Point, 0, len(tails)+1)
	stack = append(stack, anchor, tails[0], tails[1])

	for _, p := range tails[2:] {
		for len(stack) >= 2 && !isLeftTurn(stack[len(stack)-2], stack[len(stack)-1], p) {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}

	return stack
}

// pickAnchor returns the point with the smallest y (ties broken by smallest
// x) and the remaining points in no particular order.
func pickAnchor(points []geo.Point) (geo.Point, []geo.Point) {
	anchorIdx := 0
	for i, p := range points {
		a := points[anchorIdx]
		if p.Y < a.Y || (p.Y == a.Y && p.X < a.X) {
			anchorIdx = i
		}
	}

	anchor := points[anchorIdx]
	rest := make([]geo.Point, 0, len(points)-1)
	for i, p := range points {
		if i != anchorIdx {
			rest = append(rest, p)
		}
	}
	return anchor, rest
}

// sortedTails orders rest by polar angle around anchor, dropping the
// shorter of any pair of segments that are collinear with the anchor.
func sortedTails(anchor geo.Point, rest []geo.Point) []geo.Point {
	sort.Slice(rest, func(i, j int) bool {
		c := cross(anchor, rest[i], rest[j])
		if c != 0 {
			// rest[i] comes first if the turn anchor->i->j is a left turn,
			// i.e. i has the smaller polar angle.
			return c > 0
		}
		return geo.Dist2(anchor, rest[i]) > geo.Dist2(anchor, rest[j])
	})

	out := make([]geo.Point, 0, len(rest))
	for _, p := range rest {
		if len(out) > 0 && cross(anchor, out[len(out)-1], p) == 0 {
			// Collinear with the anchor and the last kept tail: the sort
			// above already placed the longer segment first, so drop p.
			continue
		}
		out = append(out, p)
	}
	return out
}

// cross computes the cross product of vectors (p0,p1) and (p0,p2).
func cross(p0, p1, p2 geo.Point) float64 {
	return (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
}

// isLeftTurn reports whether p0 -> p1 -> p2 makes a strict left turn.
func isLeftTurn(p0, p1, p2 geo.Point) bool {
	return cross(p0, p1, p2) > 0
}
