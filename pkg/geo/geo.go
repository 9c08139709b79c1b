// Package geo provides the 2-D geometry primitives the clustering engine
// builds on: points, intervals, and axis-aligned rectangles. All distance
// comparisons are made in squared form; nothing in this package takes a
// square root.
package geo

import "errors"

// ErrOutOfRange is returned by Rect.SplitUpper/SplitLower when the pivot
// coordinate lies outside the existing interval on the requested side.
var ErrOutOfRange = errors.New("geo: split pivot out of range")

// Point is an ordered pair of finite doubles.
type Point struct {
	X, Y float64
}

// Dist2 returns the squared Euclidean distance between a and b.
func Dist2(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Equals reports whether a and b share the same coordinates.
func Equals(a, b Point) bool {
	return a.X == b.X && a.Y == b.Y
}

// Coord returns the coordinate of p along axis (0 = x, 1 = y).
func (p Point) Coord(axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// Interval is a closed range [Lower, Upper] over the reals.
type Interval struct {
	Lower, Upper float64
}

// Contains reports whether p lies within the interval, inclusive.
func (iv Interval) Contains(p float64) bool {
	return p >= iv.Lower && p <= iv.Upper
}

// EnlargeTo grows the interval to cover p, if necessary.
// It extends the lower bound if p is below it, otherwise the upper
// bound if p is above it; it is a no-op if p is already contained.
func (iv Interval) EnlargeTo(p float64) Interval {
	if p < iv.Lower {
		iv.Lower = p
	} else if p > iv.Upper {
		iv.Upper = p
	}
	return iv
}

// Rect is an axis-aligned rectangle: one interval per axis.
type Rect struct {
	X, Y Interval
}

// RectForPoint returns the degenerate rectangle containing only p.
func RectForPoint(p Point) Rect {
	return Rect{
		X: Interval{Lower: p.X, Upper: p.X},
		Y: Interval{Lower: p.Y, Upper: p.Y},
	}
}

// Axis returns the interval along the given axis (0 = x, 1 = y).
func (r Rect) Axis(axis int) Interval {
	if axis == 0 {
		return r.X
	}
	return r.Y
}

func (r Rect) withAxis(axis int, iv Interval) Rect {
	if axis == 0 {
		r.X = iv
	} else {
		r.Y = iv
	}
	return r
}

// Contains reports whether p lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return r.X.Contains(p.X) && r.Y.Contains(p.Y)
}

// EnlargeTo grows the rectangle to cover p.
func (r Rect) EnlargeTo(p Point) Rect {
	r.X = r.X.EnlargeTo(p.X)
	r.Y = r.Y.EnlargeTo(p.Y)
	return r
}

// MinDist2To returns the minimum squared distance from any point in the
// rectangle to p: zero if the rectangle contains p, otherwise the sum of
// squared axis gaps.
func (r Rect) MinDist2To(p Point) float64 {
	var sum float64
	sum += axisGap2(r.X, p.X)
	sum += axisGap2(r.Y, p.Y)
	return sum
}

func axisGap2(iv Interval, p float64) float64 {
	if iv.Contains(p) {
		return 0
	}
	if p < iv.Lower {
		d := p - iv.Lower
		return d * d
	}
	d := iv.Upper - p
	return d * d
}

// SplitUpper returns the sub-rectangle of r on the upper side of pivot's
// coordinate along axis: the lower bound of that axis is raised to the
// pivot coordinate (never lowered). It fails with ErrOutOfRange if the
// pivot coordinate lies above r's existing upper bound on that axis.
func (r Rect) SplitUpper(pivot Point, axis int) (Rect, error) {
	p := pivot.Coord(axis)
	iv := r.Axis(axis)
	if iv.Upper < p {
		return Rect{}, ErrOutOfRange
	}
	if iv.Lower < p {
		iv.Lower = p
	}
	return r.withAxis(axis, iv), nil
}

// SplitLower returns the sub-rectangle of r on the lower side of pivot's
// coordinate along axis: the upper bound of that axis is lowered to the
// pivot coordinate (never raised). It fails with ErrOutOfRange if the
// pivot coordinate lies below r's existing lower bound on that axis.
func (r Rect) SplitLower(pivot Point, axis int) (Rect, error) {
	p := pivot.Coord(axis)
	iv := r.Axis(axis)
	if iv.Lower > p {
		return Rect{}, ErrOutOfRange
	}
	if iv.Upper > p {
		iv.Upper = p
	}
	return r.withAxis(axis, iv), nil
}
