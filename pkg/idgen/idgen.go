// Package idgen issues strictly-monotonic positive cluster identifiers.
package idgen

// Generator produces a monotonically increasing sequence of positive ids,
// starting at 1. It is not safe for concurrent use; callers drive it from a
// single goroutine.
type Generator struct {
	next uint64
}

// New returns a Generator whose first Next() call returns 1.
func New() *Generator {
	return &Generator{next: 0}
}

// Next returns the next id in the sequence: 1 on the first call, then 2,
// 3, and so on.
func (g *Generator) Next() uint64 {
	g.next++
	return g.next
}

// Last returns the most recently issued id, or 0 if Next has never been
// called.
func (g *Generator) Last() uint64 {
	return g.next
}
