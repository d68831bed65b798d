// Package search implements the lattice traversal: the monotonicity-aware
// FLASH sweep for exact optima and a time-bounded greedy search for large
// solution spaces.
package search

import (
	"sort"

	"github.com/hupe1980/anongo/lattice"
)

// Strategy orders nodes for traversal: primarily by total generalization
// level, then by the weighted average relative level (level divided by
// hierarchy height), then by node id. Lower sorts first.
type Strategy struct {
	heights []int
	weights []float64
}

// NewStrategy creates a strategy over the hierarchy heights and attribute
// weights in manager order.
func NewStrategy(heights []int, weights []float64) *Strategy {
	return &Strategy{heights: heights, weights: weights}
}

// relativeLevel is the weighted mean of level/(height-1) over all
// attributes.
func (s *Strategy) relativeLevel(n *lattice.Node) float64 {
	sum, weightSum := 0.0, 0.0
	for i, lv := range n.Levels() {
		if s.heights[i] > 1 {
			sum += s.weights[i] * float64(lv) / float64(s.heights[i]-1)
		}
		weightSum += s.weights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// Compare orders two nodes. Negative means a is traversed first.
func (s *Strategy) Compare(a, b *lattice.Node) int {
	if a.TotalLevel() != b.TotalLevel() {
		if a.TotalLevel() < b.TotalLevel() {
			return -1
		}
		return 1
	}
	ra, rb := s.relativeLevel(a), s.relativeLevel(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if a.ID() != b.ID() {
		if a.ID() < b.ID() {
			return -1
		}
		return 1
	}
	return 0
}

// SortIDs sorts node ids in traversal order.
func (s *Strategy) SortIDs(l *lattice.Lattice, ids []int) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.Compare(l.Node(ids[i]), l.Node(ids[j])) < 0
	})
}
