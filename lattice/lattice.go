// Package lattice implements the bounded product lattice of generalization
// level vectors searched by the engine.
//
// A node is a vector of per-attribute levels within [min, max]. Node ids
// are mixed-radix packed: id = Σ (level[i]-min[i])·stride[i], which makes
// neighbor navigation pure index arithmetic. The lattice owns all nodes in
// one arena slice; parent/child relationships are id-based and nodes never
// reference each other.
package lattice

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooLarge is returned when the solution space exceeds what can be
// materialized.
var ErrTooLarge = errors.New("lattice: solution space too large to materialize")

// MaxSize bounds the number of materialized nodes.
const MaxSize = 1 << 26

// Lattice is the materialized solution space of one run.
type Lattice struct {
	min, max []int
	strides  []int
	nodes    []Node
	byLevel  [][]int // node ids per total generalization level
	minTotal int
	maxTotal int
}

// New materializes the lattice ∏ [min[i], max[i]].
func New(min, max []int) (*Lattice, error) {
	if len(min) != len(max) || len(min) == 0 {
		return nil, fmt.Errorf("lattice: mismatched bounds (%d vs %d)", len(min), len(max))
	}

	size := 1
	strides := make([]int, len(min))
	minTotal, maxTotal := 0, 0
	for i := range min {
		if min[i] > max[i] {
			return nil, fmt.Errorf("lattice: attribute %d: min level %d > max level %d", i, min[i], max[i])
		}
		strides[i] = size
		size *= max[i] - min[i] + 1
		if size > MaxSize {
			return nil, ErrTooLarge
		}
		minTotal += min[i]
		maxTotal += max[i]
	}

	l := &Lattice{
		min:      min,
		max:      max,
		strides:  strides,
		nodes:    make([]Node, size),
		byLevel:  make([][]int, maxTotal-minTotal+1),
		minTotal: minTotal,
		maxTotal: maxTotal,
	}

	levels := make([]int, len(min))
	copy(levels, min)
	for id := 0; id < size; id++ {
		n := &l.nodes[id]
		n.id = id
		n.levels = make([]int, len(levels))
		copy(n.levels, levels)
		for _, lv := range levels {
			n.total += lv
		}
		n.quality = math.NaN()
		n.lowerBound = math.NaN()
		l.byLevel[n.total-minTotal] = append(l.byLevel[n.total-minTotal], id)

		// Advance mixed-radix counter.
		for i := 0; i < len(levels); i++ {
			levels[i]++
			if levels[i] <= max[i] {
				break
			}
			levels[i] = min[i]
		}
	}

	return l, nil
}

// Size returns the number of nodes.
func (l *Lattice) Size() int {
	return len(l.nodes)
}

// NumAttributes returns the lattice dimensionality.
func (l *Lattice) NumAttributes() int {
	return len(l.min)
}

// Node returns the node with the given id.
func (l *Lattice) Node(id int) *Node {
	return &l.nodes[id]
}

// ID packs a level vector into a node id.
func (l *Lattice) ID(levels []int) int {
	id := 0
	for i, lv := range levels {
		id += (lv - l.min[i]) * l.strides[i]
	}
	return id
}

// NodeAt returns the node with the given level vector.
func (l *Lattice) NodeAt(levels []int) *Node {
	return &l.nodes[l.ID(levels)]
}

// Bottom returns the node with all levels at their minimum.
func (l *Lattice) Bottom() *Node {
	return &l.nodes[0]
}

// Top returns the node with all levels at their maximum.
func (l *Lattice) Top() *Node {
	return &l.nodes[len(l.nodes)-1]
}

// MinTotalLevel returns the smallest total generalization level.
func (l *Lattice) MinTotalLevel() int {
	return l.minTotal
}

// MaxTotalLevel returns the largest total generalization level.
func (l *Lattice) MaxTotalLevel() int {
	return l.maxTotal
}

// AtTotalLevel returns the ids of all nodes with the given total level, in
// ascending id order.
func (l *Lattice) AtTotalLevel(total int) []int {
	if total < l.minTotal || total > l.maxTotal {
		return nil
	}
	return l.byLevel[total-l.minTotal]
}

// Successors calls fn for every immediate successor (one attribute, one
// level up) of the node, in attribute order. Iteration stops when fn
// returns false.
func (l *Lattice) Successors(n *Node, fn func(*Node) bool) {
	for i := range n.levels {
		if n.levels[i] < l.max[i] {
			if !fn(&l.nodes[n.id+l.strides[i]]) {
				return
			}
		}
	}
}

// Predecessors calls fn for every immediate predecessor (one attribute, one
// level down) of the node, in attribute order. Iteration stops when fn
// returns false.
func (l *Lattice) Predecessors(n *Node, fn func(*Node) bool) {
	for i := range n.levels {
		if n.levels[i] > l.min[i] {
			if !fn(&l.nodes[n.id-l.strides[i]]) {
				return
			}
		}
	}
}

// Precedes reports whether a ≤ b componentwise.
func Precedes(a, b *Node) bool {
	for i, lv := range a.levels {
		if lv > b.levels[i] {
			return false
		}
	}
	return true
}

// CompareLex orders level vectors lexicographically; smaller is the less
// generalized vector. Used for deterministic tie-breaking.
func CompareLex(a, b *Node) int {
	for i, lv := range a.levels {
		if lv != b.levels[i] {
			if lv < b.levels[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// StateStatistics counts nodes per lifecycle state.
func (l *Lattice) StateStatistics() map[State]int {
	stats := make(map[State]int)
	for i := range l.nodes {
		stats[l.nodes[i].state]++
	}
	return stats
}
