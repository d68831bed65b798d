// Package hierarchy implements value generalization hierarchies.
//
// A hierarchy maps every base value id of a quasi-identifying column to a
// coarser value id per generalization level. Level 0 is the identity, the
// top level may map the whole domain to a single id. Hierarchies are built
// once, validated for monotonicity and then frozen.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/core"
)

var (
	// ErrNotMonotonic is returned when two values merged at some level are
	// split again at a higher level.
	ErrNotMonotonic = errors.New("hierarchy: not monotonic")
	// ErrInvalidShape is returned for empty or ragged hierarchy matrices.
	ErrInvalidShape = errors.New("hierarchy: invalid shape")
)

// Hierarchy is the frozen, id-encoded generalization hierarchy of a single
// quasi-identifying attribute.
type Hierarchy struct {
	name string

	// levels[l][v] is the level-l generalization of base value id v.
	// Index 0 is the suppression sentinel and maps to itself on every level.
	levels [][]core.ValueID
}

// New builds a hierarchy from an id-encoded matrix. matrix[i][l] is the
// level-l generalization of the base value matrix[i][0]; every row must have
// the same number of levels and level 0 must be the identity over base ids.
// The matrix is validated for monotonicity: values merged at level l-1 must
// remain merged at level l.
func New(name string, matrix [][]core.ValueID) (*Hierarchy, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("%w: attribute %q: empty matrix", ErrInvalidShape, name)
	}

	height := len(matrix[0])

	// Base ids are dense and start at 1; 0 is the suppression sentinel.
	maxBase := core.ValueID(0)
	for i, row := range matrix {
		if len(row) != height {
			return nil, fmt.Errorf("%w: attribute %q: row %d has %d levels, want %d", ErrInvalidShape, name, i, len(row), height)
		}
		if row[0] > maxBase {
			maxBase = row[0]
		}
	}

	levels := make([][]core.ValueID, height)
	seen := make([]bool, maxBase+1)
	for l := range levels {
		levels[l] = make([]core.ValueID, maxBase+1)
	}
	for _, row := range matrix {
		base := row[0]
		if base == core.SuppressedValue {
			return nil, fmt.Errorf("%w: attribute %q: base id 0 is reserved", ErrInvalidShape, name)
		}
		if seen[base] {
			return nil, fmt.Errorf("%w: attribute %q: duplicate base id %d", ErrInvalidShape, name, base)
		}
		seen[base] = true
		for l := 0; l < height; l++ {
			levels[l][base] = row[l]
		}
	}
	for v := core.ValueID(1); v <= maxBase; v++ {
		if !seen[v] {
			return nil, fmt.Errorf("%w: attribute %q: base id %d missing", ErrInvalidShape, name, v)
		}
	}

	h := &Hierarchy{name: name, levels: levels}
	if err := h.checkMonotonicity(); err != nil {
		return nil, err
	}
	return h, nil
}

// checkMonotonicity verifies that merges are preserved across levels: if two
// base values share a generalization at level l-1, they share one at level l.
func (h *Hierarchy) checkMonotonicity() error {
	for l := 1; l < len(h.levels); l++ {
		lift := make(map[core.ValueID]core.ValueID)
		for v := core.ValueID(1); v < core.ValueID(len(h.levels[l])); v++ {
			prev := h.levels[l-1][v]
			cur := h.levels[l][v]
			if lifted, ok := lift[prev]; ok {
				if lifted != cur {
					return fmt.Errorf("%w: attribute %q: values merged at level %d split at level %d", ErrNotMonotonic, h.name, l-1, l)
				}
			} else {
				lift[prev] = cur
			}
		}
	}
	return nil
}

// Name returns the attribute name.
func (h *Hierarchy) Name() string {
	return h.name
}

// Height returns the number of levels.
func (h *Hierarchy) Height() int {
	return len(h.levels)
}

// Cardinality returns the number of base values (excluding the sentinel).
func (h *Hierarchy) Cardinality() int {
	return len(h.levels[0]) - 1
}

// Apply returns the level-l generalization of value v. The suppression
// sentinel generalizes to itself.
func (h *Hierarchy) Apply(level int, v core.ValueID) core.ValueID {
	return h.levels[level][v]
}

// Level returns the full id mapping of a single level. The returned slice
// must not be modified.
func (h *Hierarchy) Level(level int) []core.ValueID {
	return h.levels[level]
}

// DistinctValues returns the number of distinct generalized values on a
// level.
func (h *Hierarchy) DistinctValues(level int) int {
	seen := make(map[core.ValueID]struct{}, len(h.levels[level]))
	for _, v := range h.levels[level][1:] {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// GroupShare returns, for a generalized value on a level, the fraction of
// the base domain it covers. Used by the Loss quality model.
func (h *Hierarchy) GroupShare(level int, v core.ValueID) float64 {
	n := 0
	for _, g := range h.levels[level][1:] {
		if g == v {
			n++
		}
	}
	return float64(n) / float64(h.Cardinality())
}
