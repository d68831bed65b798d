package lattice

import "math"

// State is the lifecycle state of a node. From Unvisited a node moves to a
// Checked or Inferred state; Checked states are terminal.
type State uint8

const (
	// Unvisited marks a node the search has not classified yet.
	Unvisited State = iota
	// CheckedAnonymous marks a node the checker evaluated as anonymous.
	CheckedAnonymous
	// CheckedNonAnonymous marks a node the checker evaluated as not anonymous.
	CheckedNonAnonymous
	// InferredAnonymous marks a node tagged anonymous by monotonicity.
	InferredAnonymous
	// InferredNonAnonymous marks a node tagged non-anonymous by monotonicity.
	InferredNonAnonymous
	// Pruned marks a node skipped by the heuristic search.
	Pruned
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case CheckedAnonymous:
		return "checked-anonymous"
	case CheckedNonAnonymous:
		return "checked-non-anonymous"
	case InferredAnonymous:
		return "inferred-anonymous"
	case InferredNonAnonymous:
		return "inferred-non-anonymous"
	case Pruned:
		return "pruned"
	default:
		return "invalid"
	}
}

// Anonymous reports whether the state implies anonymity.
func (s State) Anonymous() bool {
	return s == CheckedAnonymous || s == InferredAnonymous
}

// Checked reports whether the node was actually evaluated.
func (s State) Checked() bool {
	return s == CheckedAnonymous || s == CheckedNonAnonymous
}

// Node is one transformation of the solution space: a vector of
// per-attribute generalization levels plus its lifecycle state, quality
// and quality lower bound. Nodes are owned by the Lattice and referenced
// by dense ids.
type Node struct {
	id     int
	levels []int
	total  int

	state      State
	quality    float64
	lowerBound float64
}

// ID returns the node's dense lattice id.
func (n *Node) ID() int {
	return n.id
}

// Levels returns the level vector. The returned slice must not be modified.
func (n *Node) Levels() []int {
	return n.levels
}

// TotalLevel returns the sum of levels.
func (n *Node) TotalLevel() int {
	return n.total
}

// State returns the lifecycle state.
func (n *Node) State() State {
	return n.state
}

// SetState transitions the node. Checked states are terminal: an inferred
// tag never overwrites a checked one.
func (n *Node) SetState(s State) {
	if n.state.Checked() {
		return
	}
	n.state = s
}

// Quality returns the achieved quality, or NaN if the node was not checked.
func (n *Node) Quality() float64 {
	return n.quality
}

// SetQuality records the achieved quality.
func (n *Node) SetQuality(q float64) {
	n.quality = q
}

// LowerBound returns the quality lower bound, or NaN if none was computed.
func (n *Node) LowerBound() float64 {
	return n.lowerBound
}

// SetLowerBound records a quality lower bound.
func (n *Node) SetLowerBound(b float64) {
	n.lowerBound = b
}

// HasQuality reports whether a quality value was recorded.
func (n *Node) HasQuality() bool {
	return !math.IsNaN(n.quality)
}

// HasLowerBound reports whether a lower bound was recorded.
func (n *Node) HasLowerBound() bool {
	return !math.IsNaN(n.lowerBound)
}
