package search

import (
	"errors"

	"github.com/hupe1980/anongo/check"
	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/lattice"
)

// ErrInterrupted is returned when the interrupt flag was raised between
// node checks.
var ErrInterrupted = errors.New("search: interrupted")

// maxClosest bounds the no-solution diagnostics.
const maxClosest = 5

// Options wires a search run.
type Options struct {
	Lattice   *lattice.Lattice
	Checker   *check.Checker
	Config    *config.Internal
	Interrupt *core.InterruptFlag

	// Heights are the hierarchy heights in manager order, consumed by the
	// traversal strategy.
	Heights []int

	// Progress, if set, is called after every node check with the number
	// of checked nodes and the lattice size.
	Progress func(checked, total int)
}

// Outcome is the result of a search run.
type Outcome struct {
	// Optimum is the best anonymous node found, or nil.
	Optimum *lattice.Node

	// Checked is the number of nodes actually evaluated.
	Checked int

	// Closest holds the checked nodes nearest to anonymity (fewest rows
	// over the suppression budget) when no solution was found.
	Closest []*lattice.Node
}

// searcher carries the state shared by both algorithms.
type searcher struct {
	opts     Options
	strategy *Strategy

	optimum *lattice.Node
	checked int

	closest       []*lattice.Node
	closestExcess []int
}

func newSearcher(o Options) *searcher {
	return &searcher{
		opts:     o,
		strategy: NewStrategy(o.Heights, o.Config.Weights()),
	}
}

func (s *searcher) outcome() *Outcome {
	out := &Outcome{
		Optimum: s.optimum,
		Checked: s.checked,
	}
	if s.optimum == nil {
		out.Closest = s.closest
	}
	return out
}

// checkNode evaluates a node unless its state already answers the
// anonymity question. It returns whether the node is anonymous.
func (s *searcher) checkNode(n *lattice.Node) (bool, error) {
	if n.State().Checked() {
		return n.State().Anonymous(), nil
	}
	if s.opts.Interrupt.Stopped() {
		return false, ErrInterrupted
	}

	res, err := s.opts.Checker.Check(n.ID(), n.Levels())
	if err != nil {
		if errors.Is(err, check.ErrInterrupted) {
			return false, ErrInterrupted
		}
		return false, err
	}

	s.checked++
	n.SetQuality(res.Quality())
	if res.Anonymous() {
		n.SetState(lattice.CheckedAnonymous)
		s.updateOptimum(n)
	} else {
		n.SetState(lattice.CheckedNonAnonymous)
		s.trackClosest(n, res.SuppressedRows()-s.opts.Config.AbsoluteMaxOutliers())
	}

	if s.opts.Progress != nil {
		s.opts.Progress(s.checked, s.opts.Lattice.Size())
	}
	return res.Anonymous(), nil
}

// updateOptimum keeps the best anonymous node: lowest quality, ties broken
// by lexicographic level vector, then node id.
func (s *searcher) updateOptimum(n *lattice.Node) {
	if !n.HasQuality() {
		return
	}
	if s.optimum == nil {
		s.optimum = n
		return
	}
	switch {
	case n.Quality() < s.optimum.Quality():
		s.optimum = n
	case n.Quality() == s.optimum.Quality():
		if c := lattice.CompareLex(n, s.optimum); c < 0 || (c == 0 && n.ID() < s.optimum.ID()) {
			s.optimum = n
		}
	}
}

// trackClosest records the nodes nearest to anonymity for no-solution
// diagnostics. excess is the number of rows beyond the suppression budget.
func (s *searcher) trackClosest(n *lattice.Node, excess int) {
	pos := len(s.closest)
	for pos > 0 {
		if e := s.closestExcess[pos-1]; e < excess || (e == excess && s.closest[pos-1].ID() < n.ID()) {
			break
		}
		pos--
	}
	if pos >= maxClosest {
		return
	}
	s.closest = append(s.closest, nil)
	s.closestExcess = append(s.closestExcess, 0)
	copy(s.closest[pos+1:], s.closest[pos:])
	copy(s.closestExcess[pos+1:], s.closestExcess[pos:])
	s.closest[pos] = n
	s.closestExcess[pos] = excess
	if len(s.closest) > maxClosest {
		s.closest = s.closest[:maxClosest]
		s.closestExcess = s.closestExcess[:maxClosest]
	}
}

// tagAnonymous marks all strict ancestors of n as inferred anonymous.
func (s *searcher) tagAnonymous(n *lattice.Node) {
	l := s.opts.Lattice
	stack := []*lattice.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		l.Successors(cur, func(succ *lattice.Node) bool {
			if succ.State() == lattice.Unvisited {
				succ.SetState(lattice.InferredAnonymous)
				stack = append(stack, succ)
			}
			return true
		})
	}
}

// tagNonAnonymous marks all strict descendants of n as inferred
// non-anonymous.
func (s *searcher) tagNonAnonymous(n *lattice.Node) {
	l := s.opts.Lattice
	stack := []*lattice.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		l.Predecessors(cur, func(pred *lattice.Node) bool {
			if pred.State() == lattice.Unvisited {
				pred.SetState(lattice.InferredNonAnonymous)
				stack = append(stack, pred)
			}
			return true
		})
	}
}
