package search

import (
	"github.com/hupe1980/anongo/lattice"
)

// Flash runs the exact search: a level-wise sweep of the lattice in
// traversal order. With monotone privacy each untagged node seeds a greedy
// upward path that is resolved by binary search, tagging ancestors of
// anonymous nodes and descendants of non-anonymous nodes; without
// monotonicity every node is checked. Nodes whose quality lower bound
// cannot beat the current optimum are skipped.
func Flash(o Options) (*Outcome, error) {
	s := newSearcher(o)

	var err error
	if o.Config.MonotonicPrivacy() {
		err = s.flashMonotonic()
	} else {
		err = s.checkAll()
	}
	if err != nil {
		return nil, err
	}

	// Inferred anonymity carries no quality value. With a monotone quality
	// model a checked descendant is always at least as good; otherwise the
	// inferred nodes still in the running must be evaluated.
	if !o.Config.MonotonicUtility() {
		if err := s.resolveInferred(); err != nil {
			return nil, err
		}
	}

	return s.outcome(), nil
}

func (s *searcher) flashMonotonic() error {
	l := s.opts.Lattice
	for total := l.MinTotalLevel(); total <= l.MaxTotalLevel(); total++ {
		ids := append([]int(nil), l.AtTotalLevel(total)...)
		s.strategy.SortIDs(l, ids)
		for _, id := range ids {
			n := l.Node(id)
			if n.State() != lattice.Unvisited {
				continue
			}
			if err := s.checkPath(s.findPath(n)); err != nil {
				return err
			}
		}
	}
	return nil
}

// findPath builds a greedy path from n towards the top, always taking the
// unvisited successor that sorts first.
func (s *searcher) findPath(n *lattice.Node) []*lattice.Node {
	l := s.opts.Lattice
	path := []*lattice.Node{n}
	cur := n
	for {
		var next *lattice.Node
		l.Successors(cur, func(succ *lattice.Node) bool {
			if succ.State() != lattice.Unvisited {
				return true
			}
			if next == nil || s.strategy.Compare(succ, next) < 0 {
				next = succ
			}
			return true
		})
		if next == nil {
			return path
		}
		path = append(path, next)
		cur = next
	}
}

// checkPath binary-searches a path for the lowest anonymous node, tagging
// the lattice along the way.
func (s *searcher) checkPath(path []*lattice.Node) error {
	low, high := 0, len(path)-1
	for low <= high {
		mid := (low + high) / 2
		n := path[mid]
		anonymous, err := s.checkNode(n)
		if err != nil {
			return err
		}
		if anonymous {
			s.tagAnonymous(n)
			high = mid - 1
		} else {
			s.tagNonAnonymous(n)
			low = mid + 1
		}
	}
	return nil
}

// checkAll sweeps every node level by level. Used when privacy is not
// monotone and nothing can be inferred.
func (s *searcher) checkAll() error {
	l := s.opts.Lattice
	for total := l.MinTotalLevel(); total <= l.MaxTotalLevel(); total++ {
		ids := append([]int(nil), l.AtTotalLevel(total)...)
		s.strategy.SortIDs(l, ids)
		for _, id := range ids {
			n := l.Node(id)
			if n.State().Checked() {
				continue
			}
			if s.skipByBound(n) {
				continue
			}
			if _, err := s.checkNode(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveInferred force-checks inferred-anonymous nodes that could still
// beat the optimum.
func (s *searcher) resolveInferred() error {
	l := s.opts.Lattice
	for total := l.MinTotalLevel(); total <= l.MaxTotalLevel(); total++ {
		ids := append([]int(nil), l.AtTotalLevel(total)...)
		s.strategy.SortIDs(l, ids)
		for _, id := range ids {
			n := l.Node(id)
			if n.State() != lattice.InferredAnonymous {
				continue
			}
			if s.skipByBound(n) {
				continue
			}
			if _, err := s.checkNode(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipByBound reports whether the node's quality lower bound proves it
// cannot beat the current optimum.
func (s *searcher) skipByBound(n *lattice.Node) bool {
	if s.optimum == nil {
		return false
	}
	lb, ok := s.opts.Checker.LowerBound(n.Levels())
	if !ok {
		return false
	}
	if !n.HasLowerBound() {
		n.SetLowerBound(lb)
	}
	return lb >= s.optimum.Quality()
}
