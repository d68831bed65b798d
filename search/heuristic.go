package search

import (
	"time"

	"github.com/hupe1980/anongo/lattice"
)

// Heuristic runs the best-effort search used when the solution space
// exceeds the configured threshold. It expands greedily from the bottom in
// traversal order under a wall-clock limit; the top node is checked first
// so a solution is reported whenever one exists under monotone privacy.
// Nodes left unvisited when the time runs out are marked pruned.
func Heuristic(o Options) (*Outcome, error) {
	s := newSearcher(o)
	l := o.Lattice
	deadline := time.Now().Add(o.Config.Config().HeuristicSearchTimeLimit)
	monotonic := o.Config.MonotonicPrivacy()

	if _, err := s.checkNode(l.Top()); err != nil {
		return nil, err
	}

	frontier := []*lattice.Node{l.Bottom()}
	for len(frontier) > 0 && time.Now().Before(deadline) {
		best := 0
		for i := 1; i < len(frontier); i++ {
			if s.strategy.Compare(frontier[i], frontier[best]) < 0 {
				best = i
			}
		}
		n := frontier[best]
		frontier = append(frontier[:best], frontier[best+1:]...)

		if n.State() != lattice.Unvisited {
			continue
		}

		anonymous, err := s.checkNode(n)
		if err != nil {
			return nil, err
		}
		if anonymous {
			if monotonic {
				s.tagAnonymous(n)
			}
			continue
		}

		l.Successors(n, func(succ *lattice.Node) bool {
			if succ.State() == lattice.Unvisited {
				frontier = append(frontier, succ)
			}
			return true
		})
	}

	for id := 0; id < l.Size(); id++ {
		if n := l.Node(id); n.State() == lattice.Unvisited {
			n.SetState(lattice.Pruned)
		}
	}

	return s.outcome(), nil
}
