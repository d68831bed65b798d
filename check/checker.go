package check

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/internal/resource"
	"github.com/hupe1980/anongo/rowset"
)

// ErrInterrupted is returned when the interrupt flag was raised during a
// check.
var ErrInterrupted = errors.New("check: interrupted")

// Checker evaluates single transformations against the configured privacy
// and quality models. It owns the snapshot history; a Checker must not be
// used concurrently.
type Checker struct {
	manager   *dataset.Manager
	cfg       *config.Internal
	history   *History
	interrupt *core.InterruptFlag

	qi *dataset.Data
	// levelMaps[a][l] maps original value ids of attribute a to level l.
	levelMaps [][][]core.ValueID

	subsetMember   []bool // nil without a research subset
	seColumn       int
	trackSecondary bool
	trackDist      bool

	keyBuf []core.ValueID
}

// NewChecker creates a checker. rc may be nil.
func NewChecker(m *dataset.Manager, cfg *config.Internal, interrupt *core.InterruptFlag, rc *resource.Controller) *Checker {
	c := &Checker{
		manager:        m,
		cfg:            cfg,
		interrupt:      interrupt,
		qi:             m.DataQI(),
		seColumn:       cfg.DistributionColumn(),
		trackSecondary: cfg.Requires(criteria.RequireSecondaryCounter),
		trackDist:      cfg.Requires(criteria.RequireDistribution),
		keyBuf:         make([]core.ValueID, m.NumQuasiIdentifiers()),
	}

	hierarchies := m.Hierarchies()
	c.levelMaps = make([][][]core.ValueID, len(hierarchies))
	for a, h := range hierarchies {
		c.levelMaps[a] = make([][]core.ValueID, h.Height())
		for l := 0; l < h.Height(); l++ {
			c.levelMaps[a][l] = h.Level(l)
		}
	}

	if s := cfg.Subset(); s != nil {
		c.subsetMember = make([]bool, m.NumRows())
		for row := range s.Iterator() {
			c.subsetMember[row] = true
		}
	}

	maxDataset := int(cfg.Config().SnapshotSizeDataset * float64(m.NumRows()))
	c.history = NewHistory(cfg.Config().HistorySize, maxDataset, cfg.Config().SnapshotSizeSnapshot, rc)

	return c
}

// History returns the snapshot history.
func (c *Checker) History() *History {
	return c.history
}

// Check groups the table under the given transformation, applies the
// privacy models and scores the result. nodeID keys the snapshot cache.
func (c *Checker) Check(nodeID int, levels []int) (*Result, error) {
	if c.interrupt.Stopped() {
		return nil, ErrInterrupted
	}

	ancestor := c.history.Find(levels)

	var (
		g   *groupify
		err error
	)
	if ancestor != nil {
		g, err = c.groupifyFromSnapshot(ancestor, levels)
	} else {
		g, err = c.groupifyFromTable(levels)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		levels:       append([]int(nil), levels...),
		g:            g,
		entries:      make([]*classEntry, 0, g.numClasses),
		numRows:      g.numRows,
		fromSnapshot: ancestor != nil,
	}
	for e := g.first; e != nil; e = e.nextOrdered {
		result.entries = append(result.entries, e)
	}

	c.classify(result)
	result.quality = c.cfg.QualityModel().Evaluate(levels, result)

	snap, err := encodeSnapshot(g, nodeID, levels, c.trackSecondary, c.trackDist, c.cfg.Config().SnapshotCompression)
	if err != nil {
		return nil, fmt.Errorf("check: encoding snapshot of node %d: %w", nodeID, err)
	}
	c.history.Store(snap, ancestor)

	return result, nil
}

// LowerBound returns the quality lower bound of a transformation without
// checking it.
func (c *Checker) LowerBound(levels []int) (float64, bool) {
	return c.cfg.QualityModel().LowerBound(levels)
}

// Outliers returns the rows belonging to suppressed classes of a result.
// This is a full table pass; it is meant for the final output, not for the
// search loop.
func (c *Checker) Outliers(r *Result) *rowset.Set {
	out := rowset.New()
	key := make([]core.ValueID, len(c.keyBuf))
	for row := 0; row < c.manager.NumRows(); row++ {
		c.generalize(core.RowID(row), r.levels, key)
		if e := r.g.lookup(key); e != nil && e.suppressed {
			out.Add(core.RowID(row))
		}
	}
	return out
}

// generalize writes the class key of one row under the given levels.
func (c *Checker) generalize(row core.RowID, levels []int, key []core.ValueID) {
	values := c.qi.Row(row)
	for a, l := range levels {
		key[a] = c.levelMaps[a][l][values[a]]
	}
}

// groupifyFromTable builds the grouping with one pass over the full table.
func (c *Checker) groupifyFromTable(levels []int) (*groupify, error) {
	numRows := c.manager.NumRows()
	g := newGroupify(numRows/4+16, c.trackDist, c.trackSecondary)

	se := c.manager.DataSE()
	key := c.keyBuf
	for row := 0; row < numRows; row++ {
		if row%interruptInterval == 0 && c.interrupt.Stopped() {
			return nil, ErrInterrupted
		}

		c.generalize(core.RowID(row), levels, key)
		secondary := 0
		if c.subsetMember != nil && c.subsetMember[row] {
			secondary = 1
		}
		e := g.add(key, core.RowID(row), 1, secondary)
		if c.trackDist {
			e.distribution.add(se.Value(core.RowID(row), c.seColumn), 1)
		}
	}
	return g, nil
}

// groupifyFromSnapshot merges the classes of a specializing snapshot into
// the grouping of a coarser transformation. Each record is projected via
// its representative row, whose original values determine the new class.
func (c *Checker) groupifyFromSnapshot(s *snapshot, levels []int) (*groupify, error) {
	words, err := s.decode()
	if err != nil {
		return nil, fmt.Errorf("check: decoding snapshot of node %d: %w", s.nodeID, err)
	}

	g := newGroupify(s.numClasses, c.trackDist, c.trackSecondary)
	key := c.keyBuf

	i := 0
	for rec := 0; rec < s.numClasses; rec++ {
		if rec%interruptInterval == 0 && c.interrupt.Stopped() {
			return nil, ErrInterrupted
		}

		rep := core.RowID(words[i])
		count := int(words[i+1])
		i += 2
		secondary := 0
		if c.trackSecondary {
			secondary = int(words[i])
			i++
		}

		c.generalize(rep, levels, key)
		e := g.add(key, rep, count, secondary)

		if c.trackDist {
			numDistinct := int(words[i])
			i++
			for j := 0; j < numDistinct; j++ {
				e.distribution.add(core.ValueID(words[i]), int(words[i+1]))
				i += 2
			}
		}
	}
	return g, nil
}

// classify suppresses every class failing a class-based model or the
// minimal class size, then lets the sample-based models demand more. The
// result is anonymous when all models hold and the suppressed rows stay
// within the budget.
func (c *Checker) classify(r *Result) {
	budget := c.cfg.AbsoluteMaxOutliers()
	minSize := c.cfg.MinimalClassSize()
	models := c.cfg.ClassCriteria()

	for i, e := range r.entries {
		live := minSize == 0 || e.count >= minSize
		if live {
			for _, m := range models {
				if !m.IsAnonymous(e) {
					live = false
					break
				}
			}
		}
		if !live {
			r.Suppress(i)
		}
	}

	anonymous := r.suppressedRows <= budget
	if anonymous {
		for _, m := range c.cfg.SampleCriteria() {
			if !m.Enforce(r, budget) {
				anonymous = false
				break
			}
		}
	}
	r.anonymous = anonymous
}
