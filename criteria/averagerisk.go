package criteria

import (
	"fmt"
	"sort"

	"github.com/hupe1980/anongo/dataset"
)

// AverageRisk is a sample-based model bounding the average re-identification
// risk, the mean over all published rows of 1/classSize. It suppresses the
// smallest classes first, which lowers the average fastest per suppressed
// row.
type AverageRisk struct {
	threshold float64
}

// NewAverageRisk creates an average-risk model with the given threshold in
// (0, 1].
func NewAverageRisk(threshold float64) *AverageRisk {
	return &AverageRisk{threshold: threshold}
}

// Threshold returns the risk threshold.
func (c *AverageRisk) Threshold() float64 {
	return c.threshold
}

// Requirements implements SampleCriterion.
func (c *AverageRisk) Requirements() Requirements {
	return RequireCounter
}

// Initialize implements SampleCriterion.
func (c *AverageRisk) Initialize(_ *dataset.Manager) error {
	if c.threshold <= 0 || c.threshold > 1 {
		return fmt.Errorf("%w: threshold (%g) must be in (0, 1]", ErrInvalidParameter, c.threshold)
	}
	return nil
}

// IsMonotonicWithGeneralization implements SampleCriterion. Merging classes
// never increases the average risk.
func (c *AverageRisk) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements SampleCriterion.
func (c *AverageRisk) IsMonotonicWithSuppression() bool { return true }

// Enforce implements SampleCriterion. The average risk over live classes is
// numLiveClasses/numLiveRows; suppressing ascending by size removes the
// riskiest classes with the fewest rows.
func (c *AverageRisk) Enforce(g Groups, maxOutliers int) bool {
	live := 0
	liveRows := 0
	order := make([]int, 0, g.NumClasses())
	for i := 0; i < g.NumClasses(); i++ {
		if g.IsSuppressed(i) {
			continue
		}
		live++
		liveRows += g.ClassSize(i)
		order = append(order, i)
	}
	if live == 0 {
		return true
	}

	// Ascending by size, insertion order on ties.
	sort.SliceStable(order, func(a, b int) bool {
		return g.ClassSize(order[a]) < g.ClassSize(order[b])
	})

	for _, i := range order {
		if float64(live)/float64(liveRows) <= c.threshold+1e-10 {
			return true
		}
		size := g.ClassSize(i)
		if g.SuppressedRows()+size > maxOutliers {
			return false
		}
		g.Suppress(i)
		live--
		liveRows -= size
	}
	return live == 0 || float64(live)/float64(liveRows) <= c.threshold+1e-10
}

// String implements fmt.Stringer.
func (c *AverageRisk) String() string {
	return fmt.Sprintf("average-reidentification-risk ≤ %g", c.threshold)
}
