package metric

import (
	"errors"

	"github.com/hupe1980/anongo/dataset"
)

// ErrNotInitialized is returned when a model is evaluated before Initialize.
var ErrNotInitialized = errors.New("metric: not initialized")

// Precision is the cell-oriented measure of Sweeney: the weighted average,
// over all cells, of level/(height-1). Suppressed rows count as fully
// generalized.
type Precision struct {
	weights   []float64
	heights   []int
	weightSum float64
}

// NewPrecision creates a precision metric.
func NewPrecision() *Precision {
	return &Precision{}
}

// Name implements Metric.
func (m *Precision) Name() string { return "precision" }

// Initialize implements Metric.
func (m *Precision) Initialize(mgr *dataset.Manager, weights []float64) error {
	m.heights = mgr.HierarchyHeights()
	m.weights = weights
	m.weightSum = 0
	for _, w := range weights {
		m.weightSum += w
	}
	if m.weightSum == 0 {
		m.weightSum = 1
	}
	return nil
}

// rowPrecision is the weighted loss of one non-suppressed row.
func (m *Precision) rowPrecision(levels []int) float64 {
	p := 0.0
	for i, l := range levels {
		if m.heights[i] > 1 {
			p += m.weights[i] * float64(l) / float64(m.heights[i]-1)
		}
	}
	return p / m.weightSum
}

// Evaluate implements Metric.
func (m *Precision) Evaluate(levels []int, g Groups) float64 {
	perRow := m.rowPrecision(levels)
	sum := 0.0
	for i := 0; i < g.NumClasses(); i++ {
		if g.IsSuppressed(i) {
			sum += float64(g.ClassSize(i)) // suppressed cells lose everything
		} else {
			sum += float64(g.ClassSize(i)) * perRow
		}
	}
	return sum / float64(g.NumRows())
}

// LowerBound implements Metric. The bound assumes no suppression.
func (m *Precision) LowerBound(levels []int) (float64, bool) {
	return m.rowPrecision(levels), true
}

// IsMonotonic implements Metric. With suppression, coarser transformations
// can reduce the number of suppressed rows and thereby the score.
func (m *Precision) IsMonotonic(suppressionLimit float64) bool {
	return suppressionLimit == 0
}
