package metric

import "github.com/hupe1980/anongo/dataset"

// Height scores a transformation by its total generalization level. The
// crudest model, but fully monotone and exactly bounded.
type Height struct{}

// NewHeight creates a height metric.
func NewHeight() *Height {
	return &Height{}
}

// Name implements Metric.
func (m *Height) Name() string { return "height" }

// Initialize implements Metric.
func (m *Height) Initialize(_ *dataset.Manager, _ []float64) error {
	return nil
}

// Evaluate implements Metric.
func (m *Height) Evaluate(levels []int, _ Groups) float64 {
	return m.total(levels)
}

// LowerBound implements Metric. The bound is exact.
func (m *Height) LowerBound(levels []int) (float64, bool) {
	return m.total(levels), true
}

// IsMonotonic implements Metric.
func (m *Height) IsMonotonic(_ float64) bool { return true }

func (m *Height) total(levels []int) float64 {
	t := 0
	for _, l := range levels {
		t += l
	}
	return float64(t)
}
