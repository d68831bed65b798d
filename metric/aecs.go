package metric

import "github.com/hupe1980/anongo/dataset"

// AECS scores a transformation by the average equivalence class size of its
// result.
type AECS struct{}

// NewAECS creates an average-class-size metric.
func NewAECS() *AECS {
	return &AECS{}
}

// Name implements Metric.
func (m *AECS) Name() string { return "aecs" }

// Initialize implements Metric.
func (m *AECS) Initialize(_ *dataset.Manager, _ []float64) error {
	return nil
}

// Evaluate implements Metric.
func (m *AECS) Evaluate(_ []int, g Groups) float64 {
	if g.NumClasses() == 0 {
		return 0
	}
	return float64(g.NumRows()) / float64(g.NumClasses())
}

// LowerBound implements Metric.
func (m *AECS) LowerBound(_ []int) (float64, bool) {
	return 0, false
}

// IsMonotonic implements Metric.
func (m *AECS) IsMonotonic(_ float64) bool {
	return false
}
