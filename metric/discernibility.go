package metric

import "github.com/hupe1980/anongo/dataset"

// Discernibility is the row-oriented measure of Bayardo and Agrawal: each
// row is penalized with the size of its class, or with the table size if it
// is suppressed.
type Discernibility struct{}

// NewDiscernibility creates a discernibility metric.
func NewDiscernibility() *Discernibility {
	return &Discernibility{}
}

// Name implements Metric.
func (m *Discernibility) Name() string { return "discernibility" }

// Initialize implements Metric.
func (m *Discernibility) Initialize(_ *dataset.Manager, _ []float64) error {
	return nil
}

// Evaluate implements Metric.
func (m *Discernibility) Evaluate(_ []int, g Groups) float64 {
	rows := float64(g.NumRows())
	sum := 0.0
	for i := 0; i < g.NumClasses(); i++ {
		count := float64(g.ClassSize(i))
		if g.IsSuppressed(i) {
			sum += count * rows
		} else {
			sum += count * count
		}
	}
	return sum
}

// LowerBound implements Metric. No bound without a groupify result.
func (m *Discernibility) LowerBound(_ []int) (float64, bool) {
	return 0, false
}

// IsMonotonic implements Metric.
func (m *Discernibility) IsMonotonic(suppressionLimit float64) bool {
	return suppressionLimit == 0
}
