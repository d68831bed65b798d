package metric

import (
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
)

// Loss is the default quality model. Every cell loses the fraction of its
// attribute's domain that the generalized value covers (its domain share);
// a suppressed cell loses the whole domain. The score is the weighted
// average cell loss over the table, normalized to [0, 1].
type Loss struct {
	manager   *dataset.Manager
	weights   []float64
	weightSum float64

	// shares[a][l][v] is the domain share of generalized value v of
	// attribute a on level l. minShares[a][l] is the smallest share on
	// that level, used for the lower bound.
	shares    [][][]float64
	minShares [][]float64
}

// NewLoss creates a loss metric.
func NewLoss() *Loss {
	return &Loss{}
}

// Name implements Metric.
func (m *Loss) Name() string { return "loss" }

// Initialize implements Metric. Domain shares are precomputed per attribute
// and level.
func (m *Loss) Initialize(mgr *dataset.Manager, weights []float64) error {
	m.manager = mgr
	m.weights = weights
	m.weightSum = 0
	for _, w := range weights {
		m.weightSum += w
	}
	if m.weightSum == 0 {
		m.weightSum = 1
	}

	hierarchies := mgr.Hierarchies()
	m.shares = make([][][]float64, len(hierarchies))
	m.minShares = make([][]float64, len(hierarchies))
	for a, h := range hierarchies {
		m.shares[a] = make([][]float64, h.Height())
		m.minShares[a] = make([]float64, h.Height())
		card := float64(h.Cardinality())
		for l := 0; l < h.Height(); l++ {
			mapping := h.Level(l)
			counts := make(map[core.ValueID]int)
			for _, g := range mapping[1:] {
				counts[g]++
			}
			shares := make([]float64, len(mapping))
			min := 1.0
			for v, g := range mapping {
				if v == 0 {
					shares[v] = 1 // sentinel loses the whole domain
					continue
				}
				s := float64(counts[g]) / card
				shares[v] = s
				if s < min {
					min = s
				}
			}
			m.shares[a][l] = shares
			m.minShares[a][l] = min
		}
	}
	return nil
}

// Evaluate implements Metric.
func (m *Loss) Evaluate(levels []int, g Groups) float64 {
	if m.manager == nil {
		return 0
	}
	qi := m.manager.DataQI()

	sum := 0.0
	for i := 0; i < g.NumClasses(); i++ {
		size := float64(g.ClassSize(i))
		if g.IsSuppressed(i) {
			sum += size // every cell loses the whole domain
			continue
		}
		rep := g.Representative(i)
		rowLoss := 0.0
		for a, l := range levels {
			rowLoss += m.weights[a] * m.shares[a][l][qi.Value(rep, a)]
		}
		sum += size * rowLoss / m.weightSum
	}
	return sum / float64(g.NumRows())
}

// LowerBound implements Metric. The bound assumes no suppression and the
// smallest share on every level.
func (m *Loss) LowerBound(levels []int) (float64, bool) {
	if m.manager == nil {
		return 0, false
	}
	bound := 0.0
	for a, l := range levels {
		bound += m.weights[a] * m.minShares[a][l]
	}
	return bound / m.weightSum, true
}

// IsMonotonic implements Metric.
func (m *Loss) IsMonotonic(suppressionLimit float64) bool {
	return suppressionLimit == 0
}
