// Package metric implements the quality models that score transformations.
//
// All models return information loss: smaller is better and zero means the
// untouched table. Models that can bound their result from below without a
// full equivalence-class computation expose that bound so the search can
// prune candidates.
package metric

import (
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
)

// Groups is the metric's view of one groupify result: class sizes with
// suppression marks, in insertion order, plus a representative row per
// class so the generalized tuple can be reconstructed.
type Groups interface {
	NumClasses() int
	ClassSize(i int) int
	IsSuppressed(i int) bool
	Representative(i int) core.RowID
	NumRows() int
}

// Metric is a quality model.
type Metric interface {
	// Name identifies the model.
	Name() string

	// Initialize binds the model to the encoded data. weights holds one
	// weight per quasi-identifier in manager order.
	Initialize(m *dataset.Manager, weights []float64) error

	// Evaluate scores the groupify result of the transformation with the
	// given level vector.
	Evaluate(levels []int, g Groups) float64

	// LowerBound returns an optimistic score for the transformation
	// without a groupify result, and whether the model supports one.
	LowerBound(levels []int) (float64, bool)

	// IsMonotonic reports whether the score never decreases along
	// generalization paths under the given suppression limit.
	IsMonotonic(suppressionLimit float64) bool
}
