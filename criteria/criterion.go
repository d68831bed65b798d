// Package criteria implements the syntactic privacy models evaluated by the
// node checker.
//
// Models come in two shapes. Class-based models look at one equivalence
// class at a time and are AND-combined; sample-based models inspect the
// whole grouping and may demand additional suppression. Capabilities that
// the checker branches on in hot paths (requirements, monotonicity, minimal
// class size) are plain data, not behavior.
package criteria

import (
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// Requirements is the capability mask a model demands from the groupify
// result and the snapshot layout.
type Requirements uint8

const (
	// RequireCounter demands per-class row counts.
	RequireCounter Requirements = 1 << iota
	// RequireSecondaryCounter demands per-class counts within the research
	// subset.
	RequireSecondaryCounter
	// RequireDistribution demands per-class sensitive value distributions.
	RequireDistribution
)

// Contains reports whether the mask includes all bits of other.
func (r Requirements) Contains(other Requirements) bool {
	return r&other == other
}

// Distribution is the frequency table of sensitive values within one
// equivalence class.
type Distribution interface {
	// NumDistinct returns the number of distinct sensitive values.
	NumDistinct() int
	// Total returns the number of rows contributing to the distribution.
	Total() int
	// Buckets returns value ids and their counts. Order is unspecified;
	// both slices must not be modified.
	Buckets() ([]core.ValueID, []int)
}

// Class is the per-equivalence-class view passed to class-based models.
type Class interface {
	// Count returns the number of rows in the class.
	Count() int
	// SecondaryCount returns the number of rows within the research subset.
	// Zero unless RequireSecondaryCounter was demanded.
	SecondaryCount() int
	// Distribution returns the sensitive value distribution, or nil unless
	// RequireDistribution was demanded.
	Distribution() Distribution
}

// ClassCriterion is a class-based privacy model.
type ClassCriterion interface {
	// Requirements returns the capability mask.
	Requirements() Requirements

	// Initialize binds the model to the encoded data. Called once before
	// the search starts.
	Initialize(m *dataset.Manager) error

	// IsAnonymous decides whether a single class satisfies the model.
	IsAnonymous(c Class) bool

	// IsMonotonicWithGeneralization reports whether anonymity is preserved
	// by coarser transformations.
	IsMonotonicWithGeneralization() bool

	// IsMonotonicWithSuppression reports whether anonymity is preserved
	// when outlier classes are suppressed.
	IsMonotonicWithSuppression() bool

	// MinimalClassSize returns the smallest class size that can satisfy
	// the model, if the model implies one.
	MinimalClassSize() (int, bool)

	// Clone derives a model instance scoped to a subset of rows. Used by
	// local-recoding callers; the engine itself never calls it.
	Clone(subset *rowset.Set) ClassCriterion

	// String names the model with its parameters.
	String() string
}

// Groups is the sample-wide view passed to sample-based models: class sizes
// in insertion order plus the ability to mark whole classes as outliers.
type Groups interface {
	// NumClasses returns the number of live (not yet suppressed) and
	// suppressed classes together.
	NumClasses() int
	// ClassSize returns the size of class i in insertion order.
	ClassSize(i int) int
	// IsSuppressed reports whether class i is already an outlier.
	IsSuppressed(i int) bool
	// Suppress marks class i as an outlier.
	Suppress(i int)
	// NumRows returns the total number of rows.
	NumRows() int
	// SuppressedRows returns the rows currently marked as outliers.
	SuppressedRows() int
}

// SampleCriterion is a sample-based privacy model.
type SampleCriterion interface {
	// Requirements returns the capability mask.
	Requirements() Requirements

	// Initialize binds the model to the encoded data.
	Initialize(m *dataset.Manager) error

	// IsMonotonicWithGeneralization reports whether anonymity is preserved
	// by coarser transformations.
	IsMonotonicWithGeneralization() bool

	// IsMonotonicWithSuppression reports whether anonymity is preserved
	// when outlier classes are suppressed.
	IsMonotonicWithSuppression() bool

	// Enforce suppresses classes until the model holds or the outlier
	// budget is exhausted. It returns whether the model holds afterwards.
	Enforce(g Groups, maxOutliers int) bool

	// String names the model with its parameters.
	String() string
}
