package config

import (
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/metric"
	"github.com/hupe1980/anongo/rowset"
)

// Internal is the wider, read-only view of an initialized configuration
// consumed by the checker and the search. It exposes the derived values
// the hot paths branch on.
type Internal struct {
	config *Config

	requirements       criteria.Requirements
	minimalClassSize   int
	absMaxOutliers     int
	snapshotLength     int
	distributionColumn int
	subset             *rowset.Set
	weights            []float64
	monotonicPrivacy   bool
	monotonicUtility   bool
	numRows            int
}

// Requirements returns the union of all model capability masks.
func (in *Internal) Requirements() criteria.Requirements {
	return in.requirements
}

// Requires reports whether the mask includes the given requirement.
func (in *Internal) Requires(r criteria.Requirements) bool {
	return in.requirements.Contains(r)
}

// MinimalClassSize returns the largest minimal class size any model
// implies, or zero.
func (in *Internal) MinimalClassSize() int {
	return in.minimalClassSize
}

// AbsoluteMaxOutliers returns the row suppression budget ⌊α·N⌋.
func (in *Internal) AbsoluteMaxOutliers() int {
	return in.absMaxOutliers
}

// SnapshotLength returns the number of fixed per-class slots of a history
// snapshot record, excluding the variable distribution part.
func (in *Internal) SnapshotLength() int {
	return in.snapshotLength
}

// DistributionColumn returns the sensitive sub-table column whose
// distribution is tracked, or -1.
func (in *Internal) DistributionColumn() int {
	return in.distributionColumn
}

// Subset returns the shared research subset, or nil.
func (in *Internal) Subset() *rowset.Set {
	return in.subset
}

// Weights returns the per-quasi-identifier weights in manager order.
func (in *Internal) Weights() []float64 {
	return in.weights
}

// MonotonicPrivacy reports whether anonymity may be inferred along
// generalization paths, taking practical monotonicity into account.
func (in *Internal) MonotonicPrivacy() bool {
	return in.monotonicPrivacy || in.config.PracticalMonotonicity
}

// StrictlyMonotonicPrivacy reports formal monotonicity, ignoring the
// practical-monotonicity opt-in.
func (in *Internal) StrictlyMonotonicPrivacy() bool {
	return in.monotonicPrivacy
}

// MonotonicUtility reports whether the quality model is monotone under the
// configured suppression limit.
func (in *Internal) MonotonicUtility() bool {
	return in.monotonicUtility
}

// NumRows returns the table size the configuration was initialized for.
func (in *Internal) NumRows() int {
	return in.numRows
}

// ClassCriteria returns the class-based models in evaluation order.
func (in *Internal) ClassCriteria() []criteria.ClassCriterion {
	return in.config.classCriteria
}

// SampleCriteria returns the sample-based models in evaluation order.
func (in *Internal) SampleCriteria() []criteria.SampleCriterion {
	return in.config.sampleCriteria
}

// QualityModel returns the initialized quality model.
func (in *Internal) QualityModel() metric.Metric {
	return in.config.QualityModel
}

// Config returns the underlying configuration.
func (in *Internal) Config() *Config {
	return in.config
}
