package check

import (
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
)

// Result is the outcome of checking one transformation. It carries the
// grouping in insertion order and satisfies the sample view of both the
// privacy models and the quality models.
type Result struct {
	levels         []int
	g              *groupify
	entries        []*classEntry
	numRows        int
	suppressedRows int
	anonymous      bool
	quality        float64
	fromSnapshot   bool
}

// Levels returns the checked level vector.
func (r *Result) Levels() []int {
	return r.levels
}

// Anonymous reports whether the transformation satisfies all privacy models
// within the suppression budget.
func (r *Result) Anonymous() bool {
	return r.anonymous
}

// Quality returns the quality score of the transformation.
func (r *Result) Quality() float64 {
	return r.quality
}

// FromSnapshot reports whether the grouping was derived from a cached
// snapshot rather than built from the full table.
func (r *Result) FromSnapshot() bool {
	return r.fromSnapshot
}

// NumClasses implements criteria.Groups.
func (r *Result) NumClasses() int {
	return len(r.entries)
}

// ClassSize implements criteria.Groups.
func (r *Result) ClassSize(i int) int {
	return r.entries[i].count
}

// IsSuppressed implements criteria.Groups.
func (r *Result) IsSuppressed(i int) bool {
	return r.entries[i].suppressed
}

// Suppress implements criteria.Groups.
func (r *Result) Suppress(i int) {
	e := r.entries[i]
	if e.suppressed {
		return
	}
	e.suppressed = true
	r.suppressedRows += e.count
}

// NumRows implements criteria.Groups.
func (r *Result) NumRows() int {
	return r.numRows
}

// SuppressedRows implements criteria.Groups.
func (r *Result) SuppressedRows() int {
	return r.suppressedRows
}

// Representative implements metric.Groups: the first row seen for class i.
func (r *Result) Representative(i int) core.RowID {
	return r.entries[i].representative
}

// Class returns the class view of class i.
func (r *Result) Class(i int) criteria.Class {
	return r.entries[i]
}
