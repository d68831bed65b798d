// Package rowset provides compressed sets of row identifiers.
//
// Row sets back the research subset used by d-presence and k-map as well as
// the outlier set produced by suppression. They wrap Roaring Bitmaps, which
// stay compact for both sparse and dense subsets.
package rowset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/anongo/core"
)

// Set is a set of RowIDs backed by a 32-bit Roaring Bitmap.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *Set {
	return &Set{
		rb: roaring.New(),
	}
}

// FromRows creates a set containing the given rows.
func FromRows(rows ...core.RowID) *Set {
	s := New()
	for _, r := range rows {
		s.Add(r)
	}
	return s
}

// Add adds a RowID to the set.
func (s *Set) Add(id core.RowID) {
	s.rb.Add(uint32(id))
}

// AddRange adds all rows in [from, to).
func (s *Set) AddRange(from, to core.RowID) {
	s.rb.AddRange(uint64(from), uint64(to))
}

// Remove removes a RowID from the set.
func (s *Set) Remove(id core.RowID) {
	s.rb.Remove(uint32(id))
}

// Contains checks if a RowID is in the set.
func (s *Set) Contains(id core.RowID) bool {
	return s.rb.Contains(uint32(id))
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of rows in the set.
func (s *Set) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		rb: s.rb.Clone(),
	}
}

// Or computes the union with another set in place.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// And computes the intersection with another set in place.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// Equals reports whether two sets contain the same rows.
func (s *Set) Equals(other *Set) bool {
	return s.rb.Equals(other.rb)
}

// Clear removes all rows.
func (s *Set) Clear() {
	s.rb.Clear()
}

// Iterator returns an iterator over the set in ascending row order.
func (s *Set) Iterator() iter.Seq[core.RowID] {
	return func(yield func(core.RowID) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(core.RowID(it.Next())) {
				return
			}
		}
	}
}
