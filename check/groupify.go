// Package check evaluates single transformations: it groups rows into
// equivalence classes, applies the privacy models, scores the result and
// caches snapshots so descendant transformations can reuse the work.
package check

import (
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
)

const (
	// fnv64Offset and fnv64Prime are the FNV-1a constants. Hashing must be
	// deterministic across runs, so the randomized built-in map hash is
	// not an option for class keys.
	fnv64Offset = 0xcbf29ce484222325
	fnv64Prime  = 0x100000001b3

	// interruptInterval is the number of rows between interrupt polls.
	interruptInterval = 4096
)

func hashTuple(key []core.ValueID) uint64 {
	h := uint64(fnv64Offset)
	for _, v := range key {
		h ^= uint64(v)
		h *= fnv64Prime
	}
	return h
}

// classEntry is one equivalence class under construction. Entries are
// linked twice: per hash bucket and in insertion order, the latter being
// the iteration order everywhere.
type classEntry struct {
	hashcode       uint64
	key            []core.ValueID
	representative core.RowID
	count          int
	secondaryCount int
	distribution   *distribution
	suppressed     bool

	next        *classEntry // bucket chain
	nextOrdered *classEntry // insertion order
}

// Count implements criteria.Class.
func (e *classEntry) Count() int {
	return e.count
}

// SecondaryCount implements criteria.Class.
func (e *classEntry) SecondaryCount() int {
	return e.secondaryCount
}

// Distribution implements criteria.Class.
func (e *classEntry) Distribution() criteria.Distribution {
	if e.distribution == nil {
		return nil
	}
	return e.distribution
}

// groupify is the hash-based equivalence class builder.
type groupify struct {
	buckets     []*classEntry
	first, last *classEntry
	numClasses  int
	numRows     int

	trackDistribution bool
	trackSecondary    bool
}

func newGroupify(capacity int, trackDistribution, trackSecondary bool) *groupify {
	size := 16
	for size < capacity {
		size <<= 1
	}
	return &groupify{
		buckets:           make([]*classEntry, size),
		trackDistribution: trackDistribution,
		trackSecondary:    trackSecondary,
	}
}

// add merges one contribution into the class keyed by key and returns the
// class, so callers can top up its distribution. key is copied on first
// sight, so callers may reuse the slice.
func (g *groupify) add(key []core.ValueID, representative core.RowID, count, secondary int) *classEntry {
	h := hashTuple(key)
	idx := h & uint64(len(g.buckets)-1)

	var entry *classEntry
	for e := g.buckets[idx]; e != nil; e = e.next {
		if e.hashcode == h && tupleEquals(e.key, key) {
			entry = e
			break
		}
	}

	if entry == nil {
		entry = &classEntry{
			hashcode:       h,
			key:            append([]core.ValueID(nil), key...),
			representative: representative,
			next:           g.buckets[idx],
		}
		if g.trackDistribution {
			entry.distribution = newDistribution()
		}
		g.buckets[idx] = entry
		if g.first == nil {
			g.first = entry
		} else {
			g.last.nextOrdered = entry
		}
		g.last = entry
		g.numClasses++

		if g.numClasses > len(g.buckets)*3/4 {
			g.rehash()
		}
	}

	entry.count += count
	if g.trackSecondary {
		entry.secondaryCount += secondary
	}
	g.numRows += count
	return entry
}

// rehash doubles the bucket array. The insertion-order list is untouched,
// so iteration order is unaffected.
func (g *groupify) rehash() {
	buckets := make([]*classEntry, len(g.buckets)*2)
	for e := g.first; e != nil; e = e.nextOrdered {
		idx := e.hashcode & uint64(len(buckets)-1)
		e.next = buckets[idx]
		buckets[idx] = e
	}
	g.buckets = buckets
}

// lookup returns the class of a tuple, or nil.
func (g *groupify) lookup(key []core.ValueID) *classEntry {
	h := hashTuple(key)
	for e := g.buckets[h&uint64(len(g.buckets)-1)]; e != nil; e = e.next {
		if e.hashcode == h && tupleEquals(e.key, key) {
			return e
		}
	}
	return nil
}

func tupleEquals(a, b []core.ValueID) bool {
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}
