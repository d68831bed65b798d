package check

import (
	"container/list"
	"sync"

	"github.com/hupe1980/anongo/internal/resource"
)

// History is the bounded LRU cache of snapshots. Admission is relative: a
// snapshot is only worth storing when it is materially smaller than the
// table and, if derived from another snapshot, materially smaller than its
// ancestor. Memory is charged against an optional resource controller.
type History struct {
	mu        sync.Mutex
	maxSize   int
	items     map[int]*list.Element // node id -> element
	evictList *list.List            // front = most recently used
	rc        *resource.Controller

	maxDatasetClasses int // absolute admission threshold
	snapshotSizeRatio float64

	hits, misses int64
}

// NewHistory creates a history with the given capacity. maxDatasetClasses
// is the absolute class count threshold (snapshotSizeDataset * numRows);
// snapshotRatio is the relative threshold against the ancestor snapshot.
func NewHistory(maxSize, maxDatasetClasses int, snapshotRatio float64, rc *resource.Controller) *History {
	return &History{
		maxSize:           maxSize,
		items:             make(map[int]*list.Element, maxSize),
		evictList:         list.New(),
		rc:                rc,
		maxDatasetClasses: maxDatasetClasses,
		snapshotSizeRatio: snapshotRatio,
	}
}

// Find returns the snapshot best suited to derive the grouping of the given
// level vector: among all stored snapshots of specializing transformations
// (componentwise lower or equal levels), the one with the fewest classes.
// Returns nil when nothing applies.
func (h *History) Find(levels []int) *snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	var best *list.Element
	for el := h.evictList.Front(); el != nil; el = el.Next() {
		s := el.Value.(*snapshot)
		if !specializes(s.levels, levels) {
			continue
		}
		if best == nil || s.numClasses < best.Value.(*snapshot).numClasses {
			best = el
		}
	}
	if best == nil {
		h.misses++
		return nil
	}
	h.hits++
	h.evictList.MoveToFront(best)
	return best.Value.(*snapshot)
}

// Store offers a snapshot to the cache. derivedFrom is the ancestor
// snapshot the grouping was built from, or nil for a scratch build. It
// reports whether the snapshot was admitted.
func (h *History) Store(s *snapshot, derivedFrom *snapshot) bool {
	if s.numClasses > h.maxDatasetClasses {
		return false
	}
	if derivedFrom != nil && float64(s.numClasses) > h.snapshotSizeRatio*float64(derivedFrom.numClasses) {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxSize <= 0 {
		return false
	}

	if el, ok := h.items[s.nodeID]; ok {
		h.evictList.MoveToFront(el)
		return true
	}

	for h.evictList.Len() >= h.maxSize {
		h.removeOldestLocked()
	}
	for h.rc != nil && !h.rc.TryAcquireMemory(s.memorySize()) {
		if h.evictList.Len() == 0 {
			return false
		}
		h.removeOldestLocked()
	}

	h.items[s.nodeID] = h.evictList.PushFront(s)
	return true
}

// Remove drops the snapshot of a node, if present. The search calls this
// once a node's successors are all processed.
func (h *History) Remove(nodeID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if el, ok := h.items[nodeID]; ok {
		h.removeLocked(el)
	}
}

// Reset drops all snapshots.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for h.evictList.Len() > 0 {
		h.removeOldestLocked()
	}
}

// SetSize changes the capacity, evicting as needed.
func (h *History) SetSize(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxSize = n
	for h.evictList.Len() > h.maxSize {
		h.removeOldestLocked()
	}
}

// Len returns the number of cached snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.evictList.Len()
}

// Stats returns hit and miss counts of Find.
func (h *History) Stats() (hits, misses int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits, h.misses
}

func (h *History) removeOldestLocked() {
	if el := h.evictList.Back(); el != nil {
		h.removeLocked(el)
	}
}

func (h *History) removeLocked(el *list.Element) {
	s := el.Value.(*snapshot)
	h.evictList.Remove(el)
	delete(h.items, s.nodeID)
	if h.rc != nil {
		h.rc.ReleaseMemory(s.memorySize())
	}
}

// specializes reports whether a is componentwise lower or equal to b, i.e.
// the grouping of b can be derived by merging the classes of a.
func specializes(a, b []int) bool {
	for i, l := range a {
		if l > b[i] {
			return false
		}
	}
	return true
}
