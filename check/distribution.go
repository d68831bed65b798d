package check

import "github.com/hupe1980/anongo/core"

// distribution is the per-class frequency table of sensitive values. Values
// are kept in insertion order; the map only serves lookups.
type distribution struct {
	index  map[core.ValueID]int
	values []core.ValueID
	counts []int
	total  int
}

func newDistribution() *distribution {
	return &distribution{
		index: make(map[core.ValueID]int, 4),
	}
}

func (d *distribution) add(v core.ValueID, count int) {
	if i, ok := d.index[v]; ok {
		d.counts[i] += count
	} else {
		d.index[v] = len(d.values)
		d.values = append(d.values, v)
		d.counts = append(d.counts, count)
	}
	d.total += count
}

// NumDistinct implements criteria.Distribution.
func (d *distribution) NumDistinct() int {
	return len(d.values)
}

// Total implements criteria.Distribution.
func (d *distribution) Total() int {
	return d.total
}

// Buckets implements criteria.Distribution.
func (d *distribution) Buckets() ([]core.ValueID, []int) {
	return d.values, d.counts
}
