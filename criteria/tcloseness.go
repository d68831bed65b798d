package criteria

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// tcloseness carries what both t-closeness variants share: the protected
// attribute, the threshold t and the global value distribution captured at
// initialization.
type tcloseness struct {
	attribute string
	t         float64
	global    []float64 // relative frequency per value id
}

func (c *tcloseness) initialize(m *dataset.Manager) error {
	if c.t <= 0 || c.t > 1 {
		return fmt.Errorf("%w: t (%g) must be in (0, 1]", ErrInvalidParameter, c.t)
	}
	col, ok := m.SensitiveColumn(c.attribute)
	if !ok {
		return fmt.Errorf("%w: %q is not a sensitive attribute", ErrInvalidParameter, c.attribute)
	}
	counts := m.SensitiveDistribution(col)
	c.global = make([]float64, len(counts))
	n := float64(m.NumRows())
	for v, cnt := range counts {
		c.global[v] = float64(cnt) / n
	}
	return nil
}

// Attribute returns the protected sensitive attribute.
func (c *tcloseness) Attribute() string {
	return c.attribute
}

// T returns the threshold t.
func (c *tcloseness) T() float64 {
	return c.t
}

// classFrequencies expands a class distribution to a dense frequency vector
// aligned with the global one.
func (c *tcloseness) classFrequencies(d Distribution) []float64 {
	freq := make([]float64, len(c.global))
	values, counts := d.Buckets()
	total := float64(d.Total())
	for i, v := range values {
		if int(v) < len(freq) {
			freq[v] = float64(counts[i]) / total
		}
	}
	return freq
}

// EqualDistanceTCloseness requires the variational distance between every
// class's sensitive distribution and the global one to be at most t. This
// is the earth mover's distance under the equal ground distance.
type EqualDistanceTCloseness struct {
	tcloseness
}

// NewEqualDistanceTCloseness creates a t-closeness model with equal ground
// distance.
func NewEqualDistanceTCloseness(attribute string, t float64) *EqualDistanceTCloseness {
	return &EqualDistanceTCloseness{tcloseness{attribute: attribute, t: t}}
}

// Requirements implements ClassCriterion.
func (c *EqualDistanceTCloseness) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *EqualDistanceTCloseness) Initialize(m *dataset.Manager) error {
	return c.initialize(m)
}

// IsAnonymous implements ClassCriterion.
func (c *EqualDistanceTCloseness) IsAnonymous(cls Class) bool {
	freq := c.classFrequencies(cls.Distribution())
	dist := 0.0
	for v, p := range freq {
		dist += abs(p - c.global[v])
	}
	return dist/2 <= c.t+1e-10
}

// IsMonotonicWithGeneralization implements ClassCriterion. t-closeness is
// not preserved by coarser transformations.
func (c *EqualDistanceTCloseness) IsMonotonicWithGeneralization() bool { return false }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *EqualDistanceTCloseness) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *EqualDistanceTCloseness) MinimalClassSize() (int, bool) {
	return 0, false
}

// Clone implements ClassCriterion.
func (c *EqualDistanceTCloseness) Clone(_ *rowset.Set) ClassCriterion {
	return NewEqualDistanceTCloseness(c.attribute, c.t)
}

// String implements fmt.Stringer.
func (c *EqualDistanceTCloseness) String() string {
	return fmt.Sprintf("equal-distance %g-closeness for %q", c.t, c.attribute)
}

// OrderedDistanceTCloseness measures the earth mover's distance over the
// natural order of the sensitive values: the normalized sum of absolute
// cumulative differences between the class and global distributions.
type OrderedDistanceTCloseness struct {
	tcloseness
}

// NewOrderedDistanceTCloseness creates a t-closeness model with ordered
// ground distance. Values are ordered by their dictionary ids, which follow
// first appearance in the input; sort the input domain beforehand when a
// semantic order is required.
func NewOrderedDistanceTCloseness(attribute string, t float64) *OrderedDistanceTCloseness {
	return &OrderedDistanceTCloseness{tcloseness{attribute: attribute, t: t}}
}

// Requirements implements ClassCriterion.
func (c *OrderedDistanceTCloseness) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *OrderedDistanceTCloseness) Initialize(m *dataset.Manager) error {
	return c.initialize(m)
}

// IsAnonymous implements ClassCriterion.
func (c *OrderedDistanceTCloseness) IsAnonymous(cls Class) bool {
	freq := c.classFrequencies(cls.Distribution())

	diff := make([]float64, 0, len(freq)-1)
	for v := core.ValueID(1); int(v) < len(freq); v++ {
		diff = append(diff, freq[v]-c.global[v])
	}
	if len(diff) <= 1 {
		return true
	}
	floats.CumSum(diff, diff)

	dist := 0.0
	for _, d := range diff {
		dist += abs(d)
	}
	return dist/float64(len(diff)-1) <= c.t+1e-10
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *OrderedDistanceTCloseness) IsMonotonicWithGeneralization() bool { return false }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *OrderedDistanceTCloseness) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *OrderedDistanceTCloseness) MinimalClassSize() (int, bool) {
	return 0, false
}

// Clone implements ClassCriterion.
func (c *OrderedDistanceTCloseness) Clone(_ *rowset.Set) ClassCriterion {
	return NewOrderedDistanceTCloseness(c.attribute, c.t)
}

// String implements fmt.Stringer.
func (c *OrderedDistanceTCloseness) String() string {
	return fmt.Sprintf("ordered-distance %g-closeness for %q", c.t, c.attribute)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
