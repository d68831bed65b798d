package criteria

import (
	"fmt"
	"math"

	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// DDisclosure bounds disclosure risk: for every sensitive value of every
// class, |log(p_class / p_global)| must stay below δ.
type DDisclosure struct {
	attribute string
	delta     float64
	global    []float64
}

// NewDDisclosure creates a δ-disclosure-privacy model.
func NewDDisclosure(attribute string, delta float64) *DDisclosure {
	return &DDisclosure{attribute: attribute, delta: delta}
}

// Attribute returns the protected sensitive attribute.
func (c *DDisclosure) Attribute() string {
	return c.attribute
}

// Delta returns the parameter δ.
func (c *DDisclosure) Delta() float64 {
	return c.delta
}

// Requirements implements ClassCriterion.
func (c *DDisclosure) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *DDisclosure) Initialize(m *dataset.Manager) error {
	if c.delta <= 0 {
		return fmt.Errorf("%w: delta (%g) must be positive", ErrInvalidParameter, c.delta)
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

// IsAnonymous implements ClassCriterion.
func (c *DDisclosure) IsAnonymous(cls Class) bool {
	d := cls.Distribution()
	values, counts := d.Buckets()
	total := float64(d.Total())
	for i, v := range values {
		p := float64(counts[i]) / total
		if math.Abs(math.Log(p/c.global[v])) >= c.delta {
			return false
		}
	}
	return true
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *DDisclosure) IsMonotonicWithGeneralization() bool { return false }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *DDisclosure) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *DDisclosure) MinimalClassSize() (int, bool) {
	return 0, false
}

// Clone implements ClassCriterion.
func (c *DDisclosure) Clone(_ *rowset.Set) ClassCriterion {
	return NewDDisclosure(c.attribute, c.delta)
}

// String implements fmt.Stringer.
func (c *DDisclosure) String() string {
	return fmt.Sprintf("%g-disclosure privacy for %q", c.delta, c.attribute)
}
