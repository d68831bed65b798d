package criteria

import (
	"fmt"

	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// KMap requires every class that is represented in the research sample to
// map to at least k rows of the underlying population table.
type KMap struct {
	k      int
	subset *rowset.Set
}

// NewKMap creates a k-map model. subset marks the sampled rows; the full
// table acts as the population.
func NewKMap(k int, subset *rowset.Set) *KMap {
	return &KMap{k: k, subset: subset}
}

// K returns the parameter k.
func (c *KMap) K() int {
	return c.k
}

// Subset returns the research subset.
func (c *KMap) Subset() *rowset.Set {
	return c.subset
}

// Requirements implements ClassCriterion.
func (c *KMap) Requirements() Requirements {
	return RequireCounter | RequireSecondaryCounter
}

// Initialize implements ClassCriterion.
func (c *KMap) Initialize(m *dataset.Manager) error {
	if c.k < 1 || c.k > m.NumRows() {
		return fmt.Errorf("%w: k (%d) must be positive and at most the number of rows (%d)", ErrInvalidParameter, c.k, m.NumRows())
	}
	if c.subset == nil {
		return fmt.Errorf("%w: k-map requires a research subset", ErrInvalidParameter)
	}
	return nil
}

// IsAnonymous implements ClassCriterion. Classes without sampled rows do
// not appear in the published data and pass trivially.
func (c *KMap) IsAnonymous(cls Class) bool {
	if cls.SecondaryCount() == 0 {
		return true
	}
	return cls.Count() >= c.k
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *KMap) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *KMap) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *KMap) MinimalClassSize() (int, bool) {
	return 0, false
}

// Clone implements ClassCriterion.
func (c *KMap) Clone(subset *rowset.Set) ClassCriterion {
	s := c.subset.Clone()
	if subset != nil {
		s.And(subset)
	}
	return NewKMap(c.k, s)
}

// String implements fmt.Stringer.
func (c *KMap) String() string {
	return fmt.Sprintf("%d-map", c.k)
}
