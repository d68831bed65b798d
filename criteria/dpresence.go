package criteria

import (
	"fmt"

	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// DPresence bounds, for every equivalence class, the fraction δ of its rows
// that belong to the research subset: δmin ≤ δ ≤ δmax. It protects against
// inferring membership in the subset.
type DPresence struct {
	dMin, dMax float64
	subset     *rowset.Set
}

// NewDPresence creates a δ-presence model over the given research subset.
func NewDPresence(dMin, dMax float64, subset *rowset.Set) *DPresence {
	return &DPresence{dMin: dMin, dMax: dMax, subset: subset}
}

// Subset returns the research subset.
func (c *DPresence) Subset() *rowset.Set {
	return c.subset
}

// Requirements implements ClassCriterion.
func (c *DPresence) Requirements() Requirements {
	return RequireCounter | RequireSecondaryCounter
}

// Initialize implements ClassCriterion.
func (c *DPresence) Initialize(m *dataset.Manager) error {
	if c.dMin < 0 || c.dMax > 1 || c.dMin > c.dMax {
		return fmt.Errorf("%w: presence range [%g, %g]", ErrInvalidParameter, c.dMin, c.dMax)
	}
	if c.subset == nil {
		return fmt.Errorf("%w: δ-presence requires a research subset", ErrInvalidParameter)
	}
	return nil
}

// IsAnonymous implements ClassCriterion.
func (c *DPresence) IsAnonymous(cls Class) bool {
	delta := 0.0
	if cls.SecondaryCount() > 0 {
		delta = float64(cls.SecondaryCount()) / float64(cls.Count())
	}
	return delta >= c.dMin-1e-10 && delta <= c.dMax+1e-10
}

// IsMonotonicWithGeneralization implements ClassCriterion. Only the upper
// bound survives merging classes; with a lower bound the model is not
// monotone.
func (c *DPresence) IsMonotonicWithGeneralization() bool {
	return c.dMin == 0
}

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *DPresence) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *DPresence) MinimalClassSize() (int, bool) {
	return 0, false
}

// Clone implements ClassCriterion. The research subset is intersected with
// the projection.
func (c *DPresence) Clone(subset *rowset.Set) ClassCriterion {
	s := c.subset.Clone()
	if subset != nil {
		s.And(subset)
	}
	return NewDPresence(c.dMin, c.dMax, s)
}

// String implements fmt.Stringer.
func (c *DPresence) String() string {
	return fmt.Sprintf("(%g,%g)-presence", c.dMin, c.dMax)
}
