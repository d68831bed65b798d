package criteria

import (
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// ldiversity carries what all ℓ-diversity variants share: the protected
// attribute and the parameter ℓ.
type ldiversity struct {
	attribute string
	l         int
}

func (c *ldiversity) initialize(m *dataset.Manager) error {
	if c.l < 1 || c.l > m.NumRows() {
		return fmt.Errorf("%w: l (%d) must be positive and at most the number of rows (%d)", ErrInvalidParameter, c.l, m.NumRows())
	}
	if _, ok := m.SensitiveColumn(c.attribute); !ok {
		return fmt.Errorf("%w: %q is not a sensitive attribute", ErrInvalidParameter, c.attribute)
	}
	return nil
}

// Attribute returns the protected sensitive attribute.
func (c *ldiversity) Attribute() string {
	return c.attribute
}

// L returns the parameter ℓ.
func (c *ldiversity) L() int {
	return c.l
}

// DistinctLDiversity requires every class to contain at least ℓ distinct
// sensitive values.
type DistinctLDiversity struct {
	ldiversity
}

// NewDistinctLDiversity creates a distinct-ℓ-diversity model for the given
// sensitive attribute.
func NewDistinctLDiversity(attribute string, l int) *DistinctLDiversity {
	return &DistinctLDiversity{ldiversity{attribute: attribute, l: l}}
}

// Requirements implements ClassCriterion.
func (c *DistinctLDiversity) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *DistinctLDiversity) Initialize(m *dataset.Manager) error {
	return c.initialize(m)
}

// IsAnonymous implements ClassCriterion.
func (c *DistinctLDiversity) IsAnonymous(cls Class) bool {
	return cls.Distribution().NumDistinct() >= c.l
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *DistinctLDiversity) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *DistinctLDiversity) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion. A class with fewer than ℓ
// rows cannot hold ℓ distinct values.
func (c *DistinctLDiversity) MinimalClassSize() (int, bool) {
	return c.l, true
}

// Clone implements ClassCriterion.
func (c *DistinctLDiversity) Clone(_ *rowset.Set) ClassCriterion {
	return NewDistinctLDiversity(c.attribute, c.l)
}

// String implements fmt.Stringer.
func (c *DistinctLDiversity) String() string {
	return fmt.Sprintf("distinct-%d-diversity for %q", c.l, c.attribute)
}

// EntropyLDiversity requires the entropy of every class's sensitive value
// distribution to be at least log(ℓ).
type EntropyLDiversity struct {
	ldiversity
	logL float64
}

// NewEntropyLDiversity creates an entropy-ℓ-diversity model.
func NewEntropyLDiversity(attribute string, l int) *EntropyLDiversity {
	return &EntropyLDiversity{
		ldiversity: ldiversity{attribute: attribute, l: l},
		logL:       math.Log(float64(l)),
	}
}

// Requirements implements ClassCriterion.
func (c *EntropyLDiversity) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *EntropyLDiversity) Initialize(m *dataset.Manager) error {
	return c.initialize(m)
}

// IsAnonymous implements ClassCriterion.
func (c *EntropyLDiversity) IsAnonymous(cls Class) bool {
	d := cls.Distribution()
	total := float64(d.Total())
	_, counts := d.Buckets()

	entropy := 0.0
	for _, n := range counts {
		p := float64(n) / total
		entropy -= p * math.Log(p)
	}
	// Tolerate rounding on the boundary.
	return entropy >= c.logL-1e-10
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *EntropyLDiversity) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *EntropyLDiversity) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *EntropyLDiversity) MinimalClassSize() (int, bool) {
	return c.l, true
}

// Clone implements ClassCriterion.
func (c *EntropyLDiversity) Clone(_ *rowset.Set) ClassCriterion {
	return NewEntropyLDiversity(c.attribute, c.l)
}

// String implements fmt.Stringer.
func (c *EntropyLDiversity) String() string {
	return fmt.Sprintf("entropy-%d-diversity for %q", c.l, c.attribute)
}

// RecursiveCLDiversity requires r₁ < c·(r_ℓ + r_{ℓ+1} + … + r_m) where
// r₁ ≥ r₂ ≥ … ≥ r_m are the sensitive value frequencies of a class.
type RecursiveCLDiversity struct {
	ldiversity
	c float64
}

// NewRecursiveCLDiversity creates a recursive-(c,ℓ)-diversity model.
func NewRecursiveCLDiversity(attribute string, cParam float64, l int) *RecursiveCLDiversity {
	return &RecursiveCLDiversity{
		ldiversity: ldiversity{attribute: attribute, l: l},
		c:          cParam,
	}
}

// C returns the parameter c.
func (c *RecursiveCLDiversity) C() float64 {
	return c.c
}

// Requirements implements ClassCriterion.
func (c *RecursiveCLDiversity) Requirements() Requirements {
	return RequireCounter | RequireDistribution
}

// Initialize implements ClassCriterion.
func (c *RecursiveCLDiversity) Initialize(m *dataset.Manager) error {
	if c.c <= 0 {
		return fmt.Errorf("%w: c (%g) must be positive", ErrInvalidParameter, c.c)
	}
	return c.initialize(m)
}

// IsAnonymous implements ClassCriterion.
func (c *RecursiveCLDiversity) IsAnonymous(cls Class) bool {
	d := cls.Distribution()
	if d.NumDistinct() < c.l {
		return false
	}
	_, counts := d.Buckets()
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	tail := 0
	for i := c.l - 1; i < len(sorted); i++ {
		tail += sorted[i]
	}
	return float64(sorted[0]) < c.c*float64(tail)
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *RecursiveCLDiversity) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *RecursiveCLDiversity) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *RecursiveCLDiversity) MinimalClassSize() (int, bool) {
	return c.l, true
}

// Clone implements ClassCriterion.
func (c *RecursiveCLDiversity) Clone(_ *rowset.Set) ClassCriterion {
	return NewRecursiveCLDiversity(c.attribute, c.c, c.l)
}

// String implements fmt.Stringer.
func (c *RecursiveCLDiversity) String() string {
	return fmt.Sprintf("recursive-(%g,%d)-diversity for %q", c.c, c.l, c.attribute)
}
