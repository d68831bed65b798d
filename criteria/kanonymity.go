package criteria

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/rowset"
)

// ErrInvalidParameter is returned for model parameters outside their domain.
var ErrInvalidParameter = errors.New("criteria: invalid parameter")

// KAnonymity requires every equivalence class to contain at least k rows.
type KAnonymity struct {
	k int
}

// NewKAnonymity creates a k-anonymity model.
func NewKAnonymity(k int) *KAnonymity {
	return &KAnonymity{k: k}
}

// K returns the parameter k.
func (c *KAnonymity) K() int {
	return c.k
}

// Requirements implements ClassCriterion.
func (c *KAnonymity) Requirements() Requirements {
	return RequireCounter
}

// Initialize implements ClassCriterion.
func (c *KAnonymity) Initialize(m *dataset.Manager) error {
	if c.k < 1 || c.k > m.NumRows() {
		return fmt.Errorf("%w: k (%d) must be positive and at most the number of rows (%d)", ErrInvalidParameter, c.k, m.NumRows())
	}
	return nil
}

// IsAnonymous implements ClassCriterion.
func (c *KAnonymity) IsAnonymous(cls Class) bool {
	return cls.Count() >= c.k
}

// IsMonotonicWithGeneralization implements ClassCriterion.
func (c *KAnonymity) IsMonotonicWithGeneralization() bool { return true }

// IsMonotonicWithSuppression implements ClassCriterion.
func (c *KAnonymity) IsMonotonicWithSuppression() bool { return true }

// MinimalClassSize implements ClassCriterion.
func (c *KAnonymity) MinimalClassSize() (int, bool) {
	return c.k, true
}

// Clone implements ClassCriterion. k-anonymity is subset-independent.
func (c *KAnonymity) Clone(_ *rowset.Set) ClassCriterion {
	return &KAnonymity{k: c.k}
}

// String implements fmt.Stringer.
func (c *KAnonymity) String() string {
	return fmt.Sprintf("%d-anonymity", c.k)
}
