package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/core"
)

var (
	// ErrUnknownAttribute is returned when a definition references a column
	// that the table does not contain.
	ErrUnknownAttribute = errors.New("dataset: unknown attribute")
	// ErrLevelBounds is returned for generalization bounds outside
	// [0, height-1].
	ErrLevelBounds = errors.New("dataset: generalization level out of bounds")
)

// Definition assigns a role, and for quasi-identifiers a generalization
// hierarchy plus level bounds, to every attribute of the input table.
type Definition struct {
	roles       map[string]core.AttributeRole
	hierarchies map[string][][]string
	minLevels   map[string]int
	maxLevels   map[string]int
}

// NewDefinition creates an empty definition. Attributes without an explicit
// role default to insensitive.
func NewDefinition() *Definition {
	return &Definition{
		roles:       make(map[string]core.AttributeRole),
		hierarchies: make(map[string][][]string),
		minLevels:   make(map[string]int),
		maxLevels:   make(map[string]int),
	}
}

// SetRole assigns a role to an attribute.
func (d *Definition) SetRole(attribute string, role core.AttributeRole) *Definition {
	d.roles[attribute] = role
	return d
}

// SetHierarchy assigns the generalization hierarchy of a quasi-identifying
// attribute. matrix[i][l] is the level-l generalization of the base value
// matrix[i][0]; column 0 must enumerate the attribute's domain.
func (d *Definition) SetHierarchy(attribute string, matrix [][]string) *Definition {
	d.hierarchies[attribute] = matrix
	return d
}

// SetMinimumGeneralization bounds the lattice from below for one attribute.
func (d *Definition) SetMinimumGeneralization(attribute string, level int) *Definition {
	d.minLevels[attribute] = level
	return d
}

// SetMaximumGeneralization bounds the lattice from above for one attribute.
func (d *Definition) SetMaximumGeneralization(attribute string, level int) *Definition {
	d.maxLevels[attribute] = level
	return d
}

// Role returns the role of an attribute.
func (d *Definition) Role(attribute string) core.AttributeRole {
	if r, ok := d.roles[attribute]; ok {
		return r
	}
	return core.RoleInsensitive
}

// Hierarchy returns the hierarchy matrix of an attribute, or nil.
func (d *Definition) Hierarchy(attribute string) [][]string {
	return d.hierarchies[attribute]
}

// MinimumGeneralization returns the lower level bound of an attribute.
func (d *Definition) MinimumGeneralization(attribute string) int {
	return d.minLevels[attribute]
}

// MaximumGeneralization returns the upper level bound of an attribute and
// whether one was set.
func (d *Definition) MaximumGeneralization(attribute string) (int, bool) {
	l, ok := d.maxLevels[attribute]
	return l, ok
}

// Validate checks the definition against a table header.
func (d *Definition) Validate(header []string) error {
	known := make(map[string]struct{}, len(header))
	for _, h := range header {
		known[h] = struct{}{}
	}
	for a := range d.roles {
		if _, ok := known[a]; !ok {
			return fmt.Errorf("%w: %q is not contained in the dataset", ErrUnknownAttribute, a)
		}
	}
	for a := range d.hierarchies {
		if _, ok := known[a]; !ok {
			return fmt.Errorf("%w: hierarchy for %q, which is not contained in the dataset", ErrUnknownAttribute, a)
		}
	}
	return nil
}
