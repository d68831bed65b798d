// Package dataset provides the encoded representation of the input table:
// per-column dictionaries, the row-major id matrix, attribute definitions
// and the manager that partitions columns by role.
package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/core"
)

var (
	// ErrUnknownValue is returned when decoding an id that was never interned.
	ErrUnknownValue = errors.New("dataset: unknown value id")
	// ErrFrozen is returned when interning into a frozen dictionary.
	ErrFrozen = errors.New("dataset: dictionary is frozen")
)

// Dictionary interns the string values of every column to dense integer
// ids. Id 0 of every column is reserved for the suppression sentinel, so
// interned ids start at 1. Ids are stable for the lifetime of a run; after
// Freeze the dictionary is read-only.
type Dictionary struct {
	suppression string
	frozen      bool
	columns     []dictColumn
}

type dictColumn struct {
	toID     map[string]core.ValueID
	toString []string
}

// NewDictionary creates a dictionary for the given number of columns.
// suppression is the string returned when decoding the sentinel id.
func NewDictionary(numColumns int, suppression string) *Dictionary {
	d := &Dictionary{
		suppression: suppression,
		columns:     make([]dictColumn, numColumns),
	}
	for i := range d.columns {
		d.columns[i] = dictColumn{
			toID:     make(map[string]core.ValueID),
			toString: []string{suppression},
		}
	}
	return d
}

// NumColumns returns the number of columns.
func (d *Dictionary) NumColumns() int {
	return len(d.columns)
}

// Intern returns the id of s in the given column, assigning the next dense
// id on first sight.
func (d *Dictionary) Intern(col int, s string) (core.ValueID, error) {
	c := &d.columns[col]
	if id, ok := c.toID[s]; ok {
		return id, nil
	}
	if d.frozen {
		return 0, fmt.Errorf("%w: column %d value %q", ErrFrozen, col, s)
	}
	id := core.ValueID(len(c.toString))
	c.toID[s] = id
	c.toString = append(c.toString, s)
	return id, nil
}

// Decode returns the string of the given id. The sentinel id decodes to the
// suppression string.
func (d *Dictionary) Decode(col int, id core.ValueID) (string, error) {
	c := &d.columns[col]
	if int(id) >= len(c.toString) {
		return "", fmt.Errorf("%w: column %d id %d", ErrUnknownValue, col, id)
	}
	return c.toString[int(id)], nil
}

// Cardinality returns the number of interned values of a column, excluding
// the sentinel.
func (d *Dictionary) Cardinality(col int) int {
	return len(d.columns[col].toString) - 1
}

// SuppressionString returns the sentinel decoding.
func (d *Dictionary) SuppressionString() string {
	return d.suppression
}

// Freeze makes the dictionary read-only.
func (d *Dictionary) Freeze() {
	d.frozen = true
}
