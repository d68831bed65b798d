package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked is returned when a handle that is already part of a run is
	// passed to the engine again.
	ErrLocked = errors.New("dataset: data handle is locked, release it first")
	// ErrRagged is returned for rows with mismatched column counts.
	ErrRagged = errors.New("dataset: mismatched column count")
)

// Handle is the raw, unencoded input table plus its definition. The engine
// locks the handle for the duration of a run and unlocks it on every
// failure path.
type Handle struct {
	header     []string
	rows       [][]string
	definition *Definition
	locked     bool
}

// FromRows creates a handle from an in-memory table.
func FromRows(header []string, rows [][]string) (*Handle, error) {
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRagged, i, len(row), len(header))
		}
	}
	return &Handle{
		header:     header,
		rows:       rows,
		definition: NewDefinition(),
	}, nil
}

// Header returns the column names.
func (h *Handle) Header() []string {
	return h.header
}

// NumRows returns the number of data rows.
func (h *Handle) NumRows() int {
	return len(h.rows)
}

// NumColumns returns the number of columns.
func (h *Handle) NumColumns() int {
	return len(h.header)
}

// Row returns one raw row. The returned slice must not be modified.
func (h *Handle) Row(i int) []string {
	return h.rows[i]
}

// Definition returns the mutable attribute definition.
func (h *Handle) Definition() *Definition {
	return h.definition
}

// ColumnIndex returns the index of a named column.
func (h *Handle) ColumnIndex(name string) (int, bool) {
	for i, c := range h.header {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// IsLocked reports whether the handle is attached to a running or completed
// anonymization.
func (h *Handle) IsLocked() bool {
	return h.locked
}

// Lock attaches the handle to a run.
func (h *Handle) Lock() error {
	if h.locked {
		return ErrLocked
	}
	h.locked = true
	return nil
}

// Release unlocks the handle.
func (h *Handle) Release() {
	h.locked = false
}
