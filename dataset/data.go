package dataset

import "github.com/hupe1980/anongo/core"

// Data is an encoded, role-homogeneous sub-table: a row-major matrix of
// value ids over a subset of the original columns. It is read-only after
// construction.
type Data struct {
	header  []string
	columns []int // original column indices
	rows    [][]core.ValueID
}

// Header returns the column names of the sub-table.
func (d *Data) Header() []string {
	return d.header
}

// NumRows returns the number of rows.
func (d *Data) NumRows() int {
	return len(d.rows)
}

// NumColumns returns the number of columns.
func (d *Data) NumColumns() int {
	return len(d.header)
}

// Value returns the encoded value at (row, col).
func (d *Data) Value(row core.RowID, col int) core.ValueID {
	return d.rows[row][col]
}

// Row returns one encoded row. The returned slice must not be modified.
func (d *Data) Row(row core.RowID) []core.ValueID {
	return d.rows[row]
}

// OriginalColumn returns the index of col in the original table.
func (d *Data) OriginalColumn(col int) int {
	return d.columns[col]
}
