package dataset

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/hierarchy"
)

var (
	// ErrMissingHierarchy is returned for a quasi-identifier without a
	// hierarchy.
	ErrMissingHierarchy = errors.New("dataset: quasi-identifier without hierarchy")
	// ErrValueNotCovered is returned when the table contains a value the
	// hierarchy does not generalize.
	ErrValueNotCovered = errors.New("dataset: value not covered by hierarchy")
)

// Manager owns the encoded view of one anonymization run: the per-column
// dictionary, the quasi-identifying, sensitive and insensitive sub-tables
// and the frozen hierarchies. Identifying columns are dropped here and
// never reach the engine.
type Manager struct {
	dict *Dictionary

	qi *Data
	se *Data
	is *Data

	hierarchies []*hierarchy.Hierarchy
	minLevels   []int
	maxLevels   []int
	heights     []int

	seIndex map[string]int
	numRows int
	header  []string
}

// NewManager encodes the handle according to its definition. Columns are
// encoded independently, so encoding runs one goroutine per column; the
// resulting ids do not depend on scheduling because each column is
// processed in row order by a single goroutine.
func NewManager(h *Handle, suppression string) (*Manager, error) {
	def := h.Definition()
	if err := def.Validate(h.Header()); err != nil {
		return nil, err
	}

	m := &Manager{
		dict:    NewDictionary(h.NumColumns(), suppression),
		numRows: h.NumRows(),
		header:  h.Header(),
		seIndex: make(map[string]int),
	}

	// Partition columns by role, in header order for reproducibility.
	var qiCols, seCols, isCols []int
	for i, name := range h.Header() {
		switch def.Role(name) {
		case core.RoleQuasiIdentifying:
			qiCols = append(qiCols, i)
		case core.RoleSensitive:
			seCols = append(seCols, i)
		case core.RoleInsensitive:
			isCols = append(isCols, i)
		case core.RoleIdentifying:
			// Dropped.
		}
	}

	var g errgroup.Group
	encoded := make([][]core.ValueID, h.NumColumns())
	for _, col := range append(append(append([]int{}, qiCols...), seCols...), isCols...) {
		g.Go(func() error {
			vals := make([]core.ValueID, h.NumRows())
			for r := 0; r < h.NumRows(); r++ {
				id, err := m.dict.Intern(col, h.Row(r)[col])
				if err != nil {
					return err
				}
				vals[r] = id
			}
			encoded[col] = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.qi = subTable(h, qiCols, encoded)
	m.se = subTable(h, seCols, encoded)
	m.is = subTable(h, isCols, encoded)
	for i, col := range seCols {
		m.seIndex[h.Header()[col]] = i
	}

	// Build and validate one hierarchy per quasi-identifier.
	m.hierarchies = make([]*hierarchy.Hierarchy, len(qiCols))
	m.minLevels = make([]int, len(qiCols))
	m.maxLevels = make([]int, len(qiCols))
	m.heights = make([]int, len(qiCols))
	for i, col := range qiCols {
		name := h.Header()[col]
		matrix := def.Hierarchy(name)
		if matrix == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingHierarchy, name)
		}
		// Interning the matrix adds the generalized values to the column's
		// dictionary, so the coverage check needs the data-only cardinality.
		dataCardinality := m.dict.Cardinality(col)
		hr, err := m.encodeHierarchy(name, col, matrix, dataCardinality)
		if err != nil {
			return nil, err
		}
		m.hierarchies[i] = hr
		m.heights[i] = hr.Height()

		m.minLevels[i] = def.MinimumGeneralization(name)
		if max, ok := def.MaximumGeneralization(name); ok {
			m.maxLevels[i] = max
		} else {
			m.maxLevels[i] = hr.Height() - 1
		}
		if m.minLevels[i] < 0 || m.minLevels[i] > m.maxLevels[i] || m.maxLevels[i] > hr.Height()-1 {
			return nil, fmt.Errorf("%w: attribute %q: [%d, %d] with height %d",
				ErrLevelBounds, name, m.minLevels[i], m.maxLevels[i], hr.Height())
		}
	}

	m.dict.Freeze()
	return m, nil
}

func subTable(h *Handle, cols []int, encoded [][]core.ValueID) *Data {
	d := &Data{
		header:  make([]string, len(cols)),
		columns: cols,
		rows:    make([][]core.ValueID, h.NumRows()),
	}
	for i, col := range cols {
		d.header[i] = h.Header()[col]
	}
	for r := range d.rows {
		row := make([]core.ValueID, len(cols))
		for i, col := range cols {
			row[i] = encoded[col][r]
		}
		d.rows[r] = row
	}
	return d
}

// encodeHierarchy interns a string hierarchy matrix against the column's
// dictionary. Base values share ids with the data, so the level arrays can
// be indexed directly by encoded cell values.
func (m *Manager) encodeHierarchy(name string, col int, matrix [][]string, dataCardinality int) (*hierarchy.Hierarchy, error) {
	idMatrix := make([][]core.ValueID, len(matrix))
	for i, row := range matrix {
		idRow := make([]core.ValueID, len(row))
		for l, s := range row {
			id, err := m.dict.Intern(col, s)
			if err != nil {
				return nil, err
			}
			idRow[l] = id
		}
		idMatrix[i] = idRow
	}

	hr, err := hierarchy.New(name, idMatrix)
	if err != nil {
		return nil, err
	}

	// Every data value must have a generalization path.
	if hr.Cardinality() < dataCardinality {
		return nil, fmt.Errorf("%w: attribute %q", ErrValueNotCovered, name)
	}
	return hr, nil
}

// Header returns the full input header, including dropped columns.
func (m *Manager) Header() []string {
	return m.header
}

// NumRows returns the number of rows of the input table.
func (m *Manager) NumRows() int {
	return m.numRows
}

// NumQuasiIdentifiers returns the dimensionality of the lattice.
func (m *Manager) NumQuasiIdentifiers() int {
	return m.qi.NumColumns()
}

// DataQI returns the quasi-identifying sub-table.
func (m *Manager) DataQI() *Data {
	return m.qi
}

// DataSE returns the sensitive sub-table.
func (m *Manager) DataSE() *Data {
	return m.se
}

// DataIS returns the insensitive sub-table.
func (m *Manager) DataIS() *Data {
	return m.is
}

// Hierarchies returns the frozen hierarchies in quasi-identifier order.
func (m *Manager) Hierarchies() []*hierarchy.Hierarchy {
	return m.hierarchies
}

// MinLevels returns the per-attribute lower lattice bounds.
func (m *Manager) MinLevels() []int {
	return m.minLevels
}

// MaxLevels returns the per-attribute upper lattice bounds.
func (m *Manager) MaxLevels() []int {
	return m.maxLevels
}

// HierarchyHeights returns the per-attribute hierarchy heights.
func (m *Manager) HierarchyHeights() []int {
	return m.heights
}

// Dictionary returns the run's dictionary.
func (m *Manager) Dictionary() *Dictionary {
	return m.dict
}

// SensitiveColumn returns the index of a sensitive attribute within the
// sensitive sub-table.
func (m *Manager) SensitiveColumn(attribute string) (int, bool) {
	i, ok := m.seIndex[attribute]
	return i, ok
}

// SensitiveDistribution returns the global frequency of every value of a
// sensitive column, indexed by value id.
func (m *Manager) SensitiveDistribution(col int) []int {
	counts := make([]int, m.dict.Cardinality(m.se.OriginalColumn(col))+1)
	for r := 0; r < m.numRows; r++ {
		counts[m.se.Value(core.RowID(r), col)]++
	}
	return counts
}
