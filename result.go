package anongo

import (
	"sort"

	"github.com/hupe1980/anongo/check"
	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/lattice"
	"github.com/hupe1980/anongo/rowset"
	"github.com/hupe1980/anongo/search"
)

// Result is the outcome of a successful run: the optimal transformation,
// the decoded output table and the annotated lattice.
type Result struct {
	header []string
	rows   [][]string

	levels         []int
	transformation map[string]int
	quality        float64
	suppressedRows int
	checkedNodes   int
	outliers       *rowset.Set
	lat            *lattice.Lattice
}

// outputColumn is one column of the decoded table in original order.
// Identifying columns are dropped during encoding and never reappear.
type outputColumn struct {
	original int
	name     string
	role     core.AttributeRole
	data     *dataset.Data
	index    int
	level    int
}

func newResult(m *dataset.Manager, cfg *config.Config, lat *lattice.Lattice, outcome *search.Outcome, final *check.Result, outliers *rowset.Set) (*Result, error) {
	levels := final.Levels()

	cols := make([]outputColumn, 0, len(m.Header()))
	appendCols := func(d *dataset.Data, role core.AttributeRole) {
		for i := 0; i < d.NumColumns(); i++ {
			cols = append(cols, outputColumn{
				original: d.OriginalColumn(i),
				name:     d.Header()[i],
				role:     role,
				data:     d,
				index:    i,
			})
		}
	}
	appendCols(m.DataQI(), core.RoleQuasiIdentifying)
	appendCols(m.DataSE(), core.RoleSensitive)
	appendCols(m.DataIS(), core.RoleInsensitive)
	sort.Slice(cols, func(i, j int) bool { return cols[i].original < cols[j].original })

	transformation := make(map[string]int, len(levels))
	for i, name := range m.DataQI().Header() {
		transformation[name] = levels[i]
	}
	for i := range cols {
		if cols[i].role == core.RoleQuasiIdentifying {
			cols[i].level = transformation[cols[i].name]
		}
	}

	hierarchies := make(map[string]int, len(levels)) // attribute -> hierarchy index
	for i, name := range m.DataQI().Header() {
		hierarchies[name] = i
	}

	dict := m.Dictionary()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}

	rows := make([][]string, m.NumRows())
	for r := 0; r < m.NumRows(); r++ {
		suppressed := outliers.Contains(core.RowID(r))
		row := make([]string, len(cols))
		for i, c := range cols {
			if suppressed && cfg.SuppressedRoles.Contains(c.role) {
				row[i] = cfg.SuppressionString
				continue
			}
			id := c.data.Value(core.RowID(r), c.index)
			if c.role == core.RoleQuasiIdentifying {
				id = m.Hierarchies()[hierarchies[c.name]].Apply(c.level, id)
			}
			s, err := dict.Decode(c.original, id)
			if err != nil {
				return nil, translateError(err)
			}
			row[i] = s
		}
		rows[r] = row
	}

	return &Result{
		header:         header,
		rows:           rows,
		levels:         levels,
		transformation: transformation,
		quality:        final.Quality(),
		suppressedRows: final.SuppressedRows(),
		checkedNodes:   outcome.Checked,
		outliers:       outliers,
		lat:            lat,
	}, nil
}

// Header returns the output column names in original order, identifying
// columns excluded.
func (r *Result) Header() []string {
	return r.header
}

// Rows returns the anonymized table.
func (r *Result) Rows() [][]string {
	return r.rows
}

// Levels returns the optimal level vector in quasi-identifier order.
func (r *Result) Levels() []int {
	return r.levels
}

// Transformation returns the optimal generalization level per
// quasi-identifying attribute.
func (r *Result) Transformation() map[string]int {
	return r.transformation
}

// Quality returns the achieved quality score. Lower is better.
func (r *Result) Quality() float64 {
	return r.quality
}

// SuppressedRows returns the number of outlier rows.
func (r *Result) SuppressedRows() int {
	return r.suppressedRows
}

// Outliers returns the suppressed rows.
func (r *Result) Outliers() *rowset.Set {
	return r.outliers
}

// CheckedNodes returns the number of transformations the search evaluated.
func (r *Result) CheckedNodes() int {
	return r.checkedNodes
}

// Lattice returns the annotated solution space: node states and, where
// checked, quality values.
func (r *Result) Lattice() *lattice.Lattice {
	return r.lat
}

// StateStatistics counts lattice nodes per lifecycle state.
func (r *Result) StateStatistics() map[lattice.State]int {
	return r.lat.StateStatistics()
}
