package metric

import (
	"testing"

	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroups struct {
	sizes      []int
	suppressed []bool
	reps       []core.RowID
}

func (g fakeGroups) NumClasses() int                { return len(g.sizes) }
func (g fakeGroups) ClassSize(i int) int            { return g.sizes[i] }
func (g fakeGroups) IsSuppressed(i int) bool        { return g.suppressed[i] }
func (g fakeGroups) Representative(i int) core.RowID { return g.reps[i] }

func (g fakeGroups) NumRows() int {
	total := 0
	for _, s := range g.sizes {
		total += s
	}
	return total
}

// ageManager encodes a single quasi-identifier with 5 values that merge
// into groups of 3 and 2 on level 1 and into one group on level 2.
func ageManager(t *testing.T) *dataset.Manager {
	t.Helper()
	h, err := dataset.FromRows(
		[]string{"age"},
		[][]string{{"25"}, {"27"}, {"29"}, {"31"}, {"40"}},
	)
	require.NoError(t, err)
	h.Definition().
		SetRole("age", core.RoleQuasiIdentifying).
		SetHierarchy("age", [][]string{
			{"25", "<30", "*"},
			{"27", "<30", "*"},
			{"29", "<30", "*"},
			{"31", ">=30", "*"},
			{"40", ">=30", "*"},
		})

	m, err := dataset.NewManager(h, "*")
	require.NoError(t, err)
	return m
}

// levelOneGroups is the grouping produced by generalizing ageManager's data
// to level 1: {25, 27, 29} and {31, 40}.
func levelOneGroups() fakeGroups {
	return fakeGroups{
		sizes:      []int{3, 2},
		suppressed: []bool{false, false},
		reps:       []core.RowID{0, 3},
	}
}

func TestHeight(t *testing.T) {
	m := NewHeight()
	require.NoError(t, m.Initialize(nil, nil))

	assert.Equal(t, 3.0, m.Evaluate([]int{1, 2}, nil))

	bound, ok := m.LowerBound([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, 3.0, bound)

	assert.True(t, m.IsMonotonic(0.5))
}

func TestAECS(t *testing.T) {
	m := NewAECS()
	require.NoError(t, m.Initialize(nil, nil))

	assert.InDelta(t, 2.5, m.Evaluate(nil, levelOneGroups()), 1e-12)

	_, ok := m.LowerBound(nil)
	assert.False(t, ok)
	assert.False(t, m.IsMonotonic(0))
}

func TestDiscernibility(t *testing.T) {
	m := NewDiscernibility()
	require.NoError(t, m.Initialize(nil, nil))

	g := levelOneGroups()
	assert.InDelta(t, 13.0, m.Evaluate(nil, g), 1e-12) // 3² + 2²

	t.Run("suppressed classes pay the table size", func(t *testing.T) {
		g := levelOneGroups()
		g.suppressed[1] = true
		assert.InDelta(t, 19.0, m.Evaluate(nil, g), 1e-12) // 3² + 2·5
	})

	assert.True(t, m.IsMonotonic(0))
	assert.False(t, m.IsMonotonic(0.1))
}

func TestPrecision(t *testing.T) {
	mgr := ageManager(t)
	m := NewPrecision()
	require.NoError(t, m.Initialize(mgr, []float64{1}))

	// Level 1 of a height-3 hierarchy costs 1/2 per cell.
	assert.InDelta(t, 0.5, m.Evaluate([]int{1}, levelOneGroups()), 1e-12)

	t.Run("suppressed rows lose everything", func(t *testing.T) {
		g := levelOneGroups()
		g.suppressed[1] = true
		assert.InDelta(t, 0.7, m.Evaluate([]int{1}, g), 1e-12) // (3·0.5 + 2)/5
	})

	t.Run("lower bound ignores suppression", func(t *testing.T) {
		bound, ok := m.LowerBound([]int{1})
		require.True(t, ok)
		assert.InDelta(t, 0.5, bound, 1e-12)
	})

	assert.True(t, m.IsMonotonic(0))
	assert.False(t, m.IsMonotonic(0.1))
}

func TestLoss(t *testing.T) {
	mgr := ageManager(t)
	m := NewLoss()
	require.NoError(t, m.Initialize(mgr, []float64{1}))

	t.Run("untouched table has no loss beyond the domain share", func(t *testing.T) {
		g := fakeGroups{
			sizes:      []int{1, 1, 1, 1, 1},
			suppressed: make([]bool, 5),
			reps:       []core.RowID{0, 1, 2, 3, 4},
		}
		// Every level-0 value covers 1/5 of the domain.
		assert.InDelta(t, 0.2, m.Evaluate([]int{0}, g), 1e-12)
	})

	t.Run("level one", func(t *testing.T) {
		// Shares 3/5 for three rows and 2/5 for two rows.
		assert.InDelta(t, 0.52, m.Evaluate([]int{1}, levelOneGroups()), 1e-12)
	})

	t.Run("full generalization", func(t *testing.T) {
		g := fakeGroups{sizes: []int{5}, suppressed: []bool{false}, reps: []core.RowID{0}}
		assert.InDelta(t, 1.0, m.Evaluate([]int{2}, g), 1e-12)
	})

	t.Run("suppressed classes lose the whole domain", func(t *testing.T) {
		g := levelOneGroups()
		g.suppressed[1] = true
		assert.InDelta(t, 0.76, m.Evaluate([]int{1}, g), 1e-12) // (3·0.6 + 2)/5
	})

	t.Run("lower bound uses the smallest share", func(t *testing.T) {
		bound, ok := m.LowerBound([]int{1})
		require.True(t, ok)
		assert.InDelta(t, 0.4, bound, 1e-12)

		evaluated := m.Evaluate([]int{1}, levelOneGroups())
		assert.LessOrEqual(t, bound, evaluated)
	})

	assert.True(t, m.IsMonotonic(0))
	assert.False(t, m.IsMonotonic(0.2))
}
