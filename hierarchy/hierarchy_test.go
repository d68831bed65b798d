package hierarchy

import (
	"testing"

	"github.com/hupe1980/anongo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ids 1..4 generalize to {1,2}->5, {3,4}->6 on level 1 and all to 7 on
// level 2.
func validMatrix() [][]core.ValueID {
	return [][]core.ValueID{
		{1, 5, 7},
		{2, 5, 7},
		{3, 6, 7},
		{4, 6, 7},
	}
}

func TestNew(t *testing.T) {
	h, err := New("age", validMatrix())
	require.NoError(t, err)

	assert.Equal(t, "age", h.Name())
	assert.Equal(t, 3, h.Height())
	assert.Equal(t, 4, h.Cardinality())
}

func TestNew_Invalid(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := New("x", nil)
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("ragged", func(t *testing.T) {
		_, err := New("x", [][]core.ValueID{{1, 3}, {2}})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("reserved base id", func(t *testing.T) {
		_, err := New("x", [][]core.ValueID{{0, 1}})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("duplicate base id", func(t *testing.T) {
		_, err := New("x", [][]core.ValueID{{1, 3}, {1, 3}})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("gap in base ids", func(t *testing.T) {
		_, err := New("x", [][]core.ValueID{{1, 3}, {3, 4}})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("not monotonic", func(t *testing.T) {
		// 1 and 2 merge at level 1 but split again at level 2.
		_, err := New("x", [][]core.ValueID{
			{1, 4, 6},
			{2, 4, 7},
			{3, 5, 7},
		})
		assert.ErrorIs(t, err, ErrNotMonotonic)
	})
}

func TestApply(t *testing.T) {
	h, err := New("age", validMatrix())
	require.NoError(t, err)

	// Level 0 is the identity.
	for v := core.ValueID(1); v <= 4; v++ {
		assert.Equal(t, v, h.Apply(0, v))
	}

	assert.Equal(t, core.ValueID(5), h.Apply(1, 1))
	assert.Equal(t, core.ValueID(5), h.Apply(1, 2))
	assert.Equal(t, core.ValueID(6), h.Apply(1, 3))
	assert.Equal(t, core.ValueID(7), h.Apply(2, 4))

	// The sentinel maps to itself on every level.
	assert.Equal(t, core.SuppressedValue, h.Apply(1, core.SuppressedValue))
}

func TestDistinctValues(t *testing.T) {
	h, err := New("age", validMatrix())
	require.NoError(t, err)

	assert.Equal(t, 4, h.DistinctValues(0))
	assert.Equal(t, 2, h.DistinctValues(1))
	assert.Equal(t, 1, h.DistinctValues(2))
}

func TestGroupShare(t *testing.T) {
	h, err := New("age", validMatrix())
	require.NoError(t, err)

	assert.InDelta(t, 0.25, h.GroupShare(0, 1), 1e-12)
	assert.InDelta(t, 0.5, h.GroupShare(1, 5), 1e-12)
	assert.InDelta(t, 1.0, h.GroupShare(2, 7), 1e-12)
}
