package config

import (
	"testing"

	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/metric"
	"github.com/hupe1980/anongo/rowset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ageHierarchy = [][]string{
	{"25", "<30", "*"},
	{"27", "<30", "*"},
	{"29", "<30", "*"},
	{"31", ">=30", "*"},
	{"40", ">=30", "*"},
}

func testManager(t *testing.T) *dataset.Manager {
	t.Helper()
	h, err := dataset.FromRows(
		[]string{"age", "disease", "job"},
		[][]string{
			{"25", "flu", "nurse"},
			{"27", "cancer", "clerk"},
			{"29", "flu", "nurse"},
			{"31", "cancer", "clerk"},
			{"40", "flu", "nurse"},
		},
	)
	require.NoError(t, err)
	h.Definition().
		SetRole("age", core.RoleQuasiIdentifying).
		SetHierarchy("age", ageHierarchy).
		SetRole("disease", core.RoleSensitive).
		SetRole("job", core.RoleSensitive)

	m, err := dataset.NewManager(h, "*")
	require.NoError(t, err)
	return m
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := New()
		c.Require(criteria.NewKAnonymity(2))
		return c
	}

	require.NoError(t, valid().Validate())

	t.Run("suppression limit", func(t *testing.T) {
		c := valid()
		c.SuppressionLimit = 1
		assert.ErrorIs(t, c.Validate(), ErrInvalid)

		c.SuppressionLimit = -0.1
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})

	t.Run("history size", func(t *testing.T) {
		c := valid()
		c.HistorySize = 0
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})

	t.Run("snapshot sizes", func(t *testing.T) {
		c := valid()
		c.SnapshotSizeDataset = 0
		assert.ErrorIs(t, c.Validate(), ErrInvalid)

		c = valid()
		c.SnapshotSizeSnapshot = 1
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})

	t.Run("heuristic threshold", func(t *testing.T) {
		c := valid()
		c.HeuristicSearchEnabled = true
		c.HeuristicSearchThreshold = 0
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})

	t.Run("no privacy model", func(t *testing.T) {
		assert.ErrorIs(t, New().Validate(), ErrInvalid)
	})

	t.Run("attribute weight", func(t *testing.T) {
		c := valid()
		c.AttributeWeights["age"] = 1.5
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})

	t.Run("no quality model", func(t *testing.T) {
		c := valid()
		c.QualityModel = nil
		assert.ErrorIs(t, c.Validate(), ErrInvalid)
	})
}

func TestConfig_Initialize(t *testing.T) {
	m := testManager(t)

	c := New()
	c.SuppressionLimit = 0.5
	c.Require(criteria.NewKAnonymity(2))

	in, err := c.Initialize(m)
	require.NoError(t, err)

	assert.Equal(t, 2, in.MinimalClassSize())
	assert.Equal(t, 2, in.AbsoluteMaxOutliers()) // floor(0.5 * 5)
	assert.Equal(t, 2, in.SnapshotLength())
	assert.Equal(t, -1, in.DistributionColumn())
	assert.Nil(t, in.Subset())
	assert.True(t, in.Requires(criteria.RequireCounter))
	assert.False(t, in.Requires(criteria.RequireDistribution))
	assert.True(t, in.MonotonicPrivacy())
	assert.False(t, in.MonotonicUtility()) // loss is not monotone with suppression
	assert.Equal(t, 5, in.NumRows())
	assert.Equal(t, []float64{DefaultAttributeWeight}, in.Weights())
}

func TestConfig_Initialize_Distribution(t *testing.T) {
	m := testManager(t)

	c := New()
	c.Require(criteria.NewKAnonymity(2))
	c.Require(criteria.NewDistinctLDiversity("disease", 2))

	in, err := c.Initialize(m)
	require.NoError(t, err)

	col, ok := m.SensitiveColumn("disease")
	require.True(t, ok)
	assert.Equal(t, col, in.DistributionColumn())
	assert.True(t, in.Requires(criteria.RequireDistribution))
}

func TestConfig_Initialize_SecondaryCounter(t *testing.T) {
	m := testManager(t)

	c := New()
	c.Require(criteria.NewKMap(2, rowset.FromRows(0, 1, 2)))

	in, err := c.Initialize(m)
	require.NoError(t, err)

	assert.Equal(t, 3, in.SnapshotLength())
	require.NotNil(t, in.Subset())
	assert.Equal(t, uint64(3), in.Subset().Cardinality())
}

func TestConfig_Initialize_Monotonicity(t *testing.T) {
	m := testManager(t)

	t.Run("non-monotone model", func(t *testing.T) {
		c := New()
		c.Require(criteria.NewEqualDistanceTCloseness("disease", 0.3))

		in, err := c.Initialize(m)
		require.NoError(t, err)
		assert.False(t, in.MonotonicPrivacy())
		assert.False(t, in.StrictlyMonotonicPrivacy())
	})

	t.Run("practical monotonicity opt-in", func(t *testing.T) {
		c := New()
		c.PracticalMonotonicity = true
		c.Require(criteria.NewEqualDistanceTCloseness("disease", 0.3))

		in, err := c.Initialize(m)
		require.NoError(t, err)
		assert.True(t, in.MonotonicPrivacy())
		assert.False(t, in.StrictlyMonotonicPrivacy())
	})

	t.Run("monotone utility without suppression", func(t *testing.T) {
		c := New()
		c.Require(criteria.NewKAnonymity(2))

		in, err := c.Initialize(m)
		require.NoError(t, err)
		assert.True(t, in.MonotonicUtility())
	})
}

func TestConfig_Initialize_AttributeWeights(t *testing.T) {
	m := testManager(t)

	c := New()
	c.Require(criteria.NewKAnonymity(2))
	c.AttributeWeights["age"] = 0.9
	c.QualityModel = metric.NewPrecision()

	in, err := c.Initialize(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9}, in.Weights())
}

func TestConfig_Initialize_Rejections(t *testing.T) {
	m := testManager(t)

	t.Run("no quasi-identifier", func(t *testing.T) {
		h, err := dataset.FromRows([]string{"disease"}, [][]string{{"flu"}})
		require.NoError(t, err)
		h.Definition().SetRole("disease", core.RoleSensitive)
		noQI, err := dataset.NewManager(h, "*")
		require.NoError(t, err)

		c := New()
		c.Require(criteria.NewKAnonymity(1))
		_, err = c.Initialize(noQI)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("sensitive associations with multiple sensitive attributes", func(t *testing.T) {
		c := New()
		c.ProtectSensitiveAssociations = true
		c.Require(criteria.NewKAnonymity(2))

		_, err := c.Initialize(m)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("distribution models on different attributes", func(t *testing.T) {
		c := New()
		c.Require(criteria.NewDistinctLDiversity("disease", 2))
		c.Require(criteria.NewDistinctLDiversity("job", 2))

		_, err := c.Initialize(m)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("conflicting research subsets", func(t *testing.T) {
		c := New()
		c.Require(criteria.NewKMap(2, rowset.FromRows(0, 1)))
		c.Require(criteria.NewDPresence(0, 0.5, rowset.FromRows(2, 3)))

		_, err := c.Initialize(m)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("model parameter out of range", func(t *testing.T) {
		c := New()
		c.Require(criteria.NewKAnonymity(100))

		_, err := c.Initialize(m)
		assert.ErrorIs(t, err, criteria.ErrInvalidParameter)
	})
}
