package check

import (
	"bytes"
	"testing"

	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/internal/resource"
	"github.com/hupe1980/anongo/rowset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupify(t *testing.T) {
	g := newGroupify(4, false, false)

	a := []core.ValueID{1, 5}
	b := []core.ValueID{2, 5}

	g.add(a, 0, 1, 0)
	g.add(b, 1, 1, 0)
	g.add(a, 2, 2, 0)

	assert.Equal(t, 2, g.numClasses)
	assert.Equal(t, 4, g.numRows)

	t.Run("lookup", func(t *testing.T) {
		e := g.lookup(a)
		require.NotNil(t, e)
		assert.Equal(t, 3, e.count)
		assert.Equal(t, core.RowID(0), e.representative)

		assert.Nil(t, g.lookup([]core.ValueID{9, 9}))
	})

	t.Run("insertion order survives rehash", func(t *testing.T) {
		g := newGroupify(2, false, false)
		for i := 0; i < 100; i++ {
			g.add([]core.ValueID{core.ValueID(i + 1)}, core.RowID(i), 1, 0)
		}
		assert.Equal(t, 100, g.numClasses)

		i := 0
		for e := g.first; e != nil; e = e.nextOrdered {
			assert.Equal(t, core.RowID(i), e.representative)
			i++
		}
		assert.Equal(t, 100, i)
	})

	t.Run("key is copied", func(t *testing.T) {
		g := newGroupify(4, false, false)
		key := []core.ValueID{7}
		g.add(key, 0, 1, 0)
		key[0] = 8
		assert.NotNil(t, g.lookup([]core.ValueID{7}))
	})
}

func TestDistribution(t *testing.T) {
	d := newDistribution()
	d.add(1, 2)
	d.add(2, 1)
	d.add(1, 3)

	assert.Equal(t, 2, d.NumDistinct())
	assert.Equal(t, 6, d.Total())

	values, counts := d.Buckets()
	require.Len(t, values, 2)
	assert.Equal(t, core.ValueID(1), values[0])
	assert.Equal(t, 5, counts[0])
}

func TestCompressBlock(t *testing.T) {
	compressible := bytes.Repeat([]byte("abcd1234"), 128)
	incompressible := []byte{0x01, 0x5f, 0x99}

	for _, c := range []config.Compression{config.CompressionNone, config.CompressionLZ4, config.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, incompressible, nil} {
				blob, err := compressBlock(data, c)
				require.NoError(t, err)

				got, err := decompressBlock(blob, c)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			}
		})
	}

	t.Run("compressible data shrinks", func(t *testing.T) {
		blob, err := compressBlock(compressible, config.CompressionZSTD)
		require.NoError(t, err)
		assert.Less(t, len(blob), len(compressible))
	})

	t.Run("corrupt header", func(t *testing.T) {
		_, err := decompressBlock([]byte{1, 2, 3}, config.CompressionLZ4)
		assert.ErrorIs(t, err, errCorruptBlock)
	})
}

func TestSnapshot_Roundtrip(t *testing.T) {
	g := newGroupify(4, true, true)

	e := g.add([]core.ValueID{1}, 0, 3, 2)
	e.distribution.add(1, 2)
	e.distribution.add(2, 1)
	e = g.add([]core.ValueID{2}, 3, 1, 0)
	e.distribution.add(2, 1)

	for _, c := range []config.Compression{config.CompressionNone, config.CompressionLZ4, config.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			s, err := encodeSnapshot(g, 7, []int{1, 0}, true, true, c)
			require.NoError(t, err)
			assert.Equal(t, 7, s.nodeID)
			assert.Equal(t, 2, s.numClasses)

			words, err := s.decode()
			require.NoError(t, err)
			assert.Equal(t, []int32{
				0, 3, 2, 2, 1, 2, 2, 1, // rep, count, secondary, numDistinct, (value, count)*
				3, 1, 0, 1, 2, 1,
			}, words)
		})
	}

	t.Run("counters only", func(t *testing.T) {
		g := newGroupify(4, false, false)
		g.add([]core.ValueID{1}, 0, 2, 0)

		s, err := encodeSnapshot(g, 1, []int{0}, false, false, config.CompressionNone)
		require.NoError(t, err)

		words, err := s.decode()
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 2}, words)
	})
}

func TestHistory(t *testing.T) {
	snap := func(nodeID int, levels []int, classes int) *snapshot {
		return &snapshot{nodeID: nodeID, levels: levels, numClasses: classes}
	}

	t.Run("find picks the fewest classes among ancestors", func(t *testing.T) {
		h := NewHistory(10, 100, 0.8, nil)
		require.True(t, h.Store(snap(0, []int{0, 0}, 10), nil))
		require.True(t, h.Store(snap(1, []int{1, 0}, 4), nil))
		require.True(t, h.Store(snap(2, []int{0, 2}, 6), nil))

		s := h.Find([]int{1, 1})
		require.NotNil(t, s)
		assert.Equal(t, 1, s.nodeID)

		s = h.Find([]int{0, 2})
		require.NotNil(t, s)
		assert.Equal(t, 2, s.nodeID)

		// Only the bottom snapshot specializes this vector.
		s = h.Find([]int{0, 1})
		require.NotNil(t, s)
		assert.Equal(t, 0, s.nodeID)
	})

	t.Run("find misses", func(t *testing.T) {
		h := NewHistory(10, 100, 0.8, nil)
		require.True(t, h.Store(snap(1, []int{2, 0}, 4), nil))
		assert.Nil(t, h.Find([]int{1, 2}))

		hits, misses := h.Stats()
		assert.Equal(t, int64(0), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("admission thresholds", func(t *testing.T) {
		h := NewHistory(10, 5, 0.8, nil)
		assert.False(t, h.Store(snap(0, []int{0}, 6), nil))
		assert.True(t, h.Store(snap(1, []int{0}, 5), nil))

		ancestor := snap(1, []int{0}, 5)
		assert.False(t, h.Store(snap(2, []int{1}, 5), ancestor)) // 5 > 0.8*5
		assert.True(t, h.Store(snap(3, []int{1}, 4), ancestor))
	})

	t.Run("capacity eviction is LRU", func(t *testing.T) {
		h := NewHistory(2, 100, 0.8, nil)
		require.True(t, h.Store(snap(0, []int{0}, 2), nil))
		require.True(t, h.Store(snap(1, []int{1}, 3), nil))

		// Touch node 0 so node 1 is the eviction victim.
		require.NotNil(t, h.Find([]int{0}))

		require.True(t, h.Store(snap(2, []int{2}, 4), nil))
		assert.Equal(t, 2, h.Len())
		assert.Nil(t, h.Find([]int{1}))
		assert.NotNil(t, h.Find([]int{0}))
	})

	t.Run("memory pressure evicts", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 200})
		h := NewHistory(10, 100, 0.8, rc)

		// Each snapshot with one level charges 72 bytes.
		require.True(t, h.Store(snap(0, []int{0}, 2), nil))
		require.True(t, h.Store(snap(1, []int{1}, 2), nil))
		require.True(t, h.Store(snap(2, []int{2}, 2), nil))
		assert.Equal(t, 2, h.Len())
		assert.Nil(t, h.Find([]int{0}))

		h.Reset()
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})

	t.Run("remove and set size", func(t *testing.T) {
		h := NewHistory(10, 100, 0.8, nil)
		require.True(t, h.Store(snap(0, []int{0}, 2), nil))
		require.True(t, h.Store(snap(1, []int{1}, 2), nil))

		h.Remove(0)
		assert.Equal(t, 1, h.Len())

		h.SetSize(0)
		assert.Equal(t, 0, h.Len())

		// A disabled cache rejects admissions instead of evicting.
		assert.False(t, h.Store(snap(2, []int{2}, 2), nil))
		assert.Equal(t, 0, h.Len())
	})
}

var checkerHierarchy = [][]string{
	{"25", "<30", "*"},
	{"27", "<30", "*"},
	{"31", ">=30", "*"},
	{"40", ">=30", "*"},
}

// checkerFixture encodes 8 rows over one quasi-identifier (2 rows per age)
// plus a sensitive column and initializes the configuration.
func checkerFixture(t *testing.T, mut func(*config.Config)) (*Checker, *dataset.Manager) {
	t.Helper()
	h, err := dataset.FromRows(
		[]string{"age", "disease"},
		[][]string{
			{"25", "flu"}, {"25", "cancer"},
			{"27", "flu"}, {"27", "cancer"},
			{"31", "flu"}, {"31", "cancer"},
			{"40", "flu"}, {"40", "cancer"},
		},
	)
	require.NoError(t, err)
	h.Definition().
		SetRole("age", core.RoleQuasiIdentifying).
		SetHierarchy("age", checkerHierarchy).
		SetRole("disease", core.RoleSensitive)

	m, err := dataset.NewManager(h, "*")
	require.NoError(t, err)

	cfg := config.New()
	cfg.SnapshotSizeDataset = 0.9
	if mut != nil {
		mut(cfg)
	}

	in, err := cfg.Initialize(m)
	require.NoError(t, err)

	var interrupt core.InterruptFlag
	return NewChecker(m, in, &interrupt, nil), m
}

func TestChecker_Check(t *testing.T) {
	c, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.Require(criteria.NewKAnonymity(3))
	})

	t.Run("full generalization holds", func(t *testing.T) {
		r, err := c.Check(2, []int{2})
		require.NoError(t, err)
		assert.True(t, r.Anonymous())
		assert.Equal(t, 1, r.NumClasses())
		assert.Equal(t, 8, r.ClassSize(0))
		assert.Zero(t, r.SuppressedRows())
	})

	t.Run("identity fails without budget", func(t *testing.T) {
		r, err := c.Check(0, []int{0})
		require.NoError(t, err)
		assert.False(t, r.Anonymous())
		assert.Equal(t, 4, r.NumClasses())
		// All classes of size 2 fall below k=3 and get suppressed.
		assert.Equal(t, 8, r.SuppressedRows())
	})

	t.Run("level one holds", func(t *testing.T) {
		r, err := c.Check(1, []int{1})
		require.NoError(t, err)
		assert.True(t, r.Anonymous())
		assert.Equal(t, 2, r.NumClasses())
		assert.Equal(t, 4, r.ClassSize(0))
	})
}

func TestChecker_SuppressionBudget(t *testing.T) {
	c, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.SuppressionLimit = 0.25 // 2 of 8 rows
		cfg.Require(criteria.NewKAnonymity(3))
	})

	// Identity suppresses all 8 rows, far over the budget.
	r, err := c.Check(0, []int{0})
	require.NoError(t, err)
	assert.False(t, r.Anonymous())
	assert.Equal(t, 8, r.SuppressedRows())
	assert.Equal(t, 2, c.cfg.AbsoluteMaxOutliers())
}

func TestChecker_FromSnapshot(t *testing.T) {
	fresh, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.Require(criteria.NewDistinctLDiversity("disease", 2))
	})
	derived, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.Require(criteria.NewDistinctLDiversity("disease", 2))
	})

	want, err := fresh.Check(1, []int{1})
	require.NoError(t, err)
	assert.False(t, want.FromSnapshot())

	// The identity grouping (4 classes of 8 rows) is admitted and reused.
	_, err = derived.Check(0, []int{0})
	require.NoError(t, err)

	got, err := derived.Check(1, []int{1})
	require.NoError(t, err)
	assert.True(t, got.FromSnapshot())

	assert.Equal(t, want.Anonymous(), got.Anonymous())
	assert.Equal(t, want.NumClasses(), got.NumClasses())
	assert.Equal(t, want.SuppressedRows(), got.SuppressedRows())
	assert.InDelta(t, want.Quality(), got.Quality(), 1e-12)
	for i := 0; i < want.NumClasses(); i++ {
		assert.Equal(t, want.ClassSize(i), got.ClassSize(i))
	}

	hits, _ := derived.History().Stats()
	assert.Equal(t, int64(1), hits)
}

func TestChecker_Outliers(t *testing.T) {
	c, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.SuppressionLimit = 0.5
		cfg.Require(criteria.NewKAnonymity(3))
	})

	r, err := c.Check(1, []int{1})
	require.NoError(t, err)
	require.True(t, r.Anonymous())
	assert.Zero(t, r.SuppressedRows())
	assert.True(t, c.Outliers(r).IsEmpty())

	t.Run("suppressed classes map back to rows", func(t *testing.T) {
		r, err := c.Check(0, []int{0})
		require.NoError(t, err)
		out := c.Outliers(r)
		assert.Equal(t, uint64(8), out.Cardinality())
	})
}

func TestChecker_Interrupt(t *testing.T) {
	var interrupt core.InterruptFlag

	h, err := dataset.FromRows(
		[]string{"age"},
		[][]string{{"25"}, {"27"}, {"31"}, {"40"}},
	)
	require.NoError(t, err)
	h.Definition().
		SetRole("age", core.RoleQuasiIdentifying).
		SetHierarchy("age", checkerHierarchy)

	m, err := dataset.NewManager(h, "*")
	require.NoError(t, err)

	cfg := config.New()
	cfg.Require(criteria.NewKAnonymity(1))
	in, err := cfg.Initialize(m)
	require.NoError(t, err)

	c := NewChecker(m, in, &interrupt, nil)
	interrupt.Stop()

	_, err = c.Check(0, []int{0})
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestChecker_KMap(t *testing.T) {
	// Rows 0 and 2 mark the ages 25 and 27 as sampled; the population
	// classes behind them hold 2 rows each.
	c, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.Require(criteria.NewKMap(3, rowset.FromRows(0, 2)))
	})

	t.Run("identity fails on sampled classes", func(t *testing.T) {
		r, err := c.Check(0, []int{0})
		require.NoError(t, err)
		assert.False(t, r.Anonymous())
		// Only the two sampled classes fall below k; the unsampled ages
		// never appear in the published sample and are left alone.
		assert.Equal(t, 4, r.SuppressedRows())
	})

	t.Run("level one holds", func(t *testing.T) {
		r, err := c.Check(1, []int{1})
		require.NoError(t, err)
		assert.True(t, r.Anonymous())
		assert.Zero(t, r.SuppressedRows())
	})
}

func TestChecker_SampleCriterion(t *testing.T) {
	c, _ := checkerFixture(t, func(cfg *config.Config) {
		cfg.SuppressionLimit = 0.25
		cfg.RequireSample(criteria.NewAverageRisk(0.3))
	})

	// Identity: 4 classes over 8 rows gives an average risk of 0.5; the
	// budget of 2 rows only allows suppressing one class of 2, leaving 0.5.
	r, err := c.Check(0, []int{0})
	require.NoError(t, err)
	assert.False(t, r.Anonymous())

	// Level one: 2 classes over 8 rows, risk 0.25.
	r, err = c.Check(1, []int{1})
	require.NoError(t, err)
	assert.True(t, r.Anonymous())
}
