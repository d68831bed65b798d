// Package config holds the run configuration: privacy models, quality
// model, suppression limit and the knobs of the snapshot history and the
// search. A validated, initialized configuration is exposed to the engine
// as the read-only Internal view.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/metric"
	"github.com/hupe1980/anongo/rowset"
)

var (
	// ErrInvalid is returned for configurations outside their documented
	// ranges.
	ErrInvalid = errors.New("config: invalid configuration")
	// ErrUnsupported is returned for model combinations the engine rejects
	// rather than guesses about.
	ErrUnsupported = errors.New("config: unsupported combination")
)

// Compression selects the block compression of stored history snapshots.
type Compression uint8

const (
	// CompressionNone stores snapshots uncompressed.
	CompressionNone Compression = iota
	// CompressionLZ4 compresses snapshots with LZ4 (fast).
	CompressionLZ4
	// CompressionZSTD compresses snapshots with zstd (better ratio).
	CompressionZSTD
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Defaults.
const (
	DefaultHistorySize              = 200
	DefaultSnapshotSizeDataset      = 0.2
	DefaultSnapshotSizeSnapshot     = 0.8
	DefaultSuppressionString        = "*"
	DefaultHeuristicSearchThreshold = 100000
	DefaultHeuristicSearchTimeLimit = 30 * time.Second
	DefaultAttributeWeight          = 0.5

	// MaxQuasiIdentifiers guards against the curse of dimensionality.
	MaxQuasiIdentifiers = 15
)

// Config is the mutable run configuration.
type Config struct {
	// SuppressionLimit is the maximum fraction of rows that may be
	// suppressed, in [0, 1).
	SuppressionLimit float64

	// SuppressionString replaces suppressed values on output.
	SuppressionString string

	// SuppressedRoles selects which attribute roles are replaced for
	// suppressed rows on output. Defaults to quasi-identifiers only.
	SuppressedRoles core.RoleMask

	// HistorySize is the snapshot cache capacity.
	HistorySize int

	// SnapshotSizeDataset caps admitted snapshots relative to the table
	// size, in (0, 1).
	SnapshotSizeDataset float64

	// SnapshotSizeSnapshot caps admitted snapshots relative to the
	// ancestor snapshot they were derived from, in (0, 1).
	SnapshotSizeSnapshot float64

	// SnapshotCompression selects the history's block compression.
	SnapshotCompression Compression

	// PracticalMonotonicity lets the search assume monotonicity for
	// models that do not formally guarantee it. Results may be suboptimal
	// under pathological distributions.
	PracticalMonotonicity bool

	// HeuristicSearchEnabled switches to a best-effort search when the
	// solution space exceeds HeuristicSearchThreshold.
	HeuristicSearchEnabled   bool
	HeuristicSearchThreshold int
	HeuristicSearchTimeLimit time.Duration

	// AttributeWeights assigns per-attribute weights in [0, 1] consumed by
	// the quality model. Missing attributes default to 0.5.
	AttributeWeights map[string]float64

	// ProtectSensitiveAssociations is rejected together with multiple
	// sensitive attributes.
	ProtectSensitiveAssociations bool

	// QualityModel scores transformations. Defaults to Loss.
	QualityModel metric.Metric

	classCriteria  []criteria.ClassCriterion
	sampleCriteria []criteria.SampleCriterion
}

// New creates a configuration with defaults.
func New() *Config {
	return &Config{
		SuppressionString:        DefaultSuppressionString,
		SuppressedRoles:          core.RoleQuasiIdentifying.Mask(),
		HistorySize:              DefaultHistorySize,
		SnapshotSizeDataset:      DefaultSnapshotSizeDataset,
		SnapshotSizeSnapshot:     DefaultSnapshotSizeSnapshot,
		HeuristicSearchThreshold: DefaultHeuristicSearchThreshold,
		HeuristicSearchTimeLimit: DefaultHeuristicSearchTimeLimit,
		AttributeWeights:         make(map[string]float64),
		QualityModel:             metric.NewLoss(),
	}
}

// Require adds a class-based privacy model. Models are AND-combined.
func (c *Config) Require(m criteria.ClassCriterion) *Config {
	c.classCriteria = append(c.classCriteria, m)
	return c
}

// RequireSample adds a sample-based privacy model.
func (c *Config) RequireSample(m criteria.SampleCriterion) *Config {
	c.sampleCriteria = append(c.sampleCriteria, m)
	return c
}

// ClassCriteria returns the class-based models in the order added.
func (c *Config) ClassCriteria() []criteria.ClassCriterion {
	return c.classCriteria
}

// SampleCriteria returns the sample-based models in the order added.
func (c *Config) SampleCriteria() []criteria.SampleCriterion {
	return c.sampleCriteria
}

// Validate checks ranges that do not depend on the data.
func (c *Config) Validate() error {
	if c.SuppressionLimit < 0 || c.SuppressionLimit >= 1 {
		return fmt.Errorf("%w: suppression limit %g must be in [0, 1)", ErrInvalid, c.SuppressionLimit)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history size %d must be positive", ErrInvalid, c.HistorySize)
	}
	if c.SnapshotSizeDataset <= 0 || c.SnapshotSizeDataset >= 1 {
		return fmt.Errorf("%w: snapshotSizeDataset %g must be in (0, 1)", ErrInvalid, c.SnapshotSizeDataset)
	}
	if c.SnapshotSizeSnapshot <= 0 || c.SnapshotSizeSnapshot >= 1 {
		return fmt.Errorf("%w: snapshotSizeSnapshot %g must be in (0, 1)", ErrInvalid, c.SnapshotSizeSnapshot)
	}
	if c.HeuristicSearchEnabled && c.HeuristicSearchThreshold < 1 {
		return fmt.Errorf("%w: heuristic search threshold %d must be positive", ErrInvalid, c.HeuristicSearchThreshold)
	}
	if len(c.classCriteria) == 0 && len(c.sampleCriteria) == 0 {
		return fmt.Errorf("%w: no privacy model specified", ErrInvalid)
	}
	for a, w := range c.AttributeWeights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: weight %g for attribute %q must be in [0, 1]", ErrInvalid, w, a)
		}
	}
	if c.QualityModel == nil {
		return fmt.Errorf("%w: no quality model specified", ErrInvalid)
	}
	return nil
}

// Initialize validates the configuration against the encoded data, binds
// all models and computes the derived values the engine branches on.
func (c *Config) Initialize(m *dataset.Manager) (*Internal, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if n := m.NumQuasiIdentifiers(); n == 0 {
		return nil, fmt.Errorf("%w: you need to specify at least one quasi-identifier", ErrInvalid)
	} else if n > MaxQuasiIdentifiers {
		return nil, fmt.Errorf("%w: the curse of dimensionality strikes, too many quasi-identifiers: %d", ErrInvalid, n)
	}

	if len(m.DataSE().Header()) > 1 && c.ProtectSensitiveAssociations {
		return nil, fmt.Errorf("%w: protecting sensitive associations with multiple sensitive attributes", ErrUnsupported)
	}

	// The snapshot layout has a single distribution slot: all
	// distribution-demanding models must agree on one sensitive attribute.
	distAttr := ""
	for _, cr := range c.classCriteria {
		if !cr.Requirements().Contains(criteria.RequireDistribution) {
			continue
		}
		attr := sensitiveAttribute(cr)
		if distAttr == "" {
			distAttr = attr
		} else if attr != distAttr {
			return nil, fmt.Errorf("%w: distribution models for multiple sensitive attributes (%q, %q)", ErrUnsupported, distAttr, attr)
		}
	}

	// All subset-scoped models must share one research subset.
	var subset *rowset.Set
	for _, cr := range c.classCriteria {
		s := criterionSubset(cr)
		if s == nil {
			continue
		}
		if subset == nil {
			subset = s
		} else if subset != s && !subset.Equals(s) {
			return nil, fmt.Errorf("%w: conflicting research subsets across privacy models", ErrInvalid)
		}
	}

	requirements := criteria.Requirements(0)
	minimalClassSize := 0
	for _, cr := range c.classCriteria {
		if err := cr.Initialize(m); err != nil {
			return nil, err
		}
		requirements |= cr.Requirements()
		if s, ok := cr.MinimalClassSize(); ok && s > minimalClassSize {
			minimalClassSize = s
		}
	}
	for _, cr := range c.sampleCriteria {
		if err := cr.Initialize(m); err != nil {
			return nil, err
		}
		requirements |= cr.Requirements()
	}

	weights := make([]float64, m.NumQuasiIdentifiers())
	for i, name := range m.DataQI().Header() {
		if w, ok := c.AttributeWeights[name]; ok {
			weights[i] = w
		} else {
			weights[i] = DefaultAttributeWeight
		}
	}
	if err := c.QualityModel.Initialize(m, weights); err != nil {
		return nil, err
	}

	distCol := -1
	if distAttr != "" {
		col, ok := m.SensitiveColumn(distAttr)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a sensitive attribute", ErrInvalid, distAttr)
		}
		distCol = col
	} else if requirements.Contains(criteria.RequireDistribution) {
		return nil, fmt.Errorf("%w: a model requires a sensitive distribution but no sensitive attribute is bound", ErrInvalid)
	}

	// Snapshot layout: representative and count always, one extra slot for
	// the secondary counter.
	snapshotLength := 2
	if requirements.Contains(criteria.RequireSecondaryCounter) {
		snapshotLength++
	}

	return &Internal{
		config:              c,
		requirements:        requirements,
		minimalClassSize:    minimalClassSize,
		absMaxOutliers:      int(c.SuppressionLimit * float64(m.NumRows())),
		snapshotLength:      snapshotLength,
		distributionColumn:  distCol,
		subset:              subset,
		weights:             weights,
		monotonicPrivacy:    c.monotonicPrivacy(),
		monotonicUtility:    c.QualityModel.IsMonotonic(c.SuppressionLimit),
		numRows:             m.NumRows(),
	}, nil
}

// monotonicPrivacy aggregates the monotonicity of all models: anonymity may
// only be inferred along generalization paths when every model is monotone
// with generalization and, if suppression is enabled, with suppression.
func (c *Config) monotonicPrivacy() bool {
	for _, cr := range c.classCriteria {
		if !cr.IsMonotonicWithGeneralization() {
			return false
		}
		if c.SuppressionLimit > 0 && !cr.IsMonotonicWithSuppression() {
			return false
		}
	}
	for _, cr := range c.sampleCriteria {
		if !cr.IsMonotonicWithGeneralization() {
			return false
		}
		if c.SuppressionLimit > 0 && !cr.IsMonotonicWithSuppression() {
			return false
		}
	}
	return true
}

func sensitiveAttribute(cr criteria.ClassCriterion) string {
	type attributed interface{ Attribute() string }
	if a, ok := cr.(attributed); ok {
		return a.Attribute()
	}
	return ""
}

func criterionSubset(cr criteria.ClassCriterion) *rowset.Set {
	type subsetted interface{ Subset() *rowset.Set }
	if s, ok := cr.(subsetted); ok {
		return s.Subset()
	}
	return nil
}
