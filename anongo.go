package anongo

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/anongo/check"
	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/core"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/internal/resource"
	"github.com/hupe1980/anongo/lattice"
	"github.com/hupe1980/anongo/search"
)

// Anonymizer runs anonymization: it encodes the input table, materializes
// the solution space and searches it for the transformation with the best
// quality that satisfies all configured privacy models.
//
// An Anonymizer is stateless between runs and safe to reuse; a single run
// is strictly sequential.
type Anonymizer struct {
	opts options
	rc   *resource.Controller
}

// New creates an Anonymizer.
func New(optFns ...Option) *Anonymizer {
	o := applyOptions(optFns)
	return &Anonymizer{
		opts: o,
		rc:   resource.NewController(o.resourceConfig),
	}
}

// NoSolutionError reports that no transformation satisfies the privacy
// models. Closest holds the level vectors of the checked transformations
// nearest to anonymity, for diagnostics.
//
// NoSolutionError matches ErrNoSolution via errors.Is.
type NoSolutionError struct {
	Closest [][]int
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("no solution: no transformation satisfies the privacy models (closest: %v)", e.Closest)
}

func (e *NoSolutionError) Unwrap() error { return ErrNoSolution }

// Anonymize runs one anonymization. The handle is locked for the duration
// of the run and released before Anonymize returns, on success and on every
// failure path. Cancelling the context interrupts the run cooperatively;
// the partial lattice state is lost.
func (a *Anonymizer) Anonymize(ctx context.Context, h *dataset.Handle, cfg *config.Config) (*Result, error) {
	start := time.Now()
	result, err := a.anonymize(ctx, h, cfg)
	a.opts.metricsCollector.RecordAnonymize(time.Since(start), err)
	if err != nil {
		a.opts.logger.LogAnonymize(ctx, nil, 0, 0, err)
		return nil, err
	}
	a.opts.logger.LogAnonymize(ctx, result.Levels(), result.Quality(), result.SuppressedRows(), nil)
	return result, nil
}

func (a *Anonymizer) anonymize(ctx context.Context, h *dataset.Handle, cfg *config.Config) (*Result, error) {
	if err := h.Lock(); err != nil {
		return nil, translateError(err)
	}
	defer h.Release()

	var interrupt core.InterruptFlag
	stop := context.AfterFunc(ctx, interrupt.Stop)
	defer stop()

	encodeStart := time.Now()
	manager, err := dataset.NewManager(h, cfg.SuppressionString)
	a.opts.metricsCollector.RecordEncode(h.NumRows(), time.Since(encodeStart), err)
	if err != nil {
		a.opts.logger.LogEncode(ctx, h.NumRows(), 0, err)
		return nil, translateError(err)
	}
	a.opts.logger.LogEncode(ctx, h.NumRows(), manager.NumQuasiIdentifiers(), nil)

	internal, err := cfg.Initialize(manager)
	if err != nil {
		return nil, translateError(err)
	}

	lat, err := lattice.New(manager.MinLevels(), manager.MaxLevels())
	if err != nil {
		return nil, translateError(err)
	}

	checker := check.NewChecker(manager, internal, &interrupt, a.rc)
	defer checker.History().Reset()

	progress := newProgressReporter(a.opts.metricsCollector)
	opts := search.Options{
		Lattice:   lat,
		Checker:   checker,
		Config:    internal,
		Interrupt: &interrupt,
		Heights:   manager.HierarchyHeights(),
		Progress:  progress.report,
	}

	searchStart := time.Now()
	var outcome *search.Outcome
	if cfg.HeuristicSearchEnabled && lat.Size() > cfg.HeuristicSearchThreshold {
		outcome, err = search.Heuristic(opts)
	} else {
		outcome, err = search.Flash(opts)
	}
	if err == nil {
		a.opts.metricsCollector.RecordSearch(outcome.Checked, time.Since(searchStart), nil)
		a.opts.logger.LogSearch(ctx, lat.Size(), outcome.Checked, time.Since(searchStart), nil)
	} else {
		a.opts.metricsCollector.RecordSearch(0, time.Since(searchStart), err)
		a.opts.logger.LogSearch(ctx, lat.Size(), 0, time.Since(searchStart), err)
		return nil, translateError(err)
	}

	if outcome.Optimum == nil {
		closest := make([][]int, len(outcome.Closest))
		for i, n := range outcome.Closest {
			closest[i] = n.Levels()
		}
		return nil, &NoSolutionError{Closest: closest}
	}

	// Re-check the optimum to recover its grouping; the history makes this
	// a snapshot hit in the common case.
	final, err := checker.Check(outcome.Optimum.ID(), outcome.Optimum.Levels())
	if err != nil {
		return nil, translateError(err)
	}
	outliers := checker.Outliers(final)

	return newResult(manager, cfg, lat, outcome, final, outliers)
}
