package anongo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anongo/check"
	"github.com/hupe1980/anongo/config"
	"github.com/hupe1980/anongo/criteria"
	"github.com/hupe1980/anongo/dataset"
	"github.com/hupe1980/anongo/hierarchy"
	"github.com/hupe1980/anongo/lattice"
	"github.com/hupe1980/anongo/search"
)

var (
	// ErrInvalidConfiguration is returned for configurations outside their
	// documented ranges, zero or too many quasi-identifiers, or conflicting
	// model parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidHierarchy is returned for non-monotone hierarchies or level
	// bounds outside the hierarchy height.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")

	// ErrInvalidInput is returned for malformed input tables, unknown
	// attributes or a handle that is already locked.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSolution is returned when the search completes without finding
	// any anonymous transformation.
	ErrNoSolution = errors.New("no solution")

	// ErrInterrupted is returned when the run was cancelled cooperatively.
	ErrInterrupted = errors.New("interrupted")

	// ErrUnsupported is returned for model combinations the engine rejects
	// rather than guesses about.
	ErrUnsupported = errors.New("unsupported configuration")
)

// translateError maps subpackage errors onto the package's stable error
// surface. The original error remains reachable via errors.Unwrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, check.ErrInterrupted), errors.Is(err, search.ErrInterrupted):
		return fmt.Errorf("%w: %w", ErrInterrupted, err)

	case errors.Is(err, config.ErrUnsupported):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)

	case errors.Is(err, hierarchy.ErrNotMonotonic),
		errors.Is(err, hierarchy.ErrInvalidShape),
		errors.Is(err, dataset.ErrLevelBounds):
		return fmt.Errorf("%w: %w", ErrInvalidHierarchy, err)

	case errors.Is(err, dataset.ErrLocked),
		errors.Is(err, dataset.ErrRagged),
		errors.Is(err, dataset.ErrUnknownAttribute),
		errors.Is(err, dataset.ErrUnknownValue),
		errors.Is(err, dataset.ErrValueNotCovered),
		errors.Is(err, dataset.ErrMissingHierarchy):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)

	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, criteria.ErrInvalidParameter),
		errors.Is(err, lattice.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return err
}
