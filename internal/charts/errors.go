package charts

import (
	"errors"
	"fmt"

	"homedash/internal/models"
)

var (
	// ErrInvalidSurface indicates the surface identifier does not resolve to
	// a drawable target.
	ErrInvalidSurface = errors.New("invalid surface")

	// ErrMalformedRecord indicates an input record is missing a field or
	// holds an unplottable value.
	ErrMalformedRecord = models.ErrMalformedRecord

	// ErrInvalidInput covers bad specs and thresholds.
	ErrInvalidInput = errors.New("invalid input")
)

// ChartError attributes a failure to an operation and surface.
type ChartError struct {
	Op        string
	SurfaceID string
	Err       error
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("%s chart on surface %q: %v", e.Op, e.SurfaceID, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

func chartError(op, surfaceID string, err error) error {
	if err == nil {
		return nil
	}
	return &ChartError{Op: op, SurfaceID: surfaceID, Err: err}
}
