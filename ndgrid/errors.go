package ndgrid

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-ndgrid/internal/layout"
)

// Common errors
var (
	ErrNotInitialized    = errors.New("grid memory not initialized")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrShortBuffer       = errors.New("packed buffer size mismatch")
	ErrFieldSubset       = errors.New("invalid field subset")
	ErrFieldIndex        = errors.New("field index out of range")
	ErrTypeMismatch      = errors.New("field type mismatch")
	ErrAlreadyBound      = errors.New("grid already owns memory")
	ErrShortMemory       = layout.ErrShortMemory
)

// Failure codes recorded by a grid and returned by LastError.
const (
	CodeNone           = 0
	CodeNotInitialized = 1001
	CodeOverflow       = 1002 // component >= extent
	CodeNegative       = 1003 // component < 0
	CodeSourceOverflow = 1004 // as CodeOverflow, for the source grid of SetFrom
	CodeSourceNegative = 1005 // as CodeNegative, for the source grid of SetFrom
)

// BoundsError reports a coordinate component outside [0, extent).
type BoundsError struct {
	Axis   int
	Value  int
	Extent int
	Code   int
}

func (e *BoundsError) Error() string {
	side := "destination"
	if e.Code == CodeSourceOverflow || e.Code == CodeSourceNegative {
		side = "source"
	}
	if e.Value < 0 {
		return fmt.Sprintf("error %d: %s x[%d]=%d is negative", e.Code, side, e.Axis, e.Value)
	}
	return fmt.Sprintf("error %d: %s x[%d]=%d >= %d", e.Code, side, e.Axis, e.Value, e.Extent)
}

// Is makes errors.Is(err, ErrOutOfBounds) hold.
func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// CodeOf returns the failure code carried by err, or CodeNone.
func CodeOf(err error) int {
	var be *BoundsError
	switch {
	case err == nil:
		return CodeNone
	case errors.As(err, &be):
		return be.Code
	case errors.Is(err, ErrNotInitialized):
		return CodeNotInitialized
	default:
		return CodeNone
	}
}
