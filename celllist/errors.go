package celllist

import "errors"

var (
	// ErrCellRange is returned for a cell id outside [0, CellCount()).
	ErrCellRange = errors.New("cell id out of range")

	// ErrCurveOrder is returned when the Hilbert curve order cannot cover
	// the cell grid.
	ErrCurveOrder = errors.New("hilbert order too small for cell grid")

	// ErrOutsideDomain is returned for a position outside the box and its
	// padding.
	ErrOutsideDomain = errors.New("position outside padded domain")

	// ErrFinalized is returned by ComputeKey after Finalize and before
	// Reset.
	ErrFinalized = errors.New("order already finalized")
)
