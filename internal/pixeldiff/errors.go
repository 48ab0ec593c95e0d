package pixeldiff

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatible is returned when two rasters cannot be compared pixel by pixel.
	ErrIncompatible = errors.New("rasters are incompatible")

	// ErrShapeMismatch is returned when two bands differ in width or height.
	ErrShapeMismatch = fmt.Errorf("%w: band shapes differ", ErrIncompatible)

	// ErrTypeMismatch is returned when two bands hold numerically different
	// kinds of values, or when either band is complex.
	ErrTypeMismatch = fmt.Errorf("%w: band data types differ in kind", ErrIncompatible)

	// ErrBandIndex is returned for a band index missing from either raster.
	ErrBandIndex = errors.New("band index out of range")

	// ErrWriteOutput is returned when the difference raster cannot be written.
	// The per-band statistics are still returned alongside it.
	ErrWriteOutput = errors.New("failed to write difference raster")
)
