package raster

import "errors"

var (
	// ErrNotFound is returned when a path does not name a raster the driver knows.
	ErrNotFound = errors.New("raster not found")

	// ErrBandIndex is returned for a band index outside 1..BandCount.
	ErrBandIndex = errors.New("band index out of range")

	// ErrWindow is returned when a window does not fit inside the band.
	ErrWindow = errors.New("window outside band extent")

	// ErrBufferSize is returned when a read or write buffer is too small.
	ErrBufferSize = errors.New("buffer too small")

	// ErrInvalidProfile is returned by Create for non-positive dimensions.
	ErrInvalidProfile = errors.New("invalid raster profile")

	// ErrNoValidPixels is returned by Statistics when every cell is nodata.
	ErrNoValidPixels = errors.New("no valid pixels")
)
