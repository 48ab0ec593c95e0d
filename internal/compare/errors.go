package compare

import "errors"

var (
	// ErrChecksum is returned when a file cannot be read for hashing.
	ErrChecksum = errors.New("failed to compute checksum")

	// ErrReadProps is returned when raster properties cannot be read.
	ErrReadProps = errors.New("failed to read raster properties")
)
