package gdal

import "errors"

var (
	// ErrOpen is returned when GDAL cannot open a path as a raster.
	ErrOpen = errors.New("gdal: cannot open raster")

	// ErrCreate is returned when GDAL cannot create the output raster.
	ErrCreate = errors.New("gdal: cannot create raster")

	// ErrUnsupportedType is returned by Create for a data type GDAL
	// output is not offered for.
	ErrUnsupportedType = errors.New("gdal: unsupported data type")
)
