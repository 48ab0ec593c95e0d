// Package raster defines the contract between riodiff and a raster I/O library.
//
// The diff engine never talks to GDAL directly. It consumes only what this
// package describes:
//   - Dataset: shape, band count, geotransform, CRS, bounds and metadata
//   - Band: datatype, nodata sentinel, native block windows and windowed reads
//   - Driver: open-by-path and create-by-profile for the optional diff raster
//
// Two implementations exist. The GDAL one lives in the gdal subpackage and is
// what the CLI uses. MemDriver keeps rasters in memory and is used by tests
// and by callers that build rasters programmatically.
//
// Bands are addressed with 1-based indexes, matching GDAL and the user-facing
// "Band N" wording in reports.
package raster
