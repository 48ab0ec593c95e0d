// Package gdal implements the raster contract on top of GDAL through
// github.com/airbusgeo/godal.
//
// Building this package requires cgo and the GDAL development headers.
// Nothing else in riodiff imports it except the CLI, so the diff engine and
// its tests build without GDAL.
package gdal
