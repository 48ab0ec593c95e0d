// Package main provides the entry point for the riodiff CLI.
//
// riodiff compares two rasters and reports how they differ: checksum,
// size, bands, data type, nodata, georeferencing, metadata, statistics and
// pixel values.
//
// Usage:
//
//	riodiff diff base.tif test.tif
//	riodiff diff --atol 0.01 -o diff.tif base.tif test.tif
//
// See --help for all available options.
package main

// main is the entry point for riodiff.
func main() {
	Execute()
}
