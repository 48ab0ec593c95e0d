// Package model defines the result types shared by the diff engine, the
// structural comparer, the report writers and the history store.
//
// This package contains the following main types:
//   - Comparison: one property of the base raster next to the same property of the test raster
//   - RasterProps: the structural properties read from one raster
//   - RasterDiff: the full comparison of two rasters
//   - PixelDiffStats: pixel-level difference statistics of one band
//
// Design decision: every structural field uses the single generic Comparison
// type, so report writers handle all properties with one code path.
//
// All types serialize to JSON for report output and history storage.
package model
