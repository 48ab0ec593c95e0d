// Package pixeldiff compares two rasters pixel by pixel.
//
// The engine walks each band of the base raster in its native block windows,
// reads the same window from the test raster, masks nodata cells to NaN and
// accumulates per-band statistics:
//   - the number of cells that are not close under a tolerance
//   - the largest absolute finite difference
//   - the root-mean-square error over all cells
//
// Two cells a (base) and b (test) are close when |a-b| <= atol + rtol*|b|,
// when they are identical (which covers equal infinities), or when both are
// NaN and NaN equality is enabled. A NaN on one side only is never close.
//
// Memory use during the scan is bounded by the largest block. Requesting a
// difference raster adds one float32 grid of bands*height*width cells, which
// is written after every band has been scanned.
//
// Comparison is only meaningful for rasters that pass IsCompatible: equal
// shape, band count, geotransform and CRS. Engine refuses anything else with
// an error wrapping ErrIncompatible.
package pixeldiff
