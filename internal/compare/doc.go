// Package compare assembles the full structural and pixel-level comparison of
// two raster files.
//
// A comparison runs as a short pipeline of steps:
//  1. checksum: MD5 of both files, hashed concurrently. Equal checksums end
//     the comparison with an identical result, without opening the rasters.
//  2. properties: open both rasters, read their structural properties, compare
//     them field by field and evaluate the compatibility gate.
//  3. pixels: run the pixel diff engine on compatible rasters.
//
// Rasters that cannot be compared pixel by pixel are not an error: the result
// keeps its structural comparisons and records Compatible=false.
package compare
