// Package database stores past comparisons in a local SQLite file.
//
// Each saved comparison keeps the two raster paths, a timestamp, whether
// differences were reported and the complete JSON report, so that
// "riodiff history" can list earlier runs and print any of them again.
//
// The driver is modernc.org/sqlite, which needs no cgo and keeps the
// database a single file under the XDG data directory.
package database
