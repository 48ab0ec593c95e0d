package model

import (
	"slices"

	"github.com/paulmach/orb"

	"github.com/nao1215/riodiff/internal/raster"
)

// RasterDiff is the full comparison of a base raster against a test raster.
//
// When Identical is true the files have the same checksum and only Checksum
// is filled in. Otherwise every structural property is compared, and
// PixelValues holds one entry per band when Compatible is true. A nil
// PixelValues with Compatible false marks rasters that cannot be compared
// pixel by pixel.
type RasterDiff struct {
	BasePath string `json:"base_path"`
	TestPath string `json:"test_path"`

	// Identical is true when both files have the same checksum.
	Identical bool `json:"identical"`

	Checksum      Comparison[string]              `json:"checksum"`
	Width         Comparison[int]                 `json:"width"`
	Height        Comparison[int]                 `json:"height"`
	Bands         Comparison[int]                 `json:"bands"`
	DataType      Comparison[raster.DataType]     `json:"dtype"`
	Nodata        Comparison[raster.Nodata]       `json:"nodata"`
	BBox          Comparison[orb.Bound]           `json:"bbox"`
	CRS           Comparison[raster.CRS]          `json:"crs"`
	Transform     Comparison[raster.Transform]    `json:"transform"`
	Metadata      Comparison[map[string]string]   `json:"metadata"`
	BandsMetadata Comparison[[]map[string]string] `json:"bands_metadata"`
	Stats         Comparison[[]BandStatistics]    `json:"stats"`

	// Compatible is true when the pixel comparison was run.
	Compatible bool `json:"compatible"`

	// PixelValues holds per-band pixel statistics in band order.
	PixelValues []PixelDiffStats `json:"pixel_values"`
}

// NewIdenticalDiff returns the result for two files with the same checksum.
func NewIdenticalDiff(basePath, testPath, checksum string) *RasterDiff {
	return &RasterDiff{
		BasePath:  basePath,
		TestPath:  testPath,
		Identical: true,
		Checksum:  Compare(checksum, checksum),
	}
}

// NewRasterDiff compares the structural properties of base and test.
// Compatible and PixelValues are left for the caller to fill in.
func NewRasterDiff(checksum Comparison[string], base, test RasterProps) *RasterDiff {
	return &RasterDiff{
		Checksum:      checksum,
		Width:         Compare(base.Width, test.Width),
		Height:        Compare(base.Height, test.Height),
		Bands:         Compare(base.Bands, test.Bands),
		DataType:      Compare(base.DataType, test.DataType),
		Nodata:        CompareFunc(base.Nodata, test.Nodata, raster.Nodata.Equal),
		BBox:          CompareFunc(base.BBox, test.BBox, BoundsEqual),
		CRS:           CompareFunc(base.CRS, test.CRS, raster.CRS.Equal),
		Transform:     CompareFunc(base.Transform, test.Transform, raster.Transform.Equal),
		Metadata:      CompareFunc(base.Metadata, test.Metadata, MetadataEqual),
		BandsMetadata: CompareFunc(base.BandsMetadata, test.BandsMetadata, BandsMetadataEqual),
		Stats:         CompareFunc(base.Stats, test.Stats, StatsEqual),
	}
}

// PixelDifferences reports whether any band has differing pixels.
func (d *RasterDiff) PixelDifferences() bool {
	return slices.ContainsFunc(d.PixelValues, PixelDiffStats.HasDifferences)
}
