package model

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"

	"github.com/nao1215/riodiff/internal/raster"
)

// RasterProps are the structural properties of one raster.
type RasterProps struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Bands  int `json:"bands"`

	// DataType is the pixel type of the first band.
	DataType raster.DataType `json:"dtype"`

	// Nodata is the sentinel of the first band.
	Nodata raster.Nodata `json:"nodata"`

	BBox      orb.Bound        `json:"bbox"`
	CRS       raster.CRS       `json:"crs"`
	Transform raster.Transform `json:"transform"`

	// Metadata holds the dataset-level tags.
	Metadata map[string]string `json:"metadata"`

	// BandsMetadata holds the tags of each band, in band order.
	BandsMetadata []map[string]string `json:"bands_metadata"`

	// Stats holds the statistics of each band, in band order.
	Stats []BandStatistics `json:"stats"`
}

// MetadataEqual compares two tag sets. A nil map equals an empty one.
func MetadataEqual(a, b map[string]string) bool {
	return maps.Equal(a, b)
}

// BandsMetadataEqual compares per-band tag sets in band order.
func BandsMetadataEqual(a, b []map[string]string) bool {
	return slices.EqualFunc(a, b, MetadataEqual)
}

// BoundsEqual compares two bounding boxes exactly.
func BoundsEqual(a, b orb.Bound) bool {
	return a.Equal(b)
}
