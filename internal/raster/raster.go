package raster

import (
	"github.com/paulmach/orb"
)

// Window is a rectangular region of a band's pixel grid.
// Row and Col are the offsets of the upper-left cell.
type Window struct {
	Row    int `json:"row_off"`
	Col    int `json:"col_off"`
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Size returns the number of cells covered by the window.
func (w Window) Size() int {
	return w.Height * w.Width
}

// Within reports whether the window lies entirely inside a width x height grid.
func (w Window) Within(width, height int) bool {
	return w.Row >= 0 && w.Col >= 0 && w.Height > 0 && w.Width > 0 &&
		w.Row+w.Height <= height && w.Col+w.Width <= width
}

// Nodata is an optional nodata sentinel.
// Valid is false when the band declares no sentinel.
type Nodata struct {
	Value float64
	Valid bool
}

// NoNodata is the absent sentinel.
var NoNodata = Nodata{}

// NodataValue returns a valid sentinel holding v.
func NodataValue(v float64) Nodata {
	return Nodata{Value: v, Valid: true}
}

// Statistics holds summary statistics of a band.
type Statistics struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Dataset is an open raster. Callers own the handle and must Close it.
type Dataset interface {
	// Path is the location the dataset was opened from.
	Path() string
	Width() int
	Height() int
	BandCount() int
	Transform() Transform
	CRS() CRS
	Bounds() orb.Bound
	// Metadata returns the dataset-level tags of the default domain.
	Metadata() map[string]string
	// Band returns the band at the 1-based index i.
	Band(i int) (Band, error)
	Close() error
}

// Band is a single pixel grid of a Dataset.
type Band interface {
	DataType() DataType
	Nodata() Nodata
	// Size returns the band width and height.
	Size() (width, height int)
	// Windows returns the band's native block windows in a fixed,
	// deterministic order covering the band exactly once.
	Windows() []Window
	// Read fills buf, which must hold at least w.Size() values, with the
	// cells of w in row-major order converted to float64. 64-bit integer
	// cells of magnitude 2^53 or more lose precision in the conversion.
	Read(w Window, buf []float64) error
	// Metadata returns the band-level tags of the default domain.
	Metadata() map[string]string
	// Statistics computes exact statistics over valid (non-nodata) cells.
	Statistics() (Statistics, error)
}

// Profile describes a raster to be created.
type Profile struct {
	Width     int
	Height    int
	Bands     int
	DataType  DataType
	Transform Transform
	CRS       CRS
	Nodata    Nodata
	// BlockWidth and BlockHeight request an internal tiling; zero leaves
	// the layout to the driver.
	BlockWidth  int
	BlockHeight int
}

// Writer receives the pixels of a raster being created.
type Writer interface {
	// WriteBand writes a full band (row-major, Width*Height values) to the
	// 1-based band index i.
	WriteBand(i int, data []float32) error
	Close() error
}

// Driver opens and creates rasters.
type Driver interface {
	Open(path string) (Dataset, error)
	Create(path string, profile Profile) (Writer, error)
}
