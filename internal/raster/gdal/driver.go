package gdal

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/nao1215/riodiff/internal/raster"
)

var registerOnce sync.Once

// Driver opens rasters with GDAL and creates GeoTIFF output.
type Driver struct {
	logger *slog.Logger
}

var _ raster.Driver = (*Driver)(nil)

// NewDriver registers the GDAL drivers on first use and returns a Driver.
// A nil logger falls back to slog.Default.
func NewDriver(logger *slog.Logger) *Driver {
	registerOnce.Do(godal.RegisterAll)
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{logger: logger}
}

// Open opens path read-only.
func (d *Driver) Open(path string) (raster.Dataset, error) {
	ds, err := godal.Open(path, godal.ErrLogger(errorHandler(d.logger)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	return newDataset(path, ds, d.logger), nil
}

// Create creates a GeoTIFF at path. Only Float32 and Float64 profiles are
// supported; the diff raster is always Float32.
func (d *Driver) Create(path string, p raster.Profile) (raster.Writer, error) {
	if p.Width <= 0 || p.Height <= 0 || p.Bands <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d bands", raster.ErrInvalidProfile, p.Width, p.Height, p.Bands)
	}
	var dt godal.DataType
	switch p.DataType {
	case raster.Float32:
		dt = godal.Float32
	case raster.Float64:
		dt = godal.Float64
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, p.DataType)
	}

	handler := godal.ErrLogger(errorHandler(d.logger))
	opts := []godal.DatasetCreateOption{handler}
	if p.BlockWidth > 0 && p.BlockHeight > 0 {
		opts = append(opts, godal.CreationOption(
			"TILED=YES",
			fmt.Sprintf("BLOCKXSIZE=%d", p.BlockWidth),
			fmt.Sprintf("BLOCKYSIZE=%d", p.BlockHeight),
		))
	}
	ds, err := godal.Create(godal.GTiff, path, p.Bands, dt, p.Width, p.Height, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}

	tr := p.Transform
	if tr == (raster.Transform{}) {
		tr = raster.IdentityTransform
	}
	if err := ds.SetGeoTransform([6]float64(tr), handler); err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("%w: set geotransform: %w", ErrCreate, err)
	}
	if !p.CRS.IsEmpty() {
		if err := ds.SetProjection(p.CRS.WKT, handler); err != nil {
			_ = ds.Close()
			return nil, fmt.Errorf("%w: set projection: %w", ErrCreate, err)
		}
	}
	if p.Nodata.Valid {
		for _, b := range ds.Bands() {
			if err := b.SetNoData(p.Nodata.Value, handler); err != nil {
				_ = ds.Close()
				return nil, fmt.Errorf("%w: set nodata: %w", ErrCreate, err)
			}
		}
	}
	return &writer{ds: ds, width: p.Width, height: p.Height, logger: d.logger}, nil
}

type writer struct {
	ds     *godal.Dataset
	width  int
	height int
	logger *slog.Logger
}

func (w *writer) WriteBand(i int, data []float32) error {
	bands := w.ds.Bands()
	if i < 1 || i > len(bands) {
		return fmt.Errorf("%w: %d (dataset has %d bands)", raster.ErrBandIndex, i, len(bands))
	}
	if len(data) < w.width*w.height {
		return fmt.Errorf("%w: need %d, have %d", raster.ErrBufferSize, w.width*w.height, len(data))
	}
	return bands[i-1].Write(0, 0, data, w.width, w.height, godal.ErrLogger(errorHandler(w.logger)))
}

func (w *writer) Close() error {
	return w.ds.Close(godal.ErrLogger(errorHandler(w.logger)))
}
