package gdal

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"

	"github.com/nao1215/riodiff/internal/raster"
)

type dataset struct {
	path   string
	ds     *godal.Dataset
	st     godal.DatasetStructure
	bands  []godal.Band
	logger *slog.Logger
}

var _ raster.Dataset = (*dataset)(nil)

func newDataset(path string, ds *godal.Dataset, logger *slog.Logger) *dataset {
	return &dataset{
		path:   path,
		ds:     ds,
		st:     ds.Structure(),
		bands:  ds.Bands(),
		logger: logger,
	}
}

func (d *dataset) Path() string   { return d.path }
func (d *dataset) Width() int     { return d.st.SizeX }
func (d *dataset) Height() int    { return d.st.SizeY }
func (d *dataset) BandCount() int { return d.st.NBands }

// Transform returns the identity transform for rasters without
// georeferencing, as GDAL itself does.
func (d *dataset) Transform() raster.Transform {
	gt, err := d.ds.GeoTransform(godal.ErrLogger(errorHandler(d.logger)))
	if err != nil {
		return raster.IdentityTransform
	}
	return raster.Transform(gt)
}

func (d *dataset) CRS() raster.CRS {
	return raster.CRS{WKT: d.ds.Projection()}
}

func (d *dataset) Bounds() orb.Bound {
	return d.Transform().Bounds(d.st.SizeX, d.st.SizeY)
}

func (d *dataset) Metadata() map[string]string {
	return maps.Clone(d.ds.Metadatas())
}

func (d *dataset) Band(i int) (raster.Band, error) {
	if i < 1 || i > len(d.bands) {
		return nil, fmt.Errorf("%w: %d (dataset has %d bands)", raster.ErrBandIndex, i, len(d.bands))
	}
	return &band{b: d.bands[i-1], logger: d.logger}, nil
}

func (d *dataset) Close() error {
	return d.ds.Close(godal.ErrLogger(errorHandler(d.logger)))
}

type band struct {
	b      godal.Band
	logger *slog.Logger
}

func (b *band) DataType() raster.DataType {
	return raster.ParseDataType(b.b.Structure().DataType.String())
}

func (b *band) Nodata() raster.Nodata {
	v, ok := b.b.NoData()
	if !ok {
		return raster.NoNodata
	}
	return raster.NodataValue(v)
}

func (b *band) Size() (int, int) {
	st := b.b.Structure()
	return st.SizeX, st.SizeY
}

// Windows walks GDAL's natural block layout.
func (b *band) Windows() []raster.Window {
	st := b.b.Structure()
	if st.SizeX <= 0 || st.SizeY <= 0 {
		return nil
	}
	var windows []raster.Window
	for block, ok := st.FirstBlock(), true; ok; block, ok = block.Next() {
		windows = append(windows, raster.Window{
			Row:    block.Y0,
			Col:    block.X0,
			Height: block.H,
			Width:  block.W,
		})
	}
	return windows
}

func (b *band) Read(w raster.Window, buf []float64) error {
	width, height := b.Size()
	if !w.Within(width, height) {
		return fmt.Errorf("%w: %+v in %dx%d", raster.ErrWindow, w, width, height)
	}
	if len(buf) < w.Size() {
		return fmt.Errorf("%w: need %d, have %d", raster.ErrBufferSize, w.Size(), len(buf))
	}
	if err := b.b.Read(w.Col, w.Row, buf[:w.Size()], w.Width, w.Height,
		godal.ErrLogger(errorHandler(b.logger))); err != nil {
		return fmt.Errorf("read window %+v: %w", w, err)
	}
	return nil
}

func (b *band) Metadata() map[string]string {
	return maps.Clone(b.b.Metadatas())
}

func (b *band) Statistics() (raster.Statistics, error) {
	st, err := b.b.ComputeStatistics(godal.ErrLogger(statisticsErrorHandler(b.logger)))
	if err != nil {
		return raster.Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	return raster.Statistics{Min: st.Min, Max: st.Max, Mean: st.Mean, Std: st.Std}, nil
}
