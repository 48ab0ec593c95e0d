package pixeldiff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/raster"
)

// Options configures one pixel comparison.
type Options struct {
	// Tolerance decides when two cells are equal.
	Tolerance Tolerance

	// OutputPath, when set, is where the difference raster is written.
	OutputPath string
}

// Engine runs pixel comparisons over rasters opened through a Driver.
// An Engine holds no per-comparison state and is safe for concurrent use.
type Engine struct {
	// driver opens input rasters and creates the difference raster.
	driver raster.Driver

	// logger receives per-band progress at debug level.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine that uses driver for raster I/O.
func NewEngine(driver raster.Driver, opts ...Option) *Engine {
	e := &Engine{driver: driver}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// DiffRasters opens basePath and testPath, compares them band by band and
// closes both handles before returning, on every path.
func (e *Engine) DiffRasters(ctx context.Context, basePath, testPath string, opts Options) (stats []model.PixelDiffStats, err error) {
	base, err := e.driver.Open(basePath)
	if err != nil {
		return nil, fmt.Errorf("open base raster: %w", err)
	}
	defer func() {
		err = errors.Join(err, base.Close())
	}()

	test, err := e.driver.Open(testPath)
	if err != nil {
		return nil, fmt.Errorf("open test raster: %w", err)
	}
	defer func() {
		err = errors.Join(err, test.Close())
	}()

	return e.DiffDatasets(ctx, base, test, opts)
}

// DiffDatasets compares two open rasters band by band and returns the
// statistics in band order. Rasters that fail IsCompatible or CheckBandTypes
// are rejected with an error wrapping ErrIncompatible.
//
// When opts.OutputPath is set, the difference raster is written once all
// statistics are final. If that write fails, the statistics are returned
// together with an error wrapping ErrWriteOutput.
func (e *Engine) DiffDatasets(ctx context.Context, base, test raster.Dataset, opts Options) ([]model.PixelDiffStats, error) {
	if !IsCompatible(base, test) {
		return nil, fmt.Errorf("%w: %s and %s differ in shape, band count, transform or CRS",
			ErrIncompatible, base.Path(), test.Path())
	}
	if err := CheckBandTypes(base, test); err != nil {
		return nil, err
	}

	capture := opts.OutputPath != ""
	count := base.BandCount()
	stats := make([]model.PixelDiffStats, 0, count)
	var grids [][]float32
	if capture {
		grids = make([][]float32, 0, count)
	}

	for band := 1; band <= count; band++ {
		s, grid, err := AccumulateBand(ctx, base, test, band, opts.Tolerance, capture)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("band compared",
			"band", band,
			"diff_count", s.DiffCount,
			"total_count", s.TotalCount,
			"max_diff", s.MaxDiff,
			"rmse", s.RMSE,
		)
		stats = append(stats, s)
		if capture {
			grids = append(grids, grid)
		}
	}

	if capture {
		if err := writeDiffRaster(e.driver, opts.OutputPath, base, grids); err != nil {
			return stats, fmt.Errorf("%w: %s: %w", ErrWriteOutput, opts.OutputPath, err)
		}
		e.logger.Debug("difference raster written", "path", opts.OutputPath)
	}
	return stats, nil
}
