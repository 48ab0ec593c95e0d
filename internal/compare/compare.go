package compare

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/pixeldiff"
	"github.com/nao1215/riodiff/internal/raster"
)

// Options configures one comparison.
type Options struct {
	// Tolerance decides when two cells are equal.
	Tolerance pixeldiff.Tolerance

	// OutputPath, when set, is where the difference raster is written.
	OutputPath string
}

// Comparer compares raster files. It is safe for concurrent use.
type Comparer struct {
	driver raster.Driver
	logger *slog.Logger
	engine *pixeldiff.Engine
}

// Option configures a Comparer.
type Option func(*Comparer)

// WithLogger sets a custom logger for the comparer and its engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparer) {
		c.logger = logger
	}
}

// New creates a Comparer that uses driver for raster I/O.
func New(driver raster.Driver, opts ...Option) *Comparer {
	c := &Comparer{driver: driver}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.engine = pixeldiff.NewEngine(driver, pixeldiff.WithLogger(c.logger))
	return c
}

// Compare compares the raster at testPath against the one at basePath.
//
// If the pixel comparison succeeds but the difference raster cannot be
// written, the full result is returned together with an error wrapping
// pixeldiff.ErrWriteOutput.
func (c *Comparer) Compare(ctx context.Context, basePath, testPath string, opts Options) (*model.RasterDiff, error) {
	j := &job{basePath: basePath, testPath: testPath, opts: opts}
	p := &pipeline{
		logger: c.logger,
		steps: []step{
			checksumStep{},
			propsStep{driver: c.driver},
			pixelStep{engine: c.engine, logger: c.logger},
		},
	}
	if err := p.execute(ctx, j); err != nil {
		if errors.Is(err, pixeldiff.ErrWriteOutput) {
			return j.diff, err
		}
		return nil, err
	}
	return j.diff, nil
}
