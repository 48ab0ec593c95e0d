package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/pixeldiff"
	"github.com/nao1215/riodiff/internal/raster"
)

// job is the state one comparison carries through the pipeline.
type job struct {
	basePath string
	testPath string
	opts     Options

	// diff is filled in step by step.
	diff *model.RasterDiff

	// checksum is kept until the properties step builds diff.
	checksum model.Comparison[string]
}

// done reports whether later steps have nothing left to do.
func (j *job) done() bool {
	return j.diff != nil && j.diff.Identical
}

// step is one stage of a comparison.
type step interface {
	// Do runs the step against j. A returned error aborts the comparison.
	Do(ctx context.Context, j *job) error

	// Name returns the step's name for logging.
	Name() string
}

// pipeline runs steps in order until one fails or the job is done.
type pipeline struct {
	steps  []step
	logger *slog.Logger
}

// execute checks ctx before each step; steps handle cancellation within
// themselves.
func (p *pipeline) execute(ctx context.Context, j *job) error {
	for _, s := range p.steps {
		if j.done() {
			p.logger.Debug("comparison complete", "skipped", s.Name())
			return nil
		}
		select {
		case <-ctx.Done():
			p.logger.Warn("comparison cancelled",
				"step", s.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", s.Name(),
			"base", j.basePath,
			"test", j.testPath,
		)
		if err := s.Do(ctx, j); err != nil {
			p.logger.Debug("step failed",
				"step", s.Name(),
				"error", err,
			)
			return err
		}
	}
	return nil
}

// checksumStep hashes both files and short-circuits identical ones.
type checksumStep struct{}

func (checksumStep) Name() string { return "checksum" }

func (checksumStep) Do(ctx context.Context, j *job) error {
	base, test, err := Checksums(ctx, j.basePath, j.testPath)
	if err != nil {
		return err
	}
	if base == test {
		j.diff = model.NewIdenticalDiff(j.basePath, j.testPath, base)
		return nil
	}
	j.checksum = model.Compare(base, test)
	return nil
}

// propsStep reads and compares the structural properties of both rasters.
type propsStep struct {
	driver raster.Driver
}

func (propsStep) Name() string { return "properties" }

func (s propsStep) Do(_ context.Context, j *job) (err error) {
	base, err := s.driver.Open(j.basePath)
	if err != nil {
		return fmt.Errorf("open base raster: %w", err)
	}
	defer func() {
		err = errors.Join(err, base.Close())
	}()

	test, err := s.driver.Open(j.testPath)
	if err != nil {
		return fmt.Errorf("open test raster: %w", err)
	}
	defer func() {
		err = errors.Join(err, test.Close())
	}()

	baseProps, err := ReadProps(base)
	if err != nil {
		return err
	}
	testProps, err := ReadProps(test)
	if err != nil {
		return err
	}

	j.diff = model.NewRasterDiff(j.checksum, baseProps, testProps)
	j.diff.BasePath, j.diff.TestPath = j.basePath, j.testPath
	j.diff.Compatible = pixeldiff.IsCompatible(base, test)
	return nil
}

// pixelStep runs the pixel diff engine on compatible rasters.
type pixelStep struct {
	engine *pixeldiff.Engine
	logger *slog.Logger
}

func (pixelStep) Name() string { return "pixels" }

func (s pixelStep) Do(ctx context.Context, j *job) error {
	if !j.diff.Compatible {
		s.logger.Debug("rasters are incompatible, skipping pixel comparison")
		return nil
	}

	stats, err := s.engine.DiffRasters(ctx, j.basePath, j.testPath, pixeldiff.Options{
		Tolerance:  j.opts.Tolerance,
		OutputPath: j.opts.OutputPath,
	})
	switch {
	case errors.Is(err, pixeldiff.ErrIncompatible):
		s.logger.Debug("pixel comparison rejected", "reason", err)
		j.diff.Compatible = false
		j.diff.PixelValues = nil
		return nil
	case errors.Is(err, pixeldiff.ErrWriteOutput):
		j.diff.PixelValues = stats
		return err
	case err != nil:
		return err
	}
	j.diff.PixelValues = stats
	return nil
}
