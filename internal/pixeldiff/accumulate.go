package pixeldiff

import (
	"context"
	"fmt"
	"math"

	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/raster"
)

// Tolerance controls when two cells count as equal.
type Tolerance struct {
	// RTol is the relative tolerance, scaled by the magnitude of the test value.
	RTol float64 `yaml:"rtol" json:"rtol"`

	// ATol is the absolute tolerance.
	ATol float64 `yaml:"atol" json:"atol"`

	// EqualNaN makes two NaN cells (including two nodata cells) equal.
	EqualNaN bool `yaml:"equal_nan" json:"equal_nan"`
}

// DefaultTolerance is exact comparison with NaN equality.
var DefaultTolerance = Tolerance{RTol: 0, ATol: 0, EqualNaN: true}

// Close reports whether base value a and test value b are close.
func (t Tolerance) Close(a, b float64) bool {
	if a == b {
		return true
	}
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return aNaN && bNaN && t.EqualNaN
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= t.ATol+t.RTol*math.Abs(b)
}

// AccumulateBand compares band (1-based) of base and test and returns its
// statistics. When captureDiff is true it also returns the signed difference
// base-test as a row-major float32 grid of the band's size; masked cells
// hold NaN.
//
// The test band is read with the window geometry of the base band, whatever
// its own block layout. Read failures and context cancellation abort the
// scan.
func AccumulateBand(ctx context.Context, base, test raster.Dataset, band int, tol Tolerance, captureDiff bool) (model.PixelDiffStats, []float32, error) {
	bb, err := base.Band(band)
	if err != nil {
		return model.PixelDiffStats{}, nil, fmt.Errorf("%w: base band %d: %w", ErrBandIndex, band, err)
	}
	tb, err := test.Band(band)
	if err != nil {
		return model.PixelDiffStats{}, nil, fmt.Errorf("%w: test band %d: %w", ErrBandIndex, band, err)
	}

	width, height := bb.Size()
	if tw, th := tb.Size(); tw != width || th != height {
		return model.PixelDiffStats{}, nil, fmt.Errorf("%w: band %d is %dx%d in base and %dx%d in test",
			ErrShapeMismatch, band, width, height, tw, th)
	}

	windows := bb.Windows()
	size := raster.MaxWindowSize(windows)
	baseBuf := make([]float64, size)
	testBuf := make([]float64, size)

	var grid []float32
	if captureDiff {
		grid = make([]float32, width*height)
	}

	var (
		diffCount int
		maxDiff   float64
		squares   model.SquareSum
	)
	baseNodata, baseType := bb.Nodata(), bb.DataType()
	testNodata, testType := tb.Nodata(), tb.DataType()

	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return model.PixelDiffStats{}, nil, err
		}

		n := w.Size()
		bv, tv := baseBuf[:n], testBuf[:n]
		if err := bb.Read(w, bv); err != nil {
			return model.PixelDiffStats{}, nil, fmt.Errorf("read base band %d at %+v: %w", band, w, err)
		}
		if err := tb.Read(w, tv); err != nil {
			return model.PixelDiffStats{}, nil, fmt.Errorf("read test band %d at %+v: %w", band, w, err)
		}
		maskInto(bv, baseNodata, baseType)
		maskInto(tv, testNodata, testType)

		for i := range n {
			a, b := bv[i], tv[i]
			d := a - b
			if !tol.Close(a, b) {
				diffCount++
			}
			if !math.IsNaN(d) && !math.IsInf(d, 0) {
				maxDiff = math.Max(maxDiff, math.Abs(d))
				squares.Add(d)
			}
			if grid != nil {
				row, col := w.Row+i/w.Width, w.Col+i%w.Width
				grid[row*width+col] = float32(d)
			}
		}
	}

	return model.NewPixelDiffStats(diffCount, width*height, maxDiff, squares), grid, nil
}
