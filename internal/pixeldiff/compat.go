package pixeldiff

import (
	"fmt"

	"github.com/nao1215/riodiff/internal/raster"
)

// IsCompatible reports whether base and test can be compared pixel by pixel.
// Every one of shape, band count, geotransform and CRS must match.
func IsCompatible(base, test raster.Dataset) bool {
	return base.Width() == test.Width() &&
		base.Height() == test.Height() &&
		base.BandCount() == test.BandCount() &&
		base.Transform().Equal(test.Transform()) &&
		base.CRS().Equal(test.CRS())
}

// CheckBandTypes returns an error wrapping ErrTypeMismatch when any band pair
// mixes integer and floating point values, or when either band is complex.
// Integer bands of different widths (Byte vs Int16) are accepted.
func CheckBandTypes(base, test raster.Dataset) error {
	n := min(base.BandCount(), test.BandCount())
	for i := 1; i <= n; i++ {
		bb, err := base.Band(i)
		if err != nil {
			return err
		}
		tb, err := test.Band(i)
		if err != nil {
			return err
		}
		bk, tk := bb.DataType().Kind(), tb.DataType().Kind()
		if bk == raster.KindComplex || tk == raster.KindComplex || bk != tk {
			return fmt.Errorf("%w: band %d is %s in base and %s in test",
				ErrTypeMismatch, i, bb.DataType(), tb.DataType())
		}
	}
	return nil
}
