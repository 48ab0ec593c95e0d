package pixeldiff

import (
	"math"

	"github.com/nao1215/riodiff/internal/raster"
)

// Mask returns a copy of block in which every cell equal to the nodata
// sentinel is replaced by NaN. The sentinel is first converted to dt, so a
// Float32 band matches a sentinel of 0.1 against the float32 rounding of 0.1.
// A sentinel dt cannot represent matches nothing; a NaN sentinel matches NaN
// cells, which stay NaN. Without a sentinel the copy is unchanged.
func Mask(block []float64, nodata raster.Nodata, dt raster.DataType) []float64 {
	out := make([]float64, len(block))
	copy(out, block)
	maskInto(out, nodata, dt)
	return out
}

// maskInto is Mask working in place on a scratch buffer.
func maskInto(block []float64, nodata raster.Nodata, dt raster.DataType) {
	if !nodata.Valid {
		return
	}
	sentinel, ok := dt.Native(nodata.Value)
	if !ok || math.IsNaN(sentinel) {
		return
	}
	nan := math.NaN()
	for i, v := range block {
		if v == sentinel {
			block[i] = nan
		}
	}
}
