package pixeldiff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/riodiff/internal/raster"
)

// writeDiffRaster persists grids (one row-major band each) at path with the
// georeferencing of base. The output is Float32 without a nodata sentinel,
// since a zero difference is a valid value.
func writeDiffRaster(driver raster.Driver, path string, base raster.Dataset, grids [][]float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	w, err := driver.Create(path, raster.Profile{
		Width:     base.Width(),
		Height:    base.Height(),
		Bands:     len(grids),
		DataType:  raster.Float32,
		Transform: base.Transform(),
		CRS:       base.CRS(),
		Nodata:    raster.NoNodata,
	})
	if err != nil {
		return err
	}
	for i, grid := range grids {
		if err := w.WriteBand(i+1, grid); err != nil {
			return errors.Join(fmt.Errorf("write band %d: %w", i+1, err), w.Close())
		}
	}
	return w.Close()
}
