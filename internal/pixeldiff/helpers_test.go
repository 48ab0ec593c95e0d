package pixeldiff

import (
	"math"
	"testing"

	"github.com/nao1215/riodiff/internal/raster"
)

const utm33 = `PROJCS["WGS 84 / UTM zone 33N",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],UNIT["metre",1],AUTHORITY["EPSG","32633"]]`

var testTransform = raster.Transform{500000, 10, 0, 4000000, 0, -10}

// grid2x2 returns a single-band Float64 2x2 profile with georeferencing.
func grid2x2() raster.Profile {
	return raster.Profile{
		Width:     2,
		Height:    2,
		Bands:     1,
		DataType:  raster.Float64,
		Transform: testTransform,
		CRS:       raster.CRS{WKT: utm33},
	}
}

func newDataset(t *testing.T, p raster.Profile, bands ...[]float64) *raster.MemDataset {
	t.Helper()

	ds, err := raster.NewMemDataset(p)
	if err != nil {
		t.Fatalf("failed to create dataset: %v", err)
	}
	for i, values := range bands {
		if err := ds.SetBand(i+1, values); err != nil {
			t.Fatalf("failed to set band %d: %v", i+1, err)
		}
	}
	return ds
}

func memBand(t *testing.T, ds *raster.MemDataset, i int) *raster.MemBand {
	t.Helper()

	b, err := ds.MemBand(i)
	if err != nil {
		t.Fatalf("failed to get band %d: %v", i, err)
	}
	return b
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
}
