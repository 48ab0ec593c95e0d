package compare

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/riodiff/internal/pixeldiff"
	"github.com/nao1215/riodiff/internal/raster"
)

const wgs84 = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`

func grid(width, height int) raster.Profile {
	return raster.Profile{
		Width:     width,
		Height:    height,
		Bands:     1,
		DataType:  raster.Float32,
		Transform: raster.Transform{0, 1, 0, float64(height), 0, -1},
		CRS:       raster.CRS{WKT: wgs84},
	}
}

// writeFile writes content to a file in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// fixture creates two files and registers one raster under each path.
// The file contents only drive the checksum step.
func fixture(t *testing.T, baseContent, testContent string, base, test *raster.MemDataset) (*raster.MemDriver, string, string) {
	t.Helper()

	dir := t.TempDir()
	basePath := writeFile(t, dir, "base.tif", baseContent)
	testPath := writeFile(t, dir, "test.tif", testContent)
	drv := raster.NewMemDriver()
	drv.Add(basePath, base)
	drv.Add(testPath, test)
	return drv, basePath, testPath
}

func newTestComparer(drv raster.Driver) *Comparer {
	return New(drv, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestComparerCompare(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("identical files short-circuit", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "same.tif", "raster bytes")
		drv := raster.NewMemDriver()

		diff, err := newTestComparer(drv).Compare(ctx, path, path, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !diff.Identical || !diff.Checksum.Equal {
			t.Errorf("expected identical result, got %+v", diff)
		}
		if diff.PixelValues != nil {
			t.Errorf("expected no pixel stats, got %+v", diff.PixelValues)
		}
	})

	t.Run("one differing cell", func(t *testing.T) {
		t.Parallel()
		drv, basePath, testPath := fixture(t, "a", "b",
			raster.MustMemDataset(grid(2, 2), []float64{1, 2, 3, 4}),
			raster.MustMemDataset(grid(2, 2), []float64{1, 2, 3, 5}),
		)

		diff, err := newTestComparer(drv).Compare(ctx, basePath, testPath, Options{Tolerance: pixeldiff.DefaultTolerance})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff.Identical || diff.Checksum.Equal {
			t.Error("expected checksums to differ")
		}
		if !diff.Width.Equal || !diff.Height.Equal || !diff.CRS.Equal || !diff.Transform.Equal {
			t.Errorf("expected structure to match: %+v", diff)
		}
		if diff.Stats.Equal {
			t.Error("expected statistics to differ")
		}
		if !diff.Compatible || len(diff.PixelValues) != 1 {
			t.Fatalf("expected one band of pixel stats, got %+v", diff.PixelValues)
		}
		if s := diff.PixelValues[0]; s.DiffCount != 1 || s.DiffPercent != 25 || s.MaxDiff != 1 || s.RMSE != 0.5 {
			t.Errorf("unexpected stats %+v", s)
		}
		if diff.BasePath != basePath || diff.TestPath != testPath {
			t.Errorf("unexpected paths %q, %q", diff.BasePath, diff.TestPath)
		}
		if drv.OpenHandles() != 0 {
			t.Errorf("expected all handles closed, %d open", drv.OpenHandles())
		}
	})

	t.Run("shape mismatch keeps structural report", func(t *testing.T) {
		t.Parallel()
		drv, basePath, testPath := fixture(t, "a", "b",
			raster.MustMemDataset(grid(3, 3)),
			raster.MustMemDataset(grid(2, 2)),
		)

		diff, err := newTestComparer(drv).Compare(ctx, basePath, testPath, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff.Compatible || diff.PixelValues != nil {
			t.Errorf("expected incompatible marker, got %+v", diff.PixelValues)
		}
		if diff.Width.Equal || diff.Width.Base != 3 || diff.Width.Test != 2 {
			t.Errorf("unexpected width comparison %+v", diff.Width)
		}
		if diff.Height.Equal {
			t.Errorf("unexpected height comparison %+v", diff.Height)
		}
	})

	t.Run("type mismatch becomes incompatible", func(t *testing.T) {
		t.Parallel()
		tp := grid(2, 2)
		tp.DataType = raster.Int16
		drv, basePath, testPath := fixture(t, "a", "b",
			raster.MustMemDataset(grid(2, 2)),
			raster.MustMemDataset(tp),
		)

		diff, err := newTestComparer(drv).Compare(ctx, basePath, testPath, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff.Compatible || diff.PixelValues != nil {
			t.Errorf("expected incompatible marker, got %+v", diff)
		}
		if diff.DataType.Equal {
			t.Error("expected data types to differ")
		}
	})

	t.Run("metadata and nodata differences", func(t *testing.T) {
		t.Parallel()
		bp, tp := grid(2, 2), grid(2, 2)
		tp.Nodata = raster.NodataValue(-9999)
		base := raster.MustMemDataset(bp, []float64{1, 2, 3, 4})
		test := raster.MustMemDataset(tp, []float64{1, 2, 3, 4})
		base.SetMetadata(map[string]string{"AREA_OR_POINT": "Area"})
		test.SetMetadata(map[string]string{"AREA_OR_POINT": "Point"})
		band, _ := test.MemBand(1)
		band.SetMetadata(map[string]string{"STATISTICS_VALID_PERCENT": "100"})
		drv, basePath, testPath := fixture(t, "a", "b", base, test)

		diff, err := newTestComparer(drv).Compare(ctx, basePath, testPath, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff.Nodata.Equal || diff.Metadata.Equal || diff.BandsMetadata.Equal {
			t.Errorf("expected nodata and metadata to differ: %+v", diff)
		}
		if !diff.Stats.Equal {
			t.Error("expected statistics to match")
		}
		if diff.PixelDifferences() {
			t.Error("expected no pixel differences")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		basePath := writeFile(t, dir, "base.tif", "a")

		_, err := newTestComparer(raster.NewMemDriver()).Compare(ctx, basePath, filepath.Join(dir, "missing.tif"), Options{})
		if !errors.Is(err, ErrChecksum) {
			t.Errorf("expected ErrChecksum, got %v", err)
		}
	})

	t.Run("unreadable raster", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		basePath := writeFile(t, dir, "base.tif", "a")
		testPath := writeFile(t, dir, "test.tif", "b")

		diff, err := newTestComparer(raster.NewMemDriver()).Compare(ctx, basePath, testPath, Options{})
		if !errors.Is(err, raster.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if diff != nil {
			t.Errorf("expected no result, got %+v", diff)
		}
	})

	t.Run("write failure returns result", func(t *testing.T) {
		t.Parallel()
		drv, basePath, testPath := fixture(t, "a", "b",
			raster.MustMemDataset(grid(2, 2), []float64{1, 2, 3, 4}),
			raster.MustMemDataset(grid(2, 2), []float64{1, 2, 3, 5}),
		)
		drv.FailCreates(errors.New("read-only file system"))

		diff, err := newTestComparer(drv).Compare(ctx, basePath, testPath,
			Options{OutputPath: filepath.Join(t.TempDir(), "diff.tif")})
		if !errors.Is(err, pixeldiff.ErrWriteOutput) {
			t.Fatalf("expected ErrWriteOutput, got %v", err)
		}
		if diff == nil || len(diff.PixelValues) != 1 {
			t.Errorf("expected stats alongside the error, got %+v", diff)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		drv, basePath, testPath := fixture(t, "a", "b",
			raster.MustMemDataset(grid(2, 2)),
			raster.MustMemDataset(grid(2, 2)),
		)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := newTestComparer(drv).Compare(cctx, basePath, testPath, Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestFileMD5(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, dir, "hello.txt", "hello\n")
		got, err := FileMD5(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "b1946ac92492d2347c6235b4d2611184" {
			t.Errorf("unexpected digest %s", got)
		}
	})

	t.Run("spans several chunks", func(t *testing.T) {
		t.Parallel()
		content := make([]byte, chunkSize*3+17)
		for i := range content {
			content[i] = byte(i)
		}
		a := writeFile(t, dir, "a.bin", string(content))
		content[chunkSize*2] ^= 0xff
		b := writeFile(t, dir, "b.bin", string(content))

		ha, hb, err := Checksums(context.Background(), a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ha == hb {
			t.Error("expected digests to differ")
		}
	})
}

// TestReadPropsInfiniteCell tests that statistics of a band holding +Inf
// stay serializable.
func TestReadPropsInfiniteCell(t *testing.T) {
	t.Parallel()

	p := grid(2, 1)
	ds := raster.MustMemDataset(p, []float64{math.Inf(1), 1})

	props, err := ReadProps(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := props.Stats[0]
	if !st.Valid || st.Min != 1 || !math.IsInf(st.Max, 1) {
		t.Errorf("unexpected statistics %+v", st)
	}
	if _, err := json.Marshal(props); err != nil {
		t.Errorf("failed to marshal: %v", err)
	}
}
