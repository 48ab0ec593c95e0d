package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

// TestBlockWindows verifies tiling order and edge clipping.
func TestBlockWindows(t *testing.T) {
	t.Parallel()

	t.Run("tiles row of blocks by row of blocks", func(t *testing.T) {
		t.Parallel()

		got := BlockWindows(5, 3, 2, 2)
		want := []Window{
			{Row: 0, Col: 0, Height: 2, Width: 2},
			{Row: 0, Col: 2, Height: 2, Width: 2},
			{Row: 0, Col: 4, Height: 2, Width: 1},
			{Row: 2, Col: 0, Height: 1, Width: 2},
			{Row: 2, Col: 2, Height: 1, Width: 2},
			{Row: 2, Col: 4, Height: 1, Width: 1},
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d windows, got %d: %+v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("window %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})

	t.Run("zero block size means one row per window", func(t *testing.T) {
		t.Parallel()

		got := BlockWindows(4, 3, 0, 0)
		if len(got) != 3 {
			t.Fatalf("expected 3 windows, got %d", len(got))
		}
		for i, w := range got {
			if w.Row != i || w.Width != 4 || w.Height != 1 {
				t.Errorf("unexpected window %d: %+v", i, w)
			}
		}
	})

	t.Run("windows cover every cell once", func(t *testing.T) {
		t.Parallel()

		const width, height = 7, 5
		seen := make([]int, width*height)
		for _, w := range BlockWindows(width, height, 3, 2) {
			for r := w.Row; r < w.Row+w.Height; r++ {
				for c := w.Col; c < w.Col+w.Width; c++ {
					seen[r*width+c]++
				}
			}
		}
		for i, n := range seen {
			if n != 1 {
				t.Errorf("cell %d covered %d times", i, n)
			}
		}
	})

	t.Run("empty grid has no windows", func(t *testing.T) {
		t.Parallel()
		if got := BlockWindows(0, 3, 1, 1); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("max window size", func(t *testing.T) {
		t.Parallel()
		if got := MaxWindowSize(BlockWindows(5, 3, 2, 2)); got != 4 {
			t.Errorf("expected 4, got %d", got)
		}
	})
}

// TestDataTypeNative checks sentinel normalization per pixel type.
func TestDataTypeNative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dt     DataType
		in     float64
		want   float64
		wantOK bool
	}{
		{"byte in range", Byte, 255, 255, true},
		{"byte out of range", Byte, 256, 0, false},
		{"byte fractional", Byte, 1.5, 0, false},
		{"int16 negative", Int16, -9999, -9999, true},
		{"uint16 negative", UInt16, -1, 0, false},
		{"int integer nan", Int32, math.NaN(), 0, false},
		{"int64 exact", Int64, 1 << 52, 1 << 52, true},
		{"int64 beyond exact range", Int64, 9007199254740993, 0, false},
		{"uint64 beyond exact range", UInt64, 1 << 60, 0, false},
		{"int64 negative beyond exact range", Int64, -(1 << 53), 0, false},
		{"float32 rounds", Float32, 0.1, float64(float32(0.1)), true},
		{"float64 keeps", Float64, 0.1, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.dt.Native(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("float32 keeps nan", func(t *testing.T) {
		t.Parallel()
		got, ok := Float32.Native(math.NaN())
		if !ok || !math.IsNaN(got) {
			t.Errorf("expected NaN, got %v (ok=%v)", got, ok)
		}
	})
}

// TestDataTypeNames checks parsing and kinds.
func TestDataTypeNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Byte", "uint8", "INT16", "float32", "CFloat64"} {
		if ParseDataType(name) == Unknown {
			t.Errorf("expected %q to parse", name)
		}
	}
	if ParseDataType("bogus") != Unknown {
		t.Error("expected bogus to be Unknown")
	}
	if Byte.Kind() != KindInteger || Float32.Kind() != KindFloat || CInt16.Kind() != KindComplex {
		t.Error("unexpected kind mapping")
	}
	if DataType(99).String() != "Unknown" {
		t.Error("expected out-of-range type to print Unknown")
	}

	var dt DataType
	if err := dt.UnmarshalText([]byte("Float64")); err != nil || dt != Float64 {
		t.Errorf("expected Float64, got %v (%v)", dt, err)
	}
}

// TestTransform checks geotransform helpers.
func TestTransform(t *testing.T) {
	t.Parallel()

	tr := Transform{100, 10, 0, 200, 0, -10}

	t.Run("bounds of north-up grid", func(t *testing.T) {
		t.Parallel()
		got := tr.Bounds(3, 2)
		want := orb.Bound{Min: orb.Point{100, 180}, Max: orb.Point{130, 200}}
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("affine order", func(t *testing.T) {
		t.Parallel()
		if got := tr.Affine(); got != [6]float64{10, 0, 100, 0, -10, 200} {
			t.Errorf("unexpected affine %v", got)
		}
		if tr.String() != "Affine(10, 0, 100, 0, -10, 200)" {
			t.Errorf("unexpected string %q", tr.String())
		}
	})

	t.Run("equality", func(t *testing.T) {
		t.Parallel()
		other := tr
		if !tr.Equal(other) {
			t.Error("expected equal transforms")
		}
		other[1] = 11
		if tr.Equal(other) {
			t.Error("expected different transforms")
		}
	})
}

// TestCRS checks WKT handling.
func TestCRS(t *testing.T) {
	t.Parallel()

	wkt := `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`
	crs := CRS{WKT: wkt}

	if crs.Authority() != "EPSG:4326" {
		t.Errorf("expected EPSG:4326, got %q", crs.Authority())
	}
	if crs.String() != "EPSG:4326" {
		t.Errorf("unexpected string %q", crs.String())
	}
	if !crs.Equal(CRS{WKT: " " + wkt + "\n"}) {
		t.Error("expected whitespace-insensitive equality")
	}
	if crs.Equal(CRS{}) {
		t.Error("expected CRS to differ from empty CRS")
	}
	if (CRS{}).String() != "None" {
		t.Error("expected empty CRS to print None")
	}
}

// TestMemDataset exercises the in-memory raster.
func TestMemDataset(t *testing.T) {
	t.Parallel()

	profile := Profile{Width: 3, Height: 2, Bands: 1, DataType: Byte, Nodata: NodataValue(255)}

	t.Run("reads window", func(t *testing.T) {
		t.Parallel()
		ds := MustMemDataset(profile, []float64{1, 2, 3, 4, 5, 6})
		band, err := ds.Band(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		buf := make([]float64, 2)
		if err := band.Read(Window{Row: 1, Col: 1, Height: 1, Width: 2}, buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf[0] != 5 || buf[1] != 6 {
			t.Errorf("unexpected values %v", buf)
		}
	})

	t.Run("rejects window outside band", func(t *testing.T) {
		t.Parallel()
		ds := MustMemDataset(profile)
		band, _ := ds.Band(1)
		err := band.Read(Window{Row: 1, Col: 2, Height: 1, Width: 2}, make([]float64, 2))
		if !errors.Is(err, ErrWindow) {
			t.Errorf("expected ErrWindow, got %v", err)
		}
	})

	t.Run("rejects bad band index", func(t *testing.T) {
		t.Parallel()
		ds := MustMemDataset(profile)
		if _, err := ds.Band(2); !errors.Is(err, ErrBandIndex) {
			t.Errorf("expected ErrBandIndex, got %v", err)
		}
	})

	t.Run("statistics skip nodata", func(t *testing.T) {
		t.Parallel()
		ds := MustMemDataset(profile, []float64{1, 255, 3, 255, 5, 255})
		band, _ := ds.Band(1)
		st, err := band.Statistics()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Min != 1 || st.Max != 5 || st.Mean != 3 {
			t.Errorf("unexpected statistics %+v", st)
		}
	})

	t.Run("statistics of all-nodata band fail", func(t *testing.T) {
		t.Parallel()
		ds := MustMemDataset(profile, []float64{255, 255, 255, 255, 255, 255})
		band, _ := ds.Band(1)
		if _, err := band.Statistics(); !errors.Is(err, ErrNoValidPixels) {
			t.Errorf("expected ErrNoValidPixels, got %v", err)
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		t.Parallel()
		if _, err := NewMemDataset(Profile{Width: 0, Height: 1, Bands: 1}); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("expected ErrInvalidProfile, got %v", err)
		}
	})
}

// TestMemDriver checks handle accounting and create/open round trips.
func TestMemDriver(t *testing.T) {
	t.Parallel()

	t.Run("counts open handles", func(t *testing.T) {
		t.Parallel()
		drv := NewMemDriver()
		drv.Add("a.tif", MustMemDataset(Profile{Width: 1, Height: 1, Bands: 1}))

		ds, err := drv.Open("a.tif")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if drv.OpenHandles() != 1 {
			t.Errorf("expected 1 open handle, got %d", drv.OpenHandles())
		}
		_ = ds.Close()
		_ = ds.Close()
		if drv.OpenHandles() != 0 {
			t.Errorf("expected 0 open handles, got %d", drv.OpenHandles())
		}
		if ds.Path() != "a.tif" {
			t.Errorf("unexpected path %q", ds.Path())
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()
		if _, err := NewMemDriver().Open("missing.tif"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create then open", func(t *testing.T) {
		t.Parallel()
		drv := NewMemDriver()
		w, err := drv.Create("out.tif", Profile{Width: 2, Height: 1, Bands: 1, DataType: Float32})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteBand(1, []float32{1.5, -2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := drv.Get("out.tif"); ok {
			t.Error("expected raster to be hidden until Close")
		}
		if err := w.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ds, ok := drv.Get("out.tif")
		if !ok {
			t.Fatal("expected raster after Close")
		}
		band, _ := ds.MemBand(1)
		if v := band.Values(); v[0] != 1.5 || v[1] != -2 {
			t.Errorf("unexpected values %v", v)
		}
	})
}
