package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/raster"
)

// createTestDiff creates a comparison of two rasters that differ in nodata,
// band metadata and the pixels of the second band.
func createTestDiff() *model.RasterDiff {
	base := model.RasterProps{
		Width:         2,
		Height:        2,
		Bands:         2,
		DataType:      raster.Byte,
		Nodata:        raster.NodataValue(0),
		BBox:          orb.Bound{Min: orb.Point{0, -2}, Max: orb.Point{2, 0}},
		Transform:     raster.Transform{0, 1, 0, 0, 0, -1},
		Metadata:      map[string]string{"AREA_OR_POINT": "Area"},
		BandsMetadata: []map[string]string{{}, {"name": "red"}},
		Stats:         []model.BandStatistics{{Min: 1, Max: 4, Mean: 2.5, Std: 1.25, Valid: true}},
	}
	test := base
	test.Nodata = raster.NoNodata
	test.BandsMetadata = []map[string]string{{}, {"name": "green"}}

	diff := model.NewRasterDiff(model.Compare("aaa", "bbb"), base, test)
	diff.BasePath = "base.tif"
	diff.TestPath = "test.tif"
	diff.Compatible = true
	diff.PixelValues = []model.PixelDiffStats{
		model.NewPixelDiffStats(0, 4, 0, model.SquareSum{}),
		model.NewPixelDiffStats(1, 4, 2, model.SquareSumOf(2)),
	}
	return diff
}

// TestTextWriter tests the terminal diff writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes unequal properties in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, config.Ignore{}, WithColor(false))
		if _, err := w.Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "< Checksum: aaa\n" +
			"> Checksum: bbb\n" +
			"\n" +
			"< NoData: 0\n" +
			"> NoData: None\n" +
			"\n" +
			"< Bands Metadata: [{}, {name: red}]\n" +
			"> Bands Metadata: [{}, {name: green}]\n" +
			"\n" +
			"Pixel Values (Band 2): \n" +
			"\tDifferent pixels: 1 (25.00%)\n" +
			"\tMax diff: 2\n" +
			"\tRMSE: 1\n"
		if got := buf.String(); got != expected {
			t.Errorf("expected:\n%q\ngot:\n%q", expected, got)
		}
	})

	t.Run("identical rasters print nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, config.Ignore{}, WithColor(false))
		n, err := w.Write(model.NewIdenticalDiff("a.tif", "b.tif", "abc"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 || buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("ignored properties are skipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ignore := config.Ignore{Checksum: true, Nodata: true, Metadata: true, PixelValues: true}
		w := NewTextWriter(&buf, ignore, WithColor(false))
		if _, err := w.Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("incompatible rasters", func(t *testing.T) {
		t.Parallel()

		diff := createTestDiff()
		diff.Compatible = false
		diff.PixelValues = nil

		var buf bytes.Buffer
		w := NewTextWriter(&buf, config.Ignore{Checksum: true, Nodata: true, Metadata: true}, WithColor(false))
		if _, err := w.Write(diff); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := buf.String(); got != "Pixel Values: Rasters are incompatible\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("colored output wraps lines in escape codes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, config.Ignore{}, WithColor(true))
		if _, err := w.Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\x1b[31m< Checksum: aaa") {
			t.Errorf("expected red base line, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "\x1b[32m> Checksum: bbb") {
			t.Errorf("expected green test line, got %q", buf.String())
		}
	})
}

// TestFormatters tests value rendering shared by the writers.
func TestFormatters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"metadata sorted by key", formatMetadata(map[string]string{"b": "2", "a": "1"}), "{a: 1, b: 2}"},
		{"empty metadata", formatMetadata(nil), "{}"},
		{"stats with invalid band", formatStats([]model.BandStatistics{
			{Min: 0, Max: 1, Mean: 0.5, Std: 0.5, Valid: true}, {},
		}), "[Statistics(min=0, max=1, mean=0.5, std=0.5), None]"},
		{"percent", formatPercent(100.0 / 3), "33.33%"},
		{"float", formatFloat(0.25), "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}

// TestHasDifferences tests the ignore-aware difference check.
func TestHasDifferences(t *testing.T) {
	t.Parallel()

	allProps := config.Ignore{
		Checksum: true, Width: true, Height: true, Bands: true, DataType: true, Nodata: true,
		BBox: true, CRS: true, Transform: true, Metadata: true, Stats: true,
	}

	t.Run("identical", func(t *testing.T) {
		t.Parallel()
		if HasDifferences(model.NewIdenticalDiff("a", "b", "c"), config.Ignore{}) {
			t.Error("expected no differences")
		}
	})

	t.Run("structural difference", func(t *testing.T) {
		t.Parallel()
		if !HasDifferences(createTestDiff(), config.Ignore{}) {
			t.Error("expected differences")
		}
	})

	t.Run("only pixel differences", func(t *testing.T) {
		t.Parallel()
		if !HasDifferences(createTestDiff(), allProps) {
			t.Error("expected pixel differences")
		}
		ignore := allProps
		ignore.PixelValues = true
		if HasDifferences(createTestDiff(), ignore) {
			t.Error("expected no differences with everything ignored")
		}
	})

	t.Run("incompatible counts as different", func(t *testing.T) {
		t.Parallel()
		diff := createTestDiff()
		diff.Compatible = false
		diff.PixelValues = nil
		if !HasDifferences(diff, allProps) {
			t.Error("expected differences")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes full report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		if _, err := w.Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.RasterDiff
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.BasePath != "base.tif" || decoded.Checksum.Base != "aaa" {
			t.Errorf("unexpected decoded report %+v", decoded)
		}
		if decoded.Nodata.Equal || decoded.Nodata.Test.Valid {
			t.Errorf("expected nodata mismatch with absent test nodata, got %+v", decoded.Nodata)
		}
		if len(decoded.PixelValues) != 2 || decoded.PixelValues[1].DiffCount != 1 {
			t.Errorf("unexpected pixel values %+v", decoded.PixelValues)
		}
		if !strings.Contains(buf.String(), "\n  \"base_path\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("infinite statistics", func(t *testing.T) {
		t.Parallel()

		diff := createTestDiff()
		diff.Stats.Test = []model.BandStatistics{{Min: 1, Max: math.Inf(1), Mean: math.Inf(1), Std: math.NaN(), Valid: true}}
		diff.PixelValues[1].MaxDiff = math.Inf(1)

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(diff); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded model.RasterDiff
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := decoded.Stats.Test[0]; !math.IsInf(got.Max, 1) || !math.IsNaN(got.Std) {
			t.Errorf("unexpected decoded statistics %+v", got)
		}
		if !math.IsInf(decoded.PixelValues[1].MaxDiff, 1) {
			t.Errorf("expected +Inf max diff, got %v", decoded.PixelValues[1].MaxDiff)
		}
	})

	t.Run("compact output ends with newline", func(t *testing.T) {
		t.Parallel()

		data, err := NewJSONWriter(&bytes.Buffer{}).Marshal(model.NewIdenticalDiff("a", "b", "c"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.HasSuffix(data, []byte("}\n")) || bytes.Contains(data, []byte("\n ")) {
			t.Errorf("unexpected compact output %q", data)
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, config.Ignore{}).Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Raster Comparison",
			"`base.tif`",
			"## Properties",
			"NoData",
			"## Pixel Values",
			"25.00%",
			"```mermaid",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("identical rasters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, config.Ignore{}).Write(model.NewIdenticalDiff("a", "b", "c")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "identical") {
			t.Error("expected identical notice")
		}
		if strings.Contains(buf.String(), "## Properties") {
			t.Error("expected no property table")
		}
	})

	t.Run("ignored pixel values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, config.Ignore{PixelValues: true}).Write(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "## Pixel Values") {
			t.Error("expected pixel values section to be skipped")
		}
	})
}
