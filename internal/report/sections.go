package report

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/raster"
)

// section is one unequal property ready for display.
type section struct {
	Label string
	Base  string
	Test  string
}

// propertySections returns the unequal, non-ignored structural properties
// of diff in report order.
func propertySections(diff *model.RasterDiff, ignore config.Ignore) []section {
	var out []section
	add := func(skip, equal bool, label, base, test string) {
		if skip || equal {
			return
		}
		out = append(out, section{Label: label, Base: base, Test: test})
	}

	add(ignore.Checksum, diff.Checksum.Equal, "Checksum", diff.Checksum.Base, diff.Checksum.Test)
	if diff.Identical {
		return out
	}
	add(ignore.Width, diff.Width.Equal, "Width",
		strconv.Itoa(diff.Width.Base), strconv.Itoa(diff.Width.Test))
	add(ignore.Height, diff.Height.Equal, "Height",
		strconv.Itoa(diff.Height.Base), strconv.Itoa(diff.Height.Test))
	add(ignore.Bands, diff.Bands.Equal, "Bands",
		strconv.Itoa(diff.Bands.Base), strconv.Itoa(diff.Bands.Test))
	add(ignore.DataType, diff.DataType.Equal, "Data Type",
		diff.DataType.Base.String(), diff.DataType.Test.String())
	add(ignore.Nodata, diff.Nodata.Equal, "NoData",
		diff.Nodata.Base.String(), diff.Nodata.Test.String())
	add(ignore.BBox, diff.BBox.Equal, "BBox",
		raster.FormatBounds(diff.BBox.Base), raster.FormatBounds(diff.BBox.Test))
	add(ignore.CRS, diff.CRS.Equal, "CRS",
		diff.CRS.Base.String(), diff.CRS.Test.String())
	add(ignore.Transform, diff.Transform.Equal, "Transform",
		diff.Transform.Base.String(), diff.Transform.Test.String())
	add(ignore.Metadata, diff.Metadata.Equal, "Metadata",
		formatMetadata(diff.Metadata.Base), formatMetadata(diff.Metadata.Test))
	add(ignore.Metadata, diff.BandsMetadata.Equal, "Bands Metadata",
		formatBandsMetadata(diff.BandsMetadata.Base), formatBandsMetadata(diff.BandsMetadata.Test))
	add(ignore.Stats, diff.Stats.Equal, "Statistics",
		formatStats(diff.Stats.Base), formatStats(diff.Stats.Test))
	return out
}

// bandDifference pairs a 1-based band index with its statistics.
type bandDifference struct {
	Band  int
	Stats model.PixelDiffStats
}

// pixelSections returns the bands that have differing pixels.
func pixelSections(diff *model.RasterDiff) []bandDifference {
	var out []bandDifference
	for i, st := range diff.PixelValues {
		if st.HasDifferences() {
			out = append(out, bandDifference{Band: i + 1, Stats: st})
		}
	}
	return out
}

// formatFloat prints the shortest representation of v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatPercent prints v with two decimals.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func formatMetadata(md map[string]string) string {
	keys := slices.Sorted(maps.Keys(md))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, md[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatBandsMetadata(bands []map[string]string) string {
	parts := make([]string, len(bands))
	for i, md := range bands {
		parts[i] = formatMetadata(md)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatStats(stats []model.BandStatistics) string {
	parts := make([]string, len(stats))
	for i, st := range stats {
		if !st.Valid {
			parts[i] = "None"
			continue
		}
		parts[i] = fmt.Sprintf("Statistics(min=%s, max=%s, mean=%s, std=%s)",
			formatFloat(st.Min), formatFloat(st.Max), formatFloat(st.Mean), formatFloat(st.Std))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
