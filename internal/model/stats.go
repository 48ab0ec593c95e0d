package model

import (
	"encoding/json"
	"math"
	"slices"
)

// PixelDiffStats summarizes the pixel-level differences of one band.
type PixelDiffStats struct {
	// DiffCount is the number of cells that are not close under the tolerance.
	DiffCount int `json:"diff_count"`

	// TotalCount is width*height of the band, nodata cells included.
	TotalCount int `json:"total_count"`

	// DiffPercent is 100*DiffCount/TotalCount.
	DiffPercent float64 `json:"diff_percent"`

	// MaxDiff is the largest absolute finite difference, 0 when there is none.
	MaxDiff float64 `json:"max_diff"`

	// RMSE is sqrt(sum of squared finite differences / TotalCount).
	RMSE float64 `json:"rmse"`
}

type pixelDiffStatsJSON struct {
	DiffCount   int       `json:"diff_count"`
	TotalCount  int       `json:"total_count"`
	DiffPercent jsonFloat `json:"diff_percent"`
	MaxDiff     jsonFloat `json:"max_diff"`
	RMSE        jsonFloat `json:"rmse"`
}

// MarshalJSON encodes non-finite values as strings.
func (s PixelDiffStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(pixelDiffStatsJSON{
		DiffCount:   s.DiffCount,
		TotalCount:  s.TotalCount,
		DiffPercent: jsonFloat(s.DiffPercent),
		MaxDiff:     jsonFloat(s.MaxDiff),
		RMSE:        jsonFloat(s.RMSE),
	})
}

// UnmarshalJSON decodes what MarshalJSON produces.
func (s *PixelDiffStats) UnmarshalJSON(data []byte) error {
	var v pixelDiffStatsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = PixelDiffStats{
		DiffCount:   v.DiffCount,
		TotalCount:  v.TotalCount,
		DiffPercent: float64(v.DiffPercent),
		MaxDiff:     float64(v.MaxDiff),
		RMSE:        float64(v.RMSE),
	}
	return nil
}

// HasDifferences reports whether any cell differs.
func (s PixelDiffStats) HasDifferences() bool {
	return s.DiffCount > 0
}

// NewPixelDiffStats derives the percentage and RMSE from the raw counts.
// A zero total yields zero percentage and RMSE.
func NewPixelDiffStats(diffCount, totalCount int, maxDiff float64, squares SquareSum) PixelDiffStats {
	s := PixelDiffStats{
		DiffCount:  diffCount,
		TotalCount: totalCount,
		MaxDiff:    maxDiff,
	}
	if totalCount > 0 {
		s.DiffPercent = 100 * float64(diffCount) / float64(totalCount)
		s.RMSE = squares.RootMean(totalCount)
	}
	return s
}

// SquareSum is a running sum of squares held as scale² * ssq, with scale
// the largest magnitude added so far. It stays finite for finite values
// whose squares would overflow a float64.
type SquareSum struct {
	scale float64
	ssq   float64
}

// SquareSumOf returns the sum of squares of values.
func SquareSumOf(values ...float64) SquareSum {
	var s SquareSum
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add adds v² to the sum. NaN and infinite values are skipped.
func (s *SquareSum) Add(v float64) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a := math.Abs(v)
	if a > s.scale {
		r := s.scale / a
		s.ssq = 1 + s.ssq*r*r
		s.scale = a
		return
	}
	r := a / s.scale
	s.ssq += r * r
}

// RootMean returns sqrt(sum / n), or 0 when n is not positive.
func (s SquareSum) RootMean(n int) float64 {
	if n <= 0 || s.scale == 0 {
		return 0
	}
	return s.scale * math.Sqrt(s.ssq/float64(n))
}

// BandStatistics are summary statistics of one band over its valid cells.
// Valid is false when the band has no valid cell; the other fields are then zero.
type BandStatistics struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Valid bool    `json:"valid"`
}

type bandStatisticsJSON struct {
	Min   jsonFloat `json:"min"`
	Max   jsonFloat `json:"max"`
	Mean  jsonFloat `json:"mean"`
	Std   jsonFloat `json:"std"`
	Valid bool      `json:"valid"`
}

// MarshalJSON encodes non-finite values, which an Inf cell in a float band
// produces, as strings.
func (b BandStatistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(bandStatisticsJSON{
		Min:   jsonFloat(b.Min),
		Max:   jsonFloat(b.Max),
		Mean:  jsonFloat(b.Mean),
		Std:   jsonFloat(b.Std),
		Valid: b.Valid,
	})
}

// UnmarshalJSON decodes what MarshalJSON produces.
func (b *BandStatistics) UnmarshalJSON(data []byte) error {
	var v bandStatisticsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = BandStatistics{
		Min:   float64(v.Min),
		Max:   float64(v.Max),
		Mean:  float64(v.Mean),
		Std:   float64(v.Std),
		Valid: v.Valid,
	}
	return nil
}

// Equal compares two statistics field by field. NaN equals NaN.
func (b BandStatistics) Equal(other BandStatistics) bool {
	return b.Valid == other.Valid &&
		floatEqual(b.Min, other.Min) &&
		floatEqual(b.Max, other.Max) &&
		floatEqual(b.Mean, other.Mean) &&
		floatEqual(b.Std, other.Std)
}

// StatsEqual compares per-band statistics in band order.
func StatsEqual(a, b []BandStatistics) bool {
	return slices.EqualFunc(a, b, BandStatistics.Equal)
}
