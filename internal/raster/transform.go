package raster

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/paulmach/orb"
)

// Transform is an affine geotransform in GDAL coefficient order:
// x origin, pixel width, row rotation, y origin, column rotation, pixel height.
//
//	X = t[0] + col*t[1] + row*t[2]
//	Y = t[3] + col*t[4] + row*t[5]
type Transform [6]float64

// IdentityTransform is what GDAL reports for rasters without georeferencing.
var IdentityTransform = Transform{0, 1, 0, 0, 0, 1}

// Affine returns the coefficients in (a, b, c, d, e, f) order.
func (t Transform) Affine() [6]float64 {
	return [6]float64{t[1], t[2], t[0], t[4], t[5], t[3]}
}

// String formats the transform as an affine matrix row pair.
func (t Transform) String() string {
	a := t.Affine()
	return fmt.Sprintf("Affine(%g, %g, %g, %g, %g, %g)", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Apply maps a (col, row) pixel corner to world coordinates.
func (t Transform) Apply(col, row float64) orb.Point {
	return orb.Point{
		t[0] + col*t[1] + row*t[2],
		t[3] + col*t[4] + row*t[5],
	}
}

// Bounds returns the world-space bounding box of a width x height grid.
func (t Transform) Bounds(width, height int) orb.Bound {
	w, h := float64(width), float64(height)
	corners := []orb.Point{
		t.Apply(0, 0),
		t.Apply(w, 0),
		t.Apply(0, h),
		t.Apply(w, h),
	}
	b := orb.Bound{Min: corners[0], Max: corners[0]}
	for _, p := range corners[1:] {
		b = b.Extend(p)
	}
	return b
}

// FormatBounds renders a bound as left, bottom, right, top.
func FormatBounds(b orb.Bound) string {
	return fmt.Sprintf("BoundingBox(left=%g, bottom=%g, right=%g, top=%g)",
		b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}

// CRS is a coordinate reference system carried as WKT.
// The zero value means the raster has no CRS.
type CRS struct {
	WKT string
}

// authorityPattern matches the outermost authority of a WKT1 or WKT2 string.
var authorityPattern = regexp.MustCompile(`(?:AUTHORITY|ID)\["([^"]+)",\s*"?([0-9]+)"?\]\]\s*$`)

// IsEmpty reports whether no CRS is set.
func (c CRS) IsEmpty() bool {
	return strings.TrimSpace(c.WKT) == ""
}

// Equal reports whether two CRS definitions are textually identical,
// ignoring surrounding and repeated whitespace.
func (c CRS) Equal(other CRS) bool {
	return normalizeWKT(c.WKT) == normalizeWKT(other.WKT)
}

// Authority returns the outermost authority code such as "EPSG:4326",
// or an empty string when the WKT carries none.
func (c CRS) Authority() string {
	m := authorityPattern.FindStringSubmatch(c.WKT)
	if m == nil {
		return ""
	}
	return m[1] + ":" + m[2]
}

// String returns the authority code when known, otherwise the WKT.
func (c CRS) String() string {
	if c.IsEmpty() {
		return "None"
	}
	if auth := c.Authority(); auth != "" {
		return auth
	}
	return c.WKT
}

// MarshalJSON encodes the CRS as its WKT string.
func (c CRS) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.WKT)
}

// UnmarshalJSON decodes a WKT string.
func (c *CRS) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.WKT)
}

func normalizeWKT(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether two transforms have identical coefficients.
// A NaN coefficient never matches.
func (t Transform) Equal(other Transform) bool {
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}
