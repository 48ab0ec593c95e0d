package config

import (
	"fmt"
	"strings"
)

// Property names accepted by --ignore-<name> flags and by the ignore list of
// the configuration file, in report order.
const (
	PropChecksum    = "checksum"
	PropWidth       = "width"
	PropHeight      = "height"
	PropBands       = "bands"
	PropDataType    = "dtype"
	PropNodata      = "nodata"
	PropBBox        = "bbox"
	PropCRS         = "crs"
	PropTransform   = "transform"
	PropMetadata    = "metadata"
	PropStats       = "stats"
	PropPixelValues = "pixel-values"
)

// PropertyNames lists every suppressible property in flag order.
var PropertyNames = []string{
	PropHeight,
	PropWidth,
	PropBands,
	PropDataType,
	PropNodata,
	PropBBox,
	PropCRS,
	PropTransform,
	PropMetadata,
	PropStats,
	PropPixelValues,
	PropChecksum,
}

// Ignore selects report sections to suppress. It only affects what is
// reported; every property is still computed. Metadata covers both dataset
// and per-band metadata.
type Ignore struct {
	Height      bool
	Width       bool
	Bands       bool
	DataType    bool
	Nodata      bool
	BBox        bool
	CRS         bool
	Transform   bool
	Metadata    bool
	Stats       bool
	PixelValues bool
	Checksum    bool
}

// Field returns a pointer to the switch for the named property, or nil for
// an unknown name.
func (ig *Ignore) Field(name string) *bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PropHeight:
		return &ig.Height
	case PropWidth:
		return &ig.Width
	case PropBands:
		return &ig.Bands
	case PropDataType:
		return &ig.DataType
	case PropNodata:
		return &ig.Nodata
	case PropBBox:
		return &ig.BBox
	case PropCRS:
		return &ig.CRS
	case PropTransform:
		return &ig.Transform
	case PropMetadata:
		return &ig.Metadata
	case PropStats:
		return &ig.Stats
	case PropPixelValues, "pixel_values":
		return &ig.PixelValues
	case PropChecksum:
		return &ig.Checksum
	default:
		return nil
	}
}

// Set turns on the switch for the named property.
func (ig *Ignore) Set(name string) error {
	f := ig.Field(name)
	if f == nil {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownProperty, name, strings.Join(PropertyNames, ", "))
	}
	*f = true
	return nil
}
