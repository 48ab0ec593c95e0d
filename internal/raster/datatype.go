package raster

import (
	"math"
	"strings"
)

// DataType is the native pixel type of a band.
type DataType int

// Supported pixel types. Names follow GDAL.
const (
	Unknown DataType = iota
	Byte
	Int8
	UInt16
	Int16
	UInt32
	Int32
	UInt64
	Int64
	Float32
	Float64
	CInt16
	CInt32
	CFloat32
	CFloat64
)

var dataTypeNames = []string{
	"Unknown",
	"Byte",
	"Int8",
	"UInt16",
	"Int16",
	"UInt32",
	"Int32",
	"UInt64",
	"Int64",
	"Float32",
	"Float64",
	"CInt16",
	"CInt32",
	"CFloat32",
	"CFloat64",
}

// String returns the GDAL name of the type ("Byte", "Float32", ...).
func (dt DataType) String() string {
	if dt < 0 || int(dt) >= len(dataTypeNames) {
		return dataTypeNames[Unknown]
	}
	return dataTypeNames[dt]
}

// MarshalText encodes the type by name so reports and YAML stay readable.
func (dt DataType) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText decodes a type name. Unrecognized names decode to Unknown.
func (dt *DataType) UnmarshalText(text []byte) error {
	*dt = ParseDataType(string(text))
	return nil
}

// ParseDataType maps a GDAL or numpy-style type name to a DataType.
// Matching is case-insensitive; "uint8" is accepted for Byte.
func ParseDataType(name string) DataType {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "uint8":
		return Byte
	case "float":
		return Float64
	}
	for i, n := range dataTypeNames {
		if strings.ToLower(n) == name {
			return DataType(i)
		}
	}
	return Unknown
}

// Kind groups data types by numeric semantics.
type Kind int

// Numeric kinds.
const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindComplex
)

// String returns a lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Kind returns the numeric kind of the type.
func (dt DataType) Kind() Kind {
	switch dt {
	case Byte, Int8, UInt16, Int16, UInt32, Int32, UInt64, Int64:
		return KindInteger
	case Float32, Float64:
		return KindFloat
	case CInt16, CInt32, CFloat32, CFloat64:
		return KindComplex
	default:
		return KindUnknown
	}
}

// integerRange holds the representable range of each integer type.
var integerRange = map[DataType][2]float64{
	Byte:   {0, math.MaxUint8},
	Int8:   {math.MinInt8, math.MaxInt8},
	UInt16: {0, math.MaxUint16},
	Int16:  {math.MinInt16, math.MaxInt16},
	UInt32: {0, math.MaxUint32},
	Int32:  {math.MinInt32, math.MaxInt32},
	UInt64: {0, math.MaxUint64},
	Int64:  {math.MinInt64, math.MaxInt64},
}

// maxExactInteger is 2^53. From there on float64 no longer tells adjacent
// integers apart, so cells of 64-bit integer bands read as float64 cannot
// be matched exactly against a sentinel.
const maxExactInteger = 1 << 53

// Native converts v to the value it takes once stored in a cell of this
// type, returned as float64. ok is false when no cell of this type can hold
// v (a fractional or out-of-range value for an integer type, NaN for an
// integer type), and for 64-bit integer sentinels of magnitude 2^53 or more,
// which float64 cannot represent exactly.
func (dt DataType) Native(v float64) (native float64, ok bool) {
	switch dt {
	case Float32:
		return float64(float32(v)), true
	case Float64, CFloat32, CFloat64, Unknown:
		return v, true
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if r, found := integerRange[dt]; found && (v < r[0] || v > r[1]) {
		return 0, false
	}
	if (dt == Int64 || dt == UInt64) && math.Abs(v) >= maxExactInteger {
		return 0, false
	}
	return v, true
}
