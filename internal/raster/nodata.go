package raster

import (
	"encoding/json"
	"math"
	"strconv"
)

// Equal reports whether two sentinels are the same. Two NaN sentinels are
// equal, since a NaN nodata value describes the same masking either way.
func (n Nodata) Equal(other Nodata) bool {
	if n.Valid != other.Valid {
		return false
	}
	if !n.Valid {
		return true
	}
	if math.IsNaN(n.Value) && math.IsNaN(other.Value) {
		return true
	}
	return n.Value == other.Value
}

// String returns "None" for an absent sentinel, the value otherwise.
func (n Nodata) String() string {
	if !n.Valid {
		return "None"
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// MarshalJSON encodes an absent sentinel as null and non-finite values as
// the strings "NaN", "+Inf" and "-Inf", which JSON numbers cannot express.
func (n Nodata) MarshalJSON() ([]byte, error) {
	switch {
	case !n.Valid:
		return []byte("null"), nil
	case math.IsNaN(n.Value) || math.IsInf(n.Value, 0):
		return json.Marshal(n.String())
	default:
		return json.Marshal(n.Value)
	}
}

// UnmarshalJSON decodes what MarshalJSON produces.
func (n *Nodata) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NoNodata
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = NodataValue(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NodataValue(v)
	return nil
}
