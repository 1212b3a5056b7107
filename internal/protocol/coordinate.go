package protocol

import "math"

// Scale is the fixed-point multiplier applied to decimal degrees. Every
// stored coordinate, delta and radius in the system uses this one scale;
// mixing scales would silently corrupt distance comparisons.
const Scale = 100000 // 1e5: 13.70250 degrees -> 1370250

// Coordinate is one axis of a geographic position in the system's
// fixed-point encoding. The sign is carried out-of-band in Negative
// instead of in a two's-complement value so that deltas can be computed
// in a widened signed domain without underflow near zero or across
// hemispheres.
//
// Fields:
//
//	Magnitude – absolute value of the axis, scaled by Scale.
//	Negative  – true for southern latitudes / western longitudes.
//	            Must be false when Magnitude is zero.
type Coordinate struct {
	Magnitude uint64 `json:"magnitude"`
	Negative  bool   `json:"negative"`
}

// Point is an encoded (latitude, longitude) pair.
type Point struct {
	Lat Coordinate `json:"lat"`
	Lon Coordinate `json:"lon"`
}

// Encode converts decimal degrees to the fixed-point encoding. The
// magnitude is truncated, not rounded, matching the comparison semantics
// used by the geofence test. A zero magnitude never carries a sign.
func Encode(degrees float64) Coordinate {
	mag := uint64(math.Floor(math.Abs(degrees) * Scale))
	return Coordinate{
		Magnitude: mag,
		Negative:  degrees < 0 && mag != 0,
	}
}

// Decode converts the fixed-point encoding back to decimal degrees.
func (c Coordinate) Decode() float64 {
	v := float64(c.Magnitude) / Scale
	if c.Negative {
		return -v
	}
	return v
}

// signed widens the magnitude into a true signed value in encoded units.
// All real-world coordinates fit comfortably: 180 degrees scales to
// 1.8e7, far below the int64 range even after squaring deltas.
func (c Coordinate) signed() int64 {
	if c.Negative {
		return -int64(c.Magnitude)
	}
	return int64(c.Magnitude)
}
