// Package sphere provides great-circle helpers on WGS84 coordinates.
package sphere

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Bearing returns the initial great-circle bearing from one point to
// another in degrees clockwise from true north, normalized to [0, 360).
// Coincident points yield 0.
func Bearing(from, to orb.Point) float64 {
	if from.Equal(to) {
		return 0
	}
	return Normalize(geo.Bearing(from, to))
}

// Relative returns bearing measured from ref, in [0, 360).
func Relative(bearing, ref float64) float64 {
	return Normalize(bearing - ref)
}

// Normalize maps any angle in degrees into [0, 360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// Midpoint returns the simple average of two vertices, unwrapping longitude
// across the antimeridian. It is only meant for short polygon edges.
func Midpoint(a, b orb.Point) orb.Point {
	lng := b.Lon()
	if lng-a.Lon() > 180 {
		lng -= 360
	} else if a.Lon()-lng > 180 {
		lng += 360
	}
	mid := (a.Lon() + lng) / 2
	if mid > 180 {
		mid -= 360
	} else if mid < -180 {
		mid += 360
	}
	return orb.Point{mid, (a.Lat() + b.Lat()) / 2}
}

// UnwrapLongitude returns lng shifted by a multiple of 360 so that it lies
// within 180 degrees of ref.
func UnwrapLongitude(lng, ref float64) float64 {
	for lng-ref > 180 {
		lng -= 360
	}
	for ref-lng > 180 {
		lng += 360
	}
	return lng
}
