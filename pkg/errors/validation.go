package errors

import (
	"math"
	"strings"
	"unicode"
)

// Resolution bounds shared by every grid index.
const (
	MinResolution = 0
	MaxResolution = 15
)

// MaxExtent bounds the width and height of a requested layout.
const MaxExtent = 64

// ValidateCellID performs syntactic checks on a cell identifier before it is
// handed to a grid index. It does not decide whether the cell exists; that is
// the index's job.
func ValidateCellID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCell, "cell id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidCell, "cell id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCell, "cell id contains invalid characters: %q", id)
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidCell, "cell id contains path characters: %q", id)
	}

	return nil
}

// ValidateResolution checks that r is within [MinResolution, MaxResolution].
func ValidateResolution(r int) error {
	if r < MinResolution || r > MaxResolution {
		return New(ErrCodeInvalidResolution, "resolution %d out of range [%d, %d]", r, MinResolution, MaxResolution)
	}
	return nil
}

// ValidateExtent checks a requested layout size.
func ValidateExtent(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidExtent, "width and height must be positive (got %dx%d)", width, height)
	}
	if width > MaxExtent || height > MaxExtent {
		return New(ErrCodeInvalidExtent, "extent %dx%d exceeds maximum %d", width, height, MaxExtent)
	}
	return nil
}

// ValidateLatLng checks that a coordinate pair is finite and on the globe.
func ValidateLatLng(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return New(ErrCodeInvalidCoordinate, "coordinates must be finite")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidCoordinate, "latitude %g out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return New(ErrCodeInvalidCoordinate, "longitude %g out of range [-180, 180]", lng)
	}
	return nil
}
