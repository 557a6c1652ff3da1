// Package geo provides great-circle distance helpers on top of the s2
// geometry library. All distances use one canonical Earth radius; callers
// pick the meter or kilometer entry point instead of converting themselves.
package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"pawrescue/apperr"
)

// earthRadiusMeters is the only Earth radius constant in the codebase.
const earthRadiusMeters = 6371000.0

// Validate rejects non-finite and out-of-range coordinates.
func Validate(lat, lng float64) error {
	return validate(lat, lng)
}

func validate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("non-finite coordinate (%v, %v): %w", lat, lng, apperr.ErrInvalidCoordinate)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("coordinate out of range (%v, %v): %w", lat, lng, apperr.ErrInvalidCoordinate)
	}
	return nil
}

// Distance returns the great-circle distance in meters between two
// latitude/longitude pairs.
func Distance(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if err := validate(lat1, lng1); err != nil {
		return 0, err
	}
	if err := validate(lat2, lng2); err != nil {
		return 0, err
	}
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * earthRadiusMeters, nil
}

// DistanceKm returns the great-circle distance in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) (float64, error) {
	m, err := Distance(lat1, lng1, lat2, lng2)
	if err != nil {
		return 0, err
	}
	return m / 1000.0, nil
}

// WithinRadius reports whether the point is within radiusMeters of center.
func WithinRadius(lat, lng, centerLat, centerLng, radiusMeters float64) (bool, error) {
	m, err := Distance(lat, lng, centerLat, centerLng)
	if err != nil {
		return false, err
	}
	return m <= radiusMeters, nil
}
