package geo

import (
	"errors"
	"math"
	"testing"

	"pawrescue/apperr"
)

func TestDistance(t *testing.T) {
	// One degree of latitude is pi*R/180 meters on a sphere.
	oneDegree := math.Pi * earthRadiusMeters / 180

	tests := []struct {
		name           string
		lat1, lng1     float64
		lat2, lng2     float64
		expectedMeters float64
		tolerance      float64
	}{
		{
			name: "same point",
			lat1: 31.2304, lng1: 121.4737,
			lat2: 31.2304, lng2: 121.4737,
			expectedMeters: 0,
			tolerance:      0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			expectedMeters: oneDegree,
			tolerance:      1,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lng1: 10,
			lat2: 0, lng2: 11,
			expectedMeters: oneDegree,
			tolerance:      1,
		},
		{
			name: "antipodal points",
			lat1: 0, lng1: 0,
			lat2: 0, lng2: 180,
			expectedMeters: math.Pi * earthRadiusMeters,
			tolerance:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if err != nil {
				t.Fatalf("Distance returned error: %v", err)
			}
			if math.Abs(got-tt.expectedMeters) > tt.tolerance {
				t.Errorf("Distance = %f, expected %f (±%f)", got, tt.expectedMeters, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1, err := Distance(31.2304, 121.4737, 39.9042, 116.4074)
	if err != nil {
		t.Fatalf("Distance returned error: %v", err)
	}
	d2, err := Distance(39.9042, 116.4074, 31.2304, 121.4737)
	if err != nil {
		t.Fatalf("Distance returned error: %v", err)
	}
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
	if d1 <= 0 {
		t.Errorf("distance between distinct cities should be positive, got %f", d1)
	}
}

func TestDistanceKm(t *testing.T) {
	m, err := Distance(0, 0, 1, 0)
	if err != nil {
		t.Fatalf("Distance returned error: %v", err)
	}
	km, err := DistanceKm(0, 0, 1, 0)
	if err != nil {
		t.Fatalf("DistanceKm returned error: %v", err)
	}
	if math.Abs(km*1000-m) > 1e-6 {
		t.Errorf("DistanceKm inconsistent with Distance: %f km vs %f m", km, m)
	}
}

func TestValidateRejectsBadCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 90.0001, 0},
		{"latitude too low", -90.0001, 0},
		{"longitude too high", 0, 180.0001},
		{"longitude too low", 0, -180.0001},
		{"NaN latitude", math.NaN(), 0},
		{"NaN longitude", 0, math.NaN()},
		{"infinite latitude", math.Inf(1), 0},
		{"infinite longitude", 0, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.lat, tt.lng); !errors.Is(err, apperr.ErrInvalidCoordinate) {
				t.Errorf("Validate(%f, %f) = %v, expected ErrInvalidCoordinate", tt.lat, tt.lng, err)
			}
			if _, err := Distance(tt.lat, tt.lng, 0, 0); !errors.Is(err, apperr.ErrInvalidCoordinate) {
				t.Errorf("Distance with bad first point = %v, expected ErrInvalidCoordinate", err)
			}
			if _, err := Distance(0, 0, tt.lat, tt.lng); !errors.Is(err, apperr.ErrInvalidCoordinate) {
				t.Errorf("Distance with bad second point = %v, expected ErrInvalidCoordinate", err)
			}
		})
	}

	// Boundary values are valid.
	if err := Validate(90, 180); err != nil {
		t.Errorf("Validate(90, 180) = %v, expected nil", err)
	}
	if err := Validate(-90, -180); err != nil {
		t.Errorf("Validate(-90, -180) = %v, expected nil", err)
	}
}

func TestWithinRadius(t *testing.T) {
	center := struct{ lat, lng float64 }{31.2304, 121.4737}

	// ~1 degree of latitude north of center, about 111 km away.
	inside, err := WithinRadius(center.lat+1, center.lng, center.lat, center.lng, 200000)
	if err != nil {
		t.Fatalf("WithinRadius returned error: %v", err)
	}
	if !inside {
		t.Error("point 111km away should be inside a 200km radius")
	}

	outside, err := WithinRadius(center.lat+1, center.lng, center.lat, center.lng, 10000)
	if err != nil {
		t.Fatalf("WithinRadius returned error: %v", err)
	}
	if outside {
		t.Error("point 111km away should be outside a 10km radius")
	}
}
