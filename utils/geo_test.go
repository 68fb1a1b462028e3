package utils

import (
	"math"
	"testing"
)

func TestDistanceKMSamePoint(t *testing.T) {
	d := DistanceKM(-6.2000, 106.8166, -6.2000, 106.8166)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
	if math.IsNaN(d) {
		t.Error("expected clamped acos argument, got NaN")
	}
}

func TestDistanceKMSymmetric(t *testing.T) {
	// Jakarta to Bandung, both directions
	d1 := DistanceKM(-6.2000, 106.8166, -6.9175, 107.6191)
	d2 := DistanceKM(-6.9175, 107.6191, -6.2000, 106.8166)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("expected symmetric distance, got %f and %f", d1, d2)
	}
}

func TestDistanceKMJakartaToBandung(t *testing.T) {
	// Jakarta (-6.2000, 106.8166) to Bandung (-6.9175, 107.6191) ~ 118 km
	d := DistanceKM(-6.2000, 106.8166, -6.9175, 107.6191)
	if math.Abs(d-118) > 5 {
		t.Errorf("expected ~118 km, got %f", d)
	}
}

func TestDistanceKMAntipodal(t *testing.T) {
	// From (0,0) to (0,180) ~ half circumference ~ 20,015 km
	d := DistanceKM(0, 0, 0, 180)
	if math.Abs(d-20015) > 50 {
		t.Errorf("expected ~20015 km, got %f", d)
	}
}

func TestDistanceKMNearbyPointsNotNaN(t *testing.T) {
	// Points close enough for floating-point rounding to push the cosine
	// argument past 1 without clamping.
	d := DistanceKM(51.5074, -0.1278, 51.5074, -0.12780000000001)
	if math.IsNaN(d) {
		t.Error("expected finite distance for near-identical points, got NaN")
	}
}
