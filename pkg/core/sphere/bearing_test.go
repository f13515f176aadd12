package sphere

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestBearingCardinal(t *testing.T) {
	origin := orb.Point{0, 0}
	tests := []struct {
		name string
		to   orb.Point
		want float64
	}{
		{"north", orb.Point{0, 1}, 0},
		{"east", orb.Point{1, 0}, 90},
		{"south", orb.Point{0, -1}, 180},
		{"west", orb.Point{-1, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBearingRange(t *testing.T) {
	pts := []orb.Point{{10, 45}, {-122.4, 37.7}, {179.9, -10}, {-179.9, -10.1}, {0, 89.9}}
	for _, a := range pts {
		for _, b := range pts {
			got := Bearing(a, b)
			if got < 0 || got >= 360 {
				t.Errorf("Bearing(%v, %v) = %v, out of [0, 360)", a, b, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-360, 0},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	if got := Relative(10, 350); got != 20 {
		t.Errorf("Relative(10, 350) = %v, want 20", got)
	}
	if got := Relative(350, 10); got != 340 {
		t.Errorf("Relative(350, 10) = %v, want 340", got)
	}
}

func TestMidpointAntimeridian(t *testing.T) {
	m := Midpoint(orb.Point{179, 0}, orb.Point{-179, 2})
	if math.Abs(math.Abs(m.Lon())-180) > 1e-9 || m.Lat() != 1 {
		t.Errorf("Midpoint() = %v, want (±180, 1)", m)
	}
}

func TestUnwrapLongitude(t *testing.T) {
	if got := UnwrapLongitude(-179, 179); got != 181 {
		t.Errorf("UnwrapLongitude(-179, 179) = %v, want 181", got)
	}
	if got := UnwrapLongitude(10, 0); got != 10 {
		t.Errorf("UnwrapLongitude(10, 0) = %v, want 10", got)
	}
}
