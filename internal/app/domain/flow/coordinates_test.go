package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		in   LatLng
		want TargetCoordinates
	}{
		{name: "origin", in: LatLng{Lat: 0, Lng: 0}, want: TargetCoordinates{X: 50, Y: 50}},
		{name: "north west corner", in: LatLng{Lat: 90, Lng: -180}, want: TargetCoordinates{X: 0, Y: 0}},
		{name: "south east corner", in: LatLng{Lat: -90, Lng: 180}, want: TargetCoordinates{X: 100, Y: 100}},
		{name: "out of range is clamped", in: LatLng{Lat: 120, Lng: -400}, want: TargetCoordinates{X: 0, Y: 0}},
		{name: "tokyo", in: LatLng{Lat: 35.6762, Lng: 139.6503}, want: TargetCoordinates{X: 88.7918, Y: 30.1799}},
		{name: "not a number", in: LatLng{Lat: math.NaN(), Lng: 10}, want: MapCenter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(tc.in)
			assert.InDelta(t, tc.want.X, got.X, 0.001)
			assert.InDelta(t, tc.want.Y, got.Y, 0.001)
		})
	}
}
