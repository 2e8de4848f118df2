package flow

import "math"

// LatLng is a geographic position as returned by the resolver.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TargetCoordinates are percentage offsets used to place the map pin.
type TargetCoordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MapCenter is used when a result carries no usable position.
var MapCenter = TargetCoordinates{X: 50, Y: 50}

// Project converts a lat/lng pair to equirectangular percentage offsets.
// Inputs are clamped to valid ranges so the result always lies in [0,100].
func Project(p LatLng) TargetCoordinates {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return MapCenter
	}
	lat := clamp(p.Lat, -90, 90)
	lng := clamp(p.Lng, -180, 180)

	return TargetCoordinates{
		X: clamp((lng+180)/360*100, 0, 100),
		Y: clamp((90-lat)/180*100, 0, 100),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
