package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates implements geospatial.Located.
func (p GeoPoint) Coordinates() (float64, float64) { return p.Lat, p.Lon }

// noLocation is reported by records that carry no position. Any distance
// computed against it is NaN, so it never falls inside a radius.
var noLocation = GeoPoint{Lat: math.NaN(), Lon: math.NaN()}
