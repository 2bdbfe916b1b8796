package geospatial

import "math"

const earthRadiusKm = 6371.0

// Located is anything that can report a WGS 84 position.
type Located interface {
	Coordinates() (lat, lon float64)
}

// Point is a bare latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// Coordinates implements Located.
func (p Point) Coordinates() (float64, float64) { return p.Lat, p.Lon }

// DistanceKm returns the great-circle distance in kilometers between a and b
// using the haversine formula on a spherical earth.
// NaN or infinite coordinates yield NaN.
func DistanceKm(a, b Located) float64 {
	lat1, lon1 := a.Coordinates()
	lat2, lon2 := b.Coordinates()

	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLat := phi2 - phi1
	dLon := toRad(lon2) - toRad(lon1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can leave h a hair outside [0, 1] for near-antipodal points.
	h = math.Max(0, math.Min(h, 1))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(Point{Lat: lat1, Lon: lon1}, Point{Lat: lat2, Lon: lon2}) * 1000
}

// boxPad widens every edge of a Box so rows exactly on the circle survive
// floating point differences between the box and DistanceKm.
const boxPad = 1e-9

// Box is a latitude/longitude window around a search circle. Lon holds one
// range, or two when the circle crosses the antimeridian.
type Box struct {
	MinLat, MaxLat float64
	Lon            [][2]float64
}

// Contains reports whether lat/lon falls inside the window.
func (b Box) Contains(lat, lon float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	for _, r := range b.Lon {
		if lon >= r[0] && lon <= r[1] {
			return true
		}
	}
	return false
}

// BoundingBox returns a window around a point that holds every location
// within radiusMeters of it. A circle reaching a pole spans all longitudes.
func BoundingBox(lat, lon, radiusMeters float64) Box {
	ang := math.Max(radiusMeters, 0) / 1000 / earthRadiusKm
	whole := Box{MinLat: -90, MaxLat: 90, Lon: [][2]float64{{-180, 180}}}
	if ang >= math.Pi {
		return whole
	}

	dLat := toDeg(ang) + boxPad
	minLat, maxLat := lat-dLat, lat+dLat
	if minLat <= -90 || maxLat >= 90 {
		return Box{MinLat: math.Max(minLat, -90), MaxLat: math.Min(maxLat, 90), Lon: whole.Lon}
	}

	ratio := math.Sin(ang) / math.Cos(toRad(lat))
	if ratio >= 1 {
		return Box{MinLat: minLat, MaxLat: maxLat, Lon: whole.Lon}
	}
	dLon := toDeg(math.Asin(ratio)) + boxPad
	if dLon >= 180 {
		return Box{MinLat: minLat, MaxLat: maxLat, Lon: whole.Lon}
	}

	lon = math.Remainder(lon, 360)
	minLon, maxLon := lon-dLon, lon+dLon
	box := Box{MinLat: minLat, MaxLat: maxLat}
	switch {
	case minLon < -180:
		box.Lon = [][2]float64{{minLon + 360, 180}, {-180, maxLon}}
	case maxLon > 180:
		box.Lon = [][2]float64{{minLon, 180}, {-180, maxLon - 360}}
	default:
		box.Lon = [][2]float64{{minLon, maxLon}}
	}
	return box
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

func toDeg(rad float64) float64 {
	return rad * (180 / math.Pi)
}
