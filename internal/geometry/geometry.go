// Package geometry provides the distance, length, area, and centroid
// primitives the pipeline computes over WGS84 coordinates.
//
// Areas use a planar approximation: vertices are projected onto a local
// frame centered at the ring's mean latitude and run through the shoelace
// formula. The approximation is only valid for simple (non-self-
// intersecting) rings of resort-scale extent; it is not a geodesic area.
package geometry

import (
	"math"

	"github.com/powderline/resort-cli/internal/model"
)

const (
	// EarthRadiusM is the spherical Earth radius used for haversine distances.
	EarthRadiusM = 6371000.0

	// MetersPerDegreeLat is the local planar scale for one degree of
	// latitude; the longitude scale is MetersPerDegreeLat * cos(lat).
	MetersPerDegreeLat = 111320.0
)

// Distance returns the great-circle distance between two points in meters,
// using the haversine formula.
func Distance(a, b model.LatLng) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dphi := (b.Lat - a.Lat) * math.Pi / 180
	dlam := (b.Lon - a.Lon) * math.Pi / 180

	s := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlam/2)*math.Sin(dlam/2)
	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
}

// PathLength returns the length of a vertex path in meters: the sum of
// consecutive-vertex distances. Paths with fewer than 2 vertices have
// length 0.
func PathLength(vs []model.LatLng) float64 {
	if len(vs) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(vs)-1; i++ {
		total += Distance(vs[i], vs[i+1])
	}
	return total
}

// PolygonArea returns the approximate area of a simple ring in square
// meters. Rings with fewer than 3 vertices have area 0. The ring is treated
// as implicitly closed; a duplicated closing vertex contributes a degenerate
// zero-area edge and does not change the result.
func PolygonArea(vs []model.LatLng) float64 {
	n := len(vs)
	if n < 3 {
		return 0
	}

	var latC float64
	for _, v := range vs {
		latC += v.Lat
	}
	latC /= float64(n)

	mLat := MetersPerDegreeLat
	mLon := MetersPerDegreeLat * math.Cos(latC*math.Pi/180)

	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x1, y1 := vs[i].Lon*mLon, vs[i].Lat*mLat
		x2, y2 := vs[j].Lon*mLon, vs[j].Lat*mLat
		area += x1*y2 - x2*y1
	}
	return math.Abs(area) / 2
}

// Centroid returns the arithmetic mean of the vertices (not area-weighted).
// ok is false for an empty vertex slice.
func Centroid(vs []model.LatLng) (model.LatLng, bool) {
	if len(vs) == 0 {
		return model.LatLng{}, false
	}
	var lat, lon float64
	for _, v := range vs {
		lat += v.Lat
		lon += v.Lon
	}
	n := float64(len(vs))
	return model.LatLng{Lat: lat / n, Lon: lon / n}, true
}
