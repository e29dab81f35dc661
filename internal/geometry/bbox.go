package geometry

import (
	"math"

	"github.com/powderline/resort-cli/internal/model"
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BBoxAround returns the box spanning radiusM meters in every direction from
// the center. The longitude offset uses the center's own latitude for the
// degree scale, so boxes at different latitudes have different widths.
func BBoxAround(c model.LatLng, radiusM float64) BBox {
	degLat := radiusM / MetersPerDegreeLat
	degLon := radiusM / (MetersPerDegreeLat * math.Cos(c.Lat*math.Pi/180))
	return BBox{
		MinLat: c.Lat - degLat,
		MinLon: c.Lon - degLon,
		MaxLat: c.Lat + degLat,
		MaxLon: c.Lon + degLon,
	}
}

// Union returns the smallest box containing both boxes. A zero box is the
// identity element, so empty regions can be folded in safely.
func (b BBox) Union(o BBox) BBox {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	return BBox{
		MinLat: math.Min(b.MinLat, o.MinLat),
		MinLon: math.Min(b.MinLon, o.MinLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
	}
}

// Contains reports whether the point falls inside the box, borders included.
func (b BBox) Contains(p model.LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// IsZero reports whether the box is the zero value.
func (b BBox) IsZero() bool {
	return b == BBox{}
}
