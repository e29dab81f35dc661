// Package model defines the in-memory data contract shared by the pipeline
// stages: raw geographic elements, ski resorts, association records, and the
// per-resort metrics produced by aggregation.
package model

// Kind discriminates the geometry flavor of an Element.
type Kind string

const (
	KindPoint   Kind = "point"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
)

// LatLng is a single geographic vertex in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ElementKey identifies an element. IDs are only unique within a kind, so
// the kind is part of the identity.
type ElementKey struct {
	Kind Kind
	ID   int64
}

// Element is a raw geographic feature: a point, line, or polygon with
// free-form tags. Elements are immutable once loaded; geometry vertex order
// is preserved exactly as read.
type Element struct {
	Kind     Kind              `json:"kind"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry []LatLng          `json:"geometry,omitempty"`
}

// Key returns the (kind, id) identity of the element.
func (e *Element) Key() ElementKey {
	return ElementKey{Kind: e.Kind, ID: e.ID}
}

// Tag returns the value for key, or "" when the tag is absent.
func (e *Element) Tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}

// RepresentativePoint returns a single point standing in for the element's
// geometry: the point itself for point elements, the arithmetic mean of the
// vertices otherwise. ok is false when no point can be derived (degenerate
// geometry); callers skip such elements silently.
func (e *Element) RepresentativePoint() (LatLng, bool) {
	n := len(e.Geometry)
	if n == 0 {
		return LatLng{}, false
	}
	if e.Kind == KindPoint || n == 1 {
		return e.Geometry[0], true
	}
	var lat, lon float64
	for _, v := range e.Geometry {
		lat += v.Lat
		lon += v.Lon
	}
	return LatLng{Lat: lat / float64(n), Lon: lon / float64(n)}, true
}

// IsClosedRing reports whether the element's geometry forms a closed ring:
// a polygon element with at least 3 vertices, or any geometry of at least 4
// vertices whose first and last vertex coincide (a ring is implicitly closed
// when first == last).
func (e *Element) IsClosedRing() bool {
	n := len(e.Geometry)
	if e.Kind == KindPolygon && n >= 3 {
		return true
	}
	return n >= 4 && e.Geometry[0] == e.Geometry[n-1]
}
