package model

// ResortKey identifies a resort. Upstream IDs are not globally unique across
// source kinds, so the type discriminator is part of the identity.
type ResortKey struct {
	Type string
	ID   int64
}

// Resort is one ski area: the unit of aggregation. Geometry is a polygon
// ring, or a single-point proxy derived from a bounding box when no outer
// geometry is available. Country and State start empty and may be filled by
// attribution. Resorts are read-only for the duration of a run.
type Resort struct {
	ID       int64    `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Geometry []LatLng `json:"geometry,omitempty"`
	Country  string   `json:"country,omitempty"`
	State    string   `json:"state,omitempty"`
}

// Key returns the (type, id) identity of the resort.
func (r *Resort) Key() ResortKey {
	return ResortKey{Type: r.Type, ID: r.ID}
}

// Centroid returns the arithmetic mean of the resort's geometry vertices.
// ok is false when the resort has no geometry at all.
func (r *Resort) Centroid() (LatLng, bool) {
	n := len(r.Geometry)
	if n == 0 {
		return LatLng{}, false
	}
	var lat, lon float64
	for _, v := range r.Geometry {
		lat += v.Lat
		lon += v.Lon
	}
	return LatLng{Lat: lat / float64(n), Lon: lon / float64(n)}, true
}

// Association relates one element to one resort. The relationship is
// many-to-many: an element within radius of two resorts yields two records,
// and that duplication is intentional.
type Association struct {
	ResortID   int64   `json:"resort_id"`
	ResortType string  `json:"resort_type"`
	ResortName string  `json:"resort_name"`
	Element    Element `json:"element"`
}
