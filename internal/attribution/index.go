// Package attribution answers "which reference polygon contains this point?"
// in batch. An Index is built once over a set of reference polygons
// (administrative boundaries or resort footprints) and is read-only
// afterwards, so concurrent queries need no synchronization.
package attribution

import (
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/model"
)

// DefaultCellLevel is the S2 cell level used to bucket reference polygons.
// Level 7 cells are roughly 80 km across: coarse enough that country-sized
// polygons cover a manageable number of cells, fine enough that a lookup
// only scans nearby polygons.
const DefaultCellLevel = 7

// maxCoveringCells caps the covering of a single reference's bounding
// rectangle; the coverer falls back to coarser cells when the cap binds.
const maxCoveringCells = 64

// Meta is the metadata carried by a reference polygon.
type Meta struct {
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Reference is one indexed polygon: a go-geom Polygon or MultiPolygon plus
// its metadata.
type Reference struct {
	Geometry geom.T
	Meta     Meta
}

// Index is a spatial index over reference polygons. Each polygon part's
// bounding rectangle is covered with S2 cells and the reference index is
// appended to every covered cell's bucket, so buckets preserve insertion
// order.
type Index struct {
	refs    []Reference
	buckets map[s2.CellID][]int
	level   int
}

// Option configures an Index.
type Option func(*Index)

// WithCellLevel overrides the S2 bucket cell level.
func WithCellLevel(level int) Option {
	return func(ix *Index) {
		ix.level = level
	}
}

// NewIndex builds the index. References with nil or unsupported geometry are
// skipped. An empty reference set is valid: every query is simply absent.
func NewIndex(refs []Reference, opts ...Option) *Index {
	ix := &Index{
		buckets: make(map[s2.CellID][]int),
		level:   DefaultCellLevel,
	}
	for _, opt := range opts {
		opt(ix)
	}

	coverer := &s2.RegionCoverer{MaxLevel: ix.level, MaxCells: maxCoveringCells}

	for _, ref := range refs {
		if !supportedGeometry(ref.Geometry) {
			continue
		}
		idx := len(ix.refs)
		ix.refs = append(ix.refs, ref)

		for _, rect := range coveringRects(ref.Geometry) {
			for _, cell := range coverer.Covering(rect) {
				ix.buckets[cell] = append(ix.buckets[cell], idx)
			}
		}
	}

	zap.L().Debug("built attribution index",
		zap.Int("references", len(ix.refs)),
		zap.Int("cells", len(ix.buckets)),
		zap.Int("level", ix.level),
	)
	return ix
}

// Len returns the number of indexed references.
func (ix *Index) Len() int {
	return len(ix.refs)
}

// Query returns the metadata of the first indexed polygon that strictly
// contains the point, or nil when no polygon does. When several candidates'
// bounding cells cover the point, insertion order decides the winner: the
// tie-break is deterministic but arbitrary, since overlapping source
// polygons are possible.
func (ix *Index) Query(p model.LatLng) *Meta {
	if len(ix.refs) == 0 {
		return nil
	}

	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))

	// Covering cells may sit at any level up to the configured one, so a
	// lookup walks every ancestor bucket of the point's cell.
	var candidates []int
	for level := 0; level <= ix.level; level++ {
		candidates = append(candidates, ix.buckets[leaf.Parent(level)]...)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Ints(candidates)

	coord := geom.Coord{p.Lon, p.Lat}
	prev := -1
	for _, idx := range candidates {
		if idx == prev {
			continue
		}
		prev = idx
		if containsCoord(ix.refs[idx].Geometry, coord) {
			return &ix.refs[idx].Meta
		}
	}
	return nil
}

// BatchQuery resolves many points against the already-built index; entry i
// corresponds to points[i] and is nil when no polygon contains the point.
func (ix *Index) BatchQuery(points []model.LatLng) []*Meta {
	out := make([]*Meta, len(points))
	for i, p := range points {
		out[i] = ix.Query(p)
	}
	return out
}

func supportedGeometry(g geom.T) bool {
	switch t := g.(type) {
	case *geom.Polygon:
		return t != nil
	case *geom.MultiPolygon:
		return t != nil
	default:
		return false
	}
}

// coveringRects returns one bounding rectangle per polygon part. Covering
// parts individually keeps dateline-split multipolygons (Natural Earth
// splits Russia, the US, and Fiji at lon ±180) from collapsing to a
// degenerate rect whose lng interval is the single ±180 meridian. A part
// whose own lon span still reaches 180 degrees gets the full lng interval
// rather than the short way around.
func coveringRects(g geom.T) []s2.Rect {
	switch t := g.(type) {
	case *geom.Polygon:
		if t.NumLinearRings() == 0 {
			return nil
		}
		return []s2.Rect{boundsRect(t.Bounds())}
	case *geom.MultiPolygon:
		rects := make([]s2.Rect, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			if p.NumLinearRings() == 0 {
				continue
			}
			rects = append(rects, boundsRect(p.Bounds()))
		}
		return rects
	}
	return nil
}

func boundsRect(b *geom.Bounds) s2.Rect {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(b.Min(1), b.Min(0)))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.Max(1), b.Max(0)))
	if b.Max(0)-b.Min(0) >= 180 {
		rect.Lng = s1.FullInterval()
	}
	return rect
}

// containsCoord is strict point-in-polygon containment: inside the outer
// ring and outside every hole.
func containsCoord(g geom.T, c geom.Coord) bool {
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonContains(t, c)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if polygonContains(t.Polygon(i), c) {
				return true
			}
		}
	}
	return false
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	if !xy.IsPointInRing(p.Layout(), c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}
