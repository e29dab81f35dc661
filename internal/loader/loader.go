// Package loader reads resort and feature collections from disk. Two
// interchange formats are supported: OSM-style JSON (an "elements" array of
// nodes, ways, and relations) and GeoJSON FeatureCollections for resort
// footprints. Malformed or unreadable files are the pipeline's only fatal
// input condition; degenerate geometry inside a well-formed file is not.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/model"
)

type osmFile struct {
	Elements []osmElement `json:"elements"`
}

type osmElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Tags     map[string]string `json:"tags"`
	Geometry []model.LatLng    `json:"geometry"`
	Bounds   *osmBounds        `json:"bounds"`
	Members  []osmMember       `json:"members"`
}

type osmBounds struct {
	MinLat float64 `json:"minlat"`
	MinLon float64 `json:"minlon"`
	MaxLat float64 `json:"maxlat"`
	MaxLon float64 `json:"maxlon"`
}

type osmMember struct {
	Role     string         `json:"role"`
	Geometry []model.LatLng `json:"geometry"`
}

func (b *osmBounds) midpoint() model.LatLng {
	return model.LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// LoadResorts reads a resort collection from an OSM JSON or GeoJSON file,
// sniffing the format from the document itself. Input order is preserved.
func LoadResorts(path string) ([]model.Resort, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read resorts %s", path)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, eris.Wrapf(err, "loader: parse resorts %s", path)
	}

	var resorts []model.Resort
	if probe.Type == "FeatureCollection" {
		resorts, err = resortsFromGeoJSON(data)
	} else {
		resorts, err = resortsFromOSM(data)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "loader: parse resorts %s", path)
	}

	zap.L().Info("loaded resorts", zap.String("path", path), zap.Int("count", len(resorts)))
	return resorts, nil
}

func resortsFromOSM(data []byte) ([]model.Resort, error) {
	var f osmFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	var resorts []model.Resort
	for _, el := range f.Elements {
		if el.Type != "way" && el.Type != "relation" {
			continue
		}
		r := model.Resort{
			ID:   el.ID,
			Type: el.Type,
			Name: resortName(el.Tags, el.Type, el.ID),
		}
		r.Geometry = resortGeometry(el)
		resorts = append(resorts, r)
	}
	return resorts, nil
}

// resortGeometry extracts the footprint for a way or relation. Relations
// fall back to the bounds midpoint as a single-point proxy, or to the
// concatenated outer member rings when no bounds are present.
func resortGeometry(el osmElement) []model.LatLng {
	if el.Type == "way" {
		return el.Geometry
	}
	if el.Bounds != nil {
		return []model.LatLng{el.Bounds.midpoint()}
	}
	var all []model.LatLng
	for _, m := range el.Members {
		if m.Role == "outer" && len(m.Geometry) > 0 {
			all = append(all, m.Geometry...)
		}
	}
	return all
}

func resortName(tags map[string]string, typ string, id int64) string {
	if n := tags["name:en"]; n != "" {
		return n
	}
	if n := tags["name"]; n != "" {
		return n
	}
	return fmt.Sprintf("%s/%d", typ, id)
}

type geojsonFile struct {
	Type     string           `json:"type"`
	Features []geojsonFeature `json:"features"`
}

type geojsonFeature struct {
	Type       string           `json:"type"`
	Properties map[string]any   `json:"properties"`
	Geometry   *geojsonGeometry `json:"geometry"`
}

type geojsonGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func resortsFromGeoJSON(data []byte) ([]model.Resort, error) {
	var f geojsonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	var resorts []model.Resort
	for _, feat := range f.Features {
		if feat.Type != "Feature" || feat.Geometry == nil {
			continue
		}

		typ := "way"
		id, ok := propID(feat.Properties, "osm_relation_id")
		if ok {
			typ = "relation"
		} else if id, ok = propID(feat.Properties, "osm_way_id"); !ok {
			if id, ok = propID(feat.Properties, "id"); !ok {
				continue
			}
		}

		ring, err := outerRing(feat.Geometry)
		if err != nil {
			return nil, err
		}
		if len(ring) == 0 {
			continue
		}

		name := propString(feat.Properties, "name", "Name")
		if name == "" {
			name = fmt.Sprintf("%s/%d", typ, id)
		}

		resorts = append(resorts, model.Resort{
			ID:       id,
			Type:     typ,
			Name:     name,
			Geometry: ring,
			Country:  propString(feat.Properties, "Country", "country"),
			State:    propString(feat.Properties, "State", "state"),
		})
	}
	return resorts, nil
}

// outerRing returns the outer ring of a Polygon, or the first polygon's
// outer ring of a MultiPolygon, as lat/lon vertices.
func outerRing(g *geojsonGeometry) ([]model.LatLng, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, err
		}
		if len(rings) == 0 {
			return nil, nil
		}
		return lonLatRing(rings[0]), nil
	case "MultiPolygon":
		var polys [][][][2]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, err
		}
		if len(polys) == 0 || len(polys[0]) == 0 {
			return nil, nil
		}
		return lonLatRing(polys[0][0]), nil
	default:
		return nil, nil
	}
}

func lonLatRing(coords [][2]float64) []model.LatLng {
	out := make([]model.LatLng, 0, len(coords))
	for _, c := range coords {
		out = append(out, model.LatLng{Lat: c[1], Lon: c[0]})
	}
	return out
}

func propID(props map[string]any, key string) (int64, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func propString(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
