package loader

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/model"
)

// LoadFeatures reads a raw feature collection from an OSM JSON file. Nodes
// become points, ways become lines or polygons (a way whose ring closes on
// itself is a polygon), and relations are reduced to a bounds-midpoint
// point proxy. Elements without any geometry are kept; downstream stages
// skip them when no representative point can be derived.
func LoadFeatures(path string) ([]model.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read features %s", path)
	}

	var f osmFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "loader: parse features %s", path)
	}

	elements := make([]model.Element, 0, len(f.Elements))
	for _, raw := range f.Elements {
		el := model.Element{ID: raw.ID, Tags: raw.Tags}

		switch raw.Type {
		case "node":
			el.Kind = model.KindPoint
			el.Geometry = []model.LatLng{{Lat: raw.Lat, Lon: raw.Lon}}
		case "way":
			el.Geometry = raw.Geometry
			if isClosed(raw.Geometry) {
				el.Kind = model.KindPolygon
			} else {
				el.Kind = model.KindLine
			}
		case "relation":
			el.Kind = model.KindPoint
			if raw.Bounds != nil {
				el.Geometry = []model.LatLng{raw.Bounds.midpoint()}
			}
		default:
			continue
		}

		elements = append(elements, el)
	}

	zap.L().Info("loaded features", zap.String("path", path), zap.Int("count", len(elements)))
	return elements, nil
}

func isClosed(vs []model.LatLng) bool {
	return len(vs) >= 4 && vs[0] == vs[len(vs)-1]
}
