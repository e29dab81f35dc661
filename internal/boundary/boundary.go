// Package boundary loads administrative reference polygons from Natural
// Earth shapefiles for the attribution index. A missing shapefile is not an
// error: attribution degrades to resolving nothing.
package boundary

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/attribution"
)

// Natural Earth 10m admin shapefile names.
const (
	CountriesShapefile = "ne_10m_admin_0_countries.shp"
	StatesShapefile    = "ne_10m_admin_1_states_provinces.shp"
)

// admin0NameFields and admin1NameFields are tried in order when extracting
// the display name; Natural Earth releases are not consistent about casing.
var (
	admin0NameFields = []string{"ADMIN", "NAME", "NAME_LONG"}
	admin1NameFields = []string{"name", "NAME", "NAME_1", "admin"}
)

// LoadAdmin reads country and state reference polygons from a Natural Earth
// boundaries directory. Either slice may come back empty when the
// corresponding shapefile is absent.
func LoadAdmin(dir string) (countries, states []attribution.Reference, err error) {
	log := zap.L().With(zap.String("component", "boundary"))

	countries, err = loadShapefile(filepath.Join(dir, CountriesShapefile), admin0NameFields)
	if err != nil {
		return nil, nil, err
	}
	states, err = loadShapefile(filepath.Join(dir, StatesShapefile), admin1NameFields)
	if err != nil {
		return nil, nil, err
	}

	log.Info("loaded admin boundaries",
		zap.String("dir", dir),
		zap.Int("countries", len(countries)),
		zap.Int("states", len(states)),
	)
	return countries, states, nil
}

// loadShapefile reads polygon records, extracting the first non-empty name
// attribute from nameFields. Records without polygon geometry are skipped.
func loadShapefile(path string, nameFields []string) ([]attribution.Reference, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "boundary: stat %s", path)
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Field name → index, lowercased.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var refs []attribution.Reference
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		g := polygonToMultiPolygon(poly)
		if g == nil {
			skipped++
			continue
		}

		var name string
		for _, f := range nameFields {
			idx, ok := fieldIdx[strings.ToLower(f)]
			if !ok {
				continue
			}
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if val != "" {
				name = val
				break
			}
		}

		refs = append(refs, attribution.Reference{
			Geometry: g,
			Meta:     attribution.Meta{Name: name},
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return refs, nil
}
