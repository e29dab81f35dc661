package boundary

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestLoadAdminMissingShapefiles(t *testing.T) {
	countries, states, err := LoadAdmin(t.TempDir())
	require.NoError(t, err, "absent shapefiles are not an error")
	assert.Empty(t, countries)
	assert.Empty(t, states)
}

func shpRing(coords ...[2]float64) []shp.Point {
	pts := make([]shp.Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, shp.Point{X: c[0], Y: c[1]})
	}
	return pts
}

func TestPolygonToMultiPolygon(t *testing.T) {
	t.Run("single part", func(t *testing.T) {
		ring := shpRing([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10}, [2]float64{0, 0})
		p := &shp.Polygon{
			NumParts:  1,
			NumPoints: int32(len(ring)),
			Parts:     []int32{0},
			Points:    ring,
		}

		g := polygonToMultiPolygon(p)
		require.NotNil(t, g)
		mp, ok := g.(*geom.MultiPolygon)
		require.True(t, ok)
		assert.Equal(t, 4326, mp.SRID())
		require.Equal(t, 1, mp.NumPolygons())
		assert.Equal(t, 5, mp.Polygon(0).LinearRing(0).NumCoords())
	})

	t.Run("multiple parts become separate polygons", func(t *testing.T) {
		a := shpRing([2]float64{0, 0}, [2]float64{2, 0}, [2]float64{2, 2}, [2]float64{0, 2}, [2]float64{0, 0})
		b := shpRing([2]float64{10, 10}, [2]float64{12, 10}, [2]float64{12, 12}, [2]float64{10, 12}, [2]float64{10, 10})
		p := &shp.Polygon{
			NumParts:  2,
			NumPoints: int32(len(a) + len(b)),
			Parts:     []int32{0, int32(len(a))},
			Points:    append(append([]shp.Point{}, a...), b...),
		}

		g := polygonToMultiPolygon(p)
		require.NotNil(t, g)
		mp := g.(*geom.MultiPolygon)
		require.Equal(t, 2, mp.NumPolygons())
		// The second part starts where the first ended.
		c := mp.Polygon(1).LinearRing(0).Coord(0)
		assert.Equal(t, 10.0, c[0])
		assert.Equal(t, 10.0, c[1])
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Nil(t, polygonToMultiPolygon(nil))
		assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
	})
}
