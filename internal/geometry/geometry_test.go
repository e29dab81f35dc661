package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/powderline/resort-cli/internal/model"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     model.LatLng
		expected float64
		delta    float64
	}{
		{
			name:     "one degree of longitude at the equator",
			a:        model.LatLng{Lat: 0, Lon: 0},
			b:        model.LatLng{Lat: 0, Lon: 1},
			expected: 111194.93,
			delta:    1.0,
		},
		{
			name:     "one degree of latitude",
			a:        model.LatLng{Lat: 45, Lon: 7},
			b:        model.LatLng{Lat: 46, Lon: 7},
			expected: 111194.93,
			delta:    1.0,
		},
		{
			name:     "same point",
			a:        model.LatLng{Lat: 46.5, Lon: 7.5},
			b:        model.LatLng{Lat: 46.5, Lon: 7.5},
			expected: 0,
			delta:    0.001,
		},
		{
			name:     "symmetric",
			a:        model.LatLng{Lat: 46, Lon: 7},
			b:        model.LatLng{Lat: 45.99, Lon: 7.02},
			expected: Distance(model.LatLng{Lat: 45.99, Lon: 7.02}, model.LatLng{Lat: 46, Lon: 7}),
			delta:    1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), tt.delta)
		})
	}
}

func TestPathLength(t *testing.T) {
	a := model.LatLng{Lat: 46.0, Lon: 7.0}
	b := model.LatLng{Lat: 46.01, Lon: 7.02}
	c := model.LatLng{Lat: 46.02, Lon: 7.01}

	t.Run("two-vertex path equals distance", func(t *testing.T) {
		assert.InDelta(t, Distance(a, b), PathLength([]model.LatLng{a, b}), 1e-9)
	})

	t.Run("three vertices sum pairwise", func(t *testing.T) {
		expected := Distance(a, b) + Distance(b, c)
		assert.InDelta(t, expected, PathLength([]model.LatLng{a, b, c}), 1e-9)
	})

	t.Run("fewer than two vertices", func(t *testing.T) {
		assert.Zero(t, PathLength(nil))
		assert.Zero(t, PathLength([]model.LatLng{a}))
	})
}

func TestPolygonArea(t *testing.T) {
	t.Run("axis-aligned rectangle at the equator", func(t *testing.T) {
		// 0.01 deg x 0.01 deg, roughly 1113.2m per side.
		ring := []model.LatLng{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.01},
			{Lat: 0.01, Lon: 0.01},
			{Lat: 0.01, Lon: 0},
		}
		side := 0.01 * MetersPerDegreeLat
		assert.InEpsilon(t, side*side, PolygonArea(ring), 0.01)
	})

	t.Run("rectangle at 60 degrees north", func(t *testing.T) {
		// Longitude degrees shrink by cos(60) = 0.5.
		ring := []model.LatLng{
			{Lat: 60, Lon: 10},
			{Lat: 60, Lon: 10.02},
			{Lat: 60.01, Lon: 10.02},
			{Lat: 60.01, Lon: 10},
		}
		height := 0.01 * MetersPerDegreeLat
		width := 0.02 * MetersPerDegreeLat * math.Cos(60.005*math.Pi/180)
		assert.InEpsilon(t, width*height, PolygonArea(ring), 0.01)
	})

	t.Run("explicitly closed ring matches open ring", func(t *testing.T) {
		open := []model.LatLng{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.01},
			{Lat: 0.01, Lon: 0.01},
			{Lat: 0.01, Lon: 0},
		}
		closed := append(append([]model.LatLng{}, open...), open[0])
		assert.InDelta(t, PolygonArea(open), PolygonArea(closed), 1.0)
	})

	t.Run("vertex order reversal preserves magnitude", func(t *testing.T) {
		ring := []model.LatLng{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.01},
			{Lat: 0.01, Lon: 0.01},
		}
		reversed := []model.LatLng{ring[2], ring[1], ring[0]}
		assert.InDelta(t, PolygonArea(ring), PolygonArea(reversed), 1e-6)
	})

	t.Run("fewer than three vertices", func(t *testing.T) {
		assert.Zero(t, PolygonArea(nil))
		assert.Zero(t, PolygonArea([]model.LatLng{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}))
	})
}

func TestCentroid(t *testing.T) {
	t.Run("mean of vertices", func(t *testing.T) {
		c, ok := Centroid([]model.LatLng{
			{Lat: 0, Lon: 0},
			{Lat: 2, Lon: 4},
		})
		assert.True(t, ok)
		assert.InDelta(t, 1.0, c.Lat, 1e-9)
		assert.InDelta(t, 2.0, c.Lon, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := Centroid(nil)
		assert.False(t, ok)
	})
}
