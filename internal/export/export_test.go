package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/rules"
)

func sampleMetrics() model.ResortMetrics {
	return model.ResortMetrics{
		ResortID:         100,
		ResortType:       "way",
		Name:             "Alpenglow",
		Country:          "Switzerland",
		State:            "Valais",
		HasCentroid:      true,
		CentroidLat:      46.005,
		CentroidLon:      7.005,
		TotalAreaHa:      123.92,
		TotalAreaAcres:   306,
		SkiableAreaHa:    1.5,
		SkiableAreaAcres: 4,
		LiftCount:        3,
		LongestLiftMi:    0.62,
		LiftTypes:        map[string]int{"chair_lift": 2, "gondola": 1},
		TrailCount:       2,
		LongestTrailMi:   0.31,
		AvgTrailMi:       0.25,
		Difficulties:     map[string]int{"intermediate": 1, "expert": 1},
		GladedTerrain:    true,
		Classification:   model.ClassDownhill,
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(rules.Default())

	expected := []string{
		"resort_id", "resort_type", "name", "country", "state",
		"centroid_lat", "centroid_lon",
		"total_area_ha", "total_area_acres", "skiable_terrain_ha", "skiable_terrain_acres",
		"total_lifts", "longest_lift_mi", "downhill_trails", "longest_trail_mi", "avg_trail_mi",
		"trails_novice", "trails_easy", "trails_intermediate", "trails_advanced",
		"trails_expert", "trails_freeride", "trails_extreme",
		"gladed_terrain", "snow_park", "sledding_tubing", "lift_types", "resort_classification",
	}
	assert.Equal(t, expected, cols)
}

func TestWriteCSV(t *testing.T) {
	profile := rules.Default()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.ResortMetrics{sampleMetrics()}, profile))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Columns(profile), records[0])

	row := records[1]
	byCol := make(map[string]string, len(row))
	for i, col := range records[0] {
		byCol[col] = row[i]
	}

	assert.Equal(t, "100", byCol["resort_id"])
	assert.Equal(t, "Alpenglow", byCol["name"])
	assert.Equal(t, "46.005", byCol["centroid_lat"])
	assert.Equal(t, "123.92", byCol["total_area_ha"])
	assert.Equal(t, "306", byCol["total_area_acres"])
	assert.Equal(t, "3", byCol["total_lifts"])
	assert.Equal(t, "0.62", byCol["longest_lift_mi"])
	assert.Equal(t, "2", byCol["downhill_trails"])
	assert.Equal(t, "1", byCol["trails_intermediate"])
	assert.Equal(t, "1", byCol["trails_expert"])
	assert.Equal(t, "0", byCol["trails_novice"])
	assert.Equal(t, "Yes", byCol["gladed_terrain"])
	assert.Equal(t, "No", byCol["snow_park"])
	assert.Equal(t, "chair lift: 2, gondola: 1", byCol["lift_types"])
	assert.Equal(t, "downhill resort", byCol["resort_classification"])
}

func TestWriteCSVNoCentroid(t *testing.T) {
	m := model.ResortMetrics{
		ResortID:       200,
		ResortType:     "relation",
		Name:           "Unknown",
		Classification: model.ClassNotDownhill,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.ResortMetrics{m}, rules.Default()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	row := records[1]
	byCol := make(map[string]string)
	for i, col := range records[0] {
		byCol[col] = row[i]
	}

	assert.Empty(t, byCol["centroid_lat"], "no centroid renders blank, not zero")
	assert.Empty(t, byCol["centroid_lon"])
	assert.Empty(t, byCol["lift_types"])
	assert.Equal(t, "not a downhill resort", byCol["resort_classification"])
}

func TestLiftTypesLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]int
		expected string
	}{
		{"empty", nil, ""},
		{"single", map[string]int{"gondola": 1}, "gondola: 1"},
		{
			"sorted by raw type value",
			map[string]int{"t-bar": 1, "chair_lift": 4, "magic_carpet": 2},
			"chair lift: 4, magic carpet: 2, t-bar: 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LiftTypesLabel(tt.input))
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	profile := rules.Default()
	path := filepath.Join(t.TempDir(), "resorts.xlsx")
	require.NoError(t, WriteXLSX(path, []model.ResortMetrics{sampleMetrics()}, profile))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "resorts", sheet.Name)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0]
	cols := Columns(profile)
	require.Len(t, header.Cells, len(cols))
	for i, col := range cols {
		assert.Equal(t, col, header.Cells[i].Value)
	}
	assert.Equal(t, "Alpenglow", sheet.Rows[1].Cells[2].Value)
}
