// Package export writes ResortMetrics collections to CSV and XLSX with a
// fixed, deterministic column order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/rules"
)

var baseColumns = []string{
	"resort_id", "resort_type", "name", "country", "state",
	"centroid_lat", "centroid_lon",
	"total_area_ha", "total_area_acres", "skiable_terrain_ha", "skiable_terrain_acres",
	"total_lifts", "longest_lift_mi", "downhill_trails", "longest_trail_mi", "avg_trail_mi",
}

var tailColumns = []string{
	"gladed_terrain", "snow_park", "sledding_tubing", "lift_types", "resort_classification",
}

// Columns returns the full header for the given profile: base columns, one
// trails_<difficulty> column per recognized difficulty, then the tail.
func Columns(profile *rules.Profile) []string {
	cols := make([]string, 0, len(baseColumns)+len(profile.Difficulties)+len(tailColumns))
	cols = append(cols, baseColumns...)
	for _, d := range profile.Difficulties {
		cols = append(cols, "trails_"+d)
	}
	return append(cols, tailColumns...)
}

// Row renders one metrics record in Columns order.
func Row(m *model.ResortMetrics, profile *rules.Profile) []string {
	centroidLat, centroidLon := "", ""
	if m.HasCentroid {
		centroidLat = formatFloat(m.CentroidLat)
		centroidLon = formatFloat(m.CentroidLon)
	}

	row := []string{
		strconv.FormatInt(m.ResortID, 10),
		m.ResortType,
		m.Name,
		m.Country,
		m.State,
		centroidLat,
		centroidLon,
		formatFloat(m.TotalAreaHa),
		formatFloat(m.TotalAreaAcres),
		formatFloat(m.SkiableAreaHa),
		formatFloat(m.SkiableAreaAcres),
		strconv.Itoa(m.LiftCount),
		formatFloat(m.LongestLiftMi),
		strconv.Itoa(m.TrailCount),
		formatFloat(m.LongestTrailMi),
		formatFloat(m.AvgTrailMi),
	}
	for _, d := range profile.Difficulties {
		row = append(row, strconv.Itoa(m.Difficulties[d]))
	}
	return append(row,
		yesNo(m.GladedTerrain),
		yesNo(m.SnowPark),
		yesNo(m.SleddingTubing),
		LiftTypesLabel(m.LiftTypes),
		m.Classification,
	)
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, metrics []model.ResortMetrics, profile *rules.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(profile)); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for i := range metrics {
		if err := cw.Write(Row(&metrics[i], profile)); err != nil {
			return eris.Wrapf(err, "export: write csv row %d", i)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// LiftTypesLabel renders per-type lift counts as a stable display string,
// e.g. "chair lift: 2, gondola: 1", sorted by raw type value.
func LiftTypesLabel(liftTypes map[string]int) string {
	if len(liftTypes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(liftTypes))
	for k := range liftTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %d", rules.LiftTypeLabel(k), liftTypes[k])
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
