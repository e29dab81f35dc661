package model

// ResortMetrics is the aggregation output: exactly one record per input
// resort, including resorts with no associated elements. Areas are reported
// in hectares and acres, lengths in miles.
type ResortMetrics struct {
	ResortID   int64  `json:"resort_id"`
	ResortType string `json:"resort_type"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	State      string `json:"state,omitempty"`

	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`
	HasCentroid bool    `json:"has_centroid"`

	TotalAreaHa      float64 `json:"total_area_ha"`
	TotalAreaAcres   float64 `json:"total_area_acres"`
	SkiableAreaHa    float64 `json:"skiable_area_ha"`
	SkiableAreaAcres float64 `json:"skiable_area_acres"`

	LiftCount     int            `json:"lift_count"`
	LongestLiftMi float64        `json:"longest_lift_mi"`
	LiftTypes     map[string]int `json:"lift_types,omitempty"`

	TrailCount     int            `json:"trail_count"`
	LongestTrailMi float64        `json:"longest_trail_mi"`
	AvgTrailMi     float64        `json:"avg_trail_mi"`
	Difficulties   map[string]int `json:"difficulties,omitempty"`

	GladedTerrain  bool `json:"gladed_terrain"`
	SnowPark       bool `json:"snow_park"`
	SleddingTubing bool `json:"sledding_tubing"`

	Classification string `json:"classification"`
}

// Classification labels. A resort is a downhill resort iff it has any
// skiable area, lift, or downhill trail; the decision is a plain boolean OR.
const (
	ClassDownhill    = "downhill resort"
	ClassNotDownhill = "not a downhill resort"
)
