// Package aggregate folds association records into one metrics record per
// resort and decides the downhill/non-downhill classification.
package aggregate

import (
	"context"
	"math"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/powderline/resort-cli/internal/associate"
	"github.com/powderline/resort-cli/internal/attribution"
	"github.com/powderline/resort-cli/internal/geometry"
	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/rules"
)

// Unit conversions.
const (
	haToAcres = 2.47105
	mToMi     = 1.0 / 1609.344
	m2ToHa    = 1.0 / 10000.0
)

// Options configures a run of the engine. Both indexes are optional: a nil
// index means attribution simply resolves nothing, never an error.
type Options struct {
	Profile      *rules.Profile
	CountryIndex *attribution.Index // admin-0 polygons; Meta.Name is the country
	StateIndex   *attribution.Index // admin-1 polygons; Meta.Name is the state
}

// Aggregate produces exactly one ResortMetrics per input resort, in input
// order. Resorts are independent, so they are folded concurrently; each
// result is written to its input-order slot.
func Aggregate(ctx context.Context, resorts []model.Resort, assocs []model.Association, opts Options) ([]model.ResortMetrics, error) {
	profile := opts.Profile
	if profile == nil {
		profile = rules.Default()
	}

	byResort := associate.GroupByResort(assocs)
	out := make([]model.ResortMetrics, len(resorts))

	g, _ := errgroup.WithContext(ctx)
	for i := range resorts {
		i := i
		g.Go(func() error {
			out[i] = aggregateOne(&resorts[i], byResort[resorts[i].Key()], profile, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("aggregated resorts",
		zap.Int("resorts", len(resorts)),
		zap.Int("associations", len(assocs)),
	)
	return out, nil
}

// accumulator holds the per-resort mutable state for a single fold. A fresh
// one is built per resort per run; nothing is shared or reused.
type accumulator struct {
	skiableM2    float64
	trailCount   int
	trailLengths []float64
	maxLiftM     float64
	liftCount    int
	liftTypes    map[string]int
	difficulties map[string]int
	gladed       bool
	snowPark     bool
	sledding     bool
	seenLifts    map[model.ElementKey]bool
	seenTrails   map[model.ElementKey]bool
}

func aggregateOne(r *model.Resort, recs []model.Association, profile *rules.Profile, opts Options) model.ResortMetrics {
	m := model.ResortMetrics{
		ResortID:   r.ID,
		ResortType: r.Type,
		Name:       r.Name,
		Country:    r.Country,
		State:      r.State,
	}

	if c, ok := r.Centroid(); ok {
		m.HasCentroid = true
		m.CentroidLat = roundTo(c.Lat, 6)
		m.CentroidLon = roundTo(c.Lon, 6)
		resolveAdmin(&m, c, opts)
	}

	var totalM2 float64
	if len(r.Geometry) >= 3 {
		totalM2 = geometry.PolygonArea(r.Geometry)
	}

	acc := &accumulator{
		liftTypes:    make(map[string]int),
		difficulties: make(map[string]int),
		seenLifts:    make(map[model.ElementKey]bool),
		seenTrails:   make(map[model.ElementKey]bool),
	}
	for di := range recs {
		acc.fold(&recs[di].Element, profile)
	}

	m.TotalAreaHa = roundTo(totalM2*m2ToHa, 2)
	m.TotalAreaAcres = math.Round(m.TotalAreaHa * haToAcres)
	m.SkiableAreaHa = roundTo(acc.skiableM2*m2ToHa, 2)
	m.SkiableAreaAcres = math.Round(m.SkiableAreaHa * haToAcres)

	m.LiftCount = acc.liftCount
	if acc.maxLiftM > 0 {
		m.LongestLiftMi = roundTo(acc.maxLiftM*mToMi, 2)
	}
	if len(acc.liftTypes) > 0 {
		m.LiftTypes = acc.liftTypes
	}

	m.TrailCount = acc.trailCount
	if len(acc.trailLengths) > 0 {
		var longest, sum float64
		for _, l := range acc.trailLengths {
			sum += l
			if l > longest {
				longest = l
			}
		}
		m.LongestTrailMi = roundTo(longest*mToMi, 2)
		m.AvgTrailMi = roundTo(sum/float64(len(acc.trailLengths))*mToMi, 2)
	}
	if len(acc.difficulties) > 0 {
		m.Difficulties = acc.difficulties
	}

	m.GladedTerrain = acc.gladed
	m.SnowPark = acc.snowPark
	m.SleddingTubing = acc.sledding

	if acc.skiableM2 > 0 || acc.liftCount > 0 || acc.trailCount > 0 {
		m.Classification = model.ClassDownhill
	} else {
		m.Classification = model.ClassNotDownhill
	}
	return m
}

func (acc *accumulator) fold(el *model.Element, profile *rules.Profile) {
	pisteType := el.Tag(rules.TagPisteType)
	switch pisteType {
	case rules.PisteFreestyle:
		acc.snowPark = true
	case rules.PisteSled, rules.PisteTubing:
		acc.sledding = true
	case rules.PisteDownhill:
		acc.foldTrail(el, profile)
	}

	if aw := el.Tag(rules.TagAerialway); profile.IsLiftType(aw) {
		acc.foldLift(el, aw)
	}
}

func (acc *accumulator) foldTrail(el *model.Element, profile *rules.Profile) {
	key := el.Key()
	if acc.seenTrails[key] {
		return
	}
	acc.seenTrails[key] = true

	acc.trailCount++
	if d, ok := profile.NormalizeDifficulty(el.Tag(rules.TagPisteDifficulty)); ok {
		acc.difficulties[d]++
	}
	if el.Tag(rules.TagPisteGrooming) == "no" {
		// Ungroomed stands in for true glade classification; a known
		// approximation.
		acc.gladed = true
	}

	switch {
	case el.IsClosedRing():
		// Polygon trails contribute area only; longest/avg trail length is
		// a linear-only concept.
		acc.skiableM2 += geometry.PolygonArea(el.Geometry)
	case len(el.Geometry) >= 2:
		width := profile.TrailWidthM
		if w, err := strconv.ParseFloat(el.Tag(rules.TagPisteWidth), 64); err == nil && w > 0 {
			width = w
		}
		length := geometry.PathLength(el.Geometry)
		acc.skiableM2 += length * width
		acc.trailLengths = append(acc.trailLengths, length)
	}
}

func (acc *accumulator) foldLift(el *model.Element, aerialway string) {
	key := el.Key()
	if acc.seenLifts[key] {
		return
	}
	acc.seenLifts[key] = true

	acc.liftCount++
	acc.liftTypes[aerialway]++
	if len(el.Geometry) >= 2 {
		if l := geometry.PathLength(el.Geometry); l > acc.maxLiftM {
			acc.maxLiftM = l
		}
	}
}

// resolveAdmin fills country and state from the attribution indexes for
// resorts that reached aggregation without them. Absent lookups leave the
// fields untouched.
func resolveAdmin(m *model.ResortMetrics, c model.LatLng, opts Options) {
	if m.Country == "" && opts.CountryIndex != nil {
		if meta := opts.CountryIndex.Query(c); meta != nil {
			m.Country = meta.Name
		}
	}
	if m.State == "" && opts.StateIndex != nil {
		if meta := opts.StateIndex.Query(c); meta != nil {
			m.State = meta.Name
		}
	}
}

func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
