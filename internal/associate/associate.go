// Package associate relates raw elements to the resorts near them. For each
// proximity group it queries one merged region from a feature source, then
// emits an association record for every (element, resort) pair whose
// representative-point distance is within the association radius.
package associate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/powderline/resort-cli/internal/cluster"
	"github.com/powderline/resort-cli/internal/geometry"
	"github.com/powderline/resort-cli/internal/model"
)

// DefaultRadiusM is the association radius used when no override is
// configured.
const DefaultRadiusM = 2000.0

// FeatureSource supplies candidate elements located in a bounding region.
// Implementations stream from files, databases, or extraction tools; the
// pipeline only depends on this contract.
type FeatureSource interface {
	FeaturesIn(ctx context.Context, region geometry.BBox) ([]model.Element, error)
}

// SliceSource is an in-memory FeatureSource over a fixed element slice,
// filtering by each element's representative point.
type SliceSource []model.Element

// FeaturesIn returns the elements whose representative point falls in the
// region. Elements with no derivable point are never candidates.
func (s SliceSource) FeaturesIn(_ context.Context, region geometry.BBox) ([]model.Element, error) {
	var out []model.Element
	for _, el := range s {
		pt, ok := el.RepresentativePoint()
		if !ok {
			continue
		}
		if region.Contains(pt) {
			out = append(out, el)
		}
	}
	return out, nil
}

// Associate produces the association records for all groups. Groups are
// independent, so they run concurrently; each group's records land in a
// dedicated slot and the slots are concatenated in group order, keeping the
// output deterministic. Records are never deduplicated across groups or
// resorts: an element within radius of two resorts yields two records.
func Associate(ctx context.Context, resorts []model.Resort, groups []cluster.Group, src FeatureSource, radiusM float64) ([]model.Association, error) {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}

	perGroup := make([][]model.Association, len(groups))
	g, ctx := errgroup.WithContext(ctx)

	for gi := range groups {
		gi := gi
		g.Go(func() error {
			recs, err := associateGroup(ctx, resorts, groups[gi], src, radiusM)
			if err != nil {
				return err
			}
			perGroup[gi] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Association
	for _, recs := range perGroup {
		out = append(out, recs...)
	}

	zap.L().Debug("associated elements",
		zap.Int("groups", len(groups)),
		zap.Int("records", len(out)),
		zap.Float64("radius_m", radiusM),
	)
	return out, nil
}

func associateGroup(ctx context.Context, resorts []model.Resort, grp cluster.Group, src FeatureSource, radiusM float64) ([]model.Association, error) {
	region := grp.Region(resorts, radiusM)
	if region.IsZero() {
		return nil, nil
	}

	candidates, err := src.FeaturesIn(ctx, region)
	if err != nil {
		return nil, eris.Wrap(err, "associate: query region features")
	}

	var recs []model.Association
	for _, el := range candidates {
		pt, ok := el.RepresentativePoint()
		if !ok {
			// Degenerate geometry; not an error.
			continue
		}
		for _, idx := range grp.Members {
			r := &resorts[idx]
			c, ok := r.Centroid()
			if !ok {
				continue
			}
			if geometry.Distance(pt, c) <= radiusM {
				recs = append(recs, model.Association{
					ResortID:   r.ID,
					ResortType: r.Type,
					ResortName: r.Name,
					Element:    el,
				})
			}
		}
	}
	return recs, nil
}

// GroupByResort indexes association records by resort identity, preserving
// record order within each resort.
func GroupByResort(recs []model.Association) map[model.ResortKey][]model.Association {
	out := make(map[model.ResortKey][]model.Association)
	for _, rec := range recs {
		key := model.ResortKey{Type: rec.ResortType, ID: rec.ResortID}
		out[key] = append(out[key], rec)
	}
	return out
}
