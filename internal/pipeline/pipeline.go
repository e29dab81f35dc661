// Package pipeline wires the stages together: clustering, association,
// attribution, and aggregation. A run consumes fully materialized inputs and
// either produces one complete result set or fails entirely; there is no
// partial-completion contract.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/aggregate"
	"github.com/powderline/resort-cli/internal/associate"
	"github.com/powderline/resort-cli/internal/attribution"
	"github.com/powderline/resort-cli/internal/cluster"
	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/rules"
)

// Params configures a pipeline run. Zero values fall back to the package
// defaults; both indexes are optional.
type Params struct {
	AssociationRadiusM float64
	ClusterLinkDistM   float64
	Profile            *rules.Profile
	CountryIndex       *attribution.Index
	StateIndex         *attribution.Index
}

// DefaultClusterLinkDistM bounds how far apart two resorts can sit and
// still share one extraction region.
const DefaultClusterLinkDistM = 50000.0

// Result is the output of one complete run.
type Result struct {
	Groups       []cluster.Group
	Associations []model.Association
	Metrics      []model.ResortMetrics
}

// Run executes the full pipeline over the given resorts and feature source.
// The metrics come back in resort input order, exactly one per resort.
func Run(ctx context.Context, resorts []model.Resort, src associate.FeatureSource, p Params) (*Result, error) {
	if p.AssociationRadiusM <= 0 {
		p.AssociationRadiusM = associate.DefaultRadiusM
	}
	if p.ClusterLinkDistM <= 0 {
		p.ClusterLinkDistM = DefaultClusterLinkDistM
	}

	groups := cluster.Cluster(resorts, p.ClusterLinkDistM)

	assocs, err := associate.Associate(ctx, resorts, groups, src, p.AssociationRadiusM)
	if err != nil {
		return nil, err
	}

	metrics, err := aggregate.Aggregate(ctx, resorts, assocs, aggregate.Options{
		Profile:      p.Profile,
		CountryIndex: p.CountryIndex,
		StateIndex:   p.StateIndex,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("pipeline run complete",
		zap.Int("resorts", len(resorts)),
		zap.Int("groups", len(groups)),
		zap.Int("associations", len(assocs)),
	)
	return &Result{Groups: groups, Associations: assocs, Metrics: metrics}, nil
}
