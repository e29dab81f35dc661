// Package cluster partitions resorts into proximity groups so that one
// spatial extraction region never has to span the whole input area. Any two
// resorts whose centroids are within the link distance end up in the same
// group, transitively.
package cluster

import (
	"sort"

	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/geometry"
	"github.com/powderline/resort-cli/internal/model"
)

// Group is one proximity cluster: the indices of its member resorts in the
// input slice, ascending.
type Group struct {
	Members []int
}

// unionFind is a plain parent-index array with union by size and path
// halving. No pointer graph; indices only.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// Cluster partitions resorts by centroid proximity: every pair within
// linkDistM meters is unioned. Pairwise O(n²) distance checks are fine at
// the expected scale of a run (low thousands of resorts); spatial
// pre-bucketing would be a valid optimization but is not needed for
// correctness. Resorts without a derivable centroid form singleton groups.
//
// Groups come back ordered by smallest member index, members ascending, so
// the partition is deterministic regardless of pair evaluation order.
func Cluster(resorts []model.Resort, linkDistM float64) []Group {
	n := len(resorts)
	uf := newUnionFind(n)

	centroids := make([]model.LatLng, n)
	hasCentroid := make([]bool, n)
	for i := range resorts {
		centroids[i], hasCentroid[i] = resorts[i].Centroid()
	}

	for i := 0; i < n; i++ {
		if !hasCentroid[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !hasCentroid[j] {
				continue
			}
			if geometry.Distance(centroids[i], centroids[j]) <= linkDistM {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], i)
	}

	groups := make([]Group, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Ints(members)
		groups = append(groups, Group{Members: members})
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Members[0] < groups[b].Members[0]
	})

	zap.L().Debug("clustered resorts",
		zap.Int("resorts", n),
		zap.Int("groups", len(groups)),
		zap.Float64("link_dist_m", linkDistM),
	)
	return groups
}

// Region returns the merged bounding region for the group: the union of
// every member's centroid box, each sized radiusM meters using that member's
// own latitude for the longitude scale. Members without a centroid
// contribute nothing; a group of only such members yields a zero box.
func (g Group) Region(resorts []model.Resort, radiusM float64) geometry.BBox {
	var region geometry.BBox
	for _, idx := range g.Members {
		c, ok := resorts[idx].Centroid()
		if !ok {
			continue
		}
		region = region.Union(geometry.BBoxAround(c, radiusM))
	}
	return region
}
