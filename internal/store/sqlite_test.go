package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powderline/resort-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testMetrics() []model.ResortMetrics {
	return []model.ResortMetrics{
		{
			ResortID: 100, ResortType: "way", Name: "Alpenglow",
			HasCentroid: true, CentroidLat: 46.005, CentroidLon: 7.005,
			LiftCount: 3, TrailCount: 2,
			LiftTypes:      map[string]int{"chair_lift": 2, "gondola": 1},
			Classification: model.ClassDownhill,
		},
		{
			ResortID: 200, ResortType: "relation", Name: "Powder Ridge",
			Classification: model.ClassNotDownhill,
		},
	}
}

func testAssocs() []model.Association {
	return []model.Association{
		{
			ResortID: 100, ResortType: "way", ResortName: "Alpenglow",
			Element: model.Element{Kind: model.KindLine, ID: 10,
				Tags: map[string]string{"aerialway": "chair_lift"}},
		},
	}
}

func TestSQLiteSaveAndListMetrics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, testMetrics(), testAssocs())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.ResortCount)
	assert.Equal(t, 1, run.AssociationCount)
	assert.WithinDuration(t, time.Now().UTC(), run.CreatedAt, time.Minute)

	metrics, err := s.ListMetrics(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	// Order and content round-trip exactly.
	assert.Equal(t, testMetrics(), metrics)
}

func TestSQLiteLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		_, err := s.LatestRun(ctx)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("newest wins", func(t *testing.T) {
		_, err := s.SaveRun(ctx, testMetrics()[:1], nil)
		require.NoError(t, err)
		second, err := s.SaveRun(ctx, testMetrics(), nil)
		require.NoError(t, err)

		latest, err := s.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, 2, latest.ResortCount)
	})
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var saved []string
	for i := 0; i < 3; i++ {
		run, err := s.SaveRun(ctx, testMetrics()[:1], nil)
		require.NoError(t, err)
		saved = append(saved, run.ID)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, saved[2], runs[0].ID, "newest first")

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default")
}

func TestSQLiteListMetricsUnknownRun(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListMetrics(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}
