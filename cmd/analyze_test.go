package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powderline/resort-cli/internal/config"
	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/pipeline"
	"github.com/powderline/resort-cli/internal/rules"
)

func TestFlagOrConfig(t *testing.T) {
	assert.Equal(t, 3000.0, flagOrConfig(3000, 2000), "an explicit flag wins")
	assert.Equal(t, 2000.0, flagOrConfig(0, 2000), "zero falls back to config")
	assert.Equal(t, 2000.0, flagOrConfig(-1, 2000))
}

func TestLoadProfile(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })
	cfg = &config.Config{}

	t.Run("no path anywhere yields defaults", func(t *testing.T) {
		p, err := loadProfile("")
		require.NoError(t, err)
		assert.True(t, p.IsLiftType("chair_lift"))
	})

	t.Run("explicit path wins over config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trail_width_m: 40\n"), 0o644))

		p, err := loadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, 40.0, p.TrailWidthM)
	})

	t.Run("config path used when flag is empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trail_width_m: 20\n"), 0o644))
		cfg.Pipeline.RulesPath = path
		t.Cleanup(func() { cfg.Pipeline.RulesPath = "" })

		p, err := loadProfile("")
		require.NoError(t, err)
		assert.Equal(t, 20.0, p.TrailWidthM)
	})
}

func TestWriteCSVToFile(t *testing.T) {
	result := &pipeline.Result{
		Metrics: []model.ResortMetrics{
			{ResortID: 100, ResortType: "way", Name: "Alpenglow", Classification: model.ClassDownhill},
		},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeCSV(path, result, rules.Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resort_id,resort_type,name")
	assert.Contains(t, string(data), "Alpenglow")
}
