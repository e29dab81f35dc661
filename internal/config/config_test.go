package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2000.0, cfg.Pipeline.AssociationRadiusM)
	assert.Equal(t, 50000.0, cfg.Pipeline.ClusterLinkDistM)
	assert.Equal(t, "boundaries", cfg.Attribution.BoundariesDir)
	assert.Equal(t, 7, cfg.Attribution.CellLevel)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "resort-cli.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RESORT_STORE_DRIVER", "postgres")
	t.Setenv("RESORT_PIPELINE_ASSOCIATION_RADIUS_M", "3500")
	t.Setenv("RESORT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 3500.0, cfg.Pipeline.AssociationRadiusM)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "resort-cli.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 7, cfg.Attribution.CellLevel)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"json info", LogConfig{Level: "info", Format: "json"}, false},
		{"console debug", LogConfig{Level: "debug", Format: "console"}, false},
		{"bad level", LogConfig{Level: "shouty", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
