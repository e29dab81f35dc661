package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.True(t, p.IsLiftType("chair_lift"))
	assert.True(t, p.IsLiftType("magic_carpet"))
	assert.False(t, p.IsLiftType("station"))
	assert.False(t, p.IsLiftType("pylon"))
	assert.False(t, p.IsLiftType(""))

	assert.Equal(t, DefaultTrailWidthM, p.TrailWidthM)
	assert.Equal(t, []string{"novice", "easy", "intermediate", "advanced", "expert", "freeride", "extreme"}, p.Difficulties)
}

func TestNormalizeDifficulty(t *testing.T) {
	p := Default()

	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"intermediate", "intermediate", true},
		{"Intermediate", "intermediate", true},
		{"  expert ", "expert", true},
		{"double-black", "double-black", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := p.NormalizeDifficulty(tt.raw)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("overrides merge over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"lift_types:\n  - chair_lift\n  - funicular\ntrail_width_m: 25\n",
		), 0o644))

		p, err := Load(path)
		require.NoError(t, err)

		assert.True(t, p.IsLiftType("funicular"))
		assert.False(t, p.IsLiftType("gondola"), "override replaces the lift list")
		assert.Equal(t, 25.0, p.TrailWidthM)
		// Unset fields keep defaults.
		_, ok := p.NormalizeDifficulty("expert")
		assert.True(t, ok)
	})

	t.Run("empty file keeps all defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

		p, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default().LiftTypes, p.LiftTypes)
		assert.Equal(t, DefaultTrailWidthM, p.TrailWidthM)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read profile")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("lift_types: [unterminated\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse profile")
	})
}

func TestLiftTypeLabel(t *testing.T) {
	assert.Equal(t, "chair lift", LiftTypeLabel("chair_lift"))
	assert.Equal(t, "gondola", LiftTypeLabel("gondola"))
	assert.Equal(t, "t-bar", LiftTypeLabel("t-bar"))
}
