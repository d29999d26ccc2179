package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecomcase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
engine:
  workers: 8
basket:
  min_support: 2
  max_line_items: 50
reference_time: "2024-04-09"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 2, cfg.Basket.MinSupport)
	assert.Equal(t, 50, cfg.Basket.MaxLineItems)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.RFM.ScoreBuckets)
	assert.Equal(t, ":8080", cfg.API.ListenAddr)
}

func TestLoad_UnparsableFileFails(t *testing.T) {
	path := writeConfig(t, "engine: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("ANALYTICS_LISTEN_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/shop", cfg.Database.DSN)
	assert.Equal(t, ":9090", cfg.API.ListenAddr)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative workers", "engine:\n  workers: -1\n", "engine.workers"},
		{"zero buckets", "rfm:\n  score_buckets: 0\n", "rfm.score_buckets"},
		{"bad reference time", "reference_time: yesterday\n", "reference_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseReferenceTime(t *testing.T) {
	cfg := Default()
	_, ok, err := cfg.ParseReferenceTime()
	require.NoError(t, err)
	assert.False(t, ok)

	cfg.ReferenceTime = "2024-04-09"
	got, ok, err := cfg.ParseReferenceTime()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), got)

	cfg.ReferenceTime = "2024-04-09T12:30:00Z"
	got, ok, err = cfg.ParseReferenceTime()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, got.Hour())
}
