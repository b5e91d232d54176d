package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.FPS)
	assert.Equal(t, "siege.db", cfg.DBPath)
	assert.False(t, cfg.TUI)
	assert.Equal(t, DefaultMatchConfig(), cfg.Match)
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := LoadConfig([]string{
		"--fps=40",
		"--match.playerKind=heavy-b",
		"--match.ships=16",
		"--match.autopilot",
		"--db.path=",
	})
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.FPS)
	assert.Equal(t, HeavyB, cfg.Match.PlayerKind)
	assert.Equal(t, 16, cfg.Match.Ships)
	assert.True(t, cfg.Match.Autopilot)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SIEGE_FPS", "30")
	t.Setenv("SIEGE_MATCH_PLANETS", "8")
	t.Setenv("SIEGE_PAIRING_SECRET", "s3cret")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 8, cfg.Match.Planets)
	assert.Equal(t, "s3cret", cfg.Pairing.Secret)

	cfg, err = LoadConfig([]string{"--fps=50"})
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.FPS, "flags beat the environment")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siege.yaml")
	data := `
fps: 25
logLevel: debug
match:
  planets: 6
  stars: 0
pairing:
  publicURL: https://siege.example/play
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.FPS)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 6, cfg.Match.Planets)
	assert.Equal(t, 0, cfg.Match.Stars)
	assert.Equal(t, "https://siege.example/play", cfg.Pairing.PublicURL)

	_, err = LoadConfig([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero fps", []string{"--fps=0"}},
		{"mothership pilot", []string{"--match.playerKind=mothership-a"}},
		{"unknown kind", []string{"--match.playerKind=frigate"}},
		{"nothing to run", []string{"--addr="}},
		{"tiny roster", []string{"--match.ships=2"}},
		{"unknown flag", []string{"--warp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("debug").String())
	assert.Equal(t, "warn", ParseLevel("WARN").String())
	assert.Equal(t, "info", ParseLevel("nonsense").String())
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn", false)
	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"level":"warn"`)
}
