package worldmesh

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := writeConfig(t, `
renderer:
  workers: 3
  idle_budget: 8ms
  lock_checks: true
world:
  view_distance: 4
  seed: 42
debug: true
telemetry:
  metrics_addr: "127.0.0.1:2112"
`)
	t.Setenv(ConfigEnv, path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Renderer.Workers)
	assert.Equal(t, 8*time.Millisecond, cfg.Renderer.IdleBudget)
	assert.Equal(t, DefaultConfig().Renderer.MovingBudget, cfg.Renderer.MovingBudget)
	assert.True(t, cfg.Renderer.LockChecks)
	assert.Equal(t, 4, cfg.World.ViewDistance)
	assert.EqualValues(t, 42, cfg.World.Seed)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:2112", cfg.Telemetry.MetricsAddr)

	opts := cfg.RendererOptions()
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 4, opts.ViewDistance)
	assert.True(t, opts.LockChecks)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "renderer: [1, 2"))
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadConfig(writeConfig(t, "renderer:\n  workers: -1\n"))
	assert.ErrorContains(t, err, "renderer.workers")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero budget", func(c *Config) { c.Renderer.IdleBudget = 0 }, true},
		{"no workers", func(c *Config) { c.Renderer.Workers = 0 }, false},
		{"no load capacity", func(c *Config) { c.Renderer.MaxMeshesToLoad = 0 }, false},
		{"negative budget", func(c *Config) { c.Renderer.MovingBudget = -time.Millisecond }, false},
		{"negative view distance", func(c *Config) { c.World.ViewDistance = -1 }, false},
		{"inverted sections", func(c *Config) { c.World.MinSection, c.World.MaxSection = 3, 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
