package worldmesh

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/worldmesh/worldrt/rt/renderer"
)

const ConfigEnv = "WORLDMESH_CONFIG"

type Config struct {
	Renderer  RendererConfig  `yaml:"renderer"`
	World     WorldConfig     `yaml:"world"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Debug     bool            `yaml:"debug"`
}

type RendererConfig struct {
	Workers         int           `yaml:"workers"`
	MaxMeshesToLoad int           `yaml:"max_meshes_to_load"`
	IdleBudget      time.Duration `yaml:"idle_budget"`
	MovingBudget    time.Duration `yaml:"moving_budget"`
	LockChecks      bool          `yaml:"lock_checks"`
}

type WorldConfig struct {
	ViewDistance    int     `yaml:"view_distance"`
	Seed            int64   `yaml:"seed"`
	ChunksPerSecond float64 `yaml:"chunks_per_second"`
	MinSection      int     `yaml:"min_section"`
	MaxSection      int     `yaml:"max_section"`
}

type TelemetryConfig struct {
	SentryDSN     string `yaml:"sentry_dsn"`
	MetricsAddr   string `yaml:"metrics_addr"`
	StatsviewAddr string `yaml:"statsview_addr"`
}

func DefaultConfig() Config {
	return Config{
		Renderer: RendererConfig{
			Workers:         runtime.NumCPU(),
			MaxMeshesToLoad: renderer.DefaultMaxMeshesToLoad,
			IdleBudget:      renderer.DefaultIdleBudget,
			MovingBudget:    renderer.DefaultMovingBudget,
		},
		World: WorldConfig{
			ViewDistance:    8,
			Seed:            1,
			ChunksPerSecond: 200,
			MinSection:      0,
			MaxSection:      5,
		},
	}
}

// LoadConfig reads path, or the file named by WORLDMESH_CONFIG when path is empty.
// Without either it returns the defaults. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Renderer.Workers <= 0:
		return errors.Errorf("renderer.workers must be positive, got %d", c.Renderer.Workers)
	case c.Renderer.MaxMeshesToLoad <= 0:
		return errors.Errorf("renderer.max_meshes_to_load must be positive, got %d", c.Renderer.MaxMeshesToLoad)
	case c.Renderer.IdleBudget < 0 || c.Renderer.MovingBudget < 0:
		return errors.New("renderer budgets must not be negative")
	case c.World.ViewDistance < 0:
		return errors.Errorf("world.view_distance must not be negative, got %d", c.World.ViewDistance)
	case c.World.MaxSection < c.World.MinSection:
		return errors.Errorf("world.max_section %d below min_section %d", c.World.MaxSection, c.World.MinSection)
	}
	return nil
}

func (c Config) RendererOptions() renderer.Options {
	return renderer.Options{
		Workers:         c.Renderer.Workers,
		MaxMeshesToLoad: c.Renderer.MaxMeshesToLoad,
		IdleBudget:      c.Renderer.IdleBudget,
		MovingBudget:    c.Renderer.MovingBudget,
		ViewDistance:    c.World.ViewDistance,
		LockChecks:      c.Renderer.LockChecks,
	}
}
