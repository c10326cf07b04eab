// Package config provides configuration loading and access for the hosts.
// The engine itself takes explicit parameters and never reads this package.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all host configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Camera      CameraConfig      `yaml:"camera"`
	Pool        PoolConfig        `yaml:"pool"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Turbulence  TurbulenceConfig  `yaml:"turbulence"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Environment EnvironmentConfig `yaml:"environment"`
	Scenario    []ScenarioEvent   `yaml:"scenario"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a YAML-friendly [x, y, z] triple.
type Vec3 [3]float64

// Vec converts to an r3.Vec.
func (v Vec3) Vec() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// ScreenConfig holds viewer window parameters.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Target   Vec3    `yaml:"target"`
	Distance float64 `yaml:"distance"`
	Yaw      float64 `yaml:"yaw"`   // degrees
	Pitch    float64 `yaml:"pitch"` // degrees
	FovY     float64 `yaml:"fov_y"` // degrees
}

// PoolConfig sizes each effect's particle pool and the worker pool.
type PoolConfig struct {
	MaxParticles      int `yaml:"max_particles"`
	Workers           int `yaml:"workers"`
	ParallelThreshold int `yaml:"parallel_threshold"`
	MaxEffects        int `yaml:"max_effects"`
}

// PhysicsConfig holds the fixed timestep and world-level physics.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`
	AirDensity         float64 `yaml:"air_density"`
	AmbientTemperature float64 `yaml:"ambient_temperature"`
	BoundsMin          Vec3    `yaml:"bounds_min"`
	BoundsMax          Vec3    `yaml:"bounds_max"`
}

// TurbulenceConfig selects the turbulence field used by advanced effects.
type TurbulenceConfig struct {
	Source string `yaml:"source"` // sine | simplex
	Mode   string `yaml:"mode"`   // emission | continuous
	Seed   int64  `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// InfluencerConfig is the shared shape of every environmental influencer.
type InfluencerConfig struct {
	Position Vec3    `yaml:"position"`
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Falloff  float64 `yaml:"falloff"`
}

// ForceFieldConfig is a directional push.
type ForceFieldConfig struct {
	InfluencerConfig `yaml:",inline"`
	Force            Vec3 `yaml:"force"`
}

// WindZoneConfig is a region of moving air.
type WindZoneConfig struct {
	InfluencerConfig `yaml:",inline"`
	Direction        Vec3    `yaml:"direction"`
	FlowSpeed        float64 `yaml:"flow_speed"`
	Turbulence       float64 `yaml:"turbulence"`
}

// EnvironmentConfig lists the influencers installed into every advanced effect.
type EnvironmentConfig struct {
	ForceFields []ForceFieldConfig `yaml:"force_fields"`
	Attractors  []InfluencerConfig `yaml:"attractors"`
	WindZones   []WindZoneConfig   `yaml:"wind_zones"`
}

// ScenarioEvent spawns one effect at a point in simulated time.
type ScenarioEvent struct {
	At        float64 `yaml:"at"` // seconds
	Preset    string  `yaml:"preset"`
	Position  Vec3    `yaml:"position"`
	Direction Vec3    `yaml:"direction"`
	Intensity float64 `yaml:"intensity"`
	Radius    float64 `yaml:"radius"`
	Height    float64 `yaml:"height"`
	Density   float64 `yaml:"density"`
	Advanced  bool    `yaml:"advanced"`
	Collision bool    `yaml:"collision"`
	TTL       float64 `yaml:"ttl"` // stop continuous emission after this many seconds
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT         float64 // Physics.DT, defaulting to 1/60
	TicksPerS  float64 // 1 / DT
	Bounds     r3.Box  // canonical collision box
	LastEventT float64 // time of the final scenario event
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Physics.DT < 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Pool.MaxParticles < 0 {
		return fmt.Errorf("pool.max_particles must not be negative, got %d", c.Pool.MaxParticles)
	}
	for i, ev := range c.Scenario {
		if ev.Preset == "" {
			return fmt.Errorf("scenario[%d]: missing preset", i)
		}
		if ev.At < 0 {
			return fmt.Errorf("scenario[%d]: negative time %v", i, ev.At)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	dt := c.Physics.DT
	if dt == 0 {
		dt = 1.0 / 60
	}
	c.Derived.DT = dt
	c.Derived.TicksPerS = 1 / dt

	c.Derived.Bounds = r3.Box{Min: c.Physics.BoundsMin.Vec(), Max: c.Physics.BoundsMax.Vec()}.Canon()

	// Events fire in time order regardless of file order.
	sort.SliceStable(c.Scenario, func(i, j int) bool {
		return c.Scenario[i].At < c.Scenario[j].At
	})
	c.Derived.LastEventT = 0
	if n := len(c.Scenario); n > 0 {
		c.Derived.LastEventT = c.Scenario[n-1].At
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
