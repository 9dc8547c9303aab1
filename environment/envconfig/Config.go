// Package envconfig provides configuration of the walker environment
// with default physical parameters, reward constants and target
// placement. Configurations are YAML and JSON serializable, and every
// field not present in a configuration file keeps its embedded default.
package envconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/box2d/ragdoll"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Names of the parameters a training harness may push through
// Config.Parameters
const (
	TargetWalkingSpeed = "target_walking_speed"
	RandomizeWalkSpeed = "randomize_walk_speed"
)

// ErrUnknownParameter is returned when a configuration names a
// parameter the walker does not read
var ErrUnknownParameter = errors.New("unknown environment parameter")

// Target configures the target the walker moves toward
type Target struct {
	Position       [3]float64 `yaml:"position" json:"position"`
	Radius         float64    `yaml:"radius" json:"radius"`
	SpawnRadius    float64    `yaml:"spawn_radius" json:"spawn_radius"`
	RespawnOnTouch bool       `yaml:"respawn_on_touch" json:"respawn_on_touch"`
}

// Config is a configuration of the walker environment
type Config struct {
	EpisodeCutoff int            `yaml:"episode_cutoff" json:"episode_cutoff"`
	Discount      float64        `yaml:"discount" json:"discount"`
	Walker        walker.Config  `yaml:"walker" json:"walker"`
	Physics       ragdoll.Config `yaml:"physics" json:"physics"`
	Target        Target         `yaml:"target" json:"target"`

	// Parameters holds values pushed by the training harness. They are
	// read once, when the environment is created, and take precedence
	// over the Walker configuration.
	Parameters map[string]float64 `yaml:"parameters" json:"parameters"`
}

// Default returns the embedded default configuration
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("default: could not parse embedded defaults: %v",
			err))
	}
	return c
}

// Load loads a configuration from a YAML or JSON file, merging it with
// the embedded defaults. Files with a .json extension are decoded as
// JSON, all others as YAML. If path is empty, only the defaults are
// used.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}
	if err := c.Unmarshal(data, filepath.Ext(path)); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// Unmarshal decodes data over c, overwriting only the fields present in
// data. The extension selects the format, see Load.
func (c *Config) Unmarshal(data []byte, extension string) error {
	if strings.EqualFold(extension, ".json") {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("unmarshal: could not parse JSON: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal: could not parse YAML: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("writeYAML: could not marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writeYAML: could not write config: %w", err)
	}
	return nil
}

// Validate returns an error if an environment cannot be created from c
func (c Config) Validate() error {
	if c.EpisodeCutoff < 0 {
		return fmt.Errorf("validate: episode cutoff must be non-negative, "+
			"have(%v)", c.EpisodeCutoff)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have(%v)",
			c.Discount)
	}
	if c.Target.Radius < 0 || c.Target.SpawnRadius < 0 {
		return fmt.Errorf("validate: target radii must be non-negative, "+
			"have(%v, %v)", c.Target.Radius, c.Target.SpawnRadius)
	}
	for name := range c.Parameters {
		switch name {
		case TargetWalkingSpeed, RandomizeWalkSpeed:
		default:
			return fmt.Errorf("validate: %w: %v", ErrUnknownParameter, name)
		}
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// WalkerConfig returns the agent configuration with the harness
// parameters applied
func (c Config) WalkerConfig() walker.Config {
	cfg := c.Walker
	if v, ok := c.Parameters[RandomizeWalkSpeed]; ok {
		cfg.RandomizeWalkSpeed = v != 0
	}
	if v, ok := c.Parameters[TargetWalkingSpeed]; ok {
		cfg.SetTargetWalkingSpeed(v)
	}
	return cfg.Clamped()
}

// Create returns the walker environment described by the Config, driving
// a Box2D ragdoll, as well as the first timestep of the environment
func (c Config) Create(seed uint64) (*walker.Walker, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	body, err := ragdoll.New(c.Physics, mgl64.Vec3{})
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	// The target draws from its own stream so that target respawns do
	// not shift episode starts
	target := walker.NewTarget(mgl64.Vec3(c.Target.Position),
		c.Target.Radius, c.Target.SpawnRadius, c.Target.RespawnOnTouch,
		seed+1)

	w, step, err := walker.New(body, target, nil, c.WalkerConfig(),
		c.EpisodeCutoff, seed, c.Discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return w, step, nil
}

// LogValue implements slog.LogValuer
func (c Config) LogValue() slog.Value {
	names := make([]string, 0, len(c.Parameters))
	for name := range c.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]any, 0, len(names))
	for _, name := range names {
		params = append(params, slog.Float64(name, c.Parameters[name]))
	}

	return slog.GroupValue(
		slog.Int("episode_cutoff", c.EpisodeCutoff),
		slog.Float64("discount", c.Discount),
		slog.Any("walker", c.WalkerConfig()),
		slog.Any("physics", c.Physics),
		slog.Group("parameters", params...),
	)
}
