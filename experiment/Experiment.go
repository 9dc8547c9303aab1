// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/envconfig"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/experiment/policy"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/experiment/trackers"
	"gopkg.in/yaml.v3"
)

// Experiment outlines structs that can run experiments. Experiments
// send every environment TimeStep to their Trackers, which cache the
// data they track in RAM until Save() writes it to disk. Run() runs
// episodes until the step budget is used up, and RunEpisode() runs a
// single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the budget is used up

	// Save all tracked data to disk
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t trackers.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type             `yaml:"type" json:"type"`
	MaxSteps uint             `yaml:"max_steps" json:"max_steps"`
	Seed     uint64           `yaml:"seed" json:"seed"`
	LogLevel string           `yaml:"log_level" json:"log_level"`
	Output   string           `yaml:"output" json:"output"`
	EnvConf  envconfig.Config `yaml:"environment" json:"environment"`
	Policy   policy.Config    `yaml:"policy" json:"policy"`
}

// DefaultConfig returns an online experiment of a uniformly random
// policy on the default walker environment
func DefaultConfig() Config {
	return Config{
		Type:     OnlineExp,
		MaxSteps: 10_000,
		Seed:     1,
		LogLevel: "info",
		Output:   "output",
		EnvConf:  envconfig.Default(),
		Policy:   policy.Config{Type: policy.UniformType},
	}
}

// Load loads an experiment configuration from a YAML file, merging it
// with DefaultConfig. If path is empty, DefaultConfig is returned.
func Load(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not parse config: %w", err)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// Level returns the configured logging level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("level: %w", err)
	}
	return level, nil
}

// Files holds the paths of the files an experiment writes
type Files struct {
	Environment string
	Episodes    string
	Returns     string
	Lengths     string
}

// Files returns the paths of the files written to the output directory
func (c Config) Files() Files {
	return Files{
		Environment: filepath.Join(c.Output, "environment.yaml"),
		Episodes:    filepath.Join(c.Output, "episodes.csv"),
		Returns:     filepath.Join(c.Output, "returns.csv"),
		Lengths:     filepath.Join(c.Output, "lengths.csv"),
	}
}

// CreateExp creates the experiment described by the Config, tracking
// every episode of the walker environment with CSV trackers in the
// output directory. Additional trackers may be passed in t.
func (c Config) CreateExp(logger *slog.Logger,
	t ...trackers.Tracker) (Experiment, error) {
	w, _, err := c.EnvConf.Create(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: "+
			"%w", err)
	}
	w.SetLogger(logger)

	p, err := c.Policy.Create(w.ActionSpec(), c.Seed+2)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create policy: %w", err)
	}

	if err := os.MkdirAll(c.Output, 0755); err != nil {
		return nil, fmt.Errorf("createExp: could not create output "+
			"directory: %w", err)
	}
	files := c.Files()
	if err := c.EnvConf.WriteYAML(files.Environment); err != nil {
		return nil, fmt.Errorf("createExp: %w", err)
	}
	t = append(t,
		trackers.NewEpisodes(files.Episodes, w),
		trackers.NewReturn(files.Returns),
		trackers.NewEpisodeLength(files.Lengths),
	)

	switch c.Type {
	case OnlineExp:
		o := NewOnline(w, p, c.MaxSteps, t...)
		o.SetLogger(logger)
		return o, nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
