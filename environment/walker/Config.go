package walker

import (
	"log/slog"

	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	MinWalkingSpeed     float64 = 0.1
	MaxWalkingSpeed     float64 = 10
	DefaultWalkingSpeed float64 = 5
)

// SpeedBounds is the legal range of the target walking speed
var SpeedBounds = r1.Interval{Min: MinWalkingSpeed, Max: MaxWalkingSpeed}

// Config is the agent configuration. It is read by the observation
// encoder and the reward engine every step and mutated only by the
// episode controller at reset.
type Config struct {
	// TargetWalkingSpeed is always within SpeedBounds, see
	// SetTargetWalkingSpeed
	TargetWalkingSpeed float64 `yaml:"target_walking_speed" json:"target_walking_speed"`

	// RandomizeWalkSpeed re-samples TargetWalkingSpeed uniformly from
	// SpeedBounds at every reset
	RandomizeWalkSpeed bool `yaml:"randomize_walk_speed" json:"randomize_walk_speed"`

	Reward RewardConfig `yaml:"reward" json:"reward"`
}

// DefaultConfig returns the configuration the walker was tuned with
func DefaultConfig() Config {
	return Config{
		TargetWalkingSpeed: DefaultWalkingSpeed,
		RandomizeWalkSpeed: true,
		Reward:             DefaultRewardConfig(),
	}
}

// SetTargetWalkingSpeed sets the target walking speed, clamped to
// SpeedBounds
func (c *Config) SetTargetWalkingSpeed(speed float64) {
	c.TargetWalkingSpeed = floatutils.ClipInterval(speed, SpeedBounds)
}

// Clamped returns a copy of c whose walking speed is within
// SpeedBounds
func (c Config) Clamped() Config {
	c.SetTargetWalkingSpeed(c.TargetWalkingSpeed)
	return c
}

// LogValue implements slog.LogValuer
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("target_walking_speed", c.TargetWalkingSpeed),
		slog.Bool("randomize_walk_speed", c.RandomizeWalkSpeed),
		slog.Any("reward", c.Reward),
	)
}

// RewardConfig holds the reward shaping weights and termination
// thresholds
type RewardConfig struct {
	// ProgressWeight scales the torso velocity component toward the
	// target
	ProgressWeight float64 `yaml:"progress_weight" json:"progress_weight"`

	// DistanceWeight scales the per-step penalty on the torso-target
	// distance
	DistanceWeight float64 `yaml:"distance_weight" json:"distance_weight"`

	// StabilityBonus is awarded while the torso tilt is strictly below
	// StabilityAngle degrees
	StabilityBonus float64 `yaml:"stability_bonus" json:"stability_bonus"`
	StabilityAngle float64 `yaml:"stability_angle" json:"stability_angle"`

	// GoalBonus is awarded, and the episode ended, when the torso is
	// strictly closer than GoalDistance to the target
	GoalBonus    float64 `yaml:"goal_bonus" json:"goal_bonus"`
	GoalDistance float64 `yaml:"goal_distance" json:"goal_distance"`

	// FallPenalty is added, and the episode ended, when the torso
	// height is strictly below FallHeight. FallPenalty is negative.
	FallPenalty float64 `yaml:"fall_penalty" json:"fall_penalty"`
	FallHeight  float64 `yaml:"fall_height" json:"fall_height"`

	// TouchBonus is added for every reported touch of the target
	TouchBonus float64 `yaml:"touch_bonus" json:"touch_bonus"`
}

// DefaultRewardConfig returns the reward constants the walker was
// tuned with
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		ProgressWeight: 0.002,
		DistanceWeight: 0.0005,
		StabilityBonus: 0.002,
		StabilityAngle: 30,
		GoalBonus:      2.0,
		GoalDistance:   0.5,
		FallPenalty:    -1.0,
		FallHeight:     0.2,
		TouchBonus:     1.0,
	}
}

// LogValue implements slog.LogValuer
func (r RewardConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("progress_weight", r.ProgressWeight),
		slog.Float64("distance_weight", r.DistanceWeight),
		slog.Float64("stability_bonus", r.StabilityBonus),
		slog.Float64("stability_angle", r.StabilityAngle),
		slog.Float64("goal_bonus", r.GoalBonus),
		slog.Float64("goal_distance", r.GoalDistance),
		slog.Float64("fall_penalty", r.FallPenalty),
		slog.Float64("fall_height", r.FallHeight),
		slog.Float64("touch_bonus", r.TouchBonus),
	)
}
