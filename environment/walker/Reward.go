package walker

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
)

// RewardTerms breaks a step's reward into its additive terms
type RewardTerms struct {
	Progress  float64
	Distance  float64
	Stability float64
	Goal      float64
	Fall      float64
	Touch     float64
}

// Sum returns the total reward
func (r RewardTerms) Sum() float64 {
	return r.Progress + r.Distance + r.Stability + r.Goal + r.Fall + r.Touch
}

// LogValue implements slog.LogValuer
func (r RewardTerms) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("progress", r.Progress),
		slog.Float64("distance", r.Distance),
		slog.Float64("stability", r.Stability),
		slog.Float64("goal", r.Goal),
		slog.Float64("fall", r.Fall),
		slog.Float64("touch", r.Touch),
	)
}

// Outcome is the result of evaluating one step
type Outcome struct {
	Terms       RewardTerms
	GoalReached bool
	Fell        bool
}

// Reward returns the total reward of the step
func (o Outcome) Reward() float64 {
	return o.Terms.Sum()
}

// Terminal returns whether the step ends the episode
func (o Outcome) Terminal() bool {
	return o.GoalReached || o.Fell
}

// EndType returns why the episode ended, or timestep.Unset if the step
// is not terminal. A fall takes precedence when both conditions hold.
func (o Outcome) EndType() ts.EndType {
	switch {
	case o.Fell:
		return ts.Fell
	case o.GoalReached:
		return ts.GoalReached
	default:
		return ts.Unset
	}
}

// Rewarder is the reward and termination engine. Touches reported
// between two evaluations are paid out by the next evaluation.
type Rewarder struct {
	RewardConfig
	touches int
}

// NewRewarder returns a new Rewarder using the given constants
func NewRewarder(c RewardConfig) *Rewarder {
	return &Rewarder{RewardConfig: c}
}

// Touched records that the target volume reported a touch
func (r *Rewarder) Touched() {
	r.touches++
}

// PendingTouches returns the number of touches not yet paid out
func (r *Rewarder) PendingTouches() int {
	return r.touches
}

// Reset discards touches not yet paid out
func (r *Rewarder) Reset() {
	r.touches = 0
}

// Evaluate computes the reward and termination of a step from the
// post-physics body-part snapshot and the target position, then clears
// pending touches
func (r *Rewarder) Evaluate(p *Parts, target mgl64.Vec3) Outcome {
	o := r.Score(p[Hips], target)
	o.Terms.Touch = float64(r.touches) * r.TouchBonus
	r.touches = 0
	return o
}

// Score computes every reward term except the touch bonus from the
// hips' state. Score does not modify r.
func (r *Rewarder) Score(hips PartState, target mgl64.Vec3) Outcome {
	var o Outcome

	toTarget := target.Sub(hips.Position)
	distance := toTarget.Len()

	// A zero-length direction has no progress component
	if dir, ok := unit(toTarget); ok {
		o.Terms.Progress = r.ProgressWeight * hips.Velocity.Dot(dir)
	}

	o.Terms.Distance = -r.DistanceWeight * distance

	if angleDegrees(Up, hips.Up()) < r.StabilityAngle {
		o.Terms.Stability = r.StabilityBonus
	}

	if distance < r.GoalDistance {
		o.Terms.Goal = r.GoalBonus
		o.GoalReached = true
	}

	if hips.Position.Y() < r.FallHeight {
		o.Terms.Fall = r.FallPenalty
		o.Fell = true
	}

	return o
}
