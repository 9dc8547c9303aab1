// Package walker implements the control and reward core of a humanoid
// walker: an agent that drives a 15-segment ragdoll toward a moving
// target at a commanded walking speed.
//
// The physics of the ragdoll is not part of this package. A Walker
// drives any World, which reports the state of each body part and
// applies joint targets and strengths. Each control step encodes an
// observation of the body in a target-facing orientation frame, decodes
// a flat action vector into joint commands, and scores the resulting
// post-physics state.
//
// A Walker is not safe for concurrent use. Many Walkers may run
// concurrently as long as each owns its World.
package walker

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
	"gonum.org/v1/gonum/mat"
)

// MinAction and MaxAction bound the nominal range of each action value.
// Values outside the range are passed to the body unclipped.
const (
	MinAction float64 = -1.0
	MaxAction float64 = 1.0
)

// ErrEpisodeEnded is returned when stepping a Walker whose episode has
// ended without resetting it first
var ErrEpisodeEnded = errors.New("episode has ended")

// EpisodeSummary describes one episode
type EpisodeSummary struct {
	Episode     int
	Steps       int
	Return      float64
	Touches     int
	End         ts.EndType
	TargetSpeed float64
	Yaw         float64
}

// LogValue implements slog.LogValuer
func (e EpisodeSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("episode", e.Episode),
		slog.Int("steps", e.Steps),
		slog.Float64("return", e.Return),
		slog.Int("touches", e.Touches),
		slog.String("end", e.End.String()),
		slog.Float64("target_speed", e.TargetSpeed),
		slog.Float64("yaw_deg", e.Yaw*180/math.Pi),
	)
}

// Walker implements the walker environment. A policy interacts with it
// through observation vectors of length ObservationSize and action
// vectors of length ActionSize, see Encoder and Decode for their
// layouts.
//
// Each Step performs, in order: decoding and applying the action,
// advancing physics, sensing target touches, recomputing the
// orientation frame from the post-physics hips position, evaluating
// reward and termination, and encoding the next observation. The target
// position is read once at the beginning of a step and that snapshot is
// used for the whole step.
//
// Episodes end when the hips reach the goal distance of the target,
// when the hips fall below the fall height, or when the episode step
// limit is reached.
type Walker struct {
	world       World
	target      TargetSource
	orientation OrientationReference
	episodes    *Episodes
	encoder     Encoder
	rewarder    *Rewarder
	stepLimit   *environment.StepLimit
	cfg         Config
	discount    float64
	logger      *slog.Logger

	frame           Frame
	currentTimeStep ts.TimeStep
	summary         EpisodeSummary
}

// New returns a new Walker driving world toward target, along with the
// first timestep of its first episode. If orientation is nil, an
// OrientationCube is used. Episodes are cut off after cutoff steps, or
// never if cutoff is 0.
func New(world World, target TargetSource, orientation OrientationReference,
	cfg Config, cutoff int, seed uint64, discount float64) (*Walker,
	ts.TimeStep, error) {
	if world == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker: %w", ErrNilBody)
	}
	if target == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker: %w", ErrNilTarget)
	}
	if cutoff < 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker: cutoff should "+
			"be non-negative, have(%v)", cutoff)
	}
	if orientation == nil {
		orientation = OrientationCube{}
	}

	w := &Walker{
		world:       world,
		target:      target,
		orientation: orientation,
		episodes:    NewEpisodes(EpisodeStarter(seed), orientation),
		encoder:     Encoder{MaxJointForceLimit: world.MaxJointForceLimit()},
		rewarder:    NewRewarder(cfg.Reward),
		stepLimit:   environment.NewStepLimit(cutoff),
		cfg:         cfg.Clamped(),
		discount:    discount,
		logger:      slog.Default(),
	}

	firstStep, err := w.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker: %w", err)
	}
	return w, firstStep, nil
}

// SetLogger sets the logger episode ends are reported to
func (w *Walker) SetLogger(l *slog.Logger) {
	w.logger = l
}

// Reset begins a new episode and returns its first timestep
func (w *Walker) Reset() (ts.TimeStep, error) {
	target := w.target.Position()
	w.rewarder.Reset()

	frame, start, err := w.episodes.Reset(w.world, &w.cfg, target)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	w.frame = frame

	parts, err := Capture(w.world)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	obs := w.encoder.Encode(&parts, w.frame, target, w.cfg.TargetWalkingSpeed)

	// An episode that was never stepped is replaced, not counted
	episode := w.summary.Episode
	if episode == 0 || w.currentTimeStep.Number > 0 {
		episode++
	}

	firstStep := ts.New(ts.First, 0, w.discount, obs, 0)
	w.currentTimeStep = firstStep
	w.summary = EpisodeSummary{
		Episode:     episode,
		TargetSpeed: w.cfg.TargetWalkingSpeed,
		Yaw:         start.Yaw,
	}

	return firstStep, nil
}

// Step takes one control step given an action vector of length
// ActionSize. If the action has the wrong length, Step returns an error
// wrapping ErrActionLength and nothing is applied to the body.
func (w *Walker) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if w.currentTimeStep.Last() {
		return w.currentTimeStep, true, fmt.Errorf("step: %w",
			ErrEpisodeEnded)
	}
	target := w.target.Position()

	var vec mat.Vector
	if action != nil {
		vec = action
	}
	actuation, err := Decode(vec)
	if err != nil {
		return w.currentTimeStep, false, fmt.Errorf("step: %w", err)
	}
	actuation.Apply(w.world)

	if err := w.world.Advance(); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not advance "+
			"physics: %w", err)
	}

	parts, err := Capture(w.world)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	if s, ok := w.target.(Sensor); ok {
		for n := s.Sense(&parts); n > 0; n-- {
			w.TouchedTarget()
		}
	}
	touches := w.rewarder.PendingTouches()

	w.frame = w.orientation.Update(parts[Hips].Position, target)
	outcome := w.rewarder.Evaluate(&parts, target)
	obs := w.encoder.Encode(&parts, w.frame, target, w.cfg.TargetWalkingSpeed)

	t := ts.New(ts.Mid, outcome.Reward(), w.discount, obs,
		w.currentTimeStep.Number+1)
	if outcome.Terminal() {
		t.StepType = ts.Last
		t.SetEnd(outcome.EndType())
	}
	done := w.stepLimit.End(&t)
	w.currentTimeStep = t

	w.summary.Steps = t.Number
	w.summary.Return += t.Reward
	w.summary.Touches += touches
	if done {
		w.summary.End = t.EndType()
		w.logger.Debug("episode ended", slog.Any("episode", w.summary),
			slog.Any("reward", outcome.Terms))
	}

	return t, done, nil
}

// TouchedTarget records an externally reported touch of the target.
// The touch bonus is paid out with the next step's reward.
func (w *Walker) TouchedTarget() {
	w.rewarder.Touched()
}

// Observe returns the observation of the current state of the body,
// recomputing the orientation frame first
func (w *Walker) Observe() (*mat.VecDense, error) {
	target := w.target.Position()
	parts, err := Capture(w.world)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	w.frame = w.orientation.Update(parts[Hips].Position, target)
	return w.encoder.Encode(&parts, w.frame, target,
		w.cfg.TargetWalkingSpeed), nil
}

// CurrentTimeStep returns the current timestep
func (w *Walker) CurrentTimeStep() ts.TimeStep {
	return w.currentTimeStep
}

// Summary returns the summary of the current episode
func (w *Walker) Summary() EpisodeSummary {
	return w.summary
}

// Config returns the current agent configuration
func (w *Walker) Config() Config {
	return w.cfg
}

// Frame returns the orientation frame computed in the latest step
func (w *Walker) Frame() Frame {
	return w.frame
}

// ObservationSpec returns the observation specification of the
// environment
func (w *Walker) ObservationSpec() environment.Spec {
	return environment.NewUnboundedSpec(environment.Observation,
		ObservationSize)
}

// ActionSpec returns the action specification of the environment
func (w *Walker) ActionSpec() environment.Spec {
	low := mat.NewVecDense(ActionSize, nil)
	high := mat.NewVecDense(ActionSize, nil)
	for i := 0; i < ActionSize; i++ {
		low.SetVec(i, MinAction)
		high.SetVec(i, MaxAction)
	}
	return environment.NewSpec(environment.Action, low, high,
		environment.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (w *Walker) RewardSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Reward, math.Inf(-1),
		math.Inf(1))
}

// DiscountSpec returns the discount specification of the environment
func (w *Walker) DiscountSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Discount, w.discount,
		w.discount)
}
