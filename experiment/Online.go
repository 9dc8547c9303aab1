package experiment

import (
	"fmt"
	"log/slog"

	env "github.com/maferozuone/Proyecto-Walker-ML-Agents/environment"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/experiment/policy"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/experiment/trackers"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
)

// Online is an Experiment that runs a policy online in an environment
// for a fixed budget of timesteps
type Online struct {
	env.Environment
	policy.Policy
	maxSteps     uint
	currentSteps uint
	episodes     int
	trackers     []trackers.Tracker
	logger       *slog.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is saved.
func NewOnline(e env.Environment, p policy.Policy, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Policy:      p,
		maxSteps:    steps,
		trackers:    t,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger episode results are reported to
func (o *Online) SetLogger(l *slog.Logger) {
	o.logger = l
}

// Register registers a Tracker with the Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of timesteps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment. It returns
// whether the step budget has been used up.
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	var ret float64
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action := o.Policy.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: %w", err)
		}
		ret += step.Reward

		o.track(step)
	}

	if step.Last() {
		o.episodes++
		o.logger.Info("episode finished",
			slog.Int("episode", o.episodes),
			slog.Int("steps", step.Number),
			slog.Float64("return", ret),
			slog.String("end", step.EndType().String()),
			slog.Uint64("total_steps", uint64(o.currentSteps)),
		)
	}

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for ended := false; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
