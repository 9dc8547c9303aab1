// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended. Only TimeSteps with StepType
// Last carry an EndType other than Unset.
type EndType int

const (
	Unset EndType = iota

	// GoalReached means the torso came within the goal distance of the
	// target
	GoalReached

	// Fell means the torso dropped below the fall height
	Fell

	// StepLimitReached means the harness cut the episode off
	StepLimitReached
)

func (e EndType) String() string {
	switch e {
	case GoalReached:
		return "GoalReached"
	case Fell:
		return "Fell"
	case StepLimitReached:
		return "StepLimitReached"
	default:
		return "Unset"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	endType     EndType
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Discount:    d,
		Observation: o,
		Number:      n,
	}
}

// SetEnd sets the reason the episode ended. SetEnd does not change the
// StepType, callers set StepType to Last themselves.
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// EndType returns why the episode ended
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.4f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.endType)
}
