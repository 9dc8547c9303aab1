// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting values and samples
// them for environments at the beginning of each episode
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines whether a TimeStep ends its episode. If so, the
// Ender sets the TimeStep's StepType to timestep.Last along with the
// appropriate EndType and returns true.
type Ender interface {
	End(t *ts.TimeStep) bool
}

// Environment implements a simulated environment that a policy
// interacts with through fixed-shape observations and actions
type Environment interface {
	Reset() (ts.TimeStep, error) // Resets between episodes
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	CurrentTimeStep() ts.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
