package environment

import (
	"fmt"

	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
)

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits. Step limits belong to the harness: an episode cut
// off by a StepLimit ends with EndType timestep.StepLimitReached.
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit. A limit of 0
// disables the limit.
func NewStepLimit(episodeSteps int) *StepLimit {
	if episodeSteps < 0 {
		panic(fmt.Sprintf("newStepLimit: episode steps must be "+
			"non-negative, have(%v)", episodeSteps))
	}
	return &StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. A TimeStep that
// is already the last in its episode is left untouched.
func (s *StepLimit) End(t *ts.TimeStep) bool {
	if t.Last() {
		return true
	}
	if s.episodeSteps > 0 && t.Number >= s.episodeSteps {
		t.StepType = ts.Last
		t.SetEnd(ts.StepLimitReached)
		return true
	}
	return false
}
