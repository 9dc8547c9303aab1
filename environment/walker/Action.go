package walker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// joint describes how many rotation axes of a joint the policy drives.
// Axes beyond dof are always set to zero.
type joint struct {
	slot Slot
	dof  int
}

// rotationSchedule is the order in which target rotations are read from
// an action vector
var rotationSchedule = [...]joint{
	{Spine, 3},
	{ThighL, 2},
	{ThighR, 2},
	{ShinL, 1},
	{ShinR, 1},
	{FootR, 3},
	{FootL, 3},
	{ArmL, 2},
	{ArmR, 2},
	{ForearmL, 1},
	{ForearmR, 1},
	{Head, 2},
}

// strengthSchedule is the order in which joint strengths are read from
// an action vector, after all target rotations
var strengthSchedule = [...]Slot{
	Spine,
	Head,
	ThighL,
	ShinL,
	FootL,
	ThighR,
	ShinR,
	FootR,
	ArmL,
	ForearmL,
	ArmR,
	ForearmR,
}

const (
	// rotationActions is the sum of the degrees of freedom in
	// rotationSchedule
	rotationActions = 3 + 2 + 2 + 1 + 1 + 3 + 3 + 2 + 2 + 1 + 1 + 2

	// ActionSize is the length of every action vector
	ActionSize = rotationActions + len(strengthSchedule)
)

// Actuation is a decoded action: one target rotation and one strength
// per actuated joint. Slots that are not actuated keep zero values.
type Actuation struct {
	Targets   [NumSlots][3]float64
	Strengths [NumSlots]float64
}

// Actuated returns whether the joint of s is driven by actions
func Actuated(s Slot) bool {
	for _, j := range rotationSchedule {
		if j.slot == s {
			return true
		}
	}
	return false
}

// Decode reads an action vector into an Actuation. Values are consumed
// strictly left to right, target rotations first and strengths second,
// and are not clipped. Decode returns an error wrapping ErrActionLength
// unless action has exactly ActionSize elements.
func Decode(action mat.Vector) (Actuation, error) {
	var a Actuation
	if action == nil {
		return a, fmt.Errorf("decode: %w: have(nil) want(%v)",
			ErrActionLength, ActionSize)
	}
	if action.Len() != ActionSize {
		return a, fmt.Errorf("decode: %w: have(%v) want(%v)",
			ErrActionLength, action.Len(), ActionSize)
	}

	i := 0
	next := func() float64 {
		v := action.AtVec(i)
		i++
		return v
	}

	for _, j := range rotationSchedule {
		for axis := 0; axis < j.dof; axis++ {
			a.Targets[j.slot][axis] = next()
		}
	}
	for _, s := range strengthSchedule {
		a.Strengths[s] = next()
	}

	if i != ActionSize {
		panic(fmt.Sprintf("decode: consumed %v of %v actions", i,
			ActionSize))
	}
	return a, nil
}

// Apply sends the actuation to the body: every target rotation in
// rotation-schedule order, then every strength in strength-schedule
// order
func (a *Actuation) Apply(b Body) {
	for _, j := range rotationSchedule {
		t := a.Targets[j.slot]
		b.SetJointTargetRotation(j.slot, t[0], t[1], t[2])
	}
	for _, s := range strengthSchedule {
		b.SetJointStrength(s, a.Strengths[s])
	}
}
