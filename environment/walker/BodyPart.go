package walker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Slot identifies one segment of the humanoid skeleton. The order of
// the constants is the enumeration order used when encoding
// observations.
type Slot int

const (
	Hips Slot = iota
	Spine
	Head
	ThighL
	ShinL
	FootL
	ThighR
	ShinR
	FootR
	ArmL
	ForearmL
	HandL
	ArmR
	ForearmR
	HandR

	// NumSlots is the number of body-part slots
	NumSlots = iota
)

var slotNames = [NumSlots]string{
	"hips",
	"spine",
	"head",
	"thighL",
	"shinL",
	"footL",
	"thighR",
	"shinR",
	"footR",
	"armL",
	"forearmL",
	"handL",
	"armR",
	"forearmR",
	"handR",
}

func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// Valid returns whether s names one of the NumSlots body parts
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < NumSlots
}

// Slots returns every slot in enumeration order
func Slots() []Slot {
	slots := make([]Slot, NumSlots)
	for i := range slots {
		slots[i] = Slot(i)
	}
	return slots
}

// PartState is the physical and actuation state of one body part as
// reported by the articulated body. Positions, velocities and Rotation
// are in world coordinates; LocalRotation is relative to the parent
// segment.
type PartState struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	LocalRotation   mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	GroundContact   bool

	// Strength is the actuator strength currently applied to the
	// part's joint, in [0, MaxJointForceLimit]
	Strength float64
}

// Forward returns the part's forward axis in world coordinates
func (p PartState) Forward() mgl64.Vec3 {
	return p.Rotation.Rotate(Forward)
}

// Up returns the part's up axis in world coordinates
func (p PartState) Up() mgl64.Vec3 {
	return p.Rotation.Rotate(Up)
}

// Parts is a snapshot of every body part's state for one tick, indexed
// by Slot
type Parts [NumSlots]PartState

// AverageVelocity returns the mean linear velocity over all body parts
func (p *Parts) AverageVelocity() mgl64.Vec3 {
	var sum mgl64.Vec3
	for i := range p {
		sum = sum.Add(p[i].Velocity)
	}
	return sum.Mul(1.0 / float64(len(p)))
}

// Body is the articulated body collaborator. It owns the simulated
// joints, reports per-part physical state, and applies joint targets
// and strengths. Clamping of targets and strengths is the Body's
// responsibility.
type Body interface {
	// Part returns the state of the part in slot s, or false if the
	// body has no part in that slot
	Part(s Slot) (PartState, bool)

	// SetJointTargetRotation sets the target rotation of the joint
	// connecting s to its parent. Each axis is a normalized value,
	// nominally in [-1, 1].
	SetJointTargetRotation(s Slot, x, y, z float64)

	// SetJointStrength sets the normalized strength of the joint
	// connecting s to its parent, nominally in [-1, 1]
	SetJointStrength(s Slot, strength float64)

	// MaxJointForceLimit returns the upper bound of PartState.Strength
	MaxJointForceLimit() float64

	// Reset restores every part to its rest pose with zero velocities
	// and cleared ground contacts
	Reset()

	// SetRootYaw rotates the body about the world up axis so that the
	// hips face yaw radians from the world forward axis
	SetRootYaw(yaw float64)
}

// World is a Body whose physics can be advanced by one control step
type World interface {
	Body
	Advance() error
}

// Capture reads every body part from b into a snapshot. Capture
// returns an error wrapping ErrMissingBodyPart if b has no part in
// some slot.
func Capture(b Body) (Parts, error) {
	var parts Parts
	if b == nil {
		return parts, fmt.Errorf("capture: %w", ErrNilBody)
	}
	for _, s := range Slots() {
		state, ok := b.Part(s)
		if !ok {
			return parts, fmt.Errorf("capture: %w: %v", ErrMissingBodyPart, s)
		}
		parts[s] = state
	}
	return parts, nil
}
