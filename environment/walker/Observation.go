package walker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	// goalFeatures counts the leading observation values: speed error
	// (1), average velocity (3), goal velocity (3), torso and head
	// look rotations (4 + 4) and the target position (3)
	goalFeatures = 1 + 3 + 3 + 4 + 4 + 3

	// partFeatures counts the values observed for every body part:
	// ground contact (1), velocity (3), angular velocity (3) and
	// offset from the hips (3)
	partFeatures = 1 + 3 + 3 + 3

	// jointFeatures counts the values observed for every actuated
	// body part: local rotation (4) and normalized strength (1)
	jointFeatures = 4 + 1

	// ObservationSize is the length of every observation vector
	ObservationSize = goalFeatures + NumSlots*partFeatures +
		(NumSlots-3)*jointFeatures
)

// observesJoint returns whether the joint features of s are observed.
// The hips have no parent joint and the hands are not actuated.
func observesJoint(s Slot) bool {
	return s != Hips && s != HandL && s != HandR
}

// Encoder builds observation vectors. Observations are pure functions
// of their inputs.
//
// Observation vectors consist of the following features, in order:
// [
//
//	|g⃗ - v̄⃗|, where g⃗ = frame forward * target speed and v̄⃗ is the
//	    average body-part velocity
//	v̄⃗ in frame coordinates (3)
//	g⃗ in frame coordinates (3)
//	rotation from the hips' forward axis to the frame forward (4)
//	rotation from the head's forward axis to the frame forward (4)
//	target position in frame coordinates (3)
//	for each body part in Slot order:
//		ground contact (0 or 1)
//		velocity in frame coordinates (3)
//		angular velocity in frame coordinates (3)
//		offset from the hips in frame coordinates (3)
//		for all but the hips and hands:
//			rotation relative to the parent segment (4)
//			strength / MaxJointForceLimit
//
// ]
//
// Quaternions are written as (x, y, z, w).
type Encoder struct {
	// MaxJointForceLimit normalizes observed strengths
	MaxJointForceLimit float64
}

// Encode returns the observation for the given body-part snapshot,
// orientation frame, target position and target walking speed
func (e Encoder) Encode(p *Parts, frame Frame, target mgl64.Vec3,
	speed float64) *mat.VecDense {
	obs := make([]float64, 0, ObservationSize)

	forward := frame.Forward()
	velGoal := forward.Mul(speed)
	avgVel := p.AverageVelocity()

	obs = append(obs, velGoal.Sub(avgVel).Len())
	obs = appendVec(obs, frame.WorldToLocalDirection(avgVel))
	obs = appendVec(obs, frame.WorldToLocalDirection(velGoal))
	obs = appendQuat(obs, fromToRotation(p[Hips].Forward(), forward))
	obs = appendQuat(obs, fromToRotation(p[Head].Forward(), forward))
	obs = appendVec(obs, frame.WorldToLocalPoint(target))

	hips := p[Hips].Position
	for _, s := range Slots() {
		obs = e.appendPart(obs, s, p[s], frame, hips)
	}

	if len(obs) != ObservationSize {
		panic(fmt.Sprintf("encode: illegal number of observations "+
			"\n\twant(%v) \n\thave(%v)", ObservationSize, len(obs)))
	}
	return mat.NewVecDense(ObservationSize, obs)
}

func (e Encoder) appendPart(obs []float64, s Slot, part PartState,
	frame Frame, hips mgl64.Vec3) []float64 {
	contact := 0.0
	if part.GroundContact {
		contact = 1.0
	}
	obs = append(obs, contact)
	obs = appendVec(obs, frame.WorldToLocalDirection(part.Velocity))
	obs = appendVec(obs, frame.WorldToLocalDirection(part.AngularVelocity))
	obs = appendVec(obs, frame.WorldToLocalDirection(part.Position.Sub(hips)))

	if observesJoint(s) {
		obs = appendQuat(obs, part.LocalRotation)
		obs = append(obs, e.normalizedStrength(part.Strength))
	}
	return obs
}

func (e Encoder) normalizedStrength(strength float64) float64 {
	if e.MaxJointForceLimit <= 0 {
		return 0
	}
	return strength / e.MaxJointForceLimit
}

func appendVec(obs []float64, v mgl64.Vec3) []float64 {
	return append(obs, v[0], v[1], v[2])
}

func appendQuat(obs []float64, q mgl64.Quat) []float64 {
	return append(obs, q.V[0], q.V[1], q.V[2], q.W)
}
