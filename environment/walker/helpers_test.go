package walker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
)

const fakeMaxForce = 400.0

// restPositions is a standing pose with the hips one unit above the
// ground, facing +Z
var restPositions = [NumSlots]mgl64.Vec3{
	Hips:     {0, 1, 0},
	Spine:    {0, 1.3, 0},
	Head:     {0, 1.65, 0},
	ThighL:   {0.1, 0.7, 0},
	ShinL:    {0.1, 0.3, 0},
	FootL:    {0.1, 0.05, 0.05},
	ThighR:   {-0.1, 0.7, 0},
	ShinR:    {-0.1, 0.3, 0},
	FootR:    {-0.1, 0.05, 0.05},
	ArmL:     {0.25, 1.25, 0},
	ForearmL: {0.25, 0.93, 0},
	HandL:    {0.25, 0.74, 0},
	ArmR:     {-0.25, 1.25, 0},
	ForearmR: {-0.25, 0.93, 0},
	HandR:    {-0.25, 0.74, 0},
}

// fakeBody is an in-memory World. It records every actuation call and
// lets tests script what Advance does.
type fakeBody struct {
	parts    Parts
	missing  map[Slot]bool
	yaw      float64
	resets   int
	advances int
	calls    []string
	advance  func(b *fakeBody)
}

func newFakeBody() *fakeBody {
	b := &fakeBody{missing: map[Slot]bool{}}
	b.Reset()
	return b
}

func (b *fakeBody) Part(s Slot) (PartState, bool) {
	if !s.Valid() || b.missing[s] {
		return PartState{}, false
	}
	return b.parts[s], true
}

func (b *fakeBody) SetJointTargetRotation(s Slot, x, y, z float64) {
	b.calls = append(b.calls, fmt.Sprintf("rotation:%v:%v,%v,%v", s, x, y, z))
}

func (b *fakeBody) SetJointStrength(s Slot, strength float64) {
	b.calls = append(b.calls, fmt.Sprintf("strength:%v:%v", s, strength))
	b.parts[s].Strength = floatutils.Clip((strength+1)*0.5*fakeMaxForce, 0,
		fakeMaxForce)
}

func (b *fakeBody) MaxJointForceLimit() float64 {
	return fakeMaxForce
}

func (b *fakeBody) Reset() {
	b.resets++
	b.yaw = 0
	for s := range b.parts {
		b.parts[s] = PartState{
			Position:      restPositions[s],
			Rotation:      mgl64.QuatIdent(),
			LocalRotation: mgl64.QuatIdent(),
			Strength:      fakeMaxForce,
		}
	}
}

func (b *fakeBody) SetRootYaw(yaw float64) {
	b.yaw = yaw
	q := mgl64.QuatRotate(yaw, Up)
	hips := restPositions[Hips]
	for s := range b.parts {
		offset := restPositions[s].Sub(hips)
		b.parts[s].Position = hips.Add(q.Rotate(offset))
		b.parts[s].Rotation = q
	}
}

func (b *fakeBody) Advance() error {
	b.advances++
	if b.advance != nil {
		b.advance(b)
	}
	return nil
}

// moveHips translates every part so that the hips end up at p
func (b *fakeBody) moveHips(p mgl64.Vec3) {
	delta := p.Sub(b.parts[Hips].Position)
	for s := range b.parts {
		b.parts[s].Position = b.parts[s].Position.Add(delta)
	}
}

// restParts returns a snapshot of the rest pose
func restParts() Parts {
	b := newFakeBody()
	parts, err := Capture(b)
	if err != nil {
		panic(err)
	}
	return parts
}

// partOffset returns the index of the first observation value of the
// part in slot s
func partOffset(s Slot) int {
	offset := goalFeatures
	for i := Slot(0); i < s; i++ {
		offset += partFeatures
		if observesJoint(i) {
			offset += jointFeatures
		}
	}
	return offset
}
