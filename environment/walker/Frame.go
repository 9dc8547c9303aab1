package walker

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
)

// World axes. Coordinates are right-handed with +Y up and +Z forward.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// epsilon is the length below which a direction is treated as zero
const epsilon = 1e-9

// Frame is an orientation frame: a yaw-stable basis positioned at the
// body that faces the target. Velocities and positions expressed in a
// Frame are target-relative rather than world-relative.
type Frame struct {
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityFrame returns a frame at the world origin aligned with the
// world axes
func IdentityFrame() Frame {
	return Frame{Rotation: mgl64.QuatIdent()}
}

// Forward returns the frame's forward axis in world coordinates
func (f Frame) Forward() mgl64.Vec3 {
	return f.Rotation.Rotate(Forward)
}

// Up returns the frame's up axis in world coordinates
func (f Frame) Up() mgl64.Vec3 {
	return f.Rotation.Rotate(Up)
}

// WorldToLocalDirection expresses the world direction v in frame
// coordinates. The frame origin does not affect directions.
func (f Frame) WorldToLocalDirection(v mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation.Inverse().Rotate(v)
}

// WorldToLocalPoint expresses the world point p in frame coordinates
func (f Frame) WorldToLocalPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation.Inverse().Rotate(p.Sub(f.Origin))
}

// Indicator returns the world point one unit ahead of the frame origin
// along its forward axis, used to draw the walking direction
func (f Frame) Indicator() mgl64.Vec3 {
	return f.Origin.Add(f.Forward())
}

// OrientationReference computes the orientation frame from the body's
// origin and the target position
type OrientationReference interface {
	Update(origin, target mgl64.Vec3) Frame
}

// OrientationCube is the default OrientationReference. Its frame sits
// at the body origin and is rotated about the world up axis only, so
// that its forward axis points at the target projected onto the ground
// plane. When the target is directly above or below the origin the
// frame keeps the world orientation.
type OrientationCube struct{}

// Update satisfies the OrientationReference interface
func (OrientationCube) Update(origin, target mgl64.Vec3) Frame {
	dir := target.Sub(origin)
	dir[1] = 0

	if dir.Len() < epsilon {
		return Frame{Origin: origin, Rotation: mgl64.QuatIdent()}
	}
	yaw := math.Atan2(dir.X(), dir.Z())
	return Frame{Origin: origin, Rotation: mgl64.QuatRotate(yaw, Up)}
}

// unit returns v scaled to unit length, or the zero vector and false
// if v has no usable direction
func unit(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < epsilon || !floatutils.Finite(l) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// fromToRotation returns the shortest rotation taking direction from
// onto direction to. Degenerate directions yield the identity.
func fromToRotation(from, to mgl64.Vec3) mgl64.Quat {
	f, ok := unit(from)
	if !ok {
		return mgl64.QuatIdent()
	}
	t, ok := unit(to)
	if !ok {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(f, t).Normalize()
}

// angleDegrees returns the unsigned angle between a and b in degrees.
// Degenerate directions yield 0.
func angleDegrees(a, b mgl64.Vec3) float64 {
	ua, ok := unit(a)
	if !ok {
		return 0
	}
	ub, ok := unit(b)
	if !ok {
		return 0
	}
	cos := floatutils.Clip(ua.Dot(ub), -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}
