// Package ragdoll implements a planar Box2D humanoid that satisfies the
// walker.World interface.
//
// The ragdoll is simulated in the vertical plane of its heading: every
// joint is a motorized hinge about the walker's lateral axis, and only
// the first rotation axis of each joint target is realized. The plane
// is embedded into the 3D world at the heading yaw set by SetRootYaw,
// so that the walker core sees full 3D poses.
package ragdoll

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

// Collision categories. Body parts only collide with the ground.
const (
	groundCategory = 0x0001
	partCategory   = 0x0002
)

// groundHalfLength is half the length of the ground edge
const groundHalfLength = 1000.0

var lateralAxis = mgl64.Vec3{1, 0, 0}

// ErrUnstable is returned when the simulation produces non-finite
// body states
var ErrUnstable = errors.New("simulation became unstable")

// Config holds the physical parameters of a Ragdoll
type Config struct {
	Gravity            float64 `yaml:"gravity" json:"gravity"`
	TimeStep           float64 `yaml:"time_step" json:"time_step"`
	VelocityIterations int     `yaml:"velocity_iterations" json:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations" json:"position_iterations"`

	// FrameSkip is the number of physics steps taken per Advance
	FrameSkip int `yaml:"frame_skip" json:"frame_skip"`

	Density  float64 `yaml:"density" json:"density"`
	Friction float64 `yaml:"friction" json:"friction"`

	// MaxJointForceLimit is the largest torque any joint motor may
	// apply
	MaxJointForceLimit float64 `yaml:"max_joint_force_limit" json:"max_joint_force_limit"`

	// Gain converts the angle error of a joint into motor speed, which
	// is capped at MaxMotorSpeed
	Gain          float64 `yaml:"gain" json:"gain"`
	MaxMotorSpeed float64 `yaml:"max_motor_speed" json:"max_motor_speed"`
}

// DefaultConfig returns the default physical parameters
func DefaultConfig() Config {
	return Config{
		Gravity:            -9.81,
		TimeStep:           0.02,
		VelocityIterations: 8,
		PositionIterations: 3,
		FrameSkip:          4,
		Density:            40,
		Friction:           0.8,
		MaxJointForceLimit: 300,
		Gain:               10,
		MaxMotorSpeed:      8,
	}
}

// Validate returns an error if c cannot be simulated
func (c Config) Validate() error {
	switch {
	case c.TimeStep <= 0:
		return fmt.Errorf("validate: time step must be positive, have(%v)",
			c.TimeStep)
	case c.FrameSkip < 1:
		return fmt.Errorf("validate: frame skip must be positive, have(%v)",
			c.FrameSkip)
	case c.VelocityIterations < 1 || c.PositionIterations < 1:
		return fmt.Errorf("validate: solver iterations must be positive, "+
			"have(%v, %v)", c.VelocityIterations, c.PositionIterations)
	case c.Density <= 0:
		return fmt.Errorf("validate: density must be positive, have(%v)",
			c.Density)
	case c.MaxJointForceLimit <= 0:
		return fmt.Errorf("validate: max joint force limit must be "+
			"positive, have(%v)", c.MaxJointForceLimit)
	case c.Gain < 0 || c.MaxMotorSpeed < 0:
		return fmt.Errorf("validate: motor gain and speed must be "+
			"non-negative, have(%v, %v)", c.Gain, c.MaxMotorSpeed)
	}
	return nil
}

// LogValue implements slog.LogValuer
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("gravity", c.Gravity),
		slog.Float64("time_step", c.TimeStep),
		slog.Int("frame_skip", c.FrameSkip),
		slog.Float64("density", c.Density),
		slog.Float64("max_joint_force_limit", c.MaxJointForceLimit),
		slog.Float64("gain", c.Gain),
	)
}

// part is the simulation state of one segment
type part struct {
	body  *box2d.B2Body
	joint *box2d.B2RevoluteJoint

	target   [3]float64
	angle    float64 // hinge target in radians
	strength float64
	contacts int
}

// Ragdoll is a planar Box2D humanoid implementing walker.World
type Ragdoll struct {
	cfg    Config
	origin mgl64.Vec3
	yaw    float64

	world  box2d.B2World
	ground *box2d.B2Body
	parts  [walker.NumSlots]part
}

// New returns a new Ragdoll standing at rest with its feet at origin
func New(cfg Config, origin mgl64.Vec3) (*Ragdoll, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newRagdoll: %w", err)
	}

	r := &Ragdoll{
		cfg:    cfg,
		origin: origin,
		world:  box2d.MakeB2World(box2d.B2Vec2{X: 0, Y: cfg.Gravity}),
	}
	r.Reset()
	return r, nil
}

// Reset rebuilds the ragdoll in its rest pose with every joint holding
// its rest angle at full strength
func (r *Ragdoll) Reset() {
	r.destroy()
	r.world.SetContactListener(newContactDetector(r))
	r.yaw = 0

	groundDef := box2d.MakeB2BodyDef()
	groundDef.Type = 0 // Static body
	r.ground = r.world.CreateBody(&groundDef)

	groundShape := box2d.NewB2EdgeShape()
	groundShape.Set(box2d.MakeB2Vec2(-groundHalfLength, 0),
		box2d.MakeB2Vec2(groundHalfLength, 0))
	groundFix := box2d.MakeB2FixtureDef()
	groundFix.Shape = groundShape
	groundFix.Friction = r.cfg.Friction
	groundFilter := box2d.MakeB2Filter()
	groundFilter.CategoryBits = groundCategory
	groundFilter.MaskBits = partCategory
	groundFix.Filter = groundFilter
	r.ground.CreateFixtureFromDef(&groundFix)

	// Parents are always created before their children
	for _, s := range walker.Slots() {
		seg := skeleton[s]

		def := box2d.MakeB2BodyDef()
		def.Type = 2 // Dynamic body
		def.Position = box2d.MakeB2Vec2(seg.center[0], seg.center[1])
		def.Angle = 0
		body := r.world.CreateBody(&def)

		shape := box2d.NewB2PolygonShape()
		shape.SetAsBox(seg.halfWidth, seg.halfHeight)
		fix := box2d.MakeB2FixtureDef()
		fix.Shape = shape
		fix.Density = r.cfg.Density
		fix.Friction = r.cfg.Friction
		fix.Restitution = 0.0
		filter := box2d.MakeB2Filter()
		filter.CategoryBits = partCategory
		filter.MaskBits = groundCategory
		fix.Filter = filter
		body.CreateFixtureFromDef(&fix)

		r.parts[s] = part{body: body, strength: r.cfg.MaxJointForceLimit}
		if root(s) {
			continue
		}

		parent := r.parts[seg.parent].body
		pseg := skeleton[seg.parent]
		rjd := box2d.MakeB2RevoluteJointDef()
		rjd.BodyA = parent
		rjd.BodyB = body
		rjd.LocalAnchorA = box2d.MakeB2Vec2(seg.anchor[0]-pseg.center[0],
			seg.anchor[1]-pseg.center[1])
		rjd.LocalAnchorB = box2d.MakeB2Vec2(seg.anchor[0]-seg.center[0],
			seg.anchor[1]-seg.center[1])
		rjd.EnableMotor = true
		rjd.EnableLimit = true
		rjd.MaxMotorTorque = r.cfg.MaxJointForceLimit
		rjd.MotorSpeed = 0
		rjd.LowerAngle = seg.limits.Min
		rjd.UpperAngle = seg.limits.Max

		joint, ok := r.world.CreateJoint(&rjd).(*box2d.B2RevoluteJoint)
		if !ok {
			panic("reset: could not create revolute joint")
		}
		// Joints hold the rest pose until the first target arrives
		r.parts[s].joint = joint
	}
}

// destroy removes every body from the world
func (r *Ragdoll) destroy() {
	if r.ground == nil {
		return
	}
	r.world.SetContactListener(nil)

	// Children first, so that joints are destroyed with their child
	for i := len(r.parts) - 1; i >= 0; i-- {
		if r.parts[i].body != nil {
			r.world.DestroyBody(r.parts[i].body)
		}
		r.parts[i] = part{}
	}
	r.world.DestroyBody(r.ground)
	r.ground = nil
}

// SetRootYaw sets the heading of the plane the ragdoll moves in
func (r *Ragdoll) SetRootYaw(yaw float64) {
	r.yaw = yaw
}

// Yaw returns the heading of the ragdoll
func (r *Ragdoll) Yaw() float64 {
	return r.yaw
}

// MaxJointForceLimit satisfies the walker.Body interface
func (r *Ragdoll) MaxJointForceLimit() float64 {
	return r.cfg.MaxJointForceLimit
}

// SetJointTargetRotation satisfies the walker.Body interface. The x
// value, in [-1, 1], is mapped linearly onto the hinge limits of the
// joint. Root parts have no joint and are ignored.
func (r *Ragdoll) SetJointTargetRotation(s walker.Slot, x, y, z float64) {
	if !s.Valid() || root(s) {
		return
	}
	r.parts[s].target = [3]float64{x, y, z}
	r.parts[s].angle = hingeAngle(skeleton[s].limits, x)
}

// SetJointStrength satisfies the walker.Body interface. The strength,
// in [-1, 1], is mapped linearly onto [0, MaxJointForceLimit].
func (r *Ragdoll) SetJointStrength(s walker.Slot, strength float64) {
	if !s.Valid() || root(s) {
		return
	}
	torque := jointTorque(strength, r.cfg.MaxJointForceLimit)
	r.parts[s].strength = torque
	r.parts[s].joint.SetMaxMotorTorque(torque)
}

// Advance satisfies the walker.World interface. It takes FrameSkip
// physics steps, driving every joint motor toward its target angle.
func (r *Ragdoll) Advance() error {
	for i := 0; i < r.cfg.FrameSkip; i++ {
		for s := range r.parts {
			p := &r.parts[s]
			if p.joint == nil {
				continue
			}
			speed := motorSpeed(p.angle, p.joint.GetJointAngle(),
				r.cfg.Gain, r.cfg.MaxMotorSpeed)
			p.joint.SetMotorSpeed(speed)
		}
		r.world.Step(r.cfg.TimeStep, r.cfg.VelocityIterations,
			r.cfg.PositionIterations)
	}

	for _, s := range walker.Slots() {
		b := r.parts[s].body
		pos, vel := b.GetPosition(), b.GetLinearVelocity()
		if !floatutils.Finite(pos.X, pos.Y, vel.X, vel.Y, b.GetAngle(),
			b.GetAngularVelocity()) {
			return fmt.Errorf("advance: %w: %v", ErrUnstable, s)
		}
	}
	return nil
}

// Part satisfies the walker.Body interface
func (r *Ragdoll) Part(s walker.Slot) (walker.PartState, bool) {
	if !s.Valid() || r.parts[s].body == nil {
		return walker.PartState{}, false
	}
	p := r.parts[s]
	heading := mgl64.QuatRotate(r.yaw, walker.Up)

	pos := p.body.GetPosition()
	vel := p.body.GetLinearVelocity()
	angle := p.body.GetAngle()

	local := angle
	if !root(s) {
		local -= r.parts[skeleton[s].parent].body.GetAngle()
	}

	return walker.PartState{
		Position: r.origin.Add(heading.Rotate(mgl64.Vec3{
			skeleton[s].lateral, pos.Y, pos.X,
		})),
		Rotation:        heading.Mul(pitch(angle)),
		LocalRotation:   pitch(local),
		Velocity:        heading.Rotate(mgl64.Vec3{0, vel.Y, vel.X}),
		AngularVelocity: heading.Rotate(lateralAxis.Mul(-p.body.GetAngularVelocity())),
		GroundContact:   p.contacts > 0,
		Strength:        p.strength,
	}, true
}

// JointTarget returns the latest target rotation sent to the joint of s
func (r *Ragdoll) JointTarget(s walker.Slot) [3]float64 {
	return r.parts[s].target
}

// JointAngle returns the current hinge angle of the joint of s, or 0 if
// s has no joint
func (r *Ragdoll) JointAngle(s walker.Slot) float64 {
	if !s.Valid() || r.parts[s].joint == nil {
		return 0
	}
	return r.parts[s].joint.GetJointAngle()
}

// pitch returns the rotation of a planar angle about the lateral axis.
// Planar angles turn forward toward up, which is a negative rotation
// about the walker's left axis.
func pitch(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(-angle, lateralAxis)
}

// hingeAngle maps x in [-1, 1] linearly onto limits. Values outside
// [-1, 1] are clamped to the limits.
func hingeAngle(limits r1.Interval, x float64) float64 {
	return floatutils.Lerp(limits.Min, limits.Max, (x+1)*0.5)
}

// jointTorque maps a strength in [-1, 1] linearly onto [0, max]
func jointTorque(strength, max float64) float64 {
	return floatutils.Clip((strength+1)*0.5*max, 0, max)
}

// motorSpeed is a proportional controller driving a hinge at angle
// toward target
func motorSpeed(target, angle, gain, max float64) float64 {
	return floatutils.Clip(gain*(target-angle), -max, max)
}

var _ walker.World = (*Ragdoll)(nil)
