package ragdoll

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

const tol = 1e-9

// vecNear reports whether a and b are within tol of each other
func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < tol
}

// quatNear reports whether the components of a and b are within tol
func quatNear(a, b mgl64.Quat) bool {
	return math.Abs(a.W-b.W) < tol && vecNear(a.V, b.V)
}

func newRagdoll(t *testing.T, origin mgl64.Vec3) *Ragdoll {
	t.Helper()
	r, err := New(DefaultConfig(), origin)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}

	tests := map[string]func(c *Config){
		"timeStep":   func(c *Config) { c.TimeStep = 0 },
		"frameSkip":  func(c *Config) { c.FrameSkip = 0 },
		"iterations": func(c *Config) { c.VelocityIterations = 0 },
		"density":    func(c *Config) { c.Density = -1 },
		"force":      func(c *Config) { c.MaxJointForceLimit = 0 },
		"gain":       func(c *Config) { c.Gain = -1 },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			modify(&c)
			if _, err := New(c, mgl64.Vec3{}); err == nil {
				t.Errorf("invalid config accepted")
			}
		})
	}
}

func TestRestPose(t *testing.T) {
	origin := mgl64.Vec3{2, 0, 3}
	r := newRagdoll(t, origin)

	for _, s := range walker.Slots() {
		p, ok := r.Part(s)
		if !ok {
			t.Fatalf("%v missing", s)
		}
		seg := skeleton[s]
		want := origin.Add(mgl64.Vec3{seg.lateral, seg.center[1], seg.center[0]})
		if !vecNear(p.Position, want) {
			t.Errorf("%v at %v, want %v", s, p.Position, want)
		}
		if !quatNear(p.Rotation, mgl64.QuatIdent()) {
			t.Errorf("%v rotation = %v, want identity", s, p.Rotation)
		}
		if !quatNear(p.LocalRotation, mgl64.QuatIdent()) {
			t.Errorf("%v local rotation = %v, want identity", s,
				p.LocalRotation)
		}
		if p.Strength != r.MaxJointForceLimit() {
			t.Errorf("%v strength = %v, want %v", s, p.Strength,
				r.MaxJointForceLimit())
		}
	}

	if _, ok := r.Part(walker.Slot(-1)); ok {
		t.Errorf("invalid slot reported as present")
	}
}

func TestSetRootYaw(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	r.SetRootYaw(math.Pi / 2)

	hips, _ := r.Part(walker.Hips)
	if !vecNear(hips.Forward(), mgl64.Vec3{1, 0, 0}) {
		t.Errorf("hips face %v, want +X", hips.Forward())
	}
	if !vecNear(hips.Up(), walker.Up) {
		t.Errorf("hips up = %v, want %v", hips.Up(), walker.Up)
	}

	// The left thigh turns with the heading
	thigh, _ := r.Part(walker.ThighL)
	if want := (mgl64.Vec3{0, 0.7, -0.1}); !vecNear(thigh.Position, want) {
		t.Errorf("left thigh at %v, want %v", thigh.Position, want)
	}

	r.Reset()
	if r.Yaw() != 0 {
		t.Errorf("yaw after reset = %v, want 0", r.Yaw())
	}
}

func TestHingeAngle(t *testing.T) {
	limits := r1.Interval{Min: -1.6, Max: 0.4}
	tests := []struct{ x, want float64 }{
		{-1, -1.6},
		{1, 0.4},
		{0, -0.6},
		{0.5, -0.1},
		{-3, -1.6},
		{3, 0.4},
	}
	for _, test := range tests {
		if got := hingeAngle(limits, test.x); math.Abs(got-test.want) > tol {
			t.Errorf("hingeAngle(%v) = %v, want %v", test.x, got, test.want)
		}
	}
}

func TestJointTorque(t *testing.T) {
	const max = 300.0
	tests := []struct{ strength, want float64 }{
		{-1, 0},
		{0, 150},
		{1, max},
		{-4, 0},
		{9, max},
	}
	for _, test := range tests {
		if got := jointTorque(test.strength, max); math.Abs(got-test.want) > tol {
			t.Errorf("jointTorque(%v) = %v, want %v", test.strength, got,
				test.want)
		}
	}
}

func TestMotorSpeed(t *testing.T) {
	if got := motorSpeed(1, 0.5, 10, 8); math.Abs(got-5) > tol {
		t.Errorf("speed = %v, want 5", got)
	}
	if got := motorSpeed(-2, 1, 10, 8); got != -8 {
		t.Errorf("speed = %v, want -8", got)
	}
	if got := motorSpeed(0.3, 0.3, 10, 8); got != 0 {
		t.Errorf("speed at target = %v, want 0", got)
	}
}

func TestSetJointStrength(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	max := r.MaxJointForceLimit()

	r.SetJointStrength(walker.ThighL, -1)
	r.SetJointStrength(walker.ShinR, 0)
	r.SetJointStrength(walker.Head, 2)
	r.SetJointStrength(walker.Hips, -1)

	for s, want := range map[walker.Slot]float64{
		walker.ThighL: 0,
		walker.ShinR:  max / 2,
		walker.Head:   max,
		walker.Hips:   max,
	} {
		p, _ := r.Part(s)
		if math.Abs(p.Strength-want) > tol {
			t.Errorf("%v strength = %v, want %v", s, p.Strength, want)
		}
	}
}

func TestSetJointTargetRotation(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	r.SetJointTargetRotation(walker.FootL, 0.5, -0.25, 1)
	if got := r.JointTarget(walker.FootL); got != [3]float64{0.5, -0.25, 1} {
		t.Errorf("target = %v", got)
	}
	if got, want := r.parts[walker.FootL].angle, 0.3; math.Abs(got-want) > tol {
		t.Errorf("hinge target = %v, want %v", got, want)
	}

	// The root has no joint
	r.SetJointTargetRotation(walker.Hips, 1, 1, 1)
	if got := r.JointTarget(walker.Hips); got != [3]float64{} {
		t.Errorf("root target = %v, want none", got)
	}
}

func TestAdvanceSettles(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})

	for i := 0; i < 60; i++ {
		if err := r.Advance(); err != nil {
			t.Fatalf("advance %v: %v", i, err)
		}
	}

	touching := false
	for _, s := range walker.Slots() {
		p, _ := r.Part(s)
		if !floatutils.Finite(p.Position[:]...) {
			t.Fatalf("%v at %v", s, p.Position)
		}
		if p.Position.Y() < -0.1 {
			t.Errorf("%v fell through the ground: %v", s, p.Position)
		}
		touching = touching || p.GroundContact
	}
	if !touching {
		t.Errorf("no part touches the ground after settling")
	}
}

func TestMotorDrivesJoint(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	r.SetJointTargetRotation(walker.ShinL, -1, 0, 0)
	r.SetJointStrength(walker.ShinL, 1)

	for i := 0; i < 20; i++ {
		if err := r.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if angle := r.JointAngle(walker.ShinL); angle > -0.3 {
		t.Errorf("knee angle = %v, want bent toward %v", angle,
			skeleton[walker.ShinL].limits.Min)
	}
	if r.JointAngle(walker.Hips) != 0 {
		t.Errorf("root reports a joint angle")
	}
}

func TestResetRestores(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	r.SetRootYaw(1)
	r.SetJointTargetRotation(walker.ThighR, 1, 0, 0)
	r.SetJointStrength(walker.ThighR, -0.5)
	for i := 0; i < 30; i++ {
		if err := r.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	r.Reset()
	for _, s := range walker.Slots() {
		p, _ := r.Part(s)
		seg := skeleton[s]
		want := mgl64.Vec3{seg.lateral, seg.center[1], seg.center[0]}
		if !vecNear(p.Position, want) {
			t.Errorf("%v at %v after reset, want %v", s, p.Position, want)
		}
		if p.GroundContact {
			t.Errorf("%v touches the ground after reset", s)
		}
		if p.Velocity.Len() != 0 {
			t.Errorf("%v moves after reset", s)
		}
		if p.Strength != r.MaxJointForceLimit() {
			t.Errorf("%v strength = %v after reset", s, p.Strength)
		}
	}
}

func TestWalkerOnRagdoll(t *testing.T) {
	r := newRagdoll(t, mgl64.Vec3{})
	w, step, err := walker.New(r, walker.FixedTarget{0, 1, 10}, nil,
		walker.DefaultConfig(), 25, 3, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	rng := distuv.Uniform{Min: walker.MinAction, Max: walker.MaxAction,
		Src: rand.NewSource(3)}
	action := mat.NewVecDense(walker.ActionSize, nil)

	episodes := 0
	for i := 0; i < 100; i++ {
		for j := 0; j < walker.ActionSize; j++ {
			action.SetVec(j, rng.Rand())
		}

		var done bool
		step, done, err = w.Step(action)
		if err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
		if step.Observation.Len() != walker.ObservationSize {
			t.Fatalf("observation length = %v", step.Observation.Len())
		}
		if !floatutils.Finite(step.Observation.RawVector().Data...) ||
			!floatutils.Finite(step.Reward) {
			t.Fatalf("step %v is not finite: %v", i, step)
		}

		if done {
			episodes++
			if step, err = w.Reset(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if episodes < 4 {
		t.Errorf("only %v episodes ended in 100 steps with a cutoff of 25",
			episodes)
	}
}
