package walker

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TargetSource supplies the target position. The Walker reads it once
// at the start of every tick and uses that snapshot for the whole tick.
type TargetSource interface {
	Position() mgl64.Vec3
}

// Sensor is implemented by targets that detect body parts entering
// their volume. Sense is called once per tick after physics has
// advanced and returns the number of touches to reward.
type Sensor interface {
	Sense(p *Parts) int
}

// FixedTarget is a TargetSource that never moves
type FixedTarget mgl64.Vec3

// Position satisfies the TargetSource interface
func (f FixedTarget) Position() mgl64.Vec3 {
	return mgl64.Vec3(f)
}

// Target is a moving target. When any body part comes within Radius of
// the target it reports a touch and, if RespawnOnTouch is set, jumps to
// a uniformly random point on the ground disc of SpawnRadius around its
// starting position.
type Target struct {
	Radius         float64
	SpawnRadius    float64
	RespawnOnTouch bool

	start    mgl64.Vec3
	position mgl64.Vec3
	angle    distuv.Uniform
	radius   distuv.Uniform
}

// NewTarget returns a new Target at start
func NewTarget(start mgl64.Vec3, radius, spawnRadius float64,
	respawnOnTouch bool, seed uint64) *Target {
	src := rand.NewSource(seed)
	return &Target{
		Radius:         radius,
		SpawnRadius:    spawnRadius,
		RespawnOnTouch: respawnOnTouch,
		start:          start,
		position:       start,
		angle:          distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
		radius:         distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// Position satisfies the TargetSource interface
func (t *Target) Position() mgl64.Vec3 {
	return t.position
}

// Sense satisfies the Sensor interface. At most one touch is reported
// per tick.
func (t *Target) Sense(p *Parts) int {
	for i := range p {
		if p[i].Position.Sub(t.position).Len() <= t.Radius {
			if t.RespawnOnTouch {
				t.Respawn()
			}
			return 1
		}
	}
	return 0
}

// Respawn moves the target to a uniformly random point on the ground
// disc of SpawnRadius around its starting position
func (t *Target) Respawn() {
	theta := t.angle.Rand()
	r := t.SpawnRadius * math.Sqrt(t.radius.Rand())
	t.position = t.start.Add(mgl64.Vec3{
		r * math.Sin(theta),
		0,
		r * math.Cos(theta),
	})
}
