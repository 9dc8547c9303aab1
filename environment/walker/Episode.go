package walker

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment"
	"gonum.org/v1/gonum/spatial/r1"
)

// YawBounds is the range the hips' yaw is sampled from at reset
var YawBounds = r1.Interval{Min: 0, Max: 2 * math.Pi}

// EpisodeStarter returns a Starter sampling episode starts: a yaw in
// YawBounds followed by a walking speed in SpeedBounds
func EpisodeStarter(seed uint64) environment.Starter {
	return environment.NewUniformStarter([]r1.Interval{
		YawBounds,
		SpeedBounds,
	}, seed)
}

// Start is a sampled episode start
type Start struct {
	Yaw   float64 // radians
	Speed float64
}

// Episodes is the episode controller. It restores the body to rest,
// re-randomizes the hips' heading and the target walking speed, and
// recomputes the orientation frame.
type Episodes struct {
	starter     environment.Starter
	orientation OrientationReference
}

// NewEpisodes returns a new episode controller drawing starts from
// starter. If orientation is nil, an OrientationCube is used.
func NewEpisodes(starter environment.Starter,
	orientation OrientationReference) *Episodes {
	if orientation == nil {
		orientation = OrientationCube{}
	}
	return &Episodes{starter: starter, orientation: orientation}
}

// Reset restores body to its rest pose, sets a uniformly random hips
// yaw, recomputes the orientation frame from the fresh pose and target,
// and re-samples cfg's walking speed if cfg.RandomizeWalkSpeed is set.
// Reset returns the new frame and the sampled start.
func (e *Episodes) Reset(body Body, cfg *Config,
	target mgl64.Vec3) (Frame, Start, error) {
	if body == nil {
		return Frame{}, Start{}, fmt.Errorf("reset: %w", ErrNilBody)
	}

	sample := e.starter.Start()
	start := Start{Yaw: sample.AtVec(0), Speed: sample.AtVec(1)}

	body.Reset()
	body.SetRootYaw(start.Yaw)

	hips, ok := body.Part(Hips)
	if !ok {
		return Frame{}, start, fmt.Errorf("reset: %w: %v",
			ErrMissingBodyPart, Hips)
	}
	frame := e.orientation.Update(hips.Position, target)

	if cfg.RandomizeWalkSpeed {
		cfg.SetTargetWalkingSpeed(start.Speed)
	} else {
		cfg.SetTargetWalkingSpeed(cfg.TargetWalkingSpeed)
	}

	return frame, start, nil
}
