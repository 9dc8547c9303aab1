package ragdoll

import (
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
	"gonum.org/v1/gonum/spatial/r1"
)

// segment describes one box-shaped body part of the skeleton at rest.
// Positions are planar: X points forward and Y points up. Lateral is
// the part's fixed sideways offset, positive to the walker's left.
type segment struct {
	center     [2]float64
	halfWidth  float64
	halfHeight float64
	lateral    float64

	// parent is the segment this segment's joint attaches to. The hips
	// are the root and have no joint.
	parent walker.Slot
	anchor [2]float64
	limits r1.Interval
}

// skeleton is the rest pose of the ragdoll. Hinge angles are positive
// when the lower end of a hanging segment swings forward.
var skeleton = [walker.NumSlots]segment{
	walker.Hips: {
		center:     [2]float64{0, 1.0},
		halfWidth:  0.12,
		halfHeight: 0.1,
		parent:     walker.Hips,
	},
	walker.Spine: {
		center:     [2]float64{0, 1.3},
		halfWidth:  0.1,
		halfHeight: 0.18,
		parent:     walker.Hips,
		anchor:     [2]float64{0, 1.1},
		limits:     r1.Interval{Min: -0.5, Max: 0.5},
	},
	walker.Head: {
		center:     [2]float64{0, 1.65},
		halfWidth:  0.1,
		halfHeight: 0.12,
		parent:     walker.Spine,
		anchor:     [2]float64{0, 1.5},
		limits:     r1.Interval{Min: -0.6, Max: 0.6},
	},
	walker.ThighL: {
		center:     [2]float64{0, 0.7},
		halfWidth:  0.07,
		halfHeight: 0.2,
		lateral:    0.1,
		parent:     walker.Hips,
		anchor:     [2]float64{0, 0.9},
		limits:     r1.Interval{Min: -0.6, Max: 1.2},
	},
	walker.ShinL: {
		center:     [2]float64{0, 0.3},
		halfWidth:  0.06,
		halfHeight: 0.2,
		lateral:    0.1,
		parent:     walker.ThighL,
		anchor:     [2]float64{0, 0.5},
		limits:     r1.Interval{Min: -1.6, Max: 0},
	},
	walker.FootL: {
		center:     [2]float64{0.05, 0.05},
		halfWidth:  0.12,
		halfHeight: 0.05,
		lateral:    0.1,
		parent:     walker.ShinL,
		anchor:     [2]float64{0, 0.1},
		limits:     r1.Interval{Min: -0.6, Max: 0.6},
	},
	walker.ThighR: {
		center:     [2]float64{0, 0.7},
		halfWidth:  0.07,
		halfHeight: 0.2,
		lateral:    -0.1,
		parent:     walker.Hips,
		anchor:     [2]float64{0, 0.9},
		limits:     r1.Interval{Min: -0.6, Max: 1.2},
	},
	walker.ShinR: {
		center:     [2]float64{0, 0.3},
		halfWidth:  0.06,
		halfHeight: 0.2,
		lateral:    -0.1,
		parent:     walker.ThighR,
		anchor:     [2]float64{0, 0.5},
		limits:     r1.Interval{Min: -1.6, Max: 0},
	},
	walker.FootR: {
		center:     [2]float64{0.05, 0.05},
		halfWidth:  0.12,
		halfHeight: 0.05,
		lateral:    -0.1,
		parent:     walker.ShinR,
		anchor:     [2]float64{0, 0.1},
		limits:     r1.Interval{Min: -0.6, Max: 0.6},
	},
	walker.ArmL: {
		center:     [2]float64{0, 1.25},
		halfWidth:  0.05,
		halfHeight: 0.15,
		lateral:    0.25,
		parent:     walker.Spine,
		anchor:     [2]float64{0, 1.42},
		limits:     r1.Interval{Min: -1, Max: 2},
	},
	walker.ForearmL: {
		center:     [2]float64{0, 0.93},
		halfWidth:  0.045,
		halfHeight: 0.15,
		lateral:    0.25,
		parent:     walker.ArmL,
		anchor:     [2]float64{0, 1.09},
		limits:     r1.Interval{Min: 0, Max: 2},
	},
	walker.HandL: {
		center:     [2]float64{0, 0.74},
		halfWidth:  0.04,
		halfHeight: 0.05,
		lateral:    0.25,
		parent:     walker.ForearmL,
		anchor:     [2]float64{0, 0.79},
		limits:     r1.Interval{Min: -0.3, Max: 0.3},
	},
	walker.ArmR: {
		center:     [2]float64{0, 1.25},
		halfWidth:  0.05,
		halfHeight: 0.15,
		lateral:    -0.25,
		parent:     walker.Spine,
		anchor:     [2]float64{0, 1.42},
		limits:     r1.Interval{Min: -1, Max: 2},
	},
	walker.ForearmR: {
		center:     [2]float64{0, 0.93},
		halfWidth:  0.045,
		halfHeight: 0.15,
		lateral:    -0.25,
		parent:     walker.ArmR,
		anchor:     [2]float64{0, 1.09},
		limits:     r1.Interval{Min: 0, Max: 2},
	},
	walker.HandR: {
		center:     [2]float64{0, 0.74},
		halfWidth:  0.04,
		halfHeight: 0.05,
		lateral:    -0.25,
		parent:     walker.ForearmR,
		anchor:     [2]float64{0, 0.79},
		limits:     r1.Interval{Min: -0.3, Max: 0.3},
	},
}

// root returns whether the segment of s has no joint
func root(s walker.Slot) bool {
	return s == walker.Hips
}
