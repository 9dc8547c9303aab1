package environment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, a discount, or a
// reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// length, and bounds of an action, observation, discount, or reward in
// an environment
type Spec struct {
	Type       SpecType
	LowerBound *mat.VecDense
	UpperBound *mat.VecDense
	Cardinality
}

// NewSpec constructs a new environment specification. The argument t
// outlines what the specification is describing (e.g. actions,
// observations, etc.). The cardinality argument describes whether the
// values that the spec describes are continuous or discrete. NewSpec
// panics if the bounds have different lengths.
func NewSpec(t SpecType, lowerBound, upperBound *mat.VecDense,
	cardinality Cardinality) Spec {
	if lowerBound.Len() != upperBound.Len() {
		panic(fmt.Sprintf("newSpec: lower bounds length %v must match "+
			"upper bounds length %v", lowerBound.Len(), upperBound.Len()))
	}
	return Spec{t, lowerBound, upperBound, cardinality}
}

// NewUnboundedSpec returns a continuous specification of n values
// bounded by ±Inf
func NewUnboundedSpec(t SpecType, n int) Spec {
	low := mat.NewVecDense(n, nil)
	high := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		low.SetVec(i, math.Inf(-1))
		high.SetVec(i, math.Inf(1))
	}
	return NewSpec(t, low, high, Continuous)
}

// NewScalarSpec returns a continuous specification of a single value
// bounded by [min, max]
func NewScalarSpec(t SpecType, min, max float64) Spec {
	return NewSpec(t, mat.NewVecDense(1, []float64{min}),
		mat.NewVecDense(1, []float64{max}), Continuous)
}

// Len returns the number of values the Spec describes
func (s Spec) Len() int {
	return s.LowerBound.Len()
}
