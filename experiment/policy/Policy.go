// Package policy implements harness-side policies that select actions
// for an environment without learning
package policy

import (
	"fmt"
	"strings"

	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Policy selects an action given the latest timestep
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// Type names a policy that can be configured
type Type string

const (
	UniformType Type = "uniform"
	ZeroType    Type = "zero"
)

// Config configures a policy
type Config struct {
	Type Type `yaml:"type" json:"type"`
}

// Create returns the policy described by c acting in the action space
// described by spec
func (c Config) Create(spec environment.Spec, seed uint64) (Policy, error) {
	switch Type(strings.ToLower(string(c.Type))) {
	case UniformType:
		return NewUniform(spec, seed)
	case ZeroType:
		return NewZero(spec), nil
	}
	return nil, fmt.Errorf("create: no such policy %q", c.Type)
}

// Uniform selects every action value uniformly at random between the
// bounds of the action specification
type Uniform struct {
	dist *distmv.Uniform
	dims int
}

// NewUniform returns a new Uniform policy. The action specification
// must have finite bounds.
func NewUniform(spec environment.Spec, seed uint64) (*Uniform, error) {
	if spec.Type != environment.Action {
		return nil, fmt.Errorf("newUniform: cannot create policy from "+
			"%v specification", spec.Type)
	}

	n := spec.Len()
	bounds := make([]r1.Interval, n)
	for i := 0; i < n; i++ {
		bounds[i] = r1.Interval{
			Min: spec.LowerBound.AtVec(i),
			Max: spec.UpperBound.AtVec(i),
		}
		if bounds[i].Min > bounds[i].Max ||
			!floatutils.Finite(bounds[i].Min, bounds[i].Max) {
			return nil, fmt.Errorf("newUniform: action %v has invalid "+
				"bounds [%v, %v]", i, bounds[i].Min, bounds[i].Max)
		}
	}

	src := rand.NewSource(seed)
	return &Uniform{dist: distmv.NewUniform(bounds, src), dims: n}, nil
}

// SelectAction satisfies the Policy interface
func (u *Uniform) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(u.dims, u.dist.Rand(nil))
}

// Zero always selects the zero action, which leaves every joint at the
// middle of its range at half strength
type Zero struct {
	dims int
}

// NewZero returns a new Zero policy
func NewZero(spec environment.Spec) *Zero {
	return &Zero{spec.Len()}
}

// SelectAction satisfies the Policy interface
func (z *Zero) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(z.dims, nil)
}
