package integrators

import (
	"fmt"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/particles"
)

// ForceField fills p.Acc and returns the potential energy of p.
type ForceField interface {
	Compute(p *dynamo.Particles) (force.Result, error)
	Config() dynamo.Config
}

// VelocityVerlet is the kick-drift-kick scheme. Positions are folded back
// into the box after every drift and the folds are tallied per coordinate.
type VelocityVerlet struct {
	ff        ForceField
	box       dynamo.Box
	crossings []int
	primed    bool
}

func NewVelocityVerlet(ff ForceField) *VelocityVerlet {
	return &VelocityVerlet{ff: ff, box: ff.Config().Box}
}

// Crossings returns the accumulated boundary crossings, one entry per
// coordinate, or nil before the first step.
func (v *VelocityVerlet) Crossings() []int { return v.crossings }

// Prime evaluates the initial accelerations. Step calls it on first use.
func (v *VelocityVerlet) Prime(p *dynamo.Particles) (force.Result, error) {
	if len(p.Vel) != len(p.Pos) {
		return force.Result{}, fmt.Errorf("%w: store has no velocities", dynamo.ErrDimensionMismatch)
	}
	v.crossings = make([]int, len(p.Pos))
	particles.Wrap(p, v.box, v.crossings)

	res, err := v.ff.Compute(p)
	if err != nil {
		return force.Result{}, err
	}
	v.primed = true
	return res, nil
}

// Step advances p by dt and returns the force evaluation at the new
// positions.
func (v *VelocityVerlet) Step(p *dynamo.Particles, dt float64) (force.Result, error) {
	if !v.primed || len(v.crossings) != len(p.Pos) {
		if _, err := v.Prime(p); err != nil {
			return force.Result{}, err
		}
	}

	halfDt := 0.5 * dt
	for k := range p.Vel {
		p.Vel[k] += p.Acc[k] * halfDt
		p.Pos[k] += p.Vel[k] * dt
	}
	particles.Wrap(p, v.box, v.crossings)

	res, err := v.ff.Compute(p)
	if err != nil {
		return force.Result{}, err
	}

	for k := range p.Vel {
		p.Vel[k] += p.Acc[k] * halfDt
	}
	return res, nil
}
