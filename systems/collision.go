package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// collideBounds clamps the particle into box and applies the bounce response.
// Axes are tested X, Y, Z; when more than one is violated the last one
// supplies the normal. Returns true when a response was applied.
func collideBounds(p *components.Particle, adv *components.AdvancedState, box r3.Box) bool {
	var normal r3.Vec
	hit := false

	if p.Position.X < box.Min.X {
		p.Position.X = box.Min.X
		normal, hit = r3.Vec{X: 1}, true
	} else if p.Position.X > box.Max.X {
		p.Position.X = box.Max.X
		normal, hit = r3.Vec{X: -1}, true
	}
	if p.Position.Y < box.Min.Y {
		p.Position.Y = box.Min.Y
		normal, hit = r3.Vec{Y: 1}, true
	} else if p.Position.Y > box.Max.Y {
		p.Position.Y = box.Max.Y
		normal, hit = r3.Vec{Y: -1}, true
	}
	if p.Position.Z < box.Min.Z {
		p.Position.Z = box.Min.Z
		normal, hit = r3.Vec{Z: 1}, true
	} else if p.Position.Z > box.Max.Z {
		p.Position.Z = box.Max.Z
		normal, hit = r3.Vec{Z: -1}, true
	}
	if !hit {
		return false
	}

	p.Velocity = bounce(p.Velocity, normal, adv.Elasticity, adv.Friction)
	return true
}

// bounce splits v into normal and tangential parts about the unit normal n:
// v' = v - (1+e)vn - f*vt.
func bounce(v, n r3.Vec, elasticity, friction float64) r3.Vec {
	vn := r3.Scale(r3.Dot(v, n), n)
	vt := r3.Sub(v, vn)
	out := r3.Sub(v, r3.Scale(1+elasticity, vn))
	return r3.Sub(out, r3.Scale(friction, vt))
}
