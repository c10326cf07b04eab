package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

func unitBox() r3.Box {
	return r3.NewBox(-1, -1, -1, 1, 1, 1)
}

func TestCollideBoundsInside(t *testing.T) {
	p := components.Particle{Position: r3.Vec{X: 0.5}, Velocity: r3.Vec{X: 3}}
	st := components.AdvancedState{Elasticity: 1}

	if collideBounds(&p, &st, unitBox()) {
		t.Error("expected no collision inside the box")
	}
	if p.Velocity != (r3.Vec{X: 3}) {
		t.Errorf("velocity changed without collision: %v", p.Velocity)
	}
}

func TestCollideBoundsPerAxis(t *testing.T) {
	tests := []struct {
		name    string
		pos     r3.Vec
		vel     r3.Vec
		wantPos r3.Vec
		wantVel r3.Vec
	}{
		{"max x", r3.Vec{X: 1.2}, r3.Vec{X: 5}, r3.Vec{X: 1}, r3.Vec{X: -5}},
		{"min x", r3.Vec{X: -1.5}, r3.Vec{X: -2}, r3.Vec{X: -1}, r3.Vec{X: 2}},
		{"floor", r3.Vec{Y: -3}, r3.Vec{Y: -4}, r3.Vec{Y: -1}, r3.Vec{Y: 4}},
		{"ceiling", r3.Vec{Y: 2}, r3.Vec{Y: 1}, r3.Vec{Y: 1}, r3.Vec{Y: -1}},
		{"far z", r3.Vec{Z: 1.01}, r3.Vec{Z: 7}, r3.Vec{Z: 1}, r3.Vec{Z: -7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := components.Particle{Position: tt.pos, Velocity: tt.vel}
			st := components.AdvancedState{Elasticity: 1}

			if !collideBounds(&p, &st, unitBox()) {
				t.Fatal("expected collision")
			}
			if p.Position != tt.wantPos {
				t.Errorf("position %v, want %v", p.Position, tt.wantPos)
			}
			if !approxEqual(p.Velocity.X, tt.wantVel.X, 1e-12) ||
				!approxEqual(p.Velocity.Y, tt.wantVel.Y, 1e-12) ||
				!approxEqual(p.Velocity.Z, tt.wantVel.Z, 1e-12) {
				t.Errorf("velocity %v, want %v", p.Velocity, tt.wantVel)
			}
		})
	}
}

func TestCollideBoundsCornerLastAxisWins(t *testing.T) {
	p := components.Particle{Position: r3.Vec{X: 2, Y: -2}, Velocity: r3.Vec{X: 1, Y: -1}}
	st := components.AdvancedState{Elasticity: 1}

	collideBounds(&p, &st, unitBox())

	if p.Position != (r3.Vec{X: 1, Y: -1}) {
		t.Errorf("expected both axes clamped, got %v", p.Position)
	}
	// Only the Y normal is used for the response.
	if !approxEqual(p.Velocity.X, 1, 1e-12) || !approxEqual(p.Velocity.Y, 1, 1e-12) {
		t.Errorf("expected only Y reflected, got %v", p.Velocity)
	}
}

func TestBounceNeverGainsEnergy(t *testing.T) {
	rng := newTestRand()
	normals := []r3.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}

	for _, e := range []float64{0, 0.3, 0.7, 1} {
		for _, f := range []float64{0, 0.25, 0.5, 1} {
			for i := 0; i < 200; i++ {
				v := r3.Vec{X: rng.NormFloat64() * 5, Y: rng.NormFloat64() * 5, Z: rng.NormFloat64() * 5}
				n := normals[rng.Intn(len(normals))]
				out := bounce(v, n, e, f)
				if r3.Norm(out) > r3.Norm(v)+1e-9 {
					t.Fatalf("e=%v f=%v: |v'|=%v > |v|=%v", e, f, r3.Norm(out), r3.Norm(v))
				}
			}
		}
	}
}

func TestBounceFriction(t *testing.T) {
	out := bounce(r3.Vec{X: 4, Y: -2}, r3.Vec{Y: 1}, 0.5, 0.25)

	if !approxEqual(out.Y, 1, 1e-12) {
		t.Errorf("normal component %v, want 1", out.Y)
	}
	if !approxEqual(out.X, 3, 1e-12) {
		t.Errorf("tangential component %v, want 3", out.X)
	}
}

func TestBoundaryBounceScenario(t *testing.T) {
	s := NewAdvancedSimulation(10, newTestRand())
	s.SetCollisionBounds(r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: -1, Y: -1, Z: -1})
	s.SetCollisionEnabled(true)

	placeParticle(t, s.Simulation, components.Particle{
		Position: r3.Vec{X: 1},
		Velocity: r3.Vec{X: 5},
		Life:     10,
		MaxLife:  10,
		Mass:     1,
	}, components.AdvancedState{CollidesWithWorld: true, Elasticity: 1})

	s.Update(1.0 / 60)

	p := s.pool.particles[0]
	if p.Velocity.X != -5 {
		t.Errorf("expected v.x = -5 after bounce, got %v", p.Velocity.X)
	}
	if p.Position.X != 1 {
		t.Errorf("expected particle clamped to x=1, got %v", p.Position.X)
	}
}

func TestCollisionDisabled(t *testing.T) {
	s := NewAdvancedSimulation(10, newTestRand())
	s.SetCollisionBounds(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})

	placeParticle(t, s.Simulation, components.Particle{
		Position: r3.Vec{X: 1},
		Velocity: r3.Vec{X: 5},
		Life:     10,
		MaxLife:  10,
		Mass:     1,
	}, components.AdvancedState{CollidesWithWorld: true, Elasticity: 1})

	s.Update(1.0 / 60)

	if s.pool.particles[0].Velocity.X != 5 {
		t.Error("expected no response while collision is disabled")
	}
	if s.CollisionEnabled() {
		t.Error("expected collision to default to disabled")
	}
}
