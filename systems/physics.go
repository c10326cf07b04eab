package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// StepEnv is the read-mostly context handed to a PhysicsStep for one tick.
// Spawn is private to the goroutine running the step.
type StepEnv struct {
	Emitter        *components.EmitterConfig
	Time           float64 // simulation clock, seconds
	Turbulence     TurbulenceField
	TurbulenceMode TurbulenceMode
	Spawn          *SpawnQueue
}

// PhysicsStep advances one live particle by dt. adv is nil when the pool
// carries no advanced block. Implementations must only touch the particle
// they are given so that chunks of the pool can be stepped concurrently.
type PhysicsStep interface {
	Step(p *components.Particle, adv *components.AdvancedState, env *StepEnv, dt float64)
}

// RetireHook is implemented by physics steps that react to particle death.
// It runs on the simulation goroutine before the slot is released.
type RetireHook interface {
	Retired(p *components.Particle, adv *components.AdvancedState, env *StepEnv)
}

// BasicPhysics is the default step: constant acceleration, rotation and
// life-ratio interpolation of colour and size.
type BasicPhysics struct{}

func (BasicPhysics) Step(p *components.Particle, _ *components.AdvancedState, _ *StepEnv, dt float64) {
	integrate(p, dt)
	p.Rotation += p.RotationSpeed * dt
	refreshAppearance(p)
}

// integrate applies semi-implicit Euler. The particle's gravity is captured
// into Acceleration at emission.
func integrate(p *components.Particle, dt float64) {
	p.Velocity = r3.Add(p.Velocity, r3.Scale(dt, p.Acceleration))
	p.Position = r3.Add(p.Position, r3.Scale(dt, p.Velocity))
}

// refreshAppearance interpolates the displayed colour and size from start to
// end as the particle ages.
func refreshAppearance(p *components.Particle) {
	t := 1 - p.LifeRatio()
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	p.Color = components.Lerp(p.StartColor, p.EndColor, t)
	p.Size = p.StartSize + (p.EndSize-p.StartSize)*t
}
