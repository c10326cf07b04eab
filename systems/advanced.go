package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// Ambient defaults for AdvancedPhysics.
const (
	DefaultAirDensity         = 1.225 // kg/m³ at sea level
	DefaultAmbientTemperature = 20.0  // °C

	// ThermalLift is the upward acceleration per degree above ambient.
	ThermalLift = 0.002 // m/s² per °C
)

// AdvancedPhysics is the PhysicsStep used by AdvancedSimulation. It layers
// drag, buoyancy, environmental influencers, boundary collision and
// sub-emission on top of the base integration.
type AdvancedPhysics struct {
	AirDensity         float64 // used for particles emitted without their own density
	AmbientTemperature float64

	forceFields []components.ForceField
	attractors  []components.Attractor
	windZones   []components.WindZone
	subEmitters []components.SubEmitter

	bounds           r3.Box
	collisionEnabled bool
}

// NewAdvancedPhysics returns a step with sea-level air and no influencers.
func NewAdvancedPhysics() *AdvancedPhysics {
	return &AdvancedPhysics{
		AirDensity:         DefaultAirDensity,
		AmbientTemperature: DefaultAmbientTemperature,
		bounds:             r3.NewBox(-100, -100, -100, 100, 100, 100),
	}
}

// Step advances one particle. Without an advanced block it falls back to
// BasicPhysics.
func (a *AdvancedPhysics) Step(p *components.Particle, st *components.AdvancedState, env *StepEnv, dt float64) {
	if st == nil {
		BasicPhysics{}.Step(p, nil, env, dt)
		return
	}
	// Gravity, already scaled by the emitter's GravityScale, is in Acceleration.
	integrate(p, dt)

	a.applyDrag(p, st, dt)
	p.Velocity.Y += st.Buoyancy * dt
	if excess := st.Temperature - a.AmbientTemperature; excess > 0 {
		p.Velocity.Y += excess * ThermalLift * dt
	}

	for i := range a.forceFields {
		f := &a.forceFields[i]
		if !f.Enabled {
			continue
		}
		s := f.StrengthAt(r3.Norm(r3.Sub(p.Position, f.Position)))
		if s == 0 {
			continue
		}
		p.Velocity = r3.Add(p.Velocity, r3.Scale(s*dt/p.Mass, f.Force))
	}

	for i := range a.attractors {
		at := &a.attractors[i]
		if !at.Enabled {
			continue
		}
		toward := r3.Sub(at.Position, p.Position)
		d := r3.Norm(toward)
		if d == 0 {
			continue
		}
		s := at.StrengthAt(d)
		if s == 0 {
			continue
		}
		p.Velocity = r3.Add(p.Velocity, r3.Scale(s*dt/(p.Mass*d), toward))
	}

	if st.WindSusceptible {
		for i := range a.windZones {
			a.applyWind(p, st, &a.windZones[i], env, dt)
		}
	}

	if st.Turbulence.Enabled && env.TurbulenceMode == TurbulenceContinuous && env.Turbulence != nil {
		t := env.Turbulence.Sample(p.Position, env.Time, st.Turbulence)
		p.Velocity = r3.Add(p.Velocity, r3.Scale(dt, t))
	}

	collided := false
	if a.collisionEnabled && st.CollidesWithWorld {
		collided = collideBounds(p, st, a.bounds)
	}

	p.Rotation += st.AngularVelocity * dt
	if st.HeatTransfer > 0 {
		st.Temperature += (a.AmbientTemperature - st.Temperature) * math.Min(1, st.HeatTransfer*dt)
	}
	refreshAppearance(p)

	for i := range a.subEmitters {
		se := &a.subEmitters[i]
		if !se.Enabled || se.ParentType != p.Type {
			continue
		}
		if se.Trigger == components.TriggerAlive || (se.Trigger == components.TriggerCollision && collided) {
			env.Spawn.Push(SpawnRequest{Emitter: &se.Emitter, Position: p.Position, Velocity: p.Velocity, Count: se.Count})
		}
	}
}

// Retired queues death-triggered sub-emissions at the dead particle.
func (a *AdvancedPhysics) Retired(p *components.Particle, _ *components.AdvancedState, env *StepEnv) {
	for i := range a.subEmitters {
		se := &a.subEmitters[i]
		if se.Enabled && se.Trigger == components.TriggerDeath && se.ParentType == p.Type {
			env.Spawn.Push(SpawnRequest{Emitter: &se.Emitter, Position: p.Position, Velocity: p.Velocity, Count: se.Count})
		}
	}
}

// applyDrag removes velocity along -v with magnitude 0.5·ρ·|v|²·Cd·A/m·dt,
// never more than |v|.
func (a *AdvancedPhysics) applyDrag(p *components.Particle, st *components.AdvancedState, dt float64) {
	if st.DragCoefficient == 0 || p.Size <= 0 {
		return
	}
	speed := r3.Norm(p.Velocity)
	if speed == 0 {
		return
	}
	rho := st.AirDensity
	if rho <= 0 {
		rho = a.AirDensity
	}
	radius := p.Size / 2
	area := math.Pi * radius * radius
	dv := 0.5 * rho * speed * speed * st.DragCoefficient * area / p.Mass * dt
	if dv >= speed {
		p.Velocity = r3.Vec{}
		return
	}
	p.Velocity = r3.Sub(p.Velocity, r3.Scale(dv/speed, p.Velocity))
}

// applyWind relaxes velocity toward the zone's flow velocity.
func (a *AdvancedPhysics) applyWind(p *components.Particle, st *components.AdvancedState, w *components.WindZone, env *StepEnv, dt float64) {
	if !w.Enabled {
		return
	}
	n := r3.Norm(w.Direction)
	if n == 0 {
		return
	}
	s := w.StrengthAt(r3.Norm(r3.Sub(p.Position, w.Position)))
	if s == 0 {
		return
	}
	flow := r3.Scale(w.FlowSpeed/n, w.Direction)
	if w.Turbulence != 0 && env.Turbulence != nil {
		flow = r3.Add(flow, r3.Scale(w.Turbulence, windTurbulence(env.Turbulence, p.Position, env.Time, st.Turbulence)))
	}
	k := math.Min(1, s*st.WindFactor*dt)
	p.Velocity = r3.Add(p.Velocity, r3.Scale(k, r3.Sub(flow, p.Velocity)))
}

// AdvancedSimulation is a Simulation whose pool carries the advanced block and
// whose physics step is an *AdvancedPhysics.
type AdvancedSimulation struct {
	*Simulation
	physics *AdvancedPhysics
}

// NewAdvancedSimulation creates an advanced simulation with the given capacity.
func NewAdvancedSimulation(capacity int, rng *rand.Rand) *AdvancedSimulation {
	sim := newSimulation(capacity, true, rng)
	phys := NewAdvancedPhysics()
	sim.SetPhysics(phys)
	return &AdvancedSimulation{Simulation: sim, physics: phys}
}

// Physics exposes the advanced step for ambient tuning.
func (s *AdvancedSimulation) Physics() *AdvancedPhysics { return s.physics }

// AddForceField appends f and returns its index.
func (s *AdvancedSimulation) AddForceField(f components.ForceField) int {
	s.physics.forceFields = append(s.physics.forceFields, f)
	return len(s.physics.forceFields) - 1
}

// RemoveForceField deletes the field at index; out of range is a no-op.
func (s *AdvancedSimulation) RemoveForceField(index int) {
	s.physics.forceFields = removeAt(s.physics.forceFields, index)
}

// ClearForceFields removes all force fields.
func (s *AdvancedSimulation) ClearForceFields() { s.physics.forceFields = nil }

// ForceFields returns a copy of the force fields in insertion order.
func (s *AdvancedSimulation) ForceFields() []components.ForceField {
	return append([]components.ForceField(nil), s.physics.forceFields...)
}

// AddAttractor appends at and returns its index.
func (s *AdvancedSimulation) AddAttractor(at components.Attractor) int {
	s.physics.attractors = append(s.physics.attractors, at)
	return len(s.physics.attractors) - 1
}

// RemoveAttractor deletes the attractor at index; out of range is a no-op.
func (s *AdvancedSimulation) RemoveAttractor(index int) {
	s.physics.attractors = removeAt(s.physics.attractors, index)
}

// ClearAttractors removes all attractors.
func (s *AdvancedSimulation) ClearAttractors() { s.physics.attractors = nil }

// Attractors returns a copy of the attractors in insertion order.
func (s *AdvancedSimulation) Attractors() []components.Attractor {
	return append([]components.Attractor(nil), s.physics.attractors...)
}

// AddWindZone appends w and returns its index.
func (s *AdvancedSimulation) AddWindZone(w components.WindZone) int {
	s.physics.windZones = append(s.physics.windZones, w)
	return len(s.physics.windZones) - 1
}

// RemoveWindZone deletes the zone at index; out of range is a no-op.
func (s *AdvancedSimulation) RemoveWindZone(index int) {
	s.physics.windZones = removeAt(s.physics.windZones, index)
}

// ClearWindZones removes all wind zones.
func (s *AdvancedSimulation) ClearWindZones() { s.physics.windZones = nil }

// WindZones returns a copy of the wind zones in insertion order.
func (s *AdvancedSimulation) WindZones() []components.WindZone {
	return append([]components.WindZone(nil), s.physics.windZones...)
}

// AddSubEmitter validates the nested emitter and appends the rule.
func (s *AdvancedSimulation) AddSubEmitter(se components.SubEmitter) (int, error) {
	if err := se.Emitter.Validate(); err != nil {
		return -1, fmt.Errorf("add sub-emitter: %w", err)
	}
	se.Emitter = se.Emitter.Clone()
	s.physics.subEmitters = append(s.physics.subEmitters, se)
	return len(s.physics.subEmitters) - 1, nil
}

// ReplaceSubEmitter validates the nested emitter and overwrites the rule at
// index.
func (s *AdvancedSimulation) ReplaceSubEmitter(index int, se components.SubEmitter) error {
	if index < 0 || index >= len(s.physics.subEmitters) {
		return fmt.Errorf("replace sub-emitter: index %d out of range", index)
	}
	if err := se.Emitter.Validate(); err != nil {
		return fmt.Errorf("replace sub-emitter: %w", err)
	}
	se.Emitter = se.Emitter.Clone()
	s.physics.subEmitters[index] = se
	return nil
}

// RemoveSubEmitter deletes the rule at index; out of range is a no-op.
func (s *AdvancedSimulation) RemoveSubEmitter(index int) {
	s.physics.subEmitters = removeAt(s.physics.subEmitters, index)
}

// ClearSubEmitters removes all sub-emitter rules.
func (s *AdvancedSimulation) ClearSubEmitters() { s.physics.subEmitters = nil }

// SubEmitters returns a copy of the rules in insertion order.
func (s *AdvancedSimulation) SubEmitters() []components.SubEmitter {
	out := make([]components.SubEmitter, len(s.physics.subEmitters))
	for i, se := range s.physics.subEmitters {
		se.Emitter = se.Emitter.Clone()
		out[i] = se
	}
	return out
}

// SetCollisionBounds sets the world box. Corners are reordered if needed.
func (s *AdvancedSimulation) SetCollisionBounds(lo, hi r3.Vec) {
	s.physics.bounds = r3.Box{Min: lo, Max: hi}.Canon()
}

// CollisionBounds returns the world box.
func (s *AdvancedSimulation) CollisionBounds() r3.Box { return s.physics.bounds }

// SetCollisionEnabled toggles boundary collision for all particles.
func (s *AdvancedSimulation) SetCollisionEnabled(enabled bool) {
	s.physics.collisionEnabled = enabled
}

// CollisionEnabled reports whether boundary collision is on.
func (s *AdvancedSimulation) CollisionEnabled() bool { return s.physics.collisionEnabled }

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i], s[i+1:]...)
}
