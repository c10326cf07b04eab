package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// emitFrom places one particle sampled from cfg at origin. source is the
// velocity inherited when cfg enables inheritance. Returns false (and counts
// a drop) when the pool is full.
func (s *Simulation) emitFrom(cfg *components.EmitterConfig, origin, source r3.Vec) bool {
	i, ok := s.pool.acquire()
	if !ok {
		s.stats.Dropped++
		return false
	}
	s.stats.Emitted++

	adv := cfg.Advanced
	rng := s.rng
	p := &s.pool.particles[i]

	p.Position = origin
	if adv != nil && (adv.VolumeEmission || adv.SurfaceEmission) {
		p.Position = r3.Add(origin, sampleVolume(adv.Volume, adv.SurfaceEmission, rng))
	}

	var dir r3.Vec
	if cfg.Planar {
		dir = randomOnRing(cfg.Direction, rng)
	} else {
		dir = randomInCone(cfg.Direction, cfg.Spread, rng)
	}

	var speed float64
	if adv != nil && adv.Speed.IsSet() {
		speed = sampleRange(adv.Speed, rng)
	} else {
		speed = vary(cfg.Speed, cfg.SpeedVariation, rng)
	}
	p.Velocity = r3.Scale(speed, dir)

	if adv != nil && adv.InheritVelocity {
		p.Velocity = r3.Add(p.Velocity, r3.Scale(adv.InheritFactor, source))
	}
	if adv != nil && adv.Turbulence.Enabled && s.turbulenceMode == TurbulenceEmission {
		p.Velocity = r3.Add(p.Velocity, s.turbulence.Sample(p.Position, s.clock, adv.Turbulence))
	}

	gravityScale := 1.0
	if adv != nil {
		gravityScale = adv.GravityScale
	}
	p.Acceleration = r3.Scale(gravityScale, cfg.Gravity)

	if adv != nil && adv.Lifetime.IsSet() {
		p.MaxLife = sampleRange(adv.Lifetime, rng)
	} else {
		p.MaxLife = vary(cfg.Lifetime, cfg.LifetimeVariation, rng)
	}
	p.Life = p.MaxLife

	sizeOffset := cfg.SizeVariation * (2*rng.Float64() - 1)
	if adv != nil && adv.StartSize.IsSet() {
		p.StartSize = sampleRange(adv.StartSize, rng)
	} else {
		p.StartSize = math.Max(0, cfg.StartSize+sizeOffset)
	}
	if adv != nil && adv.EndSize.IsSet() {
		p.EndSize = sampleRange(adv.EndSize, rng)
	} else {
		p.EndSize = math.Max(0, cfg.EndSize+sizeOffset)
	}
	p.Size = p.StartSize

	p.StartColor = cfg.StartColor
	p.EndColor = cfg.EndColor
	p.Color = cfg.StartColor

	p.Rotation = rng.Float64() * 2 * math.Pi
	if adv != nil && adv.RotationSpeed.IsSet() {
		p.RotationSpeed = sampleRange(adv.RotationSpeed, rng)
	} else {
		p.RotationSpeed = vary(0, cfg.RotationSpeedVariation, rng)
	}

	if adv != nil && adv.Mass.IsSet() {
		p.Mass = sampleRange(adv.Mass, rng)
	} else {
		p.Mass = vary(cfg.Mass, cfg.MassVariation, rng)
	}
	p.Type = cfg.Type

	if st := s.pool.advancedAt(i); st != nil {
		seedAdvanced(st, p, adv)
	}
	return true
}

// seedAdvanced copies the emitter's per-particle defaults into st.
func seedAdvanced(st *components.AdvancedState, p *components.Particle, adv *components.AdvancedEmission) {
	if adv == nil {
		adv = components.DefaultAdvancedEmission()
	}
	*st = components.AdvancedState{
		AngularVelocity:   p.RotationSpeed,
		DragCoefficient:   adv.DragCoefficient,
		Buoyancy:          adv.Buoyancy,
		Temperature:       adv.Temperature,
		HeatTransfer:      adv.HeatTransfer,
		Elasticity:        adv.Elasticity,
		Friction:          adv.Friction,
		Charge:            adv.Charge,
		CollidesWithWorld: adv.CollidesWithWorld,
		WindSusceptible:   adv.WindSusceptible,
		WindFactor:        adv.WindInfluence,
		AirDensity:        adv.AirDensity,
		Turbulence:        adv.Turbulence,
	}
}

// vary returns base ± variation, uniformly distributed.
func vary(base, variation float64, rng *rand.Rand) float64 {
	if variation == 0 {
		return base
	}
	return base + variation*(2*rng.Float64()-1)
}

func sampleRange(r components.Range, rng *rand.Rand) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

// randomInCone returns a unit vector uniformly distributed over the spherical
// cap of half-angle spread around axis. A zero axis is treated as +Y.
func randomInCone(axis r3.Vec, spread float64, rng *rand.Rand) r3.Vec {
	axis = unitOr(axis, r3.Vec{Y: 1})
	if spread <= 0 {
		return axis
	}
	cosMin := math.Cos(math.Min(spread, math.Pi))
	cosTheta := cosMin + rng.Float64()*(1-cosMin)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := rng.Float64() * 2 * math.Pi

	right, up := orthonormalBasis(axis)
	v := r3.Scale(cosTheta, axis)
	v = r3.Add(v, r3.Scale(sinTheta*math.Cos(phi), right))
	v = r3.Add(v, r3.Scale(sinTheta*math.Sin(phi), up))
	return r3.Unit(v)
}

// randomOnRing returns a unit vector uniformly distributed on the circle
// perpendicular to axis.
func randomOnRing(axis r3.Vec, rng *rand.Rand) r3.Vec {
	axis = unitOr(axis, r3.Vec{Y: 1})
	right, up := orthonormalBasis(axis)
	phi := rng.Float64() * 2 * math.Pi
	return r3.Add(r3.Scale(math.Cos(phi), right), r3.Scale(math.Sin(phi), up))
}

// orthonormalBasis returns two unit vectors perpendicular to the unit axis
// and to each other.
func orthonormalBasis(axis r3.Vec) (right, up r3.Vec) {
	ref := r3.Vec{Y: 1}
	if math.Abs(r3.Dot(axis, ref)) > 0.99 {
		ref = r3.Vec{X: 1}
	}
	right = r3.Unit(r3.Cross(axis, ref))
	up = r3.Unit(r3.Cross(right, axis))
	return right, up
}

// sampleVolume returns an offset inside the box of the given half-extent, or
// on one of its faces when surface is set.
func sampleVolume(half r3.Vec, surface bool, rng *rand.Rand) r3.Vec {
	off := r3.Vec{
		X: half.X * (2*rng.Float64() - 1),
		Y: half.Y * (2*rng.Float64() - 1),
		Z: half.Z * (2*rng.Float64() - 1),
	}
	if !surface {
		return off
	}
	sign := 1.0
	if rng.Intn(2) == 0 {
		sign = -1
	}
	switch rng.Intn(3) {
	case 0:
		off.X = sign * half.X
	case 1:
		off.Y = sign * half.Y
	default:
		off.Z = sign * half.Z
	}
	return off
}

func unitOr(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return r3.Scale(1/n, v)
}
