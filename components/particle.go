// Package components defines the plain data records of the particle engine
// and the ECS components used by the host scene.
package components

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleType tags a particle with the effect family that produced it.
type ParticleType uint8

const (
	TypeDefault ParticleType = iota
	TypeExplosion
	TypeSmoke
	TypeFire
	TypeSpark
	TypeBlood
	TypeMist
	TypeTrail
)

var particleTypeNames = [...]string{
	TypeDefault:   "default",
	TypeExplosion: "explosion",
	TypeSmoke:     "smoke",
	TypeFire:      "fire",
	TypeSpark:     "spark",
	TypeBlood:     "blood",
	TypeMist:      "mist",
	TypeTrail:     "trail",
}

func (t ParticleType) String() string {
	if int(t) < len(particleTypeNames) {
		return particleTypeNames[t]
	}
	return fmt.Sprintf("ParticleType(%d)", uint8(t))
}

// ParseParticleType converts a lowercase name (as used in YAML) to a ParticleType.
func ParseParticleType(s string) (ParticleType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range particleTypeNames {
		if name == s {
			return ParticleType(i), nil
		}
	}
	return TypeDefault, fmt.Errorf("unknown particle type %q", s)
}

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Lerp interpolates from a to b; t=0 yields a, t=1 yields b.
func Lerp(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Particle is the kinematic and visual state of one particle.
// Invariant: 0 <= Life <= MaxLife. Life <= 0 means the particle is dead.
type Particle struct {
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec

	StartColor Color
	EndColor   Color
	Color      Color // displayed colour, interpolated from life ratio

	StartSize float64
	EndSize   float64
	Size      float64 // displayed size, interpolated from life ratio

	Life    float64 // remaining seconds
	MaxLife float64 // seconds at emission

	Rotation      float64 // radians
	RotationSpeed float64 // radians per second

	Mass float64
	Type ParticleType
}

// LifeRatio returns Life/MaxLife: 1 at emission, 0 at death.
func (p *Particle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

// Alive reports whether the particle still has life left.
func (p *Particle) Alive() bool {
	return p.Life > 0
}

// AdvancedState holds the per-particle fields used only by advanced physics.
// It lives in a parallel array indexed identically to the particle pool.
type AdvancedState struct {
	AngularVelocity float64 // radians per second
	DragCoefficient float64
	Buoyancy        float64 // upward velocity gain per second
	Temperature     float64
	HeatTransfer    float64 // relaxation rate toward ambient, per second
	Elasticity      float64 // 0..1
	Friction        float64 // 0..1
	Charge          float64

	CollidesWithWorld bool
	WindSusceptible   bool
	WindFactor        float64 // 0..1

	// Captured from the emitter so a later SetEmitter leaves them alone.
	AirDensity float64 // 0 uses the scene density
	Turbulence TurbulenceConfig
}
