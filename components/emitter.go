package components

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidEmitter is wrapped by every EmitterConfig validation failure.
var ErrInvalidEmitter = errors.New("invalid emitter config")

// Range is a closed interval sampled uniformly. A zero Range is "unset".
type Range struct {
	Min, Max float64
}

// IsSet reports whether the range was configured.
func (r Range) IsSet() bool {
	return r.Min != 0 || r.Max != 0
}

// TurbulenceConfig parameterises the deterministic turbulence field.
type TurbulenceConfig struct {
	Enabled   bool
	Amplitude float64
	Scale     float64 // spatial frequency
	Speed     float64 // temporal frequency
}

// AdvancedEmission is the optional block carried by emitters that feed an
// advanced simulation. Set ranges take precedence over base ± variation values.
type AdvancedEmission struct {
	Speed         Range
	Lifetime      Range
	StartSize     Range
	EndSize       Range
	RotationSpeed Range
	Mass          Range

	Volume          r3.Vec // half-extent of the emission box
	VolumeEmission  bool
	SurfaceEmission bool // emit on the faces of the box rather than inside it

	WindInfluence float64 // seeded into AdvancedState.WindFactor
	Turbulence    TurbulenceConfig

	AirDensity   float64 // 0 inherits the scene's air density
	GravityScale float64

	InheritVelocity bool
	InheritFactor   float64
	SourceVelocity  r3.Vec // velocity of whatever carries the emitter

	// Per-particle seeds copied into AdvancedState at emission.
	DragCoefficient   float64
	Buoyancy          float64
	Temperature       float64
	HeatTransfer      float64
	Elasticity        float64
	Friction          float64
	Charge            float64
	CollidesWithWorld bool
	WindSusceptible   bool
}

// DefaultAdvancedEmission returns a block with physical defaults: the scene's
// air, unit gravity, a sphere-ish drag coefficient and no wind response.
func DefaultAdvancedEmission() *AdvancedEmission {
	return &AdvancedEmission{
		GravityScale:    1,
		DragCoefficient: 0.47,
		Temperature:     20,
		Elasticity:      0.5,
		Friction:        0.1,
	}
}

// EmitterConfig describes how new particles are generated.
type EmitterConfig struct {
	Position  r3.Vec
	Direction r3.Vec
	Spread    float64 // half-angle of the emission cone, radians
	Planar    bool    // sample directions on the plane perpendicular to Direction

	Speed          float64
	SpeedVariation float64

	EmissionRate float64 // particles per second
	Duration     float64 // seconds of continuous emission, 0 = unlimited

	Lifetime          float64
	LifetimeVariation float64

	StartColor Color
	EndColor   Color

	StartSize     float64
	EndSize       float64
	SizeVariation float64

	Gravity r3.Vec

	RotationSpeedVariation float64

	Mass          float64
	MassVariation float64

	Type ParticleType

	Advanced *AdvancedEmission
}

// DefaultEmitterConfig returns a small white upward fountain.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Direction:    r3.Vec{Y: 1},
		Spread:       math.Pi / 8,
		Speed:        2,
		EmissionRate: 10,
		Lifetime:     2,
		StartColor:   Color{R: 1, G: 1, B: 1, A: 1},
		EndColor:     Color{R: 1, G: 1, B: 1, A: 0},
		StartSize:    0.2,
		EndSize:      0.1,
		Gravity:      r3.Vec{Y: -9.81},
		Mass:         1,
	}
}

// Clone returns a copy that shares no memory with c.
func (c EmitterConfig) Clone() EmitterConfig {
	if c.Advanced != nil {
		adv := *c.Advanced
		c.Advanced = &adv
	}
	return c
}

// Validate checks the invariants that the integrator relies on. Mass must be
// strictly positive for every value the sampler can produce.
func (c *EmitterConfig) Validate() error {
	if c.EmissionRate < 0 || math.IsNaN(c.EmissionRate) {
		return fmt.Errorf("%w: emission rate %v < 0", ErrInvalidEmitter, c.EmissionRate)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration %v < 0", ErrInvalidEmitter, c.Duration)
	}
	if c.Spread < 0 {
		return fmt.Errorf("%w: spread %v < 0", ErrInvalidEmitter, c.Spread)
	}
	if c.SpeedVariation < 0 || c.SizeVariation < 0 || c.RotationSpeedVariation < 0 {
		return fmt.Errorf("%w: negative variation", ErrInvalidEmitter)
	}

	adv := c.Advanced
	if adv == nil {
		adv = &AdvancedEmission{}
	}

	for name, r := range map[string]Range{
		"speed":          adv.Speed,
		"lifetime":       adv.Lifetime,
		"start size":     adv.StartSize,
		"end size":       adv.EndSize,
		"rotation speed": adv.RotationSpeed,
		"mass":           adv.Mass,
	} {
		if r.Max < r.Min {
			return fmt.Errorf("%w: %s range max %v < min %v", ErrInvalidEmitter, name, r.Max, r.Min)
		}
	}

	if adv.Lifetime.IsSet() {
		if adv.Lifetime.Min <= 0 {
			return fmt.Errorf("%w: lifetime range min %v <= 0", ErrInvalidEmitter, adv.Lifetime.Min)
		}
	} else if c.Lifetime <= 0 || c.LifetimeVariation < 0 || c.LifetimeVariation >= c.Lifetime {
		return fmt.Errorf("%w: lifetime %v ± %v must stay positive", ErrInvalidEmitter, c.Lifetime, c.LifetimeVariation)
	}

	if adv.Mass.IsSet() {
		if adv.Mass.Min <= 0 {
			return fmt.Errorf("%w: mass range min %v <= 0", ErrInvalidEmitter, adv.Mass.Min)
		}
	} else if c.Mass <= 0 || c.MassVariation < 0 || c.MassVariation >= c.Mass {
		return fmt.Errorf("%w: mass %v ± %v must stay positive", ErrInvalidEmitter, c.Mass, c.MassVariation)
	}

	if c.Advanced != nil {
		if !unit(adv.Elasticity) || !unit(adv.Friction) || !unit(adv.WindInfluence) {
			return fmt.Errorf("%w: elasticity, friction and wind influence must be in [0,1]", ErrInvalidEmitter)
		}
		if adv.AirDensity < 0 {
			return fmt.Errorf("%w: air density %v < 0", ErrInvalidEmitter, adv.AirDensity)
		}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
