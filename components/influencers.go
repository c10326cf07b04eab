package components

import "gonum.org/v1/gonum/spatial/r3"

// Influencer is the shared shape of every radius-bounded velocity modifier.
type Influencer struct {
	Position r3.Vec
	Radius   float64
	Enabled  bool
	Strength float64
	Falloff  float64
}

// StrengthAt returns the influence at the given distance from the centre:
// zero outside Radius, strength/(1+falloff*d) inside when Falloff > 0,
// otherwise the constant Strength.
func (in *Influencer) StrengthAt(distance float64) float64 {
	if distance > in.Radius {
		return 0
	}
	if in.Falloff > 0 {
		return in.Strength / (1 + in.Falloff*distance)
	}
	return in.Strength
}

// ForceField pushes particles along a fixed direction.
type ForceField struct {
	Influencer
	Force r3.Vec
}

// Attractor pulls particles radially toward its position.
type Attractor struct {
	Influencer
}

// WindZone drags particles toward a flow velocity with local turbulence.
type WindZone struct {
	Influencer
	Direction  r3.Vec
	FlowSpeed  float64
	Turbulence float64
}

// SubEmitTrigger selects when a sub-emitter rule fires for a matching particle.
type SubEmitTrigger uint8

const (
	TriggerAlive     SubEmitTrigger = iota // every tick while the parent lives
	TriggerDeath                           // once, when the parent is retired
	TriggerCollision                       // on each boundary collision response
)

func (t SubEmitTrigger) String() string {
	switch t {
	case TriggerAlive:
		return "alive"
	case TriggerDeath:
		return "death"
	case TriggerCollision:
		return "collision"
	}
	return "unknown"
}

// SubEmitter spawns a secondary emission from particles of ParentType.
type SubEmitter struct {
	ParentType ParticleType
	Emitter    EmitterConfig
	Count      int // particles per trigger
	Enabled    bool
	Trigger    SubEmitTrigger
}
