package game

import (
	"github.com/pthm-cable/fxsim/components"
	"github.com/pthm-cable/fxsim/config"
	"github.com/pthm-cable/fxsim/systems"
)

// environment holds the influencers installed into every advanced effect.
type environment struct {
	forceFields []components.ForceField
	attractors  []components.Attractor
	windZones   []components.WindZone
}

func influencerFromConfig(c *config.InfluencerConfig) components.Influencer {
	return components.Influencer{
		Position: c.Position.Vec(),
		Radius:   c.Radius,
		Enabled:  true,
		Strength: c.Strength,
		Falloff:  c.Falloff,
	}
}

// environmentFromConfig converts the YAML environment section.
func environmentFromConfig(c *config.EnvironmentConfig) environment {
	var env environment
	for i := range c.ForceFields {
		f := &c.ForceFields[i]
		env.forceFields = append(env.forceFields, components.ForceField{
			Influencer: influencerFromConfig(&f.InfluencerConfig),
			Force:      f.Force.Vec(),
		})
	}
	for i := range c.Attractors {
		env.attractors = append(env.attractors, components.Attractor{
			Influencer: influencerFromConfig(&c.Attractors[i]),
		})
	}
	for i := range c.WindZones {
		w := &c.WindZones[i]
		env.windZones = append(env.windZones, components.WindZone{
			Influencer: influencerFromConfig(&w.InfluencerConfig),
			Direction:  w.Direction.Vec(),
			FlowSpeed:  w.FlowSpeed,
			Turbulence: w.Turbulence,
		})
	}
	return env
}

// install adds every influencer to adv.
func (e *environment) install(adv *systems.AdvancedSimulation) {
	for _, f := range e.forceFields {
		adv.AddForceField(f)
	}
	for _, a := range e.attractors {
		adv.AddAttractor(a)
	}
	for _, w := range e.windZones {
		adv.AddWindZone(w)
	}
}
