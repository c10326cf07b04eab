package main

import (
	"github.com/pthm-cable/fxsim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibrated parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Scales density and intensity of every scenario event
			{Name: "emission_scale", Path: "scenario[*].density|intensity", Min: 0.1, Max: 3.0, Default: 1.0},
			{Name: "max_particles", Path: "pool.max_particles", Min: 200, Max: 8000, Default: 4000},
			{Name: "air_density", Path: "physics.air_density", Min: 0.3, Max: 3.0, Default: 1.225},
			{Name: "ambient_temperature", Path: "physics.ambient_temperature", Min: -10, Max: 40, Default: 20},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. base supplies
// the unscaled scenario so repeated applications do not compound.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg, base *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	scale := clamped[0]
	cfg.Scenario = make([]config.ScenarioEvent, len(base.Scenario))
	for i, ev := range base.Scenario {
		// Omitted values default at spawn time: intensity to 1, density to
		// intensity. Resolve them first so scaling reaches every event.
		if ev.Intensity == 0 {
			ev.Intensity = 1
		}
		if ev.Density == 0 {
			ev.Density = ev.Intensity
		}
		ev.Density *= scale
		ev.Intensity *= scale
		cfg.Scenario[i] = ev
	}

	cfg.Pool.MaxParticles = int(clamped[1])
	cfg.Physics.AirDensity = clamped[2]
	cfg.Physics.AmbientTemperature = clamped[3]
}
