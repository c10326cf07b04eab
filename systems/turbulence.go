package systems

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// TurbulenceField is a deterministic vector field sampled at a point and time.
type TurbulenceField interface {
	Sample(p r3.Vec, t float64, cfg components.TurbulenceConfig) r3.Vec
}

// SineTurbulence is the closed-form field
// amplitude * (sin(x*scale + t*speed), cos(y*scale + t*speed), sin(z*scale + t*speed)).
type SineTurbulence struct{}

func (SineTurbulence) Sample(p r3.Vec, t float64, cfg components.TurbulenceConfig) r3.Vec {
	phase := t * cfg.Speed
	return r3.Vec{
		X: cfg.Amplitude * math.Sin(p.X*cfg.Scale+phase),
		Y: cfg.Amplitude * math.Cos(p.Y*cfg.Scale+phase),
		Z: cfg.Amplitude * math.Sin(p.Z*cfg.Scale+phase),
	}
}

// Decorrelates the three components drawn from one noise source.
const (
	simplexOffsetY = 31.416
	simplexOffsetZ = 71.937
)

// SimplexTurbulence samples 3D OpenSimplex noise once per component, with
// time scrolling along the noise Z axis.
type SimplexTurbulence struct {
	noise opensimplex.Noise
}

// NewSimplexTurbulence creates a seeded simplex field.
func NewSimplexTurbulence(seed int64) *SimplexTurbulence {
	return &SimplexTurbulence{noise: opensimplex.New(seed)}
}

func (s *SimplexTurbulence) Sample(p r3.Vec, t float64, cfg components.TurbulenceConfig) r3.Vec {
	x := p.X * cfg.Scale
	y := p.Y * cfg.Scale
	z := p.Z*cfg.Scale + t*cfg.Speed
	return r3.Vec{
		X: cfg.Amplitude * s.noise.Eval3(x, y, z),
		Y: cfg.Amplitude * s.noise.Eval3(x+simplexOffsetY, y, z),
		Z: cfg.Amplitude * s.noise.Eval3(x, y+simplexOffsetZ, z),
	}
}

// TurbulenceMode selects when an emitter's turbulence is applied.
type TurbulenceMode uint8

const (
	TurbulenceEmission   TurbulenceMode = iota // once, added to the initial velocity
	TurbulenceContinuous                       // every tick, as an acceleration
)

func (m TurbulenceMode) String() string {
	switch m {
	case TurbulenceEmission:
		return "emission"
	case TurbulenceContinuous:
		return "continuous"
	}
	return fmt.Sprintf("TurbulenceMode(%d)", uint8(m))
}

// ParseTurbulenceMode converts a config string to a TurbulenceMode.
func ParseTurbulenceMode(s string) (TurbulenceMode, error) {
	switch s {
	case "", "emission":
		return TurbulenceEmission, nil
	case "continuous":
		return TurbulenceContinuous, nil
	}
	return TurbulenceEmission, fmt.Errorf("unknown turbulence mode %q", s)
}

// NewTurbulenceField builds the named field: "sine" (default) or "simplex".
func NewTurbulenceField(source string, seed int64) (TurbulenceField, error) {
	switch source {
	case "", "sine":
		return SineTurbulence{}, nil
	case "simplex":
		return NewSimplexTurbulence(seed), nil
	}
	return nil, fmt.Errorf("unknown turbulence source %q", source)
}

// windTurbulence returns the unit-amplitude field used to perturb wind zones,
// reusing the particle's spatial and temporal frequencies when configured.
func windTurbulence(field TurbulenceField, p r3.Vec, t float64, own components.TurbulenceConfig) r3.Vec {
	cfg := components.TurbulenceConfig{Amplitude: 1, Scale: 1, Speed: 1}
	if own.Scale != 0 {
		cfg.Scale = own.Scale
	}
	if own.Speed != 0 {
		cfg.Speed = own.Speed
	}
	return field.Sample(p, t, cfg)
}
