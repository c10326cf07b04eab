package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

const gravity = -9.81

// CreateExplosion fires a one-shot spherical burst of 300·intensity particles
// whose speed scales with radius. Continuous emission is left off.
func (s *Simulation) CreateExplosion(pos r3.Vec, intensity, radius float64) error {
	intensity = math.Max(0, intensity)
	if err := s.SetEmitter(explosionConfig(pos, intensity, radius)); err != nil {
		return err
	}
	s.Stop()
	s.EmitBurst(int(300 * intensity))
	return nil
}

// CreateSmoke starts a rising column at 100·density particles per second.
func (s *Simulation) CreateSmoke(pos r3.Vec, density, height float64) error {
	if err := s.SetEmitter(smokeConfig(pos, density, height)); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateFire starts a hot, short-lived upward plume.
func (s *Simulation) CreateFire(pos r3.Vec, intensity, height float64) error {
	if err := s.SetEmitter(fireConfig(pos, intensity, height)); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateSparks fires a narrow burst of fast, bouncing sparks along dir.
func (s *Simulation) CreateSparks(pos, dir r3.Vec, intensity float64) error {
	intensity = math.Max(0, intensity)
	if err := s.SetEmitter(sparksConfig(pos, dir)); err != nil {
		return err
	}
	s.Stop()
	s.EmitBurst(int(50 * intensity))
	return nil
}

// CreateBlood fires a burst of heavy droplets along dir.
func (s *Simulation) CreateBlood(pos, dir r3.Vec, intensity float64) error {
	intensity = math.Max(0, intensity)
	if err := s.SetEmitter(bloodConfig(pos, dir)); err != nil {
		return err
	}
	s.Stop()
	s.EmitBurst(int(40 * intensity))
	return nil
}

// CreateMist starts a slow, wide volume of haze.
func (s *Simulation) CreateMist(pos r3.Vec, radius, density float64) error {
	if err := s.SetEmitter(mistConfig(pos, radius, density)); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateTrail starts a thin stream left behind an object moving along dir.
func (s *Simulation) CreateTrail(pos, dir r3.Vec) error {
	if err := s.SetEmitter(trailConfig(pos, dir)); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateShockwave fires a flat expanding ring reaching radius in half a second.
func (s *Simulation) CreateShockwave(pos r3.Vec, intensity, radius float64) error {
	intensity = math.Max(0, intensity)
	if err := s.SetEmitter(shockwaveConfig(pos, radius)); err != nil {
		return err
	}
	s.Stop()
	s.EmitBurst(int(100 * intensity))
	return nil
}

// CreateExplosionWithSmoke bursts an explosion then leaves smoke rising for a
// few seconds. In-flight debris keeps the gravity it was emitted with.
func (s *Simulation) CreateExplosionWithSmoke(pos r3.Vec, intensity, radius float64) error {
	if err := s.CreateExplosion(pos, intensity, radius); err != nil {
		return err
	}
	cfg := smokeConfig(pos, 0.5*intensity, radius)
	cfg.Duration = 3
	if err := s.SetEmitter(cfg); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateSparksWithSmoke bursts sparks then emits a short wisp of smoke.
func (s *Simulation) CreateSparksWithSmoke(pos, dir r3.Vec, intensity float64) error {
	if err := s.CreateSparks(pos, dir, intensity); err != nil {
		return err
	}
	cfg := smokeConfig(pos, 0.2*intensity, 1.5)
	cfg.Duration = 1.5
	if err := s.SetEmitter(cfg); err != nil {
		return err
	}
	s.Start()
	return nil
}

// CreateFireWithSmoke starts a fire whose particles each release one smoke
// particle when they burn out. Calling it again replaces the smoke rule
// rather than adding another.
func (s *AdvancedSimulation) CreateFireWithSmoke(pos r3.Vec, intensity, height float64) error {
	if err := s.CreateFire(pos, intensity, height); err != nil {
		return err
	}
	smoke := smokeConfig(r3.Vec{}, 1, height)
	smoke.EmissionRate = 0
	rule := components.SubEmitter{
		ParentType: components.TypeFire,
		Emitter:    smoke,
		Count:      1,
		Enabled:    true,
		Trigger:    components.TriggerDeath,
	}
	for i, se := range s.physics.subEmitters {
		if se.ParentType == rule.ParentType && se.Trigger == rule.Trigger {
			return s.ReplaceSubEmitter(i, rule)
		}
	}
	_, err := s.AddSubEmitter(rule)
	return err
}

func explosionConfig(pos r3.Vec, intensity, radius float64) components.EmitterConfig {
	if radius <= 0 {
		radius = 1
	}
	speed := 2 * radius
	adv := components.DefaultAdvancedEmission()
	adv.Elasticity = 0.4
	adv.Friction = 0.3
	adv.Temperature = 600
	adv.HeatTransfer = 2
	adv.CollidesWithWorld = true
	return components.EmitterConfig{
		Position:               pos,
		Direction:              r3.Vec{Y: 1},
		Spread:                 math.Pi,
		Speed:                  speed,
		SpeedVariation:         0.5 * speed,
		Lifetime:               1.0,
		LifetimeVariation:      0.3,
		StartColor:             components.Color{R: 1, G: 0.8, B: 0.2, A: 1},
		EndColor:               components.Color{R: 0.4, G: 0.1, B: 0, A: 0},
		StartSize:              0.3 + 0.2*intensity,
		EndSize:                0.1,
		SizeVariation:          0.1,
		Gravity:                r3.Vec{Y: 0.3 * gravity},
		RotationSpeedVariation: 3,
		Mass:                   0.5,
		MassVariation:          0.2,
		Type:                   components.TypeExplosion,
		Advanced:               adv,
	}
}

func smokeConfig(pos r3.Vec, density, height float64) components.EmitterConfig {
	if height <= 0 {
		height = 1
	}
	const lifetime = 3.0
	speed := height / lifetime
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0.8
	adv.Buoyancy = 0.5
	adv.Temperature = 80
	adv.HeatTransfer = 0.5
	adv.WindSusceptible = true
	adv.WindInfluence = 0.8
	adv.VolumeEmission = true
	adv.Volume = r3.Vec{X: 0.2, Z: 0.2}
	adv.Turbulence = components.TurbulenceConfig{Enabled: true, Amplitude: 0.3, Scale: 0.5, Speed: 1}
	return components.EmitterConfig{
		Position:               pos,
		Direction:              r3.Vec{Y: 1},
		Spread:                 math.Pi / 10,
		Speed:                  speed,
		SpeedVariation:         0.2 * speed,
		EmissionRate:           100 * math.Max(0, density),
		Lifetime:               lifetime,
		LifetimeVariation:      0.5,
		StartColor:             components.Color{R: 0.4, G: 0.4, B: 0.4, A: 0.6},
		EndColor:               components.Color{R: 0.6, G: 0.6, B: 0.6, A: 0},
		StartSize:              0.3,
		EndSize:                1.5,
		SizeVariation:          0.1,
		Gravity:                r3.Vec{Y: 0.2},
		RotationSpeedVariation: 0.5,
		Mass:                   0.1,
		MassVariation:          0.02,
		Type:                   components.TypeSmoke,
		Advanced:               adv,
	}
}

func fireConfig(pos r3.Vec, intensity, height float64) components.EmitterConfig {
	if height <= 0 {
		height = 1
	}
	const lifetime = 0.8
	speed := height / lifetime
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0.3
	adv.Buoyancy = 2
	adv.Temperature = 800
	adv.HeatTransfer = 1.5
	adv.WindSusceptible = true
	adv.WindInfluence = 0.5
	adv.VolumeEmission = true
	adv.Volume = r3.Vec{X: 0.15, Z: 0.15}
	adv.Turbulence = components.TurbulenceConfig{Enabled: true, Amplitude: 0.5, Scale: 1, Speed: 2}
	return components.EmitterConfig{
		Position:               pos,
		Direction:              r3.Vec{Y: 1},
		Spread:                 math.Pi / 12,
		Speed:                  speed,
		SpeedVariation:         0.25 * speed,
		EmissionRate:           150 * math.Max(0, intensity),
		Lifetime:               lifetime,
		LifetimeVariation:      0.2,
		StartColor:             components.Color{R: 1, G: 0.9, B: 0.3, A: 1},
		EndColor:               components.Color{R: 0.8, G: 0.1, B: 0, A: 0},
		StartSize:              0.5,
		EndSize:                0.1,
		SizeVariation:          0.1,
		RotationSpeedVariation: 2,
		Mass:                   0.05,
		MassVariation:          0.01,
		Type:                   components.TypeFire,
		Advanced:               adv,
	}
}

func sparksConfig(pos, dir r3.Vec) components.EmitterConfig {
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0.2
	adv.Temperature = 1200
	adv.HeatTransfer = 3
	adv.Elasticity = 0.6
	adv.Friction = 0.2
	adv.CollidesWithWorld = true
	return components.EmitterConfig{
		Position:          pos,
		Direction:         unitOr(dir, r3.Vec{Y: 1}),
		Spread:            math.Pi / 6,
		Speed:             8,
		SpeedVariation:    3,
		Lifetime:          0.6,
		LifetimeVariation: 0.2,
		StartColor:        components.Color{R: 1, G: 1, B: 0.6, A: 1},
		EndColor:          components.Color{R: 1, G: 0.4, B: 0, A: 0},
		StartSize:         0.05,
		EndSize:           0.02,
		Gravity:           r3.Vec{Y: gravity},
		Mass:              0.01,
		MassVariation:     0.005,
		Type:              components.TypeSpark,
		Advanced:          adv,
	}
}

func bloodConfig(pos, dir r3.Vec) components.EmitterConfig {
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0.4
	adv.Temperature = 37
	adv.Elasticity = 0.05
	adv.Friction = 0.8
	adv.CollidesWithWorld = true
	return components.EmitterConfig{
		Position:          pos,
		Direction:         unitOr(dir, r3.Vec{Y: 1}),
		Spread:            math.Pi / 5,
		Speed:             4,
		SpeedVariation:    1.5,
		Lifetime:          1.2,
		LifetimeVariation: 0.3,
		StartColor:        components.Color{R: 0.6, G: 0, B: 0, A: 1},
		EndColor:          components.Color{R: 0.3, G: 0, B: 0, A: 0.8},
		StartSize:         0.08,
		EndSize:           0.04,
		SizeVariation:     0.02,
		Gravity:           r3.Vec{Y: gravity},
		Mass:              0.02,
		MassVariation:     0.005,
		Type:              components.TypeBlood,
		Advanced:          adv,
	}
}

func mistConfig(pos r3.Vec, radius, density float64) components.EmitterConfig {
	if radius <= 0 {
		radius = 1
	}
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 1.2
	adv.Temperature = 12
	adv.WindSusceptible = true
	adv.WindInfluence = 1
	adv.VolumeEmission = true
	adv.Volume = r3.Vec{X: radius, Y: 0.2 * radius, Z: radius}
	adv.Turbulence = components.TurbulenceConfig{Enabled: true, Amplitude: 0.1, Scale: 0.3, Speed: 0.5}
	return components.EmitterConfig{
		Position:          pos,
		Direction:         r3.Vec{Y: 1},
		Spread:            math.Pi,
		Speed:             0.2,
		SpeedVariation:    0.1,
		EmissionRate:      30 * math.Max(0, density),
		Lifetime:          5,
		LifetimeVariation: 1,
		StartColor:        components.Color{R: 0.8, G: 0.85, B: 0.9, A: 0.3},
		EndColor:          components.Color{R: 0.9, G: 0.9, B: 0.95, A: 0},
		StartSize:         1,
		EndSize:           2,
		SizeVariation:     0.3,
		Mass:              0.05,
		MassVariation:     0.01,
		Type:              components.TypeMist,
		Advanced:          adv,
	}
}

func trailConfig(pos, dir r3.Vec) components.EmitterConfig {
	back := r3.Scale(-1, unitOr(dir, r3.Vec{Y: 1}))
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0.1
	adv.WindSusceptible = true
	adv.WindInfluence = 0.3
	return components.EmitterConfig{
		Position:          pos,
		Direction:         back,
		Spread:            0.05,
		Speed:             0.5,
		SpeedVariation:    0.1,
		EmissionRate:      60,
		Lifetime:          0.5,
		LifetimeVariation: 0.1,
		StartColor:        components.Color{R: 1, G: 1, B: 1, A: 0.8},
		EndColor:          components.Color{R: 1, G: 1, B: 1, A: 0},
		StartSize:         0.1,
		EndSize:           0,
		Mass:              0.01,
		Type:              components.TypeTrail,
		Advanced:          adv,
	}
}

func shockwaveConfig(pos r3.Vec, radius float64) components.EmitterConfig {
	if radius <= 0 {
		radius = 1
	}
	const lifetime = 0.5
	adv := components.DefaultAdvancedEmission()
	adv.DragCoefficient = 0
	return components.EmitterConfig{
		Position:          pos,
		Direction:         r3.Vec{Y: 1},
		Planar:            true,
		Speed:             radius / lifetime,
		Lifetime:          lifetime,
		LifetimeVariation: 0.05,
		StartColor:        components.Color{R: 0.9, G: 0.95, B: 1, A: 0.8},
		EndColor:          components.Color{R: 0.6, G: 0.8, B: 1, A: 0},
		StartSize:         0.3,
		EndSize:           0.6,
		Mass:              1,
		Type:              components.TypeExplosion,
		Advanced:          adv,
	}
}
