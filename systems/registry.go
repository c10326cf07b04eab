package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// PresetParams carries the arguments shared by the preset recipes. Zero
// values select each recipe's defaults.
type PresetParams struct {
	Position  r3.Vec
	Direction r3.Vec
	Intensity float64
	Radius    float64
	Height    float64
	Density   float64
}

func (p PresetParams) withDefaults() PresetParams {
	if p.Intensity == 0 {
		p.Intensity = 1
	}
	if p.Radius == 0 {
		p.Radius = 5
	}
	if p.Height == 0 {
		p.Height = 3
	}
	if p.Density == 0 {
		p.Density = p.Intensity
	}
	if r3.Norm2(p.Direction) == 0 {
		p.Direction = r3.Vec{Y: 1}
	}
	return p
}

// PresetInfo describes a preset recipe for the viewer and scenario loader.
type PresetInfo struct {
	ID          string // Identifier used in config and on the command line
	Name        string // Display name
	Description string // What the effect looks like
	Category    string // "burst", "continuous" or "combo"
	Advanced    bool   // requires an AdvancedSimulation

	apply         func(s *Simulation, p PresetParams) error
	applyAdvanced func(s *AdvancedSimulation, p PresetParams) error
}

// PresetRegistry holds metadata about all preset recipes.
type PresetRegistry struct {
	presets []PresetInfo
	byID    map[string]PresetInfo
}

// Presets is the registry of built-in recipes.
var Presets = NewPresetRegistry()

// NewPresetRegistry creates a registry with all built-in presets.
func NewPresetRegistry() *PresetRegistry {
	reg := &PresetRegistry{
		byID: make(map[string]PresetInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all built-in recipes.
func (r *PresetRegistry) registerDefaults() {
	r.Register(PresetInfo{ID: "explosion", Name: "Explosion", Description: "Spherical fireball burst", Category: "burst",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateExplosion(p.Position, p.Intensity, p.Radius) }})
	r.Register(PresetInfo{ID: "sparks", Name: "Sparks", Description: "Fast bouncing sparks", Category: "burst",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateSparks(p.Position, p.Direction, p.Intensity) }})
	r.Register(PresetInfo{ID: "blood", Name: "Blood", Description: "Heavy droplet spray", Category: "burst",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateBlood(p.Position, p.Direction, p.Intensity) }})
	r.Register(PresetInfo{ID: "shockwave", Name: "Shockwave", Description: "Flat expanding ring", Category: "burst",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateShockwave(p.Position, p.Intensity, p.Radius) }})

	r.Register(PresetInfo{ID: "smoke", Name: "Smoke", Description: "Rising smoke column", Category: "continuous",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateSmoke(p.Position, p.Density, p.Height) }})
	r.Register(PresetInfo{ID: "fire", Name: "Fire", Description: "Hot upward plume", Category: "continuous",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateFire(p.Position, p.Intensity, p.Height) }})
	r.Register(PresetInfo{ID: "mist", Name: "Mist", Description: "Slow drifting haze", Category: "continuous",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateMist(p.Position, p.Radius, p.Density) }})
	r.Register(PresetInfo{ID: "trail", Name: "Trail", Description: "Stream behind a moving object", Category: "continuous",
		apply: func(s *Simulation, p PresetParams) error { return s.CreateTrail(p.Position, p.Direction) }})

	r.Register(PresetInfo{ID: "explosion_with_smoke", Name: "Explosion + Smoke", Description: "Burst followed by lingering smoke", Category: "combo",
		apply: func(s *Simulation, p PresetParams) error {
			return s.CreateExplosionWithSmoke(p.Position, p.Intensity, p.Radius)
		}})
	r.Register(PresetInfo{ID: "sparks_with_smoke", Name: "Sparks + Smoke", Description: "Sparks followed by a wisp of smoke", Category: "combo",
		apply: func(s *Simulation, p PresetParams) error {
			return s.CreateSparksWithSmoke(p.Position, p.Direction, p.Intensity)
		}})
	r.Register(PresetInfo{ID: "fire_with_smoke", Name: "Fire + Smoke", Description: "Fire whose embers turn to smoke", Category: "combo", Advanced: true,
		applyAdvanced: func(s *AdvancedSimulation, p PresetParams) error {
			return s.CreateFireWithSmoke(p.Position, p.Intensity, p.Height)
		}})
}

// Register adds a preset to the registry.
func (r *PresetRegistry) Register(info PresetInfo) {
	r.presets = append(r.presets, info)
	r.byID[info.ID] = info
}

// Get returns preset info by ID.
func (r *PresetRegistry) Get(id string) (PresetInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// All returns all registered presets.
func (r *PresetRegistry) All() []PresetInfo {
	return r.presets
}

// ByCategory returns presets filtered by category.
func (r *PresetRegistry) ByCategory(category string) []PresetInfo {
	var result []PresetInfo
	for _, info := range r.presets {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all preset IDs in registration order.
func (r *PresetRegistry) IDs() []string {
	ids := make([]string, len(r.presets))
	for i, info := range r.presets {
		ids[i] = info.ID
	}
	return ids
}

// PresetNames returns the IDs of every built-in preset.
func PresetNames() []string {
	return Presets.IDs()
}

// ApplyPreset runs the named recipe on s. Advanced-only presets fail.
func (s *Simulation) ApplyPreset(name string, p PresetParams) error {
	info, ok := Presets.Get(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	if info.apply == nil {
		return fmt.Errorf("preset %q requires an advanced simulation", name)
	}
	return info.apply(s, p.withDefaults())
}

// ApplyPreset runs the named recipe, including advanced-only ones.
func (s *AdvancedSimulation) ApplyPreset(name string, p PresetParams) error {
	info, ok := Presets.Get(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	if info.applyAdvanced != nil {
		return info.applyAdvanced(s, p.withDefaults())
	}
	return s.Simulation.ApplyPreset(name, p)
}
