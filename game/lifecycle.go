package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
	"github.com/pthm-cable/fxsim/systems"
	"github.com/pthm-cable/fxsim/telemetry"
)

// ErrSceneFull is returned when every effect slot is taken.
var ErrSceneFull = errors.New("scene full")

// EffectRequest describes one effect to spawn.
type EffectRequest struct {
	Preset    string
	Params    systems.PresetParams
	Advanced  bool    // use the advanced physics step
	Collision bool    // bounce off the scene bounds (advanced only)
	TTL       float64 // stop emitting after this many seconds, 0 = never
}

// effectSlot is one entry of the simulation table.
type effectSlot struct {
	sim     *systems.Simulation
	adv     *systems.AdvancedSimulation // nil for basic effects
	last    systems.Stats               // counters at the previous tick
	stopped bool
}

// effectTable owns the simulations referenced by Effect.Slot.
type effectTable struct {
	slots []effectSlot
	free  []int
	live  int
}

func (t *effectTable) acquire(sim *systems.Simulation, adv *systems.AdvancedSimulation) int {
	t.live++
	if n := len(t.free); n > 0 {
		slot := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[slot] = effectSlot{sim: sim, adv: adv}
		return slot
	}
	t.slots = append(t.slots, effectSlot{sim: sim, adv: adv})
	return len(t.slots) - 1
}

func (t *effectTable) get(slot int) *effectSlot {
	if slot < 0 || slot >= len(t.slots) || t.slots[slot].sim == nil {
		return nil
	}
	return &t.slots[slot]
}

func (t *effectTable) release(slot int) {
	s := t.get(slot)
	if s == nil {
		return
	}
	s.sim.Close()
	*s = effectSlot{}
	t.free = append(t.free, slot)
	t.live--
}

func (t *effectTable) closeAll() {
	for i := range t.slots {
		if t.slots[i].sim != nil {
			t.release(i)
		}
	}
}

// SpawnEffect creates an effect entity running the requested preset.
func (g *Game) SpawnEffect(req EffectRequest) (ecs.Entity, error) {
	cfg := g.config()
	pos := req.Params.Position

	if cfg.Pool.MaxEffects > 0 && g.effects.live >= cfg.Pool.MaxEffects {
		g.recordEvent(telemetry.NewRejectEvent(g.tick, req.Preset, pos))
		return ecs.Entity{}, fmt.Errorf("spawn %s: %w", req.Preset, ErrSceneFull)
	}

	info, ok := systems.Presets.Get(req.Preset)
	if !ok {
		g.recordEvent(telemetry.NewRejectEvent(g.tick, req.Preset, pos))
		return ecs.Entity{}, fmt.Errorf("unknown preset %q", req.Preset)
	}
	advanced := req.Advanced || info.Advanced

	rng := rand.New(rand.NewSource(g.rng.Int63()))
	var (
		sim *systems.Simulation
		adv *systems.AdvancedSimulation
		err error
	)
	if advanced {
		adv = systems.NewAdvancedSimulation(cfg.Pool.MaxParticles, rng)
		g.configureAdvanced(adv, req.Collision)
		err = adv.ApplyPreset(req.Preset, req.Params)
		sim = adv.Simulation
	} else {
		sim = systems.NewSimulation(cfg.Pool.MaxParticles, rng)
		err = sim.ApplyPreset(req.Preset, req.Params)
	}
	if err != nil {
		sim.Close()
		g.recordEvent(telemetry.NewRejectEvent(g.tick, req.Preset, pos))
		return ecs.Entity{}, fmt.Errorf("spawn %s: %w", req.Preset, err)
	}

	sim.SetTurbulence(g.turbulence, g.turbulenceMode)
	sim.SetWorkers(cfg.Pool.Workers, cfg.Pool.ParallelThreshold)

	slot := g.effects.acquire(sim, adv)
	effect := components.Effect{Preset: req.Preset, Slot: slot, Advanced: advanced}
	anchor := components.Anchor{Position: pos}
	age := components.Age{TTL: req.TTL}
	entity := g.effectMapper.NewEntity(&effect, &anchor, &age)

	g.collector.RecordEffectSpawned()
	g.recordEvent(telemetry.NewSpawnEvent(g.tick, slot, req.Preset, pos))

	return entity, nil
}

// configureAdvanced installs the scene's physics and influencers.
func (g *Game) configureAdvanced(adv *systems.AdvancedSimulation, collision bool) {
	cfg := g.config()
	phys := adv.Physics()
	if cfg.Physics.AirDensity > 0 {
		phys.AirDensity = cfg.Physics.AirDensity
	}
	phys.AmbientTemperature = cfg.Physics.AmbientTemperature

	g.environment.install(adv)

	bounds := cfg.Derived.Bounds
	adv.SetCollisionBounds(bounds.Min, bounds.Max)
	adv.SetCollisionEnabled(collision)
}

// MoveEffect re-anchors a live effect. Particles already emitted stay put.
func (g *Game) MoveEffect(e ecs.Entity, pos r3.Vec) bool {
	if !g.world.Alive(e) {
		return false
	}
	g.anchorMap.Get(e).Position = pos
	return true
}

// StopEffect halts emission; the effect is removed once its particles retire.
func (g *Game) StopEffect(e ecs.Entity) bool {
	if !g.world.Alive(e) {
		return false
	}
	effect, _, _ := g.effectMapper.Get(e)
	slot := g.effects.get(effect.Slot)
	if slot == nil {
		return false
	}
	g.stopSlot(effect, slot)
	return true
}

func (g *Game) stopSlot(effect *components.Effect, slot *effectSlot) {
	if slot.stopped {
		return
	}
	slot.sim.Stop()
	slot.stopped = true
	g.recordEvent(telemetry.NewStopEvent(g.tick, effect.Slot, effect.Preset, slot.sim.ParticleCount()))
}

// updateLifetimes ages effects, follows anchors and enforces TTLs.
func (g *Game) updateLifetimes(dt float64) {
	query := g.effectFilter.Query()
	for query.Next() {
		effect, anchor, age := query.Get()
		slot := g.effects.get(effect.Slot)
		if slot == nil {
			continue
		}

		age.Seconds += dt
		slot.sim.SetPosition(anchor.Position)

		if age.Expired() {
			g.stopSlot(effect, slot)
		}
	}
}

// updateEffects steps every simulation and feeds counter deltas to telemetry.
// Returns the live particle count after the step.
func (g *Game) updateEffects(dt float64) int {
	var particles int
	for i := range g.effects.slots {
		slot := &g.effects.slots[i]
		if slot.sim == nil {
			continue
		}
		slot.sim.Update(dt)

		now := slot.sim.Stats()
		g.collector.RecordParticles(systems.Stats{
			Emitted:    now.Emitted - slot.last.Emitted,
			Dropped:    now.Dropped - slot.last.Dropped,
			Retired:    now.Retired - slot.last.Retired,
			SubEmitted: now.SubEmitted - slot.last.SubEmitted,
		})
		slot.last = now
		particles += slot.sim.ParticleCount()
	}
	return particles
}

// cleanupFinished removes effects that stopped emitting and have no particles left.
func (g *Game) cleanupFinished() {
	// First pass: collect finished entities (world is locked during the query)
	var toRemove []ecs.Entity

	query := g.effectFilter.Query()
	for query.Next() {
		effect, _, _ := query.Get()
		slot := g.effects.get(effect.Slot)
		if slot == nil || (!slot.sim.IsActive() && slot.sim.ParticleCount() == 0) {
			toRemove = append(toRemove, query.Entity())
		}
	}

	for _, e := range toRemove {
		effect, _, age := g.effectMapper.Get(e)
		slotIdx, preset, lived := effect.Slot, effect.Preset, age.Seconds

		g.world.RemoveEntity(e)
		g.effects.release(slotIdx)

		g.collector.RecordEffectFinished()
		g.recordEvent(telemetry.NewFinishEvent(g.tick, slotIdx, preset))
		slog.Debug("effect finished", "preset", preset, "slot", slotIdx, "age", lived)
	}
}

// recordEvent logs an effect lifecycle event and writes it to effects.csv.
func (g *Game) recordEvent(e telemetry.Event) {
	e.LogEvent()
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write effect event", "error", err)
	}
}
