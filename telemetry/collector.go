package telemetry

import "github.com/pthm-cable/fxsim/systems"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	effectsSpawned  int
	effectsFinished int
	particles       systems.Stats
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordEffectSpawned records a new effect entering the scene.
func (c *Collector) RecordEffectSpawned() {
	c.effectsSpawned++
}

// RecordEffectFinished records an effect leaving the scene.
func (c *Collector) RecordEffectFinished() {
	c.effectsFinished++
}

// RecordParticles adds per-tick counter deltas from one effect.
func (c *Collector) RecordParticles(delta systems.Stats) {
	c.particles.Emitted += delta.Emitted
	c.particles.Dropped += delta.Dropped
	c.particles.Retired += delta.Retired
	c.particles.SubEmitted += delta.SubEmitted
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the scene state at the end of the window. snap is
// consumed: its slices are sorted in place.
func (c *Collector) Flush(currentTick int32, effects int, snap systems.Snapshot) WindowStats {
	var dropRate float64
	if attempts := c.particles.Emitted + c.particles.Dropped; attempts > 0 {
		dropRate = float64(c.particles.Dropped) / float64(attempts)
	}

	speed := ComputeDistribution(snap.Speeds)
	life := ComputeDistribution(snap.LifeRatio)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Effects:   effects,
		Particles: len(snap.Speeds),

		EffectsSpawned:  c.effectsSpawned,
		EffectsFinished: c.effectsFinished,
		Emitted:         c.particles.Emitted,
		Dropped:         c.particles.Dropped,
		Retired:         c.particles.Retired,
		SubEmitted:      c.particles.SubEmitted,
		DropRate:        dropRate,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,

		LifeMean: life.Mean,
		LifeP10:  life.P10,
		LifeP90:  life.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.effectsSpawned = 0
	c.effectsFinished = 0
	c.particles = systems.Stats{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
