package game

import (
	"log/slog"

	"github.com/pthm-cable/fxsim/systems"
	"github.com/pthm-cable/fxsim/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.effects.live, g.sampleParticles())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleParticles collects speed and life ratio of every live particle.
func (g *Game) sampleParticles() systems.Snapshot {
	var snap systems.Snapshot
	for i := range g.effects.slots {
		if sim := g.effects.slots[i].sim; sim != nil {
			snap = sim.AppendSnapshot(snap)
		}
	}
	return snap
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current scene.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.rngSeed,
		Tick:     g.tick,
		SimTime:  g.simTime,
		Bookmark: bookmark,
	}

	query := g.effectFilter.Query()
	for query.Next() {
		effect, anchor, age := query.Get()
		slot := g.effects.get(effect.Slot)
		if slot == nil {
			continue
		}

		snapshot.Effects = append(snapshot.Effects, telemetry.EffectState{
			Slot:      effect.Slot,
			Preset:    effect.Preset,
			Advanced:  effect.Advanced,
			Anchor:    [3]float64{anchor.Position.X, anchor.Position.Y, anchor.Position.Z},
			Age:       age.Seconds,
			Active:    slot.sim.IsActive(),
			Particles: slot.sim.ParticleCount(),
			Stats:     slot.sim.Stats(),
			Emitter:   slot.sim.Emitter(),
		})
	}

	return snapshot
}
