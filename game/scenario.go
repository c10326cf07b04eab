package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pthm-cable/fxsim/config"
	"github.com/pthm-cable/fxsim/systems"
)

// requestFromEvent converts a scenario event into a spawn request.
func requestFromEvent(ev *config.ScenarioEvent) EffectRequest {
	return EffectRequest{
		Preset: ev.Preset,
		Params: systems.PresetParams{
			Position:  ev.Position.Vec(),
			Direction: ev.Direction.Vec(),
			Intensity: ev.Intensity,
			Radius:    ev.Radius,
			Height:    ev.Height,
			Density:   ev.Density,
		},
		Advanced:  ev.Advanced,
		Collision: ev.Collision,
		TTL:       ev.TTL,
	}
}

// runScenario spawns every event whose time has come. Events are sorted by
// config loading; a failed spawn is logged and skipped.
func (g *Game) runScenario() {
	for g.nextEvent < len(g.scenario) && g.scenario[g.nextEvent].At <= g.simTime {
		ev := &g.scenario[g.nextEvent]
		g.nextEvent++

		if _, err := g.SpawnEffect(requestFromEvent(ev)); err != nil {
			level := slog.LevelError
			if errors.Is(err, ErrSceneFull) {
				level = slog.LevelWarn
			}
			slog.Log(context.Background(), level, "scenario spawn failed", "preset", ev.Preset, "at", ev.At, "error", err)
			continue
		}
		slog.Debug("scenario event", "preset", ev.Preset, "at", ev.At, "tick", g.tick)
	}
}
