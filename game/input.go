package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fxsim/systems"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyB) {
		g.showBounds = !g.showBounds
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Cycle and spawn presets from the keyboard as well as the panel
	names := systems.PresetNames()
	if rl.IsKeyPressed(rl.KeyTab) && len(names) > 0 {
		g.selectedPreset = (g.selectedPreset + 1) % len(names)
	}
	if rl.IsKeyPressed(rl.KeyEnter) && g.selectedPreset < len(names) {
		g.spawnAtTarget(names[g.selectedPreset])
	}
	if rl.IsKeyPressed(rl.KeyX) {
		g.stopAll()
	}

	g.handleCameraInput()
}

// spawnAtTarget spawns a preset where the camera is looking.
func (g *Game) spawnAtTarget(preset string) {
	req := EffectRequest{
		Preset:    preset,
		Params:    systems.PresetParams{Position: g.camera.Target},
		Advanced:  true,
		Collision: true,
		TTL:       10,
	}
	if _, err := g.SpawnEffect(req); err != nil {
		slog.Warn("spawn failed", "preset", preset, "error", err)
	}
}

// stopAll halts emission on every effect.
func (g *Game) stopAll() {
	query := g.effectFilter.Query()
	for query.Next() {
		effect, _, _ := query.Get()
		if slot := g.effects.get(effect.Slot); slot != nil {
			g.stopSlot(effect, slot)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Right drag orbits, middle drag pans
	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		g.camera.Orbit(float64(delta.X)*0.3, float64(delta.Y)*0.3)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		scale := g.camera.Distance * 0.002
		g.camera.Pan(-float64(delta.X)*scale, float64(delta.Y)*scale)
	}

	// Arrow keys orbit
	const orbitStep = 1.5
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(orbitStep, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-orbitStep, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, orbitStep)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -orbitStep)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 - float64(wheelMove)*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
