package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fxsim/renderer"
	"github.com/pthm-cable/fxsim/systems"
)

const (
	panelWidth  = 170
	buttonH     = 24
	buttonGap   = 4
	groundHalf  = 50
	anchorAlpha = 0.6
)

// Draw renders the scene.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

	rl.BeginMode3D(renderer.ToCamera3D(g.camera))
	renderer.DrawGround(groundHalf)
	if g.showBounds {
		renderer.DrawBounds(g.config().Derived.Bounds, rl.DarkGray)
	}
	g.drawEffects()
	rl.EndMode3D()

	if g.showHUD {
		g.drawHUD()
		g.drawPresetPanel()
	}

	rl.EndDrawing()
}

// drawEffects draws every effect's particles and its anchor marker.
func (g *Game) drawEffects() {
	query := g.effectFilter.Query()
	for query.Next() {
		effect, anchor, _ := query.Get()
		slot := g.effects.get(effect.Slot)
		if slot == nil {
			continue
		}

		color := rl.Green
		if slot.stopped {
			color = rl.Gray
		}
		renderer.DrawAnchor(anchor.Position, rl.Fade(color, anchorAlpha))

		slot.sim.Render(g.particleRenderer)
	}
	g.particleRenderer.Flush()
}

// drawHUD renders scene counters in the top-left corner.
func (g *Game) drawHUD() {
	perf := g.perfCollector.Stats()

	rl.DrawText(fmt.Sprintf("Tick: %d  Time: %.1fs", g.tick, g.simTime), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Effects: %d  Particles: %d", g.effects.live, g.lastParticles), 10, 35, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]", g.stepsPerUpdate), 10, 60, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Tick: %v  TPS: %.0f", perf.AvgTickDuration, perf.TicksPerSecond), 10, 85, 14, rl.LightGray)
	if g.paused {
		rl.DrawText("PAUSED", 10, 105, 20, rl.Yellow)
	}

	rl.DrawText("RMB orbit  MMB pan  wheel zoom  Home reset  B bounds  H hud  X stop all", 10, int32(g.screenHeight)-24, 14, rl.Gray)
	rl.DrawFPS(int32(g.screenWidth)-90, int32(g.screenHeight)-24)
}

// drawPresetPanel renders one spawn button per registered preset.
func (g *Game) drawPresetPanel() {
	presets := systems.Presets.All()
	x := g.screenWidth - panelWidth - 10
	h := float32(len(presets)+1)*(buttonH+buttonGap) + 30

	gui.Panel(rl.NewRectangle(x, 10, panelWidth, h), "Spawn")

	y := float32(40)
	for i, info := range presets {
		label := info.Name
		if i == g.selectedPreset {
			label = "> " + label
		}
		if gui.Button(rl.NewRectangle(x+8, y, panelWidth-16, buttonH), label) {
			g.selectedPreset = i
			g.spawnAtTarget(info.ID)
		}
		y += buttonH + buttonGap
	}

	if gui.Button(rl.NewRectangle(x+8, y, panelWidth-16, buttonH), "Stop all") {
		g.stopAll()
	}
}
