// Turbulence field preview tool - interactive visualization with sliders.
//
// Draws one XY slice of the field as a magnitude heatmap with flow arrows.
//
// Usage: go run ./cmd/turbpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
	"github.com/pthm-cable/fxsim/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	gridSize   = 128 // heatmap resolution
	arrowCells = 16  // arrows per side
	worldSpan  = 10  // world units across the preview
)

// previewParams holds everything the sliders control.
type previewParams struct {
	Simplex   bool
	Seed      int64
	Amplitude float32
	Scale     float32
	Speed     float32
	SliceZ    float32
}

func defaultParams() previewParams {
	return previewParams{
		Seed:      7,
		Amplitude: 0.3,
		Scale:     0.5,
		Speed:     1,
	}
}

func (p previewParams) source() string {
	if p.Simplex {
		return "simplex"
	}
	return "sine"
}

func (p previewParams) turbulence() components.TurbulenceConfig {
	return components.TurbulenceConfig{
		Enabled:   true,
		Amplitude: float64(p.Amplitude),
		Scale:     float64(p.Scale),
		Speed:     float64(p.Speed),
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Turbulence Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field, _ := systems.NewTurbulenceField(params.source(), params.Seed)

	samples := make([]r3.Vec, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var t float32
	animating := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			needsRegen = true
		}

		var peak float64
		if needsRegen {
			peak = sampleField(samples, field, params, float64(t))
			updateTexture(texture, samples, peak)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		drawArrows(field, params, float64(t))
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Source: %s  Time: %.1f", params.source(), t), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Slice z = %.2f  (%d x %d units)", params.SliceZ, worldSpan, worldSpan), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Turbulence Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		params.Amplitude, changed = slider(panelX, &panelY, "Amplitude (velocity scale)", params.Amplitude, 0, 3, "%.2f", changed)
		params.Scale, changed = slider(panelX, &panelY, "Scale (spatial frequency)", params.Scale, 0.05, 3, "%.2f", changed)
		params.Speed, changed = slider(panelX, &panelY, "Speed (time frequency)", params.Speed, 0, 5, "%.2f", changed)
		params.SliceZ, changed = slider(panelX, &panelY, "Slice Z", params.SliceZ, -5, 5, "%.2f", changed)

		seed, seedChanged := slider(panelX, &panelY, "Seed (simplex only)", float32(params.Seed), 0, 9999, "%.0f", false)
		if seedChanged && int64(seed) != params.Seed {
			params.Seed = int64(seed)
			field, _ = systems.NewTurbulenceField(params.source(), params.Seed)
			changed = true
		}
		if changed {
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if simplex := gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 20, Height: 20}, "Simplex noise", params.Simplex); simplex != params.Simplex {
			params.Simplex = simplex
			field, _ = systems.NewTurbulenceField(params.source(), params.Seed)
			needsRegen = true
		}
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			field, _ = systems.NewTurbulenceField(params.source(), params.Seed)
			t = 0
			needsRegen = true
		}
		panelY += 55

		yamlText := configSnippet(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider, advances y and reports whether the value moved.
func slider(x float32, y *float32, label string, value, lo, hi float32, format string, changed bool) (float32, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return next, changed || next != value
}

func configSnippet(p previewParams) string {
	return fmt.Sprintf(`turbulence:
  source: %s
  seed: %d
# emitter advanced.turbulence
#   amplitude: %.2f
#   scale: %.2f
#   speed: %.2f`, p.source(), p.Seed, p.Amplitude, p.Scale, p.Speed)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// worldAt maps a preview fraction in [0,1] to world coordinates on the slice.
func worldAt(u, v float64, z float32) r3.Vec {
	return r3.Vec{
		X: (u - 0.5) * worldSpan,
		Y: (0.5 - v) * worldSpan,
		Z: float64(z),
	}
}

// sampleField fills samples and returns the largest magnitude seen.
func sampleField(samples []r3.Vec, field systems.TurbulenceField, p previewParams, t float64) float64 {
	cfg := p.turbulence()
	var peak float64
	for y := range gridSize {
		v := (float64(y) + 0.5) / gridSize
		for x := range gridSize {
			u := (float64(x) + 0.5) / gridSize
			s := field.Sample(worldAt(u, v, p.SliceZ), t, cfg)
			samples[y*gridSize+x] = s
			peak = math.Max(peak, r3.Norm(s))
		}
	}
	return peak
}

// drawArrows overlays the in-plane flow direction.
func drawArrows(field systems.TurbulenceField, p previewParams, t float64) {
	cfg := p.turbulence()
	cell := float32(previewSize) / arrowCells
	maxLen := cell * 0.45
	for y := range arrowCells {
		for x := range arrowCells {
			u := (float64(x) + 0.5) / arrowCells
			v := (float64(y) + 0.5) / arrowCells
			s := field.Sample(worldAt(u, v, p.SliceZ), t, cfg)

			cx := 10 + (float32(x)+0.5)*cell
			cy := 10 + (float32(y)+0.5)*cell
			scale := maxLen / float32(math.Max(float64(p.Amplitude), 1e-6))
			ex := cx + float32(s.X)*scale
			ey := cy - float32(s.Y)*scale
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: ex, Y: ey}, 1.5, rl.Fade(rl.White, 0.8))
			rl.DrawCircleV(rl.Vector2{X: ex, Y: ey}, 2, rl.White)
		}
	}
}

// updateTexture updates the GPU texture from the sampled magnitudes
func updateTexture(texture rl.Texture2D, samples []r3.Vec, peak float64) {
	if peak == 0 {
		peak = 1
	}
	pixels := make([]color.RGBA, len(samples))
	for i, s := range samples {
		m := float32(r3.Norm(s) / peak)
		// Dark blue -> cyan -> yellow, z component tints red
		zTint := float32(math.Abs(s.Z) / peak)
		r := uint8(min(255, 20+m*200+zTint*35))
		g := uint8(30 + m*180)
		b := uint8(90 + (1-m)*120)
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
