package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fxsim/components"
	"github.com/pthm-cable/fxsim/systems"
)

// ParticleRenderer draws particle sprites inside a 3D pass. Sprites are
// buffered by DrawSprite and drawn by Flush so that glowing types can be
// drawn together with additive blending.
type ParticleRenderer struct {
	alpha    []systems.Sprite
	additive []systems.Sprite

	// MinSize keeps fading particles visible
	MinSize float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{MinSize: 0.02}
}

// DrawSprite implements systems.Renderer.
func (r *ParticleRenderer) DrawSprite(s systems.Sprite) {
	if additive(s.Type) {
		r.additive = append(r.additive, s)
	} else {
		r.alpha = append(r.alpha, s)
	}
}

// Len returns the number of buffered sprites.
func (r *ParticleRenderer) Len() int {
	return len(r.alpha) + len(r.additive)
}

// Flush draws and clears the buffered sprites. Call between BeginMode3D
// and EndMode3D.
func (r *ParticleRenderer) Flush() {
	for i := range r.alpha {
		r.draw(&r.alpha[i])
	}

	if len(r.additive) > 0 {
		rl.BeginBlendMode(rl.BlendAdditive)
		for i := range r.additive {
			r.draw(&r.additive[i])
		}
		rl.EndBlendMode()
	}

	r.alpha = r.alpha[:0]
	r.additive = r.additive[:0]
}

func (r *ParticleRenderer) draw(s *systems.Sprite) {
	pos := ToVector3(s.Position)
	color := ToColor(s.Color)
	if color.A == 0 {
		return
	}

	size := float32(s.Size)
	if size < r.MinSize {
		size = r.MinSize
	}

	switch s.Type {
	case components.TypeSmoke, components.TypeMist, components.TypeExplosion:
		// Soft volumes
		rl.DrawSphereEx(pos, size*0.5, 4, 6, color)
	case components.TypeFire:
		rl.DrawSphereEx(pos, size*0.5, 3, 5, color)
	case components.TypeTrail:
		rl.DrawPoint3D(pos, color)
		rl.DrawCube(pos, size*0.5, size*0.5, size*0.5, color)
	default:
		// Sparks, blood and untyped particles are small debris
		rl.DrawCube(pos, size, size, size, color)
	}
}

// additive reports whether a type emits light.
func additive(t components.ParticleType) bool {
	switch t {
	case components.TypeFire, components.TypeSpark, components.TypeExplosion:
		return true
	}
	return false
}
