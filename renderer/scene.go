// Package renderer draws effect particles and scene helpers with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/camera"
	"github.com/pthm-cable/fxsim/components"
)

// ToVector3 converts a simulation vector to raylib's float32 form.
func ToVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// ToColor converts a linear [0,1] colour to 8-bit RGBA, clamping each channel.
func ToColor(c components.Color) rl.Color {
	return rl.Color{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ToCamera3D builds the raylib camera for an orbit camera.
func ToCamera3D(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   ToVector3(c.Eye()),
		Target:     ToVector3(c.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(c.FovY),
		Projection: rl.CameraPerspective,
	}
}

// DrawBounds outlines a collision box.
func DrawBounds(b r3.Box, color rl.Color) {
	rl.DrawBoundingBox(rl.NewBoundingBox(ToVector3(b.Min), ToVector3(b.Max)), color)
}

// DrawGround draws a reference grid on the y=0 plane.
func DrawGround(halfExtent float64) {
	slices := int32(halfExtent*2) + 1
	if slices < 2 {
		slices = 2
	}
	rl.DrawGrid(slices, 1)
}

// DrawAnchor marks an effect's anchor point.
func DrawAnchor(p r3.Vec, color rl.Color) {
	pos := ToVector3(p)
	rl.DrawCubeWires(pos, 0.25, 0.25, 0.25, color)
	rl.DrawLine3D(pos, rl.Vector3{X: pos.X, Y: 0, Z: pos.Z}, rl.Fade(color, 0.4))
}
