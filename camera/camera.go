// Package camera provides an orbit camera for the 3D viewer.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits a target point. Angles are in degrees.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Distance from target to eye
	Distance float64

	// Yaw rotates around +Y, Pitch lifts above the XZ plane
	Yaw, Pitch float64

	// Vertical field of view
	FovY float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home orbit
}

// orbit is the state restored by Reset.
type orbit struct {
	target               r3.Vec
	distance, yaw, pitch float64
}

const maxPitch = 89

// New creates a camera looking at target from the given orbit.
func New(target r3.Vec, distance, yaw, pitch, fovY float64) *Camera {
	c := &Camera{
		Target:      target,
		Distance:    distance,
		Yaw:         yaw,
		Pitch:       clamp(pitch, -maxPitch, maxPitch),
		FovY:        fovY,
		MinDistance: 1,
		MaxDistance: 200,
	}
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.home = orbit{target: c.Target, distance: c.Distance, yaw: c.Yaw, pitch: c.Pitch}
	return c
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() r3.Vec {
	return r3.Add(c.Target, r3.Scale(-c.Distance, c.Forward()))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	// Eye sits on the +yaw side looking back toward the target
	return r3.Vec{
		X: -math.Cos(pitch) * math.Cos(yaw),
		Y: -math.Sin(pitch),
		Z: -math.Cos(pitch) * math.Sin(yaw),
	}
}

// Right returns the unit vector to the right of the view.
func (c *Camera) Right() r3.Vec {
	return r3.Unit(r3.Cross(c.Forward(), r3.Vec{Y: 1}))
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() r3.Vec {
	return r3.Cross(c.Right(), c.Forward())
}

// Orbit rotates the eye around the target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan slides the target in the view plane by world units.
func (c *Camera) Pan(dx, dy float64) {
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(dx, c.Right()), r3.Scale(dy, c.Up())))
}

// ZoomBy multiplies the orbit distance by factor, clamped to min/max.
func (c *Camera) ZoomBy(factor float64) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Distance = c.home.distance
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
}

// IsVisible returns true if a sphere at p could be on screen. aspect is
// width over height; the test uses a cone around the view axis.
func (c *Camera) IsVisible(p r3.Vec, radius, aspect float64) bool {
	rel := r3.Sub(p, c.Eye())
	depth := r3.Dot(rel, c.Forward())
	if depth < -radius {
		return false
	}
	halfV := c.FovY * math.Pi / 360
	halfH := math.Atan(math.Tan(halfV) * math.Max(aspect, 1))
	// Distance from the axis allowed at this depth
	lateral := math.Sqrt(math.Max(r3.Norm2(rel)-depth*depth, 0))
	return lateral <= math.Max(depth, 0)*math.Tan(halfH)+radius/math.Cos(halfH)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
