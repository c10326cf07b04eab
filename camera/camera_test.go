package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestEye(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       r3.Vec
	}{
		{"along +X", 0, 0, r3.Vec{X: 10, Y: 2}},
		{"along +Z", 90, 0, r3.Vec{Y: 2, Z: 10}},
		{"overhead-ish", 0, 89, r3.Vec{X: 10 * math.Cos(89*math.Pi/180), Y: 2 + 10*math.Sin(89*math.Pi/180)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(r3.Vec{Y: 2}, 10, tt.yaw, tt.pitch, 45)
			if got := cam.Eye(); !near(got, tt.want) {
				t.Errorf("Eye() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBasisOrthonormal(t *testing.T) {
	for _, yaw := range []float64{0, 37, 180, 300} {
		for _, pitch := range []float64{-60, 0, 25, 80} {
			cam := New(r3.Vec{}, 5, yaw, pitch, 45)
			f, r, u := cam.Forward(), cam.Right(), cam.Up()
			for name, v := range map[string]r3.Vec{"forward": f, "right": r, "up": u} {
				if math.Abs(r3.Norm(v)-1) > 1e-9 {
					t.Errorf("yaw %v pitch %v: %s not unit (%v)", yaw, pitch, name, r3.Norm(v))
				}
			}
			if math.Abs(r3.Dot(f, r)) > 1e-9 || math.Abs(r3.Dot(f, u)) > 1e-9 || math.Abs(r3.Dot(r, u)) > 1e-9 {
				t.Errorf("yaw %v pitch %v: basis not orthogonal", yaw, pitch)
			}
			if u.Y <= 0 {
				t.Errorf("yaw %v pitch %v: up points down", yaw, pitch)
			}
		}
	}
}

func TestPitchClamp(t *testing.T) {
	cam := New(r3.Vec{}, 10, 0, 120, 45)
	if cam.Pitch != maxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", maxPitch, cam.Pitch)
	}

	cam.Orbit(0, -500)
	if cam.Pitch != -maxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", -maxPitch, cam.Pitch)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(r3.Vec{}, 10, 0, 0, 45)

	cam.ZoomBy(0.001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected min distance, got %v", cam.Distance)
	}
	cam.ZoomBy(1e6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected max distance, got %v", cam.Distance)
	}
}

func TestPanAndReset(t *testing.T) {
	cam := New(r3.Vec{Y: 2}, 10, 0, 0, 45)

	// Looking down -X, right is -Z
	cam.Pan(1, 0)
	if !near(cam.Target, r3.Vec{Y: 2, Z: -1}) {
		t.Errorf("unexpected target after pan %v", cam.Target)
	}
	cam.Pan(0, 3)
	if !near(cam.Target, r3.Vec{Y: 5, Z: -1}) {
		t.Errorf("unexpected target after vertical pan %v", cam.Target)
	}

	cam.Orbit(45, 10)
	cam.ZoomBy(2)
	cam.Reset()
	if !near(cam.Target, r3.Vec{Y: 2}) || cam.Distance != 10 || cam.Yaw != 0 || cam.Pitch != 0 {
		t.Errorf("reset did not restore orbit: %+v", cam)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(r3.Vec{}, 10, 0, 0, 45)

	tests := []struct {
		name string
		p    r3.Vec
		want bool
	}{
		{"target", r3.Vec{}, true},
		{"slightly off axis", r3.Vec{Y: 2}, true},
		{"behind eye", r3.Vec{X: 20}, false},
		{"far to the side", r3.Vec{Z: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.p, 0.5, 16.0/9); got != tt.want {
				t.Errorf("IsVisible(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
