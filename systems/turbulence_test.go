package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

func TestSineTurbulence(t *testing.T) {
	cfg := components.TurbulenceConfig{Enabled: true, Amplitude: 2, Scale: 0.5, Speed: 3}
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	const tm = 0.25

	got := SineTurbulence{}.Sample(p, tm, cfg)
	want := r3.Vec{
		X: 2 * math.Sin(0.5+0.75),
		Y: 2 * math.Cos(1+0.75),
		Z: 2 * math.Sin(1.5+0.75),
	}
	if !approxEqual(got.X, want.X, 1e-12) || !approxEqual(got.Y, want.Y, 1e-12) || !approxEqual(got.Z, want.Z, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSimplexTurbulenceDeterministic(t *testing.T) {
	cfg := components.TurbulenceConfig{Enabled: true, Amplitude: 1.5, Scale: 0.7, Speed: 1}
	a := NewSimplexTurbulence(7)
	b := NewSimplexTurbulence(7)

	for i := 0; i < 50; i++ {
		p := r3.Vec{X: float64(i) * 0.37, Y: float64(i) * -0.11, Z: 2}
		va := a.Sample(p, float64(i)*0.1, cfg)
		vb := b.Sample(p, float64(i)*0.1, cfg)
		if va != vb {
			t.Fatalf("same seed produced %v and %v", va, vb)
		}
		for _, c := range []float64{va.X, va.Y, va.Z} {
			if math.Abs(c) > cfg.Amplitude*1.0001 {
				t.Fatalf("component %v exceeds amplitude %v", c, cfg.Amplitude)
			}
		}
	}
}

func TestNewTurbulenceField(t *testing.T) {
	tests := []struct {
		source  string
		wantErr bool
	}{
		{"", false},
		{"sine", false},
		{"simplex", false},
		{"perlin", true},
	}
	for _, tt := range tests {
		f, err := NewTurbulenceField(tt.source, 1)
		if (err != nil) != tt.wantErr {
			t.Errorf("source %q: err = %v, wantErr %v", tt.source, err, tt.wantErr)
		}
		if err == nil && f == nil {
			t.Errorf("source %q: nil field", tt.source)
		}
	}
}

func TestParseTurbulenceMode(t *testing.T) {
	for _, m := range []TurbulenceMode{TurbulenceEmission, TurbulenceContinuous} {
		got, err := ParseTurbulenceMode(m.String())
		if err != nil || got != m {
			t.Errorf("round trip of %v gave %v (%v)", m, got, err)
		}
	}
	if _, err := ParseTurbulenceMode("sometimes"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestContinuousTurbulence(t *testing.T) {
	s := NewAdvancedSimulation(10, newTestRand())
	s.SetTurbulence(SineTurbulence{}, TurbulenceContinuous)
	cfg := components.DefaultEmitterConfig()
	cfg.Advanced = components.DefaultAdvancedEmission()
	cfg.Advanced.Turbulence = components.TurbulenceConfig{Enabled: true, Amplitude: 1, Scale: 1, Speed: 0}
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	placeParticle(t, s.Simulation, restingParticle(1), components.AdvancedState{Turbulence: cfg.Advanced.Turbulence})

	const dt = 0.1
	s.Update(dt)

	// At the origin the field is (0, 1, 0).
	v := s.pool.particles[0].Velocity
	if !approxEqual(v.Y, dt, 1e-12) || !approxEqual(v.X, 0, 1e-12) {
		t.Errorf("expected (0,%v,0), got %v", dt, v)
	}
}
