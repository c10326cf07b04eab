package components

import "testing"

func TestInfluencerStrengthAt(t *testing.T) {
	tests := []struct {
		name string
		in   Influencer
		d    float64
		want float64
	}{
		{"constant inside", Influencer{Radius: 5, Strength: 3}, 2, 3},
		{"on the boundary", Influencer{Radius: 5, Strength: 3}, 5, 3},
		{"outside", Influencer{Radius: 5, Strength: 3}, 5.01, 0},
		{"falloff", Influencer{Radius: 10, Strength: 6, Falloff: 0.5}, 4, 2},
		{"falloff at centre", Influencer{Radius: 10, Strength: 6, Falloff: 0.5}, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.StrengthAt(tt.d); got != tt.want {
				t.Errorf("StrengthAt(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestLifeRatio(t *testing.T) {
	p := Particle{Life: 1, MaxLife: 4}
	if p.LifeRatio() != 0.25 {
		t.Errorf("expected 0.25, got %v", p.LifeRatio())
	}
	if !p.Alive() {
		t.Error("expected particle with life to be alive")
	}

	dead := Particle{}
	if dead.LifeRatio() != 0 || dead.Alive() {
		t.Error("expected zero particle to be dead with ratio 0")
	}
}

func TestLerp(t *testing.T) {
	a := Color{R: 1, G: 0, B: 0, A: 1}
	b := Color{R: 0, G: 1, B: 0, A: 0}

	if Lerp(a, b, 0) != a || Lerp(a, b, 1) != b {
		t.Error("expected endpoints to be exact")
	}
	mid := Lerp(a, b, 0.5)
	if mid.R != 0.5 || mid.G != 0.5 || mid.A != 0.5 {
		t.Errorf("unexpected midpoint %+v", mid)
	}
}

func TestParseParticleType(t *testing.T) {
	for i := range particleTypeNames {
		pt := ParticleType(i)
		got, err := ParseParticleType(pt.String())
		if err != nil || got != pt {
			t.Errorf("round trip of %v gave %v (%v)", pt, got, err)
		}
	}
	if got, err := ParseParticleType(" Smoke "); err != nil || got != TypeSmoke {
		t.Errorf("expected case-insensitive parse, got %v (%v)", got, err)
	}
	if _, err := ParseParticleType("plasma"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestAgeExpired(t *testing.T) {
	if (&Age{Seconds: 100}).Expired() {
		t.Error("zero TTL should never expire")
	}
	if !(&Age{Seconds: 2, TTL: 2}).Expired() {
		t.Error("expected age at TTL to be expired")
	}
}
