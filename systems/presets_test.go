package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

func TestBurstExplosionScenario(t *testing.T) {
	s := NewSimulation(DefaultCapacity, newTestRand())
	cfg := components.DefaultEmitterConfig()
	cfg.Type = components.TypeExplosion
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}

	if err := s.CreateExplosion(r3.Vec{}, 1.0, 5.0); err != nil {
		t.Fatal(err)
	}

	if got := s.ActiveParticleCount(); got != 300 {
		t.Errorf("expected 300 particles, got %d", got)
	}
	if rate := s.Emitter().EmissionRate; rate != 0 {
		t.Errorf("expected emission rate 0 after explosion, got %v", rate)
	}
	if s.IsActive() {
		t.Error("expected explosion to be one-shot")
	}

	s.Update(1.0 / 60)
	if s.ActiveParticleCount() > 300 {
		t.Error("expected no further emission")
	}
}

func TestContinuousSmokeScenario(t *testing.T) {
	s := NewSimulation(DefaultCapacity, newTestRand())
	if err := s.CreateSmoke(r3.Vec{}, 1.0, 3.0); err != nil {
		t.Fatal(err)
	}
	if !s.IsActive() {
		t.Fatal("expected smoke to be active")
	}
	rate := s.Emitter().EmissionRate

	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}

	n := s.ActiveParticleCount()
	if n <= 0 {
		t.Error("expected smoke particles after one second")
	}
	if float64(n) > rate*1+1 {
		t.Errorf("expected at most %v particles, got %d", rate+1, n)
	}
}

func TestPresetsProduceParticles(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			s := NewAdvancedSimulation(5000, newTestRand())
			s.SetCollisionEnabled(true)
			if err := s.ApplyPreset(name, PresetParams{Position: r3.Vec{Y: 1}}); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 30; i++ {
				s.Update(1.0 / 60)
			}
			if s.Stats().Emitted == 0 {
				t.Error("expected the preset to emit")
			}
			for i := 0; i < s.pool.active; i++ {
				p := &s.pool.particles[i]
				if p.Life <= 0 || p.Life > p.MaxLife || p.Mass <= 0 {
					t.Fatalf("invalid particle state %+v", *p)
				}
			}
		})
	}
}

func TestShockwaveIsPlanar(t *testing.T) {
	s := NewSimulation(500, newTestRand())
	if err := s.CreateShockwave(r3.Vec{}, 1, 4); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < s.pool.active; i++ {
		if v := s.pool.particles[i].Velocity; !approxEqual(v.Y, 0, 1e-9) {
			t.Fatalf("shockwave particle has vertical velocity %v", v.Y)
		}
	}
}

func TestExplosionWithSmokeKeepsDebrisGravity(t *testing.T) {
	s := NewSimulation(DefaultCapacity, newTestRand())
	if err := s.CreateExplosionWithSmoke(r3.Vec{}, 1, 5); err != nil {
		t.Fatal(err)
	}
	if !s.IsActive() || s.Emitter().Type != components.TypeSmoke {
		t.Fatal("expected smoke to follow the explosion")
	}
	for i := 0; i < s.pool.active; i++ {
		p := &s.pool.particles[i]
		if p.Type == components.TypeExplosion && p.Acceleration.Y >= 0 {
			t.Fatalf("explosion debris lost its gravity: %v", p.Acceleration)
		}
	}
}

func TestFireWithSmokeNeedsAdvanced(t *testing.T) {
	base := NewSimulation(100, newTestRand())
	if err := base.ApplyPreset("fire_with_smoke", PresetParams{}); err == nil {
		t.Error("expected base simulation to reject an advanced-only preset")
	}

	adv := NewAdvancedSimulation(2000, newTestRand())
	if err := adv.ApplyPreset("fire_with_smoke", PresetParams{}); err != nil {
		t.Fatal(err)
	}
	if len(adv.SubEmitters()) != 1 {
		t.Fatalf("expected one sub-emitter, got %d", len(adv.SubEmitters()))
	}
	for i := 0; i < 120; i++ {
		adv.Update(1.0 / 60)
	}
	if adv.Stats().SubEmitted == 0 {
		t.Error("expected dying fire to release smoke")
	}
}

func TestFireWithSmokeReplacesItsRule(t *testing.T) {
	s := NewAdvancedSimulation(2000, newTestRand())
	other := components.SubEmitter{
		ParentType: components.TypeSpark,
		Emitter:    childEmitter(),
		Count:      2,
		Enabled:    true,
		Trigger:    components.TriggerCollision,
	}
	if _, err := s.AddSubEmitter(other); err != nil {
		t.Fatal(err)
	}

	for _, height := range []float64{2, 3, 4} {
		if err := s.CreateFireWithSmoke(r3.Vec{}, 1, height); err != nil {
			t.Fatal(err)
		}
	}

	rules := s.SubEmitters()
	if len(rules) != 2 {
		t.Fatalf("got %d sub-emitter rules, want 2", len(rules))
	}
	if rules[0].ParentType != components.TypeSpark {
		t.Errorf("unrelated rule was replaced: %+v", rules[0])
	}
	if want := smokeConfig(r3.Vec{}, 1, 4).Speed; rules[1].Emitter.Speed != want {
		t.Errorf("smoke rule speed = %v, want %v from the latest call", rules[1].Emitter.Speed, want)
	}
}

func TestFireWithSmokeFailureAddsNoRule(t *testing.T) {
	s := NewAdvancedSimulation(100, newTestRand())
	if err := s.CreateFireWithSmoke(r3.Vec{}, math.NaN(), 2); err == nil {
		t.Fatal("expected a NaN intensity to be rejected")
	}
	if n := len(s.SubEmitters()); n != 0 {
		t.Errorf("got %d sub-emitter rules after a failed call, want 0", n)
	}
}

func TestApplyPresetUnknown(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	if err := s.ApplyPreset("confetti", PresetParams{}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetRegistry(t *testing.T) {
	reg := NewPresetRegistry()

	info, ok := reg.Get("smoke")
	if !ok || info.Category != "continuous" {
		t.Errorf("unexpected smoke entry %+v", info)
	}
	if len(reg.ByCategory("burst")) != 4 {
		t.Errorf("expected 4 burst presets, got %d", len(reg.ByCategory("burst")))
	}
	if len(reg.IDs()) != len(reg.All()) {
		t.Error("IDs and All disagree")
	}
}
