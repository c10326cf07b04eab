package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// steadyEmitter returns a config whose particles outlive any test run.
func steadyEmitter(rate float64) components.EmitterConfig {
	cfg := components.DefaultEmitterConfig()
	cfg.EmissionRate = rate
	cfg.Lifetime = 100
	return cfg
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// placeParticle writes a particle directly into the pool.
func placeParticle(t *testing.T, s *Simulation, p components.Particle, st components.AdvancedState) int {
	t.Helper()
	i, ok := s.pool.acquire()
	if !ok {
		t.Fatal("pool full")
	}
	s.pool.particles[i] = p
	if adv := s.pool.advancedAt(i); adv != nil {
		*adv = st
	}
	return i
}

func TestNewSimulationDefaults(t *testing.T) {
	s := NewSimulation(0, nil)

	if s.MaxParticles() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, s.MaxParticles())
	}
	if s.IsActive() {
		t.Error("expected new simulation to be inactive")
	}
	if s.ParticleCount() != 0 || s.ActiveParticleCount() != 0 {
		t.Error("expected empty pool")
	}
}

func TestCapacityInvariant(t *testing.T) {
	s := NewSimulation(50, newTestRand())
	if err := s.SetEmitter(steadyEmitter(1000)); err != nil {
		t.Fatal(err)
	}
	s.Start()

	for tick := 0; tick < 100; tick++ {
		s.Update(1.0 / 60)
		if n := s.ActiveParticleCount(); n > s.MaxParticles() {
			t.Fatalf("tick %d: %d particles exceeds capacity %d", tick, n, s.MaxParticles())
		}
	}
	if s.ActiveParticleCount() != 50 {
		t.Errorf("expected pool to saturate at 50, got %d", s.ActiveParticleCount())
	}
	if s.Stats().Dropped == 0 {
		t.Error("expected dropped emissions to be counted")
	}
}

func TestLifeDecreasesByExactlyDT(t *testing.T) {
	s := NewSimulation(100, newTestRand())
	cfg := steadyEmitter(0)
	cfg.Lifetime = 2
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	s.EmitBurst(20)

	const dt = 0.1
	s.Update(dt)

	want := cfg.Lifetime - dt
	for i := 0; i < s.pool.active; i++ {
		p := &s.pool.particles[i]
		if p.Life != want {
			t.Errorf("particle %d: life %v, want %v", i, p.Life, want)
		}
		if p.Life > p.MaxLife {
			t.Errorf("particle %d: life %v exceeds max %v", i, p.Life, p.MaxLife)
		}
	}
}

func TestEmissionRateExactness(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		dt   float64
		secs float64
	}{
		{"integral rate", 60, 1.0 / 60, 1},
		{"fractional rate", 37, 1.0 / 60, 2},
		{"slow rate", 0.5, 1.0 / 30, 10},
		{"coarse ticks", 250, 0.1, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulation(10000, newTestRand())
			if err := s.SetEmitter(steadyEmitter(tt.rate)); err != nil {
				t.Fatal(err)
			}
			s.Start()

			ticks := int(math.Round(tt.secs / tt.dt))
			for i := 0; i < ticks; i++ {
				s.Update(tt.dt)
			}

			want := math.Floor(tt.rate * tt.secs)
			got := float64(s.ActiveParticleCount())
			if math.Abs(got-want) > 1 {
				t.Errorf("emitted %v particles, want %v ± 1", got, want)
			}
		})
	}
}

func TestRetiredParticlesAreRemoved(t *testing.T) {
	s := NewSimulation(500, newTestRand())
	cfg := steadyEmitter(0)
	cfg.Lifetime = 1
	cfg.LifetimeVariation = 0.5
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	s.EmitBurst(300)

	const dt = 0.7
	survivors := 0
	for i := 0; i < s.pool.active; i++ {
		if s.pool.particles[i].MaxLife-dt > 0 {
			survivors++
		}
	}

	s.Update(dt)

	if s.ActiveParticleCount() != survivors {
		t.Errorf("expected %d survivors, got %d", survivors, s.ActiveParticleCount())
	}
	for i := 0; i < s.pool.active; i++ {
		if s.pool.particles[i].Life <= 0 {
			t.Errorf("slot %d holds a dead particle", i)
		}
	}
	if got := s.Stats().Retired; got != 300-survivors {
		t.Errorf("expected %d retired, got %d", 300-survivors, got)
	}
}

func TestEmitBurstReportsPlaced(t *testing.T) {
	s := NewSimulation(10, newTestRand())

	if got := s.EmitBurst(4); got != 4 {
		t.Errorf("expected 4 placed, got %d", got)
	}
	if got := s.EmitBurst(20); got != 6 {
		t.Errorf("expected 6 placed on a nearly full pool, got %d", got)
	}
	st := s.Stats()
	if st.Emitted != 10 || st.Dropped != 14 {
		t.Errorf("expected 10 emitted and 14 dropped, got %+v", st)
	}
	if s.EmitParticle() {
		t.Error("expected EmitParticle to fail on a full pool")
	}
}

func TestStopLetsParticlesFinish(t *testing.T) {
	s := NewSimulation(100, newTestRand())
	cfg := steadyEmitter(60)
	cfg.Lifetime = 0.5
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	s.Start()
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}
	s.Stop()
	n := s.ActiveParticleCount()
	if n == 0 {
		t.Fatal("expected particles before stopping")
	}

	s.Update(1.0 / 60)
	if s.ActiveParticleCount() > n {
		t.Error("expected no new particles after Stop")
	}
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}
	if s.ActiveParticleCount() != 0 {
		t.Errorf("expected all particles to expire, got %d", s.ActiveParticleCount())
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	s := NewSimulation(100, newTestRand())
	if err := s.SetEmitter(steadyEmitter(100)); err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Update(0.25)
	s.Reset()

	if s.ActiveParticleCount() != 0 {
		t.Errorf("expected 0 particles after reset, got %d", s.ActiveParticleCount())
	}
	if s.IsActive() {
		t.Error("expected reset to stop emission")
	}
	s.Update(1)
	if s.ActiveParticleCount() != 0 {
		t.Error("expected no emission after reset")
	}
}

func TestDurationEndsEmission(t *testing.T) {
	s := NewSimulation(1000, newTestRand())
	cfg := steadyEmitter(100)
	cfg.Duration = 0.5
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	s.Start()

	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}
	if s.IsActive() {
		t.Error("expected emission to stop after its duration")
	}
	if n := s.ActiveParticleCount(); n < 49 || n > 51 {
		t.Errorf("expected about 50 particles, got %d", n)
	}
}

func TestSetMaxParticlesDiscardsState(t *testing.T) {
	s := NewSimulation(100, newTestRand())
	s.EmitBurst(30)
	s.SetMaxParticles(20)

	if s.MaxParticles() != 20 {
		t.Errorf("expected capacity 20, got %d", s.MaxParticles())
	}
	if s.ActiveParticleCount() != 0 {
		t.Errorf("expected particles discarded, got %d", s.ActiveParticleCount())
	}
}

func TestSetEmitterRejectsInvalid(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	before := s.Emitter()

	bad := components.DefaultEmitterConfig()
	bad.Mass = 0
	err := s.SetEmitter(bad)
	if !errors.Is(err, components.ErrInvalidEmitter) {
		t.Fatalf("expected ErrInvalidEmitter, got %v", err)
	}
	if s.Emitter().Mass != before.Mass {
		t.Error("expected previous emitter to be kept")
	}
}

func TestEmitterSetters(t *testing.T) {
	s := NewSimulation(10, newTestRand())

	s.SetPosition(r3.Vec{X: 1, Y: 2, Z: 3})
	s.SetDirection(r3.Vec{X: 1})
	s.SetDirection(r3.Vec{})
	s.SetEmissionRate(-5)

	cfg := s.Emitter()
	if cfg.Position != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected position %v", cfg.Position)
	}
	if cfg.Direction != (r3.Vec{X: 1}) {
		t.Errorf("expected zero direction to be ignored, got %v", cfg.Direction)
	}
	if cfg.EmissionRate != 0 {
		t.Errorf("expected negative rate to clamp to 0, got %v", cfg.EmissionRate)
	}
}

func TestEmitterCopyIsIsolated(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	cfg := components.DefaultEmitterConfig()
	cfg.Advanced = components.DefaultAdvancedEmission()
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}

	cfg.Advanced.Buoyancy = 99
	got := s.Emitter()
	got.Advanced.GravityScale = 7

	if s.Emitter().Advanced.Buoyancy == 99 || s.Emitter().Advanced.GravityScale == 7 {
		t.Error("expected emitter to be isolated from caller copies")
	}
}

func TestBasicPhysicsIntegration(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	placeParticle(t, s, components.Particle{
		Velocity:      r3.Vec{X: 1},
		Acceleration:  r3.Vec{Y: -10},
		Life:          2,
		MaxLife:       2,
		RotationSpeed: 1,
		StartColor:    components.Color{R: 1, A: 1},
		EndColor:      components.Color{B: 1},
		StartSize:     1,
		EndSize:       3,
		Mass:          1,
	}, components.AdvancedState{})

	s.Update(1)

	p := s.pool.particles[0]
	if p.Velocity != (r3.Vec{X: 1, Y: -10}) {
		t.Errorf("unexpected velocity %v", p.Velocity)
	}
	if p.Position != (r3.Vec{X: 1, Y: -10}) {
		t.Errorf("unexpected position %v", p.Position)
	}
	if p.Rotation != 1 {
		t.Errorf("expected rotation 1, got %v", p.Rotation)
	}
	// Half way through life.
	if !approxEqual(p.Size, 2, 1e-12) || !approxEqual(p.Color.R, 0.5, 1e-12) || !approxEqual(p.Color.B, 0.5, 1e-12) {
		t.Errorf("unexpected appearance size=%v color=%+v", p.Size, p.Color)
	}
}

type countingRenderer struct {
	sprites []Sprite
}

func (r *countingRenderer) DrawSprite(s Sprite) { r.sprites = append(r.sprites, s) }

func TestRenderDeliversLiveParticles(t *testing.T) {
	s := NewSimulation(100, newTestRand())
	cfg := steadyEmitter(0)
	cfg.Type = components.TypeSpark
	if err := s.SetEmitter(cfg); err != nil {
		t.Fatal(err)
	}
	s.EmitBurst(25)

	var r countingRenderer
	s.Render(&r)
	if len(r.sprites) != 25 {
		t.Fatalf("expected 25 sprites, got %d", len(r.sprites))
	}
	for _, sp := range r.sprites {
		if sp.Type != components.TypeSpark {
			t.Errorf("unexpected sprite type %v", sp.Type)
		}
	}

	buf := s.AppendSprites(make([]Sprite, 0, 4))
	if len(buf) != 25 {
		t.Errorf("expected AppendSprites to return 25, got %d", len(buf))
	}
	if s.ActiveParticleCount() != 25 {
		t.Error("render must not change the population")
	}
}

func TestNegativeDTIgnored(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	s.EmitBurst(5)
	s.Update(-1)

	if s.Time() != 0 {
		t.Errorf("expected clock to stay at 0, got %v", s.Time())
	}
	if s.pool.particles[0].Life != s.pool.particles[0].MaxLife {
		t.Error("expected negative dt to leave particles untouched")
	}
}

func TestAppendSnapshot(t *testing.T) {
	s := NewSimulation(10, newTestRand())
	placeParticle(t, s, components.Particle{Velocity: r3.Vec{X: 3, Y: 4}, Life: 1, MaxLife: 2, Mass: 1}, components.AdvancedState{})

	snap := s.AppendSnapshot(Snapshot{})
	if len(snap.Speeds) != 1 || snap.Speeds[0] != 5 {
		t.Errorf("unexpected speeds %v", snap.Speeds)
	}
	if len(snap.LifeRatio) != 1 || snap.LifeRatio[0] != 0.5 {
		t.Errorf("unexpected life ratios %v", snap.LifeRatio)
	}
}
