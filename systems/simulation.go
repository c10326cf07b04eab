// Package systems implements the particle engine: pool, emission, the
// per-tick lifecycle and the pluggable physics steps.
package systems

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// DefaultCapacity is the pool size used when a non-positive capacity is given.
const DefaultCapacity = 1000

// Stats are cumulative counters since construction.
type Stats struct {
	Emitted    int // particles placed by EmitParticle, EmitBurst and continuous emission
	Dropped    int // emissions rejected because the pool was full
	Retired    int // particles whose life ran out
	SubEmitted int // particles placed from the spawn queue
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("emitted", s.Emitted),
		slog.Int("dropped", s.Dropped),
		slog.Int("retired", s.Retired),
		slog.Int("sub_emitted", s.SubEmitted),
	)
}

// Simulation owns a particle pool and one emitter. It is not safe for
// concurrent use; all methods must be called from the owning goroutine.
type Simulation struct {
	pool    particlePool
	emitter components.EmitterConfig
	physics PhysicsStep
	rng     *rand.Rand

	active      bool
	accumulator float64
	emitElapsed float64
	clock       float64

	turbulence     TurbulenceField
	turbulenceMode TurbulenceMode

	spawn   SpawnQueue
	stats   Stats
	workers *physicsWorkers
}

// NewSimulation creates a base simulation with a fixed-capacity pool.
// A nil rng is replaced by one seeded with 1.
func NewSimulation(capacity int, rng *rand.Rand) *Simulation {
	return newSimulation(capacity, false, rng)
}

func newSimulation(capacity int, advanced bool, rng *rand.Rand) *Simulation {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulation{
		pool:       newParticlePool(capacity, advanced),
		emitter:    components.DefaultEmitterConfig(),
		physics:    BasicPhysics{},
		rng:        rng,
		turbulence: SineTurbulence{},
	}
}

// SetPhysics replaces the per-particle step. A nil step restores BasicPhysics.
func (s *Simulation) SetPhysics(step PhysicsStep) {
	if step == nil {
		step = BasicPhysics{}
	}
	s.physics = step
}

// SetTurbulence selects the field and mode used for emitter turbulence.
func (s *Simulation) SetTurbulence(field TurbulenceField, mode TurbulenceMode) {
	if field == nil {
		field = SineTurbulence{}
	}
	s.turbulence = field
	s.turbulenceMode = mode
}

// SetMaxParticles resizes the pool. All particle state is discarded.
// Must not be called from inside Update.
func (s *Simulation) SetMaxParticles(n int) {
	if n <= 0 {
		n = DefaultCapacity
	}
	slog.Debug("particle capacity changed", "from", s.pool.capacity(), "to", n)
	s.pool.reset(n, s.pool.hasAdvanced())
	s.spawn.Reset()
}

// MaxParticles returns the pool capacity.
func (s *Simulation) MaxParticles() int { return s.pool.capacity() }

// ParticleCount returns the number of live particles.
func (s *Simulation) ParticleCount() int { return s.pool.active }

// ActiveParticleCount returns the number of live particles.
func (s *Simulation) ActiveParticleCount() int { return s.pool.active }

// IsActive reports whether continuous emission is running.
func (s *Simulation) IsActive() bool { return s.active }

// Stats returns the cumulative counters.
func (s *Simulation) Stats() Stats { return s.stats }

// Time returns the simulation clock in seconds.
func (s *Simulation) Time() float64 { return s.clock }

// SetEmitter validates and installs cfg. On error the current emitter is kept.
func (s *Simulation) SetEmitter(cfg components.EmitterConfig) error {
	if err := cfg.Validate(); err != nil {
		slog.Warn("emitter rejected", "err", err)
		return fmt.Errorf("set emitter: %w", err)
	}
	s.emitter = cfg.Clone()
	return nil
}

// Emitter returns a copy of the current emitter configuration.
func (s *Simulation) Emitter() components.EmitterConfig { return s.emitter.Clone() }

// SetPosition moves the emitter.
func (s *Simulation) SetPosition(p r3.Vec) { s.emitter.Position = p }

// SetDirection changes the emission axis. A zero vector is ignored.
func (s *Simulation) SetDirection(d r3.Vec) {
	if r3.Norm2(d) == 0 {
		return
	}
	s.emitter.Direction = d
}

// SetEmissionRate changes the continuous rate; negative values clamp to 0.
func (s *Simulation) SetEmissionRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	s.emitter.EmissionRate = rate
}

// Start enables continuous emission and restarts the duration clock.
func (s *Simulation) Start() {
	s.active = true
	s.emitElapsed = 0
}

// Stop disables continuous emission. Live particles run out their life.
func (s *Simulation) Stop() {
	s.active = false
}

// Reset discards all particles and pending spawns, zeroes the accumulator and
// stops emission. Stats are kept.
func (s *Simulation) Reset() {
	s.pool.clear()
	s.spawn.Reset()
	s.accumulator = 0
	s.emitElapsed = 0
	s.active = false
}

// EmitParticle places one particle from the current emitter. Returns false
// when the pool is full.
func (s *Simulation) EmitParticle() bool {
	var source r3.Vec
	if adv := s.emitter.Advanced; adv != nil && adv.InheritVelocity {
		source = adv.SourceVelocity
	}
	return s.emitFrom(&s.emitter, s.emitter.Position, source)
}

// EmitBurst places up to count particles immediately, bypassing the
// accumulator, and returns how many were placed.
func (s *Simulation) EmitBurst(count int) int {
	placed := 0
	for range count {
		if !s.EmitParticle() {
			// The pool only frees slots during Update.
			s.stats.Dropped += count - placed - 1
			break
		}
		placed++
	}
	return placed
}

// Update advances the simulation by dt seconds: ages and retires particles,
// runs the physics step on the survivors, drains deferred spawns and finally
// performs continuous emission. Negative dt is ignored.
func (s *Simulation) Update(dt float64) {
	if dt < 0 {
		return
	}
	s.clock += dt
	env := s.env(&s.spawn)

	s.retireExpired(dt, &env)

	if s.workers != nil && s.workers.shouldRun(s.pool.active) {
		s.workers.run(s, dt)
	} else {
		s.stepRange(0, s.pool.active, dt, &env)
	}

	s.drainSpawns()
	s.emitContinuous(dt)
}

func (s *Simulation) env(spawn *SpawnQueue) StepEnv {
	return StepEnv{
		Emitter:        &s.emitter,
		Time:           s.clock,
		Turbulence:     s.turbulence,
		TurbulenceMode: s.turbulenceMode,
		Spawn:          spawn,
	}
}

// retireExpired decrements every life by dt and releases the dead. After a
// swap the particle moved into slot i has not been aged yet, so i is revisited.
func (s *Simulation) retireExpired(dt float64, env *StepEnv) {
	hook, _ := s.physics.(RetireHook)
	for i := 0; i < s.pool.active; {
		p := &s.pool.particles[i]
		p.Life -= dt
		if p.Life > 0 {
			i++
			continue
		}
		p.Life = 0
		if hook != nil {
			hook.Retired(p, s.pool.advancedAt(i), env)
		}
		s.pool.release(i)
		s.stats.Retired++
	}
}

// stepRange runs the physics step over live slots [start, end).
func (s *Simulation) stepRange(start, end int, dt float64, env *StepEnv) {
	for i := start; i < end; i++ {
		s.physics.Step(&s.pool.particles[i], s.pool.advancedAt(i), env, dt)
	}
}

// emitContinuous feeds the fractional accumulator and emits its whole part.
func (s *Simulation) emitContinuous(dt float64) {
	if !s.active {
		return
	}
	s.accumulator += s.emitter.EmissionRate * dt
	n := int(s.accumulator)
	s.accumulator -= float64(n)
	for range n {
		s.EmitParticle()
	}

	s.emitElapsed += dt
	if d := s.emitter.Duration; d > 0 && s.emitElapsed >= d {
		s.active = false
		s.accumulator = 0
	}
}

// Sprite is the render-facing view of one live particle.
type Sprite struct {
	Position r3.Vec
	Color    components.Color
	Size     float64
	Rotation float64
	Type     components.ParticleType
}

// Renderer receives one sprite per live particle.
type Renderer interface {
	DrawSprite(Sprite)
}

// Render delivers every live particle to r. It does not mutate state.
func (s *Simulation) Render(r Renderer) {
	for i := 0; i < s.pool.active; i++ {
		r.DrawSprite(spriteOf(&s.pool.particles[i]))
	}
}

// AppendSprites appends every live particle to dst and returns the result.
func (s *Simulation) AppendSprites(dst []Sprite) []Sprite {
	for i := 0; i < s.pool.active; i++ {
		dst = append(dst, spriteOf(&s.pool.particles[i]))
	}
	return dst
}

func spriteOf(p *components.Particle) Sprite {
	return Sprite{
		Position: p.Position,
		Color:    p.Color,
		Size:     p.Size,
		Rotation: p.Rotation,
		Type:     p.Type,
	}
}

// Snapshot is a read-only summary of the live population, used by telemetry.
type Snapshot struct {
	Speeds    []float64
	LifeRatio []float64
}

// AppendSnapshot appends the speed and life ratio of every live particle.
func (s *Simulation) AppendSnapshot(dst Snapshot) Snapshot {
	for i := 0; i < s.pool.active; i++ {
		p := &s.pool.particles[i]
		dst.Speeds = append(dst.Speeds, r3.Norm(p.Velocity))
		dst.LifeRatio = append(dst.LifeRatio, p.LifeRatio())
	}
	return dst
}

// Close stops any worker goroutines started by SetWorkers.
func (s *Simulation) Close() {
	if s.workers != nil {
		s.workers.stop()
		s.workers = nil
	}
}
