// Package game hosts a scene of particle effects. Each effect is an ECS
// entity whose simulation lives in a slot table owned by the Game.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fxsim/camera"
	"github.com/pthm-cable/fxsim/components"
	"github.com/pthm-cable/fxsim/config"
	"github.com/pthm-cable/fxsim/renderer"
	"github.com/pthm-cable/fxsim/systems"
	"github.com/pthm-cable/fxsim/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Config overrides the global configuration when set.
	Config *config.Config
}

// Game holds the complete scene state.
type Game struct {
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64
	cfg     *config.Config

	// Effect entities
	effectMapper *ecs.Map3[components.Effect, components.Anchor, components.Age]
	effectFilter *ecs.Filter3[components.Effect, components.Anchor, components.Age]
	anchorMap    *ecs.Map1[components.Anchor]

	// Simulations, indexed by components.Effect.Slot
	effects effectTable

	// Shared physics setup
	turbulence     systems.TurbulenceField
	turbulenceMode systems.TurbulenceMode
	environment    environment

	// Scripted spawns, sorted by time
	scenario  []config.ScenarioEvent
	nextEvent int

	// State
	tick           int32
	simTime        float64
	paused         bool
	stepsPerUpdate int
	headless       bool
	lastParticles  int // live particles after the last effects phase

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// Viewer
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	selectedPreset   int
	showBounds       bool
	showHUD          bool
	screenWidth      float32
	screenHeight     float32
}

// NewGameWithOptions creates a scene from the configuration.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	turbulence, err := systems.NewTurbulenceField(cfg.Turbulence.Source, cfg.Turbulence.Seed)
	if err != nil {
		return nil, err
	}
	mode, err := systems.ParseTurbulenceMode(cfg.Turbulence.Mode)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	g := &Game{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		cfg:            cfg,
		effectMapper:   ecs.NewMap3[components.Effect, components.Anchor, components.Age](world),
		effectFilter:   ecs.NewFilter3[components.Effect, components.Anchor, components.Age](world),
		anchorMap:      ecs.NewMap1[components.Anchor](world),
		turbulence:     turbulence,
		turbulenceMode: mode,
		environment:    environmentFromConfig(&cfg.Environment),
		scenario:       append([]config.ScenarioEvent(nil), cfg.Scenario...),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		showHUD:        true,
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}
	if g.snapshotDir == "" && om != nil {
		g.snapshotDir = om.SnapshotDir()
	}

	if !opts.Headless {
		g.screenWidth = float32(cfg.Screen.Width)
		g.screenHeight = float32(cfg.Screen.Height)
		g.camera = camera.New(cfg.Camera.Target.Vec(), cfg.Camera.Distance, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.FovY)
		g.particleRenderer = renderer.NewParticleRenderer()
		g.showBounds = true
	}

	slog.Info("scene ready",
		"seed", opts.Seed,
		"scenario_events", len(g.scenario),
		"max_effects", cfg.Pool.MaxEffects,
		"max_particles", cfg.Pool.MaxParticles,
		"turbulence", cfg.Turbulence.Source,
		"turbulence_mode", mode.String(),
	)

	return g, nil
}

// config returns the scene's configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update handles input and advances the scene in viewer mode.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	for range g.stepsPerUpdate {
		g.simulationStep()
	}
}

// UpdateHeadless advances the scene without input or rendering.
func (g *Game) UpdateHeadless() {
	for range g.stepsPerUpdate {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the scene.
func (g *Game) simulationStep() {
	dt := g.config().Derived.DT
	g.perfCollector.StartTick()

	// 1. Fire scenario events that are due
	g.perfCollector.StartPhase(telemetry.PhaseScenario)
	g.runScenario()

	// 2. Age effects and stop those past their TTL
	g.perfCollector.StartPhase(telemetry.PhaseLifetimes)
	g.updateLifetimes(dt)

	// 3. Step every effect's particles
	g.perfCollector.StartPhase(telemetry.PhaseEffects)
	g.lastParticles = g.updateEffects(dt)

	// 4. Remove finished effects
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupFinished()

	g.tick++
	g.simTime += dt

	// 5. Telemetry window
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick(g.lastParticles)
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// EffectCount returns the number of live effects.
func (g *Game) EffectCount() int {
	return g.effects.live
}

// ParticleCount returns the live particles across all effects.
func (g *Game) ParticleCount() int {
	var n int
	for i := range g.effects.slots {
		if sim := g.effects.slots[i].sim; sim != nil {
			n += sim.ParticleCount()
		}
	}
	return n
}

// Done reports whether the scenario has fired every event and the scene is empty.
func (g *Game) Done() bool {
	return g.nextEvent >= len(g.scenario) && g.effects.live == 0
}

// Unload stops every effect and closes output files.
func (g *Game) Unload() {
	g.effects.closeAll()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
