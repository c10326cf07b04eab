package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fxsim/config"
	"github.com/pthm-cable/fxsim/game"
	"github.com/pthm-cable/fxsim/telemetry"
)

// Targets describe the scene the calibration steers towards.
type Targets struct {
	Particles float64 // mean live particles per window
	SpeedP50  float64 // median particle speed, 0 = ignore
}

// FitnessEvaluator runs headless scenes and scores them against Targets.
type FitnessEvaluator struct {
	params      *ParamVector
	baseConfig  *config.Config
	seeds       []int64
	durationSec float64
	targets     Targets
	statsWindow float64

	mu          sync.Mutex
	lastSummary summary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, durationSec float64, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		baseConfig:  baseCfg,
		seeds:       seeds,
		durationSec: durationSec,
		targets:     targets,
		statsWindow: 1.0,
	}
}

// summary aggregates the scored windows of one or more runs.
type summary struct {
	particles float64
	dropRate  float64
	speedP50  float64
	windows   int
}

// LastSummary returns the aggregated stats of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Fitness weights.
const (
	weightCount  = 1.0
	weightDrops  = 4.0
	weightMemory = 0.1
	weightSpeed  = 0.5

	warmupWindows = 2 // skip the ramp-up
)

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]summary, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = summarize(fe.runScene(x, s))
		}(i, seed)
	}
	wg.Wait()

	var agg summary
	for _, r := range results {
		agg.particles += r.particles
		agg.dropRate += r.dropRate
		agg.speedP50 += r.speedP50
		agg.windows += r.windows
	}
	n := float64(len(results))
	agg.particles /= n
	agg.dropRate /= n
	agg.speedP50 /= n

	fe.mu.Lock()
	fe.lastSummary = agg
	fe.mu.Unlock()

	return fe.score(agg, fe.params.Clamp(x))
}

// runScene executes one headless run and returns its window stats.
func (fe *FitnessEvaluator) runScene(x []float64, seed int64) []telemetry.WindowStats {
	cfg, err := config.Load("")
	if err != nil {
		return nil
	}
	cfg.Screen = fe.baseConfig.Screen
	cfg.Pool = fe.baseConfig.Pool
	cfg.Physics = fe.baseConfig.Physics
	cfg.Turbulence = fe.baseConfig.Turbulence
	cfg.Environment = fe.baseConfig.Environment
	cfg.Derived = fe.baseConfig.Derived
	fe.params.ApplyToConfig(cfg, fe.baseConfig, x)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	for g.SimTime() < fe.durationSec {
		g.UpdateHeadless()
	}
	return windows
}

// summarize averages the windows past warmup that still had particles.
func summarize(windows []telemetry.WindowStats) summary {
	if len(windows) <= warmupWindows {
		return summary{}
	}

	var particles, drops, speeds []float64
	for _, w := range windows[warmupWindows:] {
		particles = append(particles, float64(w.Particles))
		drops = append(drops, w.DropRate)
		if w.Particles > 0 {
			speeds = append(speeds, w.SpeedP50)
		}
	}

	s := summary{
		particles: stat.Mean(particles, nil),
		dropRate:  stat.Mean(drops, nil),
		windows:   len(particles),
	}
	if len(speeds) > 0 {
		s.speedP50 = stat.Mean(speeds, nil)
	}
	return s
}

// score turns a summary into a scalar cost.
func (fe *FitnessEvaluator) score(s summary, clamped []float64) float64 {
	if s.windows == 0 {
		return math.Inf(1)
	}

	cost := weightDrops * s.dropRate
	if fe.targets.Particles > 0 {
		cost += weightCount * math.Abs(s.particles-fe.targets.Particles) / fe.targets.Particles
	}
	if fe.targets.SpeedP50 > 0 {
		cost += weightSpeed * math.Abs(s.speedP50-fe.targets.SpeedP50) / fe.targets.SpeedP50
	}

	// Prefer smaller pools when everything else is equal
	maxParticles := fe.params.Specs[1]
	cost += weightMemory * clamped[1] / maxParticles.Max

	return cost
}
