package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene state at window end
	Effects   int `csv:"effects"`
	Particles int `csv:"particles"`

	// Events during window
	EffectsSpawned  int     `csv:"effects_spawned"`
	EffectsFinished int     `csv:"effects_finished"`
	Emitted         int     `csv:"emitted"`
	Dropped         int     `csv:"dropped"`
	Retired         int     `csv:"retired"`
	SubEmitted      int     `csv:"sub_emitted"`
	DropRate        float64 `csv:"drop_rate"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Remaining life fraction (sampled at window end)
	LifeMean float64 `csv:"life_mean"`
	LifeP10  float64 `csv:"life_p10"`
	LifeP90  float64 `csv:"life_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, population std and percentiles.
// values is sorted in place.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	sort.Float64s(values)

	return Distribution{
		Mean: mean,
		Std:  math.Sqrt(variance),
		P10:  Percentile(values, 0.10),
		P50:  Percentile(values, 0.50),
		P90:  Percentile(values, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("effects", s.Effects),
		slog.Int("particles", s.Particles),
		slog.Int("effects_spawned", s.EffectsSpawned),
		slog.Int("effects_finished", s.EffectsFinished),
		slog.Int("emitted", s.Emitted),
		slog.Int("dropped", s.Dropped),
		slog.Int("retired", s.Retired),
		slog.Int("sub_emitted", s.SubEmitted),
		slog.Float64("drop_rate", s.DropRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("life_mean", s.LifeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"effects", s.Effects,
		"particles", s.Particles,
		"effects_spawned", s.EffectsSpawned,
		"effects_finished", s.EffectsFinished,
		"emitted", s.Emitted,
		"dropped", s.Dropped,
		"retired", s.Retired,
		"sub_emitted", s.SubEmitted,
		"drop_rate", s.DropRate,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"life_mean", s.LifeMean,
		"life_p10", s.LifeP10,
		"life_p90", s.LifeP90,
	)
}
