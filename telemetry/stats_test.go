package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fxsim/systems"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.3, 0.5, 0.1, 0.9, 0.2, 0.7, 0.4, 0.8, 0.6}
	d := ComputeDistribution(values)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", d.Mean, 0.55},
		{"std", d.Std, 0.2872},
		{"p10", d.P10, 0.19},
		{"p50", d.P50, 0.55},
		{"p90", d.P90, 0.91},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty sample should return zeros, got %+v", d)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.25)

	if c.WindowDurationTicks() != 4 {
		t.Fatalf("expected 4 ticks per window, got %d", c.WindowDurationTicks())
	}
	if c.ShouldFlush(3) || !c.ShouldFlush(4) {
		t.Fatal("expected flush after exactly one window")
	}

	c.RecordEffectSpawned()
	c.RecordEffectSpawned()
	c.RecordEffectFinished()
	c.RecordParticles(systems.Stats{Emitted: 30, Dropped: 10, Retired: 5})
	c.RecordParticles(systems.Stats{Emitted: 50, SubEmitted: 7})

	snap := systems.Snapshot{
		Speeds:    []float64{3, 1, 2},
		LifeRatio: []float64{0.5, 0.5, 0.5},
	}
	s := c.Flush(4, 2, snap)

	if s.Effects != 2 || s.Particles != 3 {
		t.Errorf("unexpected scene state %d effects %d particles", s.Effects, s.Particles)
	}
	if s.EffectsSpawned != 2 || s.EffectsFinished != 1 {
		t.Errorf("unexpected effect counts %+v", s)
	}
	if s.Emitted != 80 || s.Dropped != 10 || s.Retired != 5 || s.SubEmitted != 7 {
		t.Errorf("unexpected particle counts %+v", s)
	}
	if math.Abs(s.DropRate-10.0/90.0) > 1e-9 {
		t.Errorf("drop rate = %v", s.DropRate)
	}
	if s.SpeedP50 != 2 || s.LifeMean != 0.5 || s.SimTimeSec != 1 {
		t.Errorf("unexpected distributions %+v", s)
	}

	// Counters reset for the next window
	next := c.Flush(8, 0, systems.Snapshot{})
	if next.Emitted != 0 || next.EffectsSpawned != 0 || next.WindowStartTick != 4 {
		t.Errorf("expected reset counters, got %+v", next)
	}
	if c.ShouldFlush(11) || !c.ShouldFlush(12) {
		t.Error("expected window to restart at the flush tick")
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := range 2 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 300), Particles: i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteEvent(NewSpawnEvent(0, 1, "smoke", r3.Vec{X: 1})); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "sim_time") || strings.Contains(lines[1], "sim_time") {
		t.Error("expected exactly one header row")
	}

	events, err := os.ReadFile(filepath.Join(dir, "effects.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(events), "spawned") {
		t.Errorf("expected spawn event in effects.csv, got %q", events)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error("nil manager should ignore writes")
	}
	if om.Dir() != "" || om.SnapshotDir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
