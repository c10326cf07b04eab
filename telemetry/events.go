// Package telemetry provides windowed scene statistics, effect lifecycle
// logging, bookmarks, snapshots and frame timing.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// EventType identifies effect lifecycle events.
type EventType string

const (
	EventEffectSpawned  EventType = "spawned"
	EventEffectStopped  EventType = "stopped"  // TTL reached, emission halted
	EventEffectFinished EventType = "finished" // last particle retired
	EventEffectRejected EventType = "rejected" // scene full or preset failed
)

// Event represents a single effect lifecycle event.
type Event struct {
	Type      EventType `csv:"type"`
	Tick      int32     `csv:"tick"`
	Slot      int       `csv:"slot"`
	Preset    string    `csv:"preset"`
	X         float64   `csv:"x"`
	Y         float64   `csv:"y"`
	Z         float64   `csv:"z"`
	Particles int       `csv:"particles"` // live particles when the event fired
}

// NewSpawnEvent creates an effect spawn event.
func NewSpawnEvent(tick int32, slot int, preset string, pos r3.Vec) Event {
	return Event{
		Type:   EventEffectSpawned,
		Tick:   tick,
		Slot:   slot,
		Preset: preset,
		X:      pos.X,
		Y:      pos.Y,
		Z:      pos.Z,
	}
}

// NewStopEvent creates an event for an effect whose emission was halted.
func NewStopEvent(tick int32, slot int, preset string, particles int) Event {
	return Event{
		Type:      EventEffectStopped,
		Tick:      tick,
		Slot:      slot,
		Preset:    preset,
		Particles: particles,
	}
}

// NewFinishEvent creates an event for an effect removed from the scene.
func NewFinishEvent(tick int32, slot int, preset string) Event {
	return Event{
		Type:   EventEffectFinished,
		Tick:   tick,
		Slot:   slot,
		Preset: preset,
	}
}

// NewRejectEvent creates an event for an effect that could not be spawned.
func NewRejectEvent(tick int32, preset string, pos r3.Vec) Event {
	return Event{
		Type:   EventEffectRejected,
		Tick:   tick,
		Slot:   -1,
		Preset: preset,
		X:      pos.X,
		Y:      pos.Y,
		Z:      pos.Z,
	}
}

// LogEvent logs the event at debug level.
func (e Event) LogEvent() {
	slog.Debug("effect",
		"type", string(e.Type),
		"tick", e.Tick,
		"slot", e.Slot,
		"preset", e.Preset,
		"particles", e.Particles,
	)
}
