package components

import "gonum.org/v1/gonum/spatial/r3"

// Effect marks an entity that owns a running particle simulation.
// Slot indexes the host's simulation table.
type Effect struct {
	Preset   string
	Slot     int
	Advanced bool
}

// Anchor is the world position an effect is attached to.
type Anchor struct {
	Position r3.Vec
}

// Age tracks how long an effect has existed.
type Age struct {
	Seconds float64
	TTL     float64 // stop emitting after this many seconds, 0 = never
}

// Expired reports whether the effect has outlived its TTL.
func (a *Age) Expired() bool {
	return a.TTL > 0 && a.Seconds >= a.TTL
}
