package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fxsim/components"
)

// SpawnRequest asks for Count particles from Emitter at Position. Velocity is
// the parent's velocity, inherited when the emitter enables it.
type SpawnRequest struct {
	Emitter  *components.EmitterConfig
	Position r3.Vec
	Velocity r3.Vec
	Count    int
}

// SpawnQueue buffers emissions requested during the per-particle pass so the
// pool is never grown while it is being iterated.
type SpawnQueue struct {
	requests []SpawnRequest
}

// Push appends a request. Requests with no emitter or count are ignored.
func (q *SpawnQueue) Push(r SpawnRequest) {
	if r.Emitter == nil || r.Count <= 0 {
		return
	}
	q.requests = append(q.requests, r)
}

// Len returns the number of pending requests.
func (q *SpawnQueue) Len() int { return len(q.requests) }

// Requests returns the pending requests in push order. The slice is only
// valid until the next Push or Reset.
func (q *SpawnQueue) Requests() []SpawnRequest { return q.requests }

// Reset drops all pending requests, keeping the backing storage.
func (q *SpawnQueue) Reset() {
	clear(q.requests)
	q.requests = q.requests[:0]
}

// merge moves other's requests onto the end of q.
func (q *SpawnQueue) merge(other *SpawnQueue) {
	q.requests = append(q.requests, other.requests...)
	other.Reset()
}

// drainSpawns emits every queued request. Newly spawned particles are not
// stepped until the next tick.
func (s *Simulation) drainSpawns() {
	for _, req := range s.spawn.requests {
		origin := r3.Add(req.Position, req.Emitter.Position)
		for range req.Count {
			if s.emitFrom(req.Emitter, origin, req.Velocity) {
				s.stats.SubEmitted++
			}
		}
	}
	s.spawn.Reset()
}
