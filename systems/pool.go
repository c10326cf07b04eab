package systems

import "github.com/pthm-cable/fxsim/components"

// particlePool is a fixed-capacity arena. Slots [0, active) are live; the rest
// are free. The advanced block, when present, is indexed identically.
type particlePool struct {
	particles []components.Particle
	advanced  []components.AdvancedState
	active    int
}

func newParticlePool(capacity int, advanced bool) particlePool {
	var p particlePool
	p.reset(capacity, advanced)
	return p
}

// reset discards all state and reallocates for the given capacity.
func (p *particlePool) reset(capacity int, advanced bool) {
	if capacity < 0 {
		capacity = 0
	}
	p.particles = make([]components.Particle, capacity)
	p.advanced = nil
	if advanced {
		p.advanced = make([]components.AdvancedState, capacity)
	}
	p.active = 0
}

func (p *particlePool) capacity() int { return len(p.particles) }

func (p *particlePool) hasAdvanced() bool { return p.advanced != nil }

// acquire returns the first free slot, zeroed, or false when the pool is full.
func (p *particlePool) acquire() (int, bool) {
	if p.active >= len(p.particles) {
		return 0, false
	}
	i := p.active
	p.active++
	p.particles[i] = components.Particle{}
	if p.advanced != nil {
		p.advanced[i] = components.AdvancedState{}
	}
	return i, true
}

// release retires slot i by moving the last live slot into it. O(1); the
// order of live particles is not preserved.
func (p *particlePool) release(i int) {
	if i < 0 || i >= p.active {
		return
	}
	last := p.active - 1
	if i != last {
		p.particles[i] = p.particles[last]
		if p.advanced != nil {
			p.advanced[i] = p.advanced[last]
		}
	}
	p.active = last
}

// clear retires every particle without reallocating.
func (p *particlePool) clear() {
	p.active = 0
}

// advancedAt returns the advanced block for slot i, or nil in base mode.
func (p *particlePool) advancedAt(i int) *components.AdvancedState {
	if p.advanced == nil {
		return nil
	}
	return &p.advanced[i]
}
