package systems

import "testing"

func TestPoolAcquireUntilFull(t *testing.T) {
	p := newParticlePool(3, false)

	for want := 0; want < 3; want++ {
		i, ok := p.acquire()
		if !ok {
			t.Fatalf("acquire %d: pool reported full", want)
		}
		if i != want {
			t.Errorf("acquire returned slot %d, want %d", i, want)
		}
	}
	if _, ok := p.acquire(); ok {
		t.Error("expected acquire to fail on a full pool")
	}
	if p.active != 3 {
		t.Errorf("expected 3 active, got %d", p.active)
	}
}

func TestPoolReleaseSwapsLast(t *testing.T) {
	p := newParticlePool(4, true)
	for i := 0; i < 4; i++ {
		j, _ := p.acquire()
		p.particles[j].Life = float64(j + 1)
		p.advanced[j].Charge = float64(j + 1)
	}

	p.release(1)

	if p.active != 3 {
		t.Fatalf("expected 3 active after release, got %d", p.active)
	}
	// Slot 1 now holds what was the last particle.
	if p.particles[1].Life != 4 {
		t.Errorf("expected slot 1 life 4, got %v", p.particles[1].Life)
	}
	if p.advanced[1].Charge != 4 {
		t.Errorf("expected advanced block to move with the particle, got charge %v", p.advanced[1].Charge)
	}

	// Releasing the last slot just shrinks.
	p.release(2)
	if p.active != 2 || p.particles[1].Life != 4 {
		t.Errorf("unexpected state after releasing last: active=%d slot1=%v", p.active, p.particles[1].Life)
	}
}

func TestPoolReleaseOutOfRange(t *testing.T) {
	p := newParticlePool(2, false)
	p.acquire()

	p.release(-1)
	p.release(1)
	p.release(5)

	if p.active != 1 {
		t.Errorf("out-of-range release changed active count to %d", p.active)
	}
}

func TestPoolAcquireZeroesSlot(t *testing.T) {
	p := newParticlePool(1, true)
	i, _ := p.acquire()
	p.particles[i].Life = 5
	p.advanced[i].Buoyancy = 3
	p.release(i)

	i, _ = p.acquire()
	if p.particles[i].Life != 0 || p.advanced[i].Buoyancy != 0 {
		t.Error("expected reacquired slot to be zeroed")
	}
}

func TestPoolResetChangesMode(t *testing.T) {
	p := newParticlePool(2, true)
	p.acquire()
	p.reset(8, false)

	if p.capacity() != 8 {
		t.Errorf("expected capacity 8, got %d", p.capacity())
	}
	if p.hasAdvanced() {
		t.Error("expected advanced block to be dropped")
	}
	if p.active != 0 {
		t.Errorf("expected reset to discard particles, got %d active", p.active)
	}
	if p.advancedAt(0) != nil {
		t.Error("expected nil advanced state in base mode")
	}
}
