package systems

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the minimum live count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const DefaultParallelThreshold = 2048

// physicsChunk is a contiguous range of live slots for one worker.
type physicsChunk struct {
	start, end int
	slot       int // index of the chunk's spawn queue
	dt         float64
}

// physicsWorkers runs the physics pass over chunks of the pool. Each chunk
// owns a spawn queue; queues are merged in chunk order after the pass so the
// result matches the serial pass.
type physicsWorkers struct {
	numWorkers int
	threshold  int
	queues     []SpawnQueue

	workChan chan physicsChunk // sends work to workers
	doneChan chan struct{}     // workers signal completion
	stopChan chan struct{}     // signals workers to exit
	wg       sync.WaitGroup    // tracks active workers
	running  bool              // true if workers are running
}

func newPhysicsWorkers(n, threshold int) *physicsWorkers {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &physicsWorkers{
		numWorkers: n,
		threshold:  threshold,
		queues:     make([]SpawnQueue, n),
	}
}

// SetWorkers enables the parallel physics pass with n workers once at least
// threshold particles are live. n <= 1 stops the workers and returns to the
// serial pass; threshold <= 0 selects DefaultParallelThreshold.
func (s *Simulation) SetWorkers(n, threshold int) {
	s.Close()
	if n <= 1 {
		return
	}
	s.workers = newPhysicsWorkers(n, threshold)
}

func (w *physicsWorkers) shouldRun(active int) bool {
	return w.numWorkers > 1 && active >= w.threshold
}

// start launches persistent worker goroutines.
func (w *physicsWorkers) start(s *Simulation) {
	if w.running {
		return
	}

	w.workChan = make(chan physicsChunk, w.numWorkers)
	w.doneChan = make(chan struct{}, w.numWorkers)
	w.stopChan = make(chan struct{})
	w.running = true

	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.worker(s)
	}
}

// stop signals all workers to exit and waits for them.
func (w *physicsWorkers) stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.wg.Wait()
	close(w.workChan)
	close(w.doneChan)
	w.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (w *physicsWorkers) worker(s *Simulation) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case chunk, ok := <-w.workChan:
			if !ok {
				return
			}
			env := s.env(&w.queues[chunk.slot])
			s.stepRange(chunk.start, chunk.end, chunk.dt, &env)
			w.doneChan <- struct{}{}
		}
	}
}

// run dispatches the physics pass and merges the per-chunk spawn queues.
func (w *physicsWorkers) run(s *Simulation, dt float64) {
	w.start(s)

	n := s.pool.active
	chunkSize := (n + w.numWorkers - 1) / w.numWorkers
	dispatched := 0
	for i := 0; i < w.numWorkers; i++ {
		start := i * chunkSize
		if start >= n {
			break
		}
		end := min(start+chunkSize, n)
		w.workChan <- physicsChunk{start: start, end: end, slot: i, dt: dt}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-w.doneChan
	}

	for i := 0; i < dispatched; i++ {
		s.spawn.merge(&w.queues[i])
	}
}
