package job

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// System is LampyEngine's work-stealing thread pool: one worker goroutine
// per configured worker, fixed at Start. It is constructed explicitly and
// threaded through an engine handle rather than reached for as a
// singleton.
type System struct {
	mu          sync.RWMutex
	workers     []*worker
	configured  int
	running     atomic.Bool
	wg          sync.WaitGroup

	parkMu sync.Mutex
	parkCV *sync.Cond

	nextWorker atomic.Uint64
	submitted  atomic.Uint64
	completed  atomic.Uint64
}

// NewSystem configures a System with the given number of workers. A
// workerCount of zero or less defaults to runtime.NumCPU(). No goroutines
// exist and no worker deques exist until Start is called — matching the
// original engine, where getWorkerCount() is zero before startup() and
// submit() degrades to running jobs synchronously until then.
func NewSystem(workerCount int) *System {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	s := &System{configured: workerCount}
	s.parkCV = sync.NewCond(&s.parkMu)
	return s
}

// Start creates the worker deques and launches one goroutine per worker.
// Calling Start twice is a no-op.
func (s *System) Start() {
	if s.running.Swap(true) {
		return
	}
	s.mu.Lock()
	s.workers = make([]*worker, s.configured)
	for i := range s.workers {
		s.workers[i] = newWorker(s, i)
	}
	s.mu.Unlock()

	s.wg.Add(len(s.workers))
	for _, w := range s.workers {
		go w.run()
	}
}

// Shutdown stops accepting new work, wakes every parked worker, and waits
// for all worker goroutines to drain their deques and exit.
func (s *System) Shutdown() {
	if !s.running.Swap(false) {
		return
	}
	s.parkMu.Lock()
	s.parkCV.Broadcast()
	s.parkMu.Unlock()
	s.wg.Wait()

	s.mu.Lock()
	s.workers = nil
	s.mu.Unlock()
}

// WorkerCount reports how many workers are currently running (zero before
// Start or after Shutdown).
func (s *System) WorkerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workers)
}

func (s *System) stealFrom(thiefIndex int) (job, bool) {
	s.mu.RLock()
	workers := s.workers
	s.mu.RUnlock()

	n := len(workers)
	if n <= 1 {
		return job{}, false
	}
	start := pickPeer(thiefIndex, n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if idx == thiefIndex {
			continue
		}
		if j, ok := workers[idx].stealFront(); ok {
			return j, true
		}
	}
	return job{}, false
}

func (s *System) parkIdle() {
	s.parkMu.Lock()
	if s.running.Load() && s.allEmpty() {
		s.parkCV.Wait()
	}
	s.parkMu.Unlock()
}

func (s *System) allEmpty() bool {
	s.mu.RLock()
	workers := s.workers
	s.mu.RUnlock()
	for _, w := range workers {
		if w.len() > 0 {
			return false
		}
	}
	return true
}

func (s *System) wake() {
	s.parkMu.Lock()
	s.parkCV.Broadcast()
	s.parkMu.Unlock()
}

func (s *System) targetWorker() int {
	n := s.WorkerCount()
	if n == 0 {
		return -1
	}
	idx := int(s.nextWorker.Add(1)-1) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// Submit schedules fn and returns a fresh Handle whose Pending count drops
// to zero once fn has run. If the system has no workers (not yet started), fn runs
// synchronously and a handle that is already satisfied is returned.
func (s *System) Submit(fn Fn) *Handle {
	h := NewHandle()
	s.SubmitWithHandle(fn, h)
	return h
}

// SubmitWithHandle schedules fn against an externally supplied handle,
// composing it with other work already tracked by that handle.
func (s *System) SubmitWithHandle(fn Fn, h *Handle) {
	s.submitted.Add(1)
	idx := s.targetWorker()
	if idx < 0 {
		fn()
		return
	}

	s.mu.RLock()
	w := s.workers[idx]
	s.mu.RUnlock()

	h.add(1)
	w.pushBack(job{fn: fn, handle: h})
	s.wake()
}

// Wait blocks until every job tracked by h has completed.
func (s *System) Wait(h *Handle) {
	h.Wait()
}

// Stats is a point-in-time snapshot of scheduling counters, exposed
// through Prometheus in metrics.go.
type Stats struct {
	Submitted uint64
	Completed uint64
	Workers   int
}

func (s *System) StatsSnapshot() Stats {
	return Stats{
		Submitted: s.submitted.Load(),
		Completed: s.completed.Load(),
		Workers:   s.WorkerCount(),
	}
}
