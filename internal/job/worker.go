package job

import (
	"math/rand"
	"sync"
)

type job struct {
	fn     Fn
	handle *Handle
}

// worker owns one goroutine and a deque of pending jobs. The owner pops
// from the tail (LIFO, cheap continuation of its own work); thieves pop
// from the front (FIFO, so stolen work is the oldest and least likely to
// still be cache-hot for the victim).
type worker struct {
	mu     sync.Mutex
	deque  []job
	system *System
	index  int
}

func newWorker(system *System, index int) *worker {
	return &worker{system: system, index: index}
}

func (w *worker) pushBack(j job) {
	w.mu.Lock()
	w.deque = append(w.deque, j)
	w.mu.Unlock()
}

func (w *worker) popBack() (job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.deque)
	if n == 0 {
		return job{}, false
	}
	j := w.deque[n-1]
	w.deque = w.deque[:n-1]
	return j, true
}

func (w *worker) stealFront() (job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.deque) == 0 {
		return job{}, false
	}
	j := w.deque[0]
	w.deque = w.deque[1:]
	return j, true
}

func (w *worker) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.deque)
}

// run is the worker loop: pop from the owner side; if empty, pick a random
// peer and steal from its front; if still empty, park briefly on the
// system's condition variable.
func (w *worker) run() {
	defer w.system.wg.Done()

	for {
		if !w.system.running.Load() {
			if j, ok := w.popBack(); ok {
				w.execute(j)
				continue
			}
			return
		}

		if j, ok := w.popBack(); ok {
			w.execute(j)
			continue
		}

		if j, ok := w.system.stealFrom(w.index); ok {
			w.execute(j)
			continue
		}

		w.system.parkIdle()
	}
}

func (w *worker) execute(j job) {
	func() {
		defer func() {
			if j.handle != nil {
				j.handle.add(-1)
			}
			w.system.completed.Add(1)
		}()
		j.fn()
	}()
}

// pickPeer returns a random worker index other than self among n workers.
func pickPeer(self, n int) int {
	if n <= 1 {
		return self
	}
	for {
		p := rand.Intn(n)
		if p != self {
			return p
		}
	}
}
