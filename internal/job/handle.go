// Package job implements LampyEngine's work-stealing thread pool: one
// worker goroutine per configured worker, each owning a deque that is
// accessed LIFO from its own side and stolen from FIFO by peers, plus a
// counter-based JobHandle used to join a set of submitted jobs and a
// lock-stepped parallel_for built on top of submit/wait.
package job

import (
	"runtime"
	"sync/atomic"
)

// Fn is the unit of work the scheduler executes.
type Fn func()

// Handle joins a set of submitted jobs. It wraps an atomic counter
// incremented on submission and decremented on completion; it is move-only
// in spirit (copying a Handle value copies a live counter, which almost
// never makes sense) so callers should always pass *Handle.
type Handle struct {
	counter atomic.Int64
}

// NewHandle returns a fresh, zeroed handle.
func NewHandle() *Handle { return &Handle{} }

func (h *Handle) add(n int64) { h.counter.Add(n) }

// Pending reports how many jobs associated with h have not yet completed.
func (h *Handle) Pending() int64 { return h.counter.Load() }

// Wait blocks until every job submitted against h has completed. It spins,
// yielding to the Go scheduler between checks, matching the original
// engine's active-wait JobHandle::wait; it does not park on a condition
// variable, so a waiting goroutine keeps consuming scheduler time.
func (h *Handle) Wait() {
	for h.counter.Load() > 0 {
		runtime.Gosched()
	}
}
