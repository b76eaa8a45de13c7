package memory

import (
	"runtime"
	"sync"
	"unsafe"
)

// CallSite identifies the Go call frame that requested an allocation.
type CallSite struct {
	Function string
	File     string
	Line     int
}

// SiteStats accumulates cumulative allocation counts and bytes per call
// site; Deallocate and Reset do not reduce them.
type SiteStats struct {
	Allocations uint64
	Bytes       uint64
}

// TrackingAllocator decorates any Allocator with per-call-site accounting,
// supplementing the original engine's GlobalMemoryTracking /
// ProfileAllocator facility. It adds observability only: allocation
// decisions are delegated entirely to the wrapped allocator.
type TrackingAllocator struct {
	inner Allocator
	mu    sync.Mutex
	sizes map[unsafe.Pointer]uintptr
	sites map[CallSite]*SiteStats
	skip  int
}

// NewTrackingAllocator wraps inner. skip is the number of additional stack
// frames to skip past Allocate itself when attributing a call site (pass 0
// from ordinary callers).
func NewTrackingAllocator(inner Allocator, skip int) *TrackingAllocator {
	return &TrackingAllocator{
		inner: inner,
		sizes: make(map[unsafe.Pointer]uintptr),
		sites: make(map[CallSite]*SiteStats),
		skip:  skip,
	}
}

func callSite(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 2)
	if !ok {
		return CallSite{Function: "unknown"}
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	return CallSite{Function: name, File: file, Line: line}
}

func (t *TrackingAllocator) Allocate(size, alignment uintptr) unsafe.Pointer {
	p := t.inner.Allocate(size, alignment)
	if p == nil {
		return nil
	}
	site := callSite(t.skip)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sizes[p] = size
	st, ok := t.sites[site]
	if !ok {
		st = &SiteStats{}
		t.sites[site] = st
	}
	st.Allocations++
	st.Bytes += uint64(size)
	return p
}

func (t *TrackingAllocator) Deallocate(p unsafe.Pointer) {
	t.inner.Deallocate(p)
	if p == nil {
		return
	}
	t.mu.Lock()
	delete(t.sizes, p)
	t.mu.Unlock()
}

func (t *TrackingAllocator) Used() uintptr     { return t.inner.Used() }
func (t *TrackingAllocator) Capacity() uintptr { return t.inner.Capacity() }
func (t *TrackingAllocator) Tag() Tag          { return t.inner.Tag() }
func (t *TrackingAllocator) Owns(p unsafe.Pointer) bool { return t.inner.Owns(p) }

func (t *TrackingAllocator) Reset() {
	if r, ok := t.inner.(Resettable); ok {
		r.Reset()
	}
	t.mu.Lock()
	t.sizes = make(map[unsafe.Pointer]uintptr)
	t.mu.Unlock()
}

// SiteSnapshot returns a copy of the per-call-site accounting table.
func (t *TrackingAllocator) SiteSnapshot() map[CallSite]SiteStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[CallSite]SiteStats, len(t.sites))
	for k, v := range t.sites {
		out[k] = *v
	}
	return out
}
