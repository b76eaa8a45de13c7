package memory

import "unsafe"

// LinearAllocator is a monotonic bump-pointer allocator over a fixed byte
// buffer. Individual Deallocate calls are no-ops; only Reset reclaims space.
// It is not internally locked — concurrent callers must serialize
// externally, or obtain one LinearAllocator per thread from MemorySystem.
type LinearAllocator struct {
	buf     []byte
	offset  uintptr
	tag     Tag
	allocs  uint64
	frees   uint64
	peak    uintptr
}

// NewLinearAllocator constructs a LinearAllocator over a freshly allocated
// buffer of the given size.
func NewLinearAllocator(size uintptr, tag Tag) *LinearAllocator {
	if size == 0 {
		size = 1
	}
	return &LinearAllocator{buf: make([]byte, size), tag: tag}
}

func (a *LinearAllocator) Allocate(size, alignment uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if !isPowerOfTwo(alignment) {
		return nil
	}

	aligned := alignUp(a.offset, alignment)
	if aligned+size > uintptr(len(a.buf)) {
		return nil
	}

	p := bufPointer(a.buf, aligned)
	a.offset = aligned + size
	a.allocs++
	if a.offset > a.peak {
		a.peak = a.offset
	}
	return p
}

// Deallocate is a no-op: the linear allocator only frees in bulk via Reset.
func (a *LinearAllocator) Deallocate(unsafe.Pointer) {}

func (a *LinearAllocator) Used() uintptr     { return a.offset }
func (a *LinearAllocator) Capacity() uintptr { return uintptr(len(a.buf)) }
func (a *LinearAllocator) Tag() Tag          { return a.tag }

func (a *LinearAllocator) Owns(p unsafe.Pointer) bool {
	_, ok := ptrOffset(a.buf, p)
	return ok
}

// Reset invalidates every pointer previously returned by Allocate and
// rewinds the bump pointer to zero. Deallocation count is bumped by one to
// reflect the bulk free for statistics purposes.
func (a *LinearAllocator) Reset() {
	a.offset = 0
	a.frees++
}

// PeakUsage reports the high-water mark reached since construction; Reset
// does not clear it.
func (a *LinearAllocator) PeakUsage() uintptr { return a.peak }

// AllocCount / FreeCount expose the raw counters MemorySystem folds into
// its per-tag statistics.
func (a *LinearAllocator) AllocCount() uint64 { return a.allocs }
func (a *LinearAllocator) FreeCount() uint64  { return a.frees }
