package memory

import (
	"sync"
	"unsafe"
)

// flHeader sits at the start of every block (free or allocated). size is
// the FULL size of the block, header+data+footer included, matching
// original-engine semantics: recomputing block boundaries only ever needs
// the header.
type flHeader struct {
	size   uint64
	next   uint64 // offset of next free block, or noOffset
	isFree bool
}

// flFooter sits at the end of every block and carries a back-reference to
// its header so adjacency checks during coalescing never need a forward
// scan.
type flFooter struct {
	size    uint64
	backRef uint64 // offset of the owning header
}

const noOffset = ^uint64(0)

var (
	flHeaderSize = uintptr(unsafe.Sizeof(flHeader{}))
	flFooterSize = uintptr(unsafe.Sizeof(flFooter{}))
)

// MinFreeListBlockSize is the smallest block the allocator will ever carve
// out; a split that would leave a remainder below this size is skipped.
func MinFreeListBlockSize() uintptr {
	return flHeaderSize + flFooterSize + pointerSize
}

// FreeListAllocator is a variable-size, first-fit allocator with boundary-
// tag coalescing. It is the only one of the four allocators that locks
// internally, since spec requires it to be safe to share across goroutines
// without external serialization.
type FreeListAllocator struct {
	mu       sync.Mutex
	buf      []byte
	freeHead uint64
	tag      Tag
	allocs   uint64
	frees    uint64
	liveUsed uint64
}

// NewFreeListAllocator constructs a FreeListAllocator over a freshly
// allocated buffer. size must be at least MinFreeListBlockSize().
func NewFreeListAllocator(size uintptr, tag Tag) *FreeListAllocator {
	if size < MinFreeListBlockSize() {
		size = MinFreeListBlockSize()
	}
	a := &FreeListAllocator{buf: make([]byte, size), tag: tag}
	a.header(0).size = uint64(size)
	a.header(0).next = noOffset
	a.header(0).isFree = true
	a.footer(0, size).size = uint64(size)
	a.footer(0, size).backRef = 0
	a.freeHead = 0
	return a
}

func (a *FreeListAllocator) header(off uint64) *flHeader {
	return (*flHeader)(bufPointer(a.buf, uintptr(off)))
}

func (a *FreeListAllocator) footer(off uint64, blockSize uintptr) *flFooter {
	return (*flFooter)(bufPointer(a.buf, uintptr(off)+blockSize-flFooterSize))
}

func (a *FreeListAllocator) removeFromFreeList(target uint64) {
	cur := a.freeHead
	var prev uint64 = noOffset
	for cur != noOffset {
		if cur == target {
			if prev == noOffset {
				a.freeHead = a.header(cur).next
			} else {
				a.header(prev).next = a.header(cur).next
			}
			return
		}
		prev = cur
		cur = a.header(cur).next
	}
}

func (a *FreeListAllocator) isInFreeList(off uint64) bool {
	cur := a.freeHead
	for cur != noOffset {
		if cur == off {
			return true
		}
		cur = a.header(cur).next
	}
	return false
}

// Allocate implements first-fit with boundary-tag coalescing, following
// LampyEngine's original FreeListAllocator::allocate algorithm exactly:
// an estimated required size (worst-case alignment padding) picks the
// first candidate block, then the real padding is computed against that
// block's data start before committing.
func (a *FreeListAllocator) Allocate(size, alignment uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if !isPowerOfTwo(alignment) {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	maxPadding := alignment - 1
	estimated := flHeaderSize + 1 + maxPadding + size + flFooterSize
	if estimated < MinFreeListBlockSize() {
		estimated = MinFreeListBlockSize()
	}

	cur := a.freeHead
	for cur != noOffset {
		h := a.header(cur)
		if !h.isFree {
			cur = h.next
			continue
		}
		if uint64(estimated) > h.size {
			cur = h.next
			continue
		}

		dataStart := uintptr(cur) + flHeaderSize + 1
		alignedStart := alignUp(dataStart, alignment)
		padding := alignedStart - dataStart
		actual := flHeaderSize + 1 + padding + size + flFooterSize

		if uint64(actual) > h.size {
			cur = h.next
			continue
		}

		a.removeFromFreeList(cur)
		fullSize := h.size
		h.isFree = false
		h.next = noOffset

		remaining := fullSize - uint64(actual)
		if remaining >= uint64(MinFreeListBlockSize()) {
			a.splitBlock(cur, uint64(actual))
		} else {
			actual = uintptr(fullSize)
		}

		f := a.footer(cur, uintptr(a.header(cur).size))
		f.size = a.header(cur).size
		f.backRef = cur

		a.buf[uintptr(cur)+flHeaderSize] = byte(1 + padding)
		a.allocs++
		a.liveUsed += a.header(cur).size

		return bufPointer(a.buf, alignedStart)
	}

	return nil
}

func (a *FreeListAllocator) splitBlock(off uint64, blockSize uint64) {
	h := a.header(off)
	remaining := h.size - blockSize
	h.size = blockSize
	f := a.footer(off, uintptr(blockSize))
	f.size = blockSize
	f.backRef = off

	newOff := off + blockSize
	nh := a.header(newOff)
	nh.size = remaining
	nh.isFree = true
	nh.next = a.freeHead
	a.freeHead = newOff
	nf := a.footer(newOff, uintptr(remaining))
	nf.size = remaining
	nf.backRef = newOff
}

func (a *FreeListAllocator) getNextBlock(off uint64) (uint64, bool) {
	next := off + a.header(off).size
	if next >= uint64(len(a.buf)) {
		return 0, false
	}
	return next, true
}

func (a *FreeListAllocator) getPreviousBlock(off uint64) (uint64, bool) {
	if off == 0 {
		return 0, false
	}
	prevFooter := (*flFooter)(bufPointer(a.buf, uintptr(off)-flFooterSize))
	prevStart := off - prevFooter.size
	return prevStart, true
}

func (a *FreeListAllocator) coalesce(off uint64) uint64 {
	if next, ok := a.getNextBlock(off); ok && a.header(next).isFree {
		a.removeFromFreeList(next)
		h := a.header(off)
		h.size += a.header(next).size
		f := a.footer(off, uintptr(h.size))
		f.size = h.size
		f.backRef = off
	}

	if prev, ok := a.getPreviousBlock(off); ok && a.header(prev).isFree {
		a.removeFromFreeList(prev)
		a.removeFromFreeList(off)
		ph := a.header(prev)
		ph.size += a.header(off).size
		f := a.footer(prev, uintptr(ph.size))
		f.size = ph.size
		f.backRef = prev
		return prev
	}

	return off
}

// findHeader recovers the owning header of ptr by scanning forward from
// the arena base. This is deliberately O(n) rather than reconstructing the
// header from the one-byte padding prefix directly behind ptr; see
// DESIGN.md for the tradeoff this preserves from the original engine.
func (a *FreeListAllocator) findHeader(ptr unsafe.Pointer) (uint64, bool) {
	targetOff, ok := ptrOffset(a.buf, ptr)
	if !ok {
		return 0, false
	}
	target := uint64(targetOff)

	var cur uint64
	for cur < uint64(len(a.buf)) {
		h := a.header(cur)
		blockEnd := cur + h.size
		if target >= cur && target < blockEnd {
			dataStart := cur + uint64(flHeaderSize) + 1
			dataEnd := blockEnd - uint64(flFooterSize)
			if !h.isFree && target >= dataStart && target < dataEnd {
				return cur, true
			}
			return 0, false
		}
		cur = blockEnd
	}
	return 0, false
}

// Deallocate frees a previously allocated pointer, coalescing with
// adjacent free neighbors. Unknown pointers and double-frees are logged
// and ignored by callers that wrap this with a logger; the allocator
// itself simply no-ops.
func (a *FreeListAllocator) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	off, ok := a.findHeader(ptr)
	if !ok {
		return
	}
	h := a.header(off)
	if h.isFree {
		return
	}

	if h.size <= a.liveUsed {
		a.liveUsed -= h.size
	} else {
		a.liveUsed = 0
	}

	h.isFree = true
	final := a.coalesce(off)

	if !a.isInFreeList(final) {
		fh := a.header(final)
		fh.next = a.freeHead
		a.freeHead = final
	}
	a.frees++
}

func (a *FreeListAllocator) Used() uintptr     { return uintptr(a.liveUsed) }
func (a *FreeListAllocator) Capacity() uintptr { return uintptr(len(a.buf)) }
func (a *FreeListAllocator) Tag() Tag          { return a.tag }

func (a *FreeListAllocator) Owns(ptr unsafe.Pointer) bool {
	_, ok := ptrOffset(a.buf, ptr)
	return ok
}

func (a *FreeListAllocator) AllocCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

func (a *FreeListAllocator) FreeCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees
}

// FreeBlockCount walks the free list and reports how many distinct free
// blocks currently exist; used by tests to assert coalescing completeness.
func (a *FreeListAllocator) FreeBlockCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	cur := a.freeHead
	for cur != noOffset {
		n++
		cur = a.header(cur).next
	}
	return n
}
