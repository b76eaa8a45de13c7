package memory

import "unsafe"

// PoolAllocator hands out fixed-size blocks from a fixed byte buffer. Free
// blocks form an intrusive singly-linked list threaded through the block
// memory itself (the first pointerSize bytes of a free block store the
// offset of the next free block, or noFreeBlock).
type PoolAllocator struct {
	buf       []byte
	blockSize uintptr
	blockCap  int
	freeHead  uintptr // offset of first free block, or noFreeBlock
	tag       Tag
	allocs    uint64
	frees     uint64
	live      uint64
}

const noFreeBlock = ^uintptr(0)

var pointerSize = unsafe.Sizeof(uintptr(0))

// NewPoolAllocator constructs a pool of blockCount blocks of blockSize bytes
// each. blockSize must be at least the size of a pointer; if it is not, it
// is rounded up so the free list can always be threaded through free
// blocks.
func NewPoolAllocator(blockSize uintptr, blockCount int, tag Tag) *PoolAllocator {
	if blockSize < pointerSize {
		blockSize = pointerSize
	}
	if blockCount < 0 {
		blockCount = 0
	}

	p := &PoolAllocator{
		buf:       make([]byte, blockSize*uintptr(blockCount)),
		blockSize: blockSize,
		blockCap:  blockCount,
		tag:       tag,
	}
	p.rebuildFreeList()
	return p
}

func (p *PoolAllocator) rebuildFreeList() {
	if p.blockCap == 0 {
		p.freeHead = noFreeBlock
		return
	}
	for i := 0; i < p.blockCap; i++ {
		off := uintptr(i) * p.blockSize
		next := noFreeBlock
		if i+1 < p.blockCap {
			next = uintptr(i+1) * p.blockSize
		}
		p.writeNext(off, next)
	}
	p.freeHead = 0
}

func (p *PoolAllocator) writeNext(blockOff, next uintptr) {
	dst := (*uintptr)(bufPointer(p.buf, blockOff))
	*dst = next
}

func (p *PoolAllocator) readNext(blockOff uintptr) uintptr {
	src := (*uintptr)(bufPointer(p.buf, blockOff))
	return *src
}

// Allocate returns one block. size must not exceed the configured block
// size; alignment is honored only if the block size already satisfies it
// (the pool does not sub-allocate), matching the spec's "allocations of
// size > block-size fail" contract.
func (p *PoolAllocator) Allocate(size, alignment uintptr) unsafe.Pointer {
	if size == 0 || size > p.blockSize {
		return nil
	}
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if p.freeHead == noFreeBlock {
		return nil
	}

	off := p.freeHead
	p.freeHead = p.readNext(off)
	p.allocs++
	p.live++
	return bufPointer(p.buf, off)
}

// Deallocate returns a block to the free list. Pointers not owned by this
// pool, or not aligned to a block boundary, are ignored.
func (p *PoolAllocator) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	off, ok := ptrOffset(p.buf, ptr)
	if !ok || off%p.blockSize != 0 {
		return
	}
	p.writeNext(off, p.freeHead)
	p.freeHead = off
	p.frees++
	if p.live > 0 {
		p.live--
	}
}

func (p *PoolAllocator) Used() uintptr     { return uintptr(p.live) * p.blockSize }
func (p *PoolAllocator) Capacity() uintptr { return uintptr(len(p.buf)) }
func (p *PoolAllocator) Tag() Tag          { return p.tag }

// Owns reports pointer-in-range and block-aligned offset, per spec.
func (p *PoolAllocator) Owns(ptr unsafe.Pointer) bool {
	off, ok := ptrOffset(p.buf, ptr)
	return ok && off%p.blockSize == 0
}

// Reset returns every block to the free list, invalidating all live
// pointers.
func (p *PoolAllocator) Reset() {
	p.rebuildFreeList()
	p.live = 0
}

func (p *PoolAllocator) BlockSize() uintptr { return p.blockSize }
func (p *PoolAllocator) BlockCount() int    { return p.blockCap }
func (p *PoolAllocator) AllocCount() uint64 { return p.allocs }
func (p *PoolAllocator) FreeCount() uint64  { return p.frees }
