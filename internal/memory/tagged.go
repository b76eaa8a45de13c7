package memory

import "unsafe"

// TaggedBytes is the Go realization of the original engine's
// ResourceAllocator<T>: rather than an allocator-aware container (Go has
// none), callers that want a manually-managed byte buffer routed through
// the tagged allocator hierarchy use this instead of make([]byte, n).
type TaggedBytes struct {
	system *MemorySystem
	tag    Tag
	ptr    unsafe.Pointer
	data   []byte
}

// Tagged requests an n-byte buffer from system under tag, returning a
// handle whose Bytes() slice is backed by that allocation, so it counts
// against tag's statistics. With a nil system, n <= 0, or a failed
// allocation, the slice comes from the Go heap instead.
func Tagged(system *MemorySystem, tag Tag, n int) *TaggedBytes {
	if system == nil || n <= 0 {
		return &TaggedBytes{tag: tag, data: make([]byte, n)}
	}
	p := system.AllocateMemory(uintptr(n), DefaultAlignment, tag)
	if p == nil {
		return &TaggedBytes{tag: tag, data: make([]byte, n)}
	}
	return &TaggedBytes{
		system: system,
		tag:    tag,
		ptr:    p,
		data:   unsafe.Slice((*byte)(p), n),
	}
}

// Bytes returns the backing slice.
func (b *TaggedBytes) Bytes() []byte { return b.data }

// Release returns the buffer to the owning MemorySystem, if one backs it.
func (b *TaggedBytes) Release() {
	if b.system != nil && b.ptr != nil {
		b.system.DeallocateMemory(b.ptr, b.tag)
		b.ptr = nil
	}
	b.data = nil
}
