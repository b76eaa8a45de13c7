package memory

import (
	"fmt"
	"log"
	"sync"
	"unsafe"
)

const (
	DefaultFrameBytes      = 2 * 1024 * 1024
	DefaultPersistentBytes = 64 * 1024 * 1024
)

// AllocatorEntry records one allocator the MemorySystem created and owns,
// so Shutdown can report leaks and drop every registered arena together.
type AllocatorEntry struct {
	Name  string
	Alloc Allocator
}

type ptrRecord struct {
	tag  Tag
	size uintptr
}

// MemorySystem is the process-wide owner of the frame and persistent
// arenas, and a factory for secondary allocators whose backing buffers it
// keeps alive until Shutdown. It is constructed explicitly by the engine
// handle rather than reached for as a package-level singleton, per the
// redesign notes: callers that need one thread it through their own
// constructors.
type MemorySystem struct {
	mu         sync.Mutex
	logger     *log.Logger
	frame      *LinearAllocator
	persistent *FreeListAllocator
	registry   []AllocatorEntry
	stats      [tagCount]TagStats
	byPointer  map[unsafe.Pointer]ptrRecord
	startedUp  bool
}

// NewMemorySystem constructs an idle MemorySystem. Call Startup before use.
func NewMemorySystem(logger *log.Logger) *MemorySystem {
	if logger == nil {
		logger = log.Default()
	}
	return &MemorySystem{
		logger:    logger,
		byPointer: make(map[unsafe.Pointer]ptrRecord),
	}
}

// Startup allocates the frame and persistent arenas. It must be called
// exactly once before any other MemorySystem operation.
func (m *MemorySystem) Startup(frameBytes, persistentBytes uintptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startedUp {
		return fmt.Errorf("memory: MemorySystem already started")
	}
	if frameBytes == 0 {
		frameBytes = DefaultFrameBytes
	}
	if persistentBytes == 0 {
		persistentBytes = DefaultPersistentBytes
	}
	persistentBytes = alignUp(persistentBytes, osPageSize())

	m.frame = NewLinearAllocator(frameBytes, TagTemp)
	m.persistent = NewFreeListAllocator(persistentBytes, TagUnknown)
	m.registry = append(m.registry,
		AllocatorEntry{Name: "frame", Alloc: m.frame},
		AllocatorEntry{Name: "persistent", Alloc: m.persistent},
	)
	m.startedUp = true
	return nil
}

func (m *MemorySystem) FrameAllocator() *LinearAllocator      { return m.frame }
func (m *MemorySystem) PersistentAllocator() *FreeListAllocator { return m.persistent }

// CreateLinearAllocator allocates an owned buffer, constructs a
// LinearAllocator over it, registers it, and returns a borrow. The caller
// must not use the returned allocator past Shutdown.
func (m *MemorySystem) CreateLinearAllocator(name string, size uintptr, tag Tag) *LinearAllocator {
	a := NewLinearAllocator(size, tag)
	m.register(name, a)
	return a
}

func (m *MemorySystem) CreateStackAllocator(name string, size uintptr, tag Tag) *StackAllocator {
	a := NewStackAllocator(size, tag)
	m.register(name, a)
	return a
}

func (m *MemorySystem) CreatePoolAllocator(name string, blockSize uintptr, blockCount int, tag Tag) *PoolAllocator {
	a := NewPoolAllocator(blockSize, blockCount, tag)
	m.register(name, a)
	return a
}

func (m *MemorySystem) CreateFreeListAllocator(name string, size uintptr, tag Tag) *FreeListAllocator {
	a := NewFreeListAllocator(size, tag)
	m.register(name, a)
	return a
}

func (m *MemorySystem) register(name string, a Allocator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry = append(m.registry, AllocatorEntry{Name: name, Alloc: a})
}

// ResetFrameAllocator resets the frame allocator and records the reclaimed
// bytes as a single bulk deallocation against the Temp tag's statistics.
func (m *MemorySystem) ResetFrameAllocator() {
	if m.frame == nil {
		return
	}
	reclaimed := uint64(m.frame.Used())
	m.frame.Reset()

	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.stats[TagTemp]
	if st.Allocated >= reclaimed {
		st.Allocated -= reclaimed
	} else {
		st.Allocated = 0
	}
	st.DeallocCount++
}

// AllocateMemory routes a tagged allocation request: Temp requests try the
// frame allocator first and fall back to the persistent allocator on
// exhaustion; every other tag goes straight to the persistent allocator.
func (m *MemorySystem) AllocateMemory(size, alignment uintptr, tag Tag) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	var p unsafe.Pointer
	if tag == TagTemp && m.frame != nil {
		p = m.frame.Allocate(size, alignment)
	}
	if p == nil && m.persistent != nil {
		p = m.persistent.Allocate(size, alignment)
	}
	if p == nil {
		m.bumpFailedAlloc(tag)
		return nil
	}

	m.mu.Lock()
	m.byPointer[p] = ptrRecord{tag: tag, size: size}
	st := &m.stats[tag]
	st.Allocated += uint64(size)
	st.AllocCount++
	if st.Allocated > st.Peak {
		st.Peak = st.Allocated
	}
	m.mu.Unlock()

	return p
}

func (m *MemorySystem) bumpFailedAlloc(tag Tag) {
	logWarn(m.logger, "memory: allocation exhausted for tag %s", tag)
}

// DeallocateMemory releases a pointer previously returned by
// AllocateMemory. Unknown pointers are logged and ignored.
func (m *MemorySystem) DeallocateMemory(p unsafe.Pointer, tag Tag) {
	if p == nil {
		return
	}

	m.mu.Lock()
	rec, known := m.byPointer[p]
	if known {
		delete(m.byPointer, p)
	}
	m.mu.Unlock()

	if !known {
		logWarn(m.logger, "memory: deallocate of untracked pointer under tag %s", tag)
		return
	}

	if m.frame != nil && m.frame.Owns(p) {
		m.frame.Deallocate(p)
	} else if m.persistent != nil {
		m.persistent.Deallocate(p)
	}

	m.mu.Lock()
	st := &m.stats[rec.tag]
	if st.Allocated >= uint64(rec.size) {
		st.Allocated -= uint64(rec.size)
	} else {
		st.Allocated = 0
	}
	st.DeallocCount++
	m.mu.Unlock()
}

// GetStatistics returns a snapshot of every tag's counters.
func (m *MemorySystem) GetStatistics() []TagStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TagStats, 0, tagCount)
	for t := Tag(0); t < tagCount; t++ {
		s := m.stats[t]
		s.Tag = t
		out = append(out, s)
	}
	return out
}

// GetStatisticsForTag returns a snapshot of just one tag's counters.
func (m *MemorySystem) GetStatisticsForTag(tag Tag) TagStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats[tag]
	s.Tag = tag
	return s
}

// Shutdown logs a leak warning for any tag with non-zero residual
// allocation, then drops every registered allocator and its buffer.
func (m *MemorySystem) Shutdown() {
	m.mu.Lock()
	leaked := make([]TagStats, 0)
	for t := Tag(0); t < tagCount; t++ {
		if m.stats[t].Allocated != 0 {
			s := m.stats[t]
			s.Tag = t
			leaked = append(leaked, s)
		}
	}
	m.registry = nil
	m.byPointer = make(map[unsafe.Pointer]ptrRecord)
	m.frame = nil
	m.persistent = nil
	m.startedUp = false
	m.mu.Unlock()

	for _, s := range leaked {
		logWarn(m.logger, "memory: leak detected for tag %s: %d bytes across %d allocations",
			s.Tag, s.Allocated, s.AllocCount-s.DeallocCount)
	}
}
