package memory

import "testing"

func TestFreeListAllocator(t *testing.T) {
	t.Run("Fragmentation", func(t *testing.T) {
		a := NewFreeListAllocator(1024, TagUnknown)

		allocA := a.Allocate(100, 8)
		allocB := a.Allocate(100, 8)
		allocC := a.Allocate(100, 8)
		if allocA == nil || allocB == nil || allocC == nil {
			t.Fatal("initial allocations failed")
		}

		a.Deallocate(allocB)
		if a.FreeBlockCount() == 0 {
			t.Fatal("expected at least one free block after deallocating B")
		}

		allocD := a.Allocate(80, 8)
		if allocD == nil {
			t.Fatal("first-fit allocation of D failed")
		}
		if allocD != allocB {
			t.Errorf("D should reuse B's slot under first-fit, got different address")
		}
	})

	t.Run("NoAdjacentFreeBlocks", func(t *testing.T) {
		a := NewFreeListAllocator(2048, TagUnknown)

		p1 := a.Allocate(64, 8)
		p2 := a.Allocate(64, 8)
		p3 := a.Allocate(64, 8)
		p4 := a.Allocate(64, 8)

		a.Deallocate(p2)
		a.Deallocate(p3)
		a.Deallocate(p1)
		a.Deallocate(p4)

		if a.FreeBlockCount() != 1 {
			t.Errorf("expected full coalescing into one free block, got %d", a.FreeBlockCount())
		}
	})

	t.Run("ZeroByteAllocationReturnsNil", func(t *testing.T) {
		a := NewFreeListAllocator(1024, TagUnknown)
		if a.Allocate(0, 8) != nil {
			t.Error("zero-byte allocation must return nil")
		}
	})

	t.Run("DoubleFreeIgnored", func(t *testing.T) {
		a := NewFreeListAllocator(1024, TagUnknown)
		p := a.Allocate(64, 8)
		a.Deallocate(p)
		before := a.FreeBlockCount()
		a.Deallocate(p)
		if a.FreeBlockCount() != before {
			t.Error("double free must not mutate the free list")
		}
	})

	t.Run("DeallocateNilIsNoop", func(t *testing.T) {
		a := NewFreeListAllocator(1024, TagUnknown)
		a.Deallocate(nil)
	})

	t.Run("UsedNeverIncreasesAfterDeallocate", func(t *testing.T) {
		a := NewFreeListAllocator(4096, TagUnknown)
		p1 := a.Allocate(200, 8)
		p2 := a.Allocate(200, 8)
		before := a.Used()
		a.Deallocate(p1)
		if a.Used() > before {
			t.Error("Used() must not increase after a deallocate")
		}
		_ = p2
	})

	t.Run("OwnershipRejectsForeignPointer", func(t *testing.T) {
		a := NewFreeListAllocator(1024, TagUnknown)
		other := NewFreeListAllocator(1024, TagUnknown)
		p := other.Allocate(64, 8)
		if a.Owns(p) {
			t.Error("allocator must not claim ownership of a foreign pointer")
		}
	})
}
