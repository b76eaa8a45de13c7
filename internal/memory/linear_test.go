package memory

import "testing"

func TestLinearAllocator(t *testing.T) {
	t.Run("BasicAllocation", func(t *testing.T) {
		a := NewLinearAllocator(1024, TagTemp)
		p := a.Allocate(64, 8)
		if p == nil {
			t.Fatal("allocation failed")
		}
		if !a.Owns(p) {
			t.Error("allocator should own its own pointer")
		}
		if a.Used() != 64 {
			t.Errorf("used = %d, want 64", a.Used())
		}
	})

	t.Run("ZeroAllocation", func(t *testing.T) {
		a := NewLinearAllocator(64, TagTemp)
		if a.Allocate(0, 8) != nil {
			t.Error("zero-byte allocation should return nil")
		}
	})

	t.Run("Exhaustion", func(t *testing.T) {
		a := NewLinearAllocator(16, TagTemp)
		if a.Allocate(32, 8) != nil {
			t.Error("over-capacity allocation should return nil")
		}
	})

	t.Run("DeallocateIsNoop", func(t *testing.T) {
		a := NewLinearAllocator(64, TagTemp)
		p := a.Allocate(32, 8)
		a.Deallocate(p)
		if a.Used() != 32 {
			t.Errorf("used = %d, want 32 (deallocate must not free)", a.Used())
		}
	})

	t.Run("ResetReclaimsEverything", func(t *testing.T) {
		a := NewLinearAllocator(128, TagTemp)
		a.Allocate(64, 8)
		a.Reset()
		if a.Used() != 0 {
			t.Errorf("used after reset = %d, want 0", a.Used())
		}
	})

	t.Run("AlignmentHonored", func(t *testing.T) {
		a := NewLinearAllocator(256, TagTemp)
		a.Allocate(1, 1)
		p := a.Allocate(32, 16)
		if uintptr(p)%16 != 0 {
			t.Error("returned pointer is not 16-byte aligned")
		}
	})
}
