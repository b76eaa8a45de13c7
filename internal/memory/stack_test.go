package memory

import "testing"

func TestStackAllocator(t *testing.T) {
	t.Run("BasicAllocation", func(t *testing.T) {
		a := NewStackAllocator(256, TagTemp)
		p := a.Allocate(32, 8)
		if p == nil {
			t.Fatal("allocation failed")
		}
		if !a.Owns(p) {
			t.Error("allocator should own its own pointer")
		}
	})

	t.Run("MarkerRollback", func(t *testing.T) {
		a := NewStackAllocator(256, TagTemp)
		a.Allocate(32, 8)
		marker := a.GetMarker()
		a.Allocate(64, 8)
		a.Allocate(16, 8)

		usedBefore := a.Used()
		a.RollbackToMarker(marker)
		if a.Used() != uintptr(marker) {
			t.Errorf("used after rollback = %d, want %d (was %d)", a.Used(), marker, usedBefore)
		}
	})

	t.Run("RollbackBeyondTopIgnored", func(t *testing.T) {
		a := NewStackAllocator(256, TagTemp)
		a.Allocate(32, 8)
		before := a.Used()
		a.RollbackToMarker(Marker(before + 1000))
		if a.Used() != before {
			t.Error("rollback to an invalid marker must be ignored")
		}
	})

	t.Run("Exhaustion", func(t *testing.T) {
		a := NewStackAllocator(8, TagTemp)
		if a.Allocate(64, 8) != nil {
			t.Error("over-capacity allocation should return nil")
		}
	})
}
