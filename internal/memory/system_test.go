package memory

import "testing"

func TestMemorySystemLifecycle(t *testing.T) {
	m := NewMemorySystem(nil)
	if err := m.Startup(4096, 65536); err != nil {
		t.Fatalf("startup failed: %v", err)
	}
	defer m.Shutdown()

	t.Run("TempRoutesToFrame", func(t *testing.T) {
		p := m.AllocateMemory(64, 8, TagTemp)
		if p == nil {
			t.Fatal("allocation failed")
		}
		if !m.FrameAllocator().Owns(p) {
			t.Error("Temp-tagged allocation should land in the frame allocator")
		}
		m.DeallocateMemory(p, TagTemp)
	})

	t.Run("OtherTagsRouteToPersistent", func(t *testing.T) {
		p := m.AllocateMemory(64, 8, TagRender)
		if p == nil {
			t.Fatal("allocation failed")
		}
		if !m.PersistentAllocator().Owns(p) {
			t.Error("non-Temp allocation should land in the persistent allocator")
		}
		m.DeallocateMemory(p, TagRender)
	})

	t.Run("ResetFrameAllocatorZeroesUsage", func(t *testing.T) {
		m.AllocateMemory(128, 8, TagTemp)
		m.ResetFrameAllocator()
		if m.FrameAllocator().Used() != 0 {
			t.Errorf("frame allocator used = %d, want 0 after reset", m.FrameAllocator().Used())
		}
	})

	t.Run("StatisticsTrackAllocations", func(t *testing.T) {
		before := m.GetStatisticsForTag(TagECS)
		p := m.AllocateMemory(256, 8, TagECS)
		after := m.GetStatisticsForTag(TagECS)
		if after.AllocCount != before.AllocCount+1 {
			t.Error("alloc count should increase by one")
		}
		if after.Allocated != before.Allocated+256 {
			t.Error("allocated bytes should increase by the requested size")
		}
		m.DeallocateMemory(p, TagECS)
	})
}

func TestMemorySystemStartupOnce(t *testing.T) {
	m := NewMemorySystem(nil)
	if err := m.Startup(0, 0); err != nil {
		t.Fatalf("first startup failed: %v", err)
	}
	if err := m.Startup(0, 0); err == nil {
		t.Error("second startup should fail")
	}
	m.Shutdown()
}
