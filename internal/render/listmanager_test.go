package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/ecs"
)

func TestListManagerUpsertInsertsThenOverwrites(t *testing.T) {
	l := NewListManager()
	l.Upsert(1, RenderObject{Scale: ecs.Vec3{X: 1}})
	l.Upsert(1, RenderObject{Scale: ecs.Vec3{X: 2}})

	if l.Size() != 1 {
		t.Fatalf("want size 1 after overwrite, got %d", l.Size())
	}
	i, ok := l.GetObjectIndex(1)
	if !ok || l.Objects()[i].Scale.X != 2 {
		t.Fatalf("overwrite did not take effect: %+v", l.Objects())
	}
}

func TestListManagerRemoveObjectReindexesSwappedEntity(t *testing.T) {
	l := NewListManager()
	l.Upsert(1, RenderObject{Scale: ecs.Vec3{X: 1}})
	l.Upsert(2, RenderObject{Scale: ecs.Vec3{X: 2}})
	l.Upsert(3, RenderObject{Scale: ecs.Vec3{X: 3}})

	if !l.RemoveObject(1) {
		t.Fatalf("RemoveObject(1) should report success")
	}
	if l.Size() != 2 {
		t.Fatalf("want size 2 after removal, got %d", l.Size())
	}

	i2, ok := l.GetObjectIndex(2)
	if !ok {
		t.Fatalf("entity 2 should still be tracked")
	}
	i3, ok := l.GetObjectIndex(3)
	if !ok {
		t.Fatalf("entity 3 (swapped into the removed slot) should still be tracked")
	}
	if l.Objects()[i2].Scale.X != 2 || l.Objects()[i3].Scale.X != 3 {
		t.Fatalf("index map out of sync with the compacted array: %+v", l.Objects())
	}
	if _, ok := l.GetObjectIndex(1); ok {
		t.Fatalf("removed entity 1 must no longer resolve")
	}
}

func TestListManagerRemoveLastObjectNeedsNoSwap(t *testing.T) {
	l := NewListManager()
	l.Upsert(1, RenderObject{})
	l.Upsert(2, RenderObject{})

	if !l.RemoveObject(2) {
		t.Fatalf("RemoveObject(2) should report success")
	}
	if l.Size() != 1 {
		t.Fatalf("want size 1, got %d", l.Size())
	}
	if _, ok := l.GetObjectIndex(1); !ok {
		t.Fatalf("entity 1 must remain tracked")
	}
}

func TestListManagerRemoveUnknownReportsFalse(t *testing.T) {
	l := NewListManager()
	if l.RemoveObject(99) {
		t.Fatalf("removing an untracked entity should report false")
	}
}

func TestListManagerApplyRenderDiffUpsertsAndRemoves(t *testing.T) {
	l := NewListManager()
	build := func(s EntityRenderState) RenderObject { return RenderObject{Scale: s.Scale} }

	diff := RenderDiff{
		{Type: DiffAdded, EntityID: 1, NewState: &EntityRenderState{EntityID: 1, IsValid: true, Scale: ecs.Vec3{X: 5}}},
		{Type: DiffAdded, EntityID: 2, NewState: &EntityRenderState{EntityID: 2, IsValid: true, Scale: ecs.Vec3{X: 6}}},
	}
	l.ApplyRenderDiff(diff, build)
	if l.Size() != 2 {
		t.Fatalf("want 2 objects after adds, got %d", l.Size())
	}

	removeDiff := RenderDiff{{Type: DiffRemoved, EntityID: 1}}
	l.ApplyRenderDiff(removeDiff, build)
	if l.Size() != 1 {
		t.Fatalf("want 1 object after remove, got %d", l.Size())
	}
	if _, ok := l.GetObjectIndex(2); !ok {
		t.Fatalf("entity 2 should survive the removal of entity 1")
	}
}
