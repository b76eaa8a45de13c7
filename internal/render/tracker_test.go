package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/ecs"
)

func addValidEntity(t *EntityTracker, id ecs.EntityID) {
	t.OnComponentEvent(ecs.ComponentEvent{
		Entity: id, Kind: ecs.EventSet, Component: ecs.ComponentTransform,
		Transform: &ecs.TransformComponent{Scale: ecs.Vec3{X: 1, Y: 1, Z: 1}},
	})
	t.OnComponentEvent(ecs.ComponentEvent{
		Entity: id, Kind: ecs.EventSet, Component: ecs.ComponentMesh,
		Mesh: &ecs.MeshComponent{MeshID: [16]byte{1}},
	})
}

func TestEntityTrackerEmitsAddedOnceBothComponentsPresent(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)

	diff := tr.ConsumeDiff()
	if len(diff) != 1 || diff[0].Type != DiffAdded {
		t.Fatalf("want single Added entry, got %+v", diff)
	}
	if diff[0].NewState == nil || !diff[0].NewState.IsValid {
		t.Fatalf("Added entry must carry a valid state")
	}
}

func TestEntityTrackerCoalescesUpdatedWithinSameFrame(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)
	tr.OnComponentEvent(ecs.ComponentEvent{
		Entity: 1, Kind: ecs.EventSet, Component: ecs.ComponentTransform,
		Transform: &ecs.TransformComponent{Scale: ecs.Vec3{X: 2, Y: 2, Z: 2}},
	})

	diff := tr.ConsumeDiff()
	if len(diff) != 1 || diff[0].Type != DiffAdded {
		t.Fatalf("a same-frame update after Added should coalesce, not append; got %+v", diff)
	}
	if diff[0].NewState.Scale.X != 2 {
		t.Fatalf("coalesced entry should carry the latest state, got scale %v", diff[0].NewState.Scale)
	}
}

func TestEntityTrackerRemovedSupersedesPriorEntriesSameFrame(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)
	tr.OnComponentEvent(ecs.ComponentEvent{Entity: 1, Kind: ecs.EventRemove, Component: ecs.ComponentMesh})

	diff := tr.ConsumeDiff()
	if len(diff) != 1 || diff[0].Type != DiffRemoved {
		t.Fatalf("Removed must supersede the Added recorded earlier this frame, got %+v", diff)
	}
}

func TestEntityTrackerDestroyedAcrossFramesProducesRemoved(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)
	tr.ConsumeDiff() // Added consumed in a prior frame

	tr.OnComponentEvent(ecs.ComponentEvent{Entity: 1, Kind: ecs.EventRemove, Component: ecs.ComponentMesh})

	diff := tr.ConsumeDiff()
	if len(diff) != 1 || diff[0].Type != DiffRemoved {
		t.Fatalf("want Removed after destruction in a later frame, got %+v", diff)
	}
}

func TestEntityTrackerConsumeDiffResetsBuffer(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)
	first := tr.ConsumeDiff()
	second := tr.ConsumeDiff()
	if len(first) != 1 {
		t.Fatalf("expected one entry in first consume, got %d", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("second consume with no new events should be empty, got %+v", second)
	}
}

func TestEntityTrackerValidStatesSnapshotsCurrentlyValidEntities(t *testing.T) {
	tr := NewEntityTracker()
	addValidEntity(tr, 1)
	addValidEntity(tr, 2)
	tr.OnComponentEvent(ecs.ComponentEvent{Entity: 2, Kind: ecs.EventRemove, Component: ecs.ComponentMesh})

	states := tr.ValidStates()
	if len(states) != 1 || states[0].EntityID != 1 {
		t.Fatalf("want only entity 1 valid, got %+v", states)
	}
}
