package render

import (
	"sync"

	"github.com/lampy-engine/lampy/internal/ecs"
)

// EntityTracker hooks the ECS's component lifecycle events for
// TransformComponent, MeshComponent, and MaterialComponent, and
// accumulates a RenderDiff buffer that the renderer consumes exactly
// once per frame via ConsumeDiff.
//
// It implements ecs.Observer, so it can be registered directly against
// whatever ECS world a game embeds; events may arrive from any thread,
// so every mutation is guarded by mu.
type EntityTracker struct {
	mu sync.Mutex

	states map[ecs.EntityID]*pendingEntity
	diff   []DiffEntry
	// seenInDiff records, per entity, which DiffType already appears in
	// the current diff buffer — enforces "at most one Added, one
	// Updated, one Removed per entity per frame; Removed supersedes".
	seenInDiff map[ecs.EntityID]map[DiffType]bool
}

type pendingEntity struct {
	hasTransform bool
	transform    ecs.TransformComponent
	hasMesh      bool
	mesh         ecs.MeshComponent
	material     ecs.MaterialComponent
	wasValid     bool
}

// NewEntityTracker returns an empty tracker.
func NewEntityTracker() *EntityTracker {
	return &EntityTracker{
		states:     make(map[ecs.EntityID]*pendingEntity),
		seenInDiff: make(map[ecs.EntityID]map[DiffType]bool),
	}
}

// OnComponentEvent implements ecs.Observer.
func (t *EntityTracker) OnComponentEvent(ev ecs.ComponentEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.states[ev.Entity]
	if !ok {
		p = &pendingEntity{}
		t.states[ev.Entity] = p
	}

	switch ev.Component {
	case ecs.ComponentTransform:
		if ev.Kind == ecs.EventRemove {
			p.hasTransform = false
		} else if ev.Transform != nil {
			p.hasTransform = true
			p.transform = *ev.Transform
		}
	case ecs.ComponentMesh:
		if ev.Kind == ecs.EventRemove {
			p.hasMesh = false
		} else if ev.Mesh != nil {
			p.hasMesh = true
			p.mesh = *ev.Mesh
		}
	case ecs.ComponentMaterial:
		if ev.Kind == ecs.EventRemove {
			p.material = ecs.MaterialComponent{}
		} else if ev.Material != nil {
			p.material = *ev.Material
		}
	}

	nowValid := p.hasTransform && p.hasMesh
	entityDestroyed := ev.Kind == ecs.EventRemove && ev.Component == ecs.ComponentMesh && !p.hasTransform && !p.hasMesh

	switch {
	case nowValid && !p.wasValid:
		t.record(ev.Entity, DiffAdded, t.snapshot(ev.Entity, p))
	case !nowValid && p.wasValid:
		t.record(ev.Entity, DiffRemoved, nil)
	case nowValid && p.wasValid:
		t.record(ev.Entity, DiffUpdated, t.snapshot(ev.Entity, p))
	case entityDestroyed:
		// Never was valid, so no Added/Updated preceded this: still
		// worth recording nothing, since listManager never saw it.
	}
	p.wasValid = nowValid
}

func (t *EntityTracker) snapshot(id ecs.EntityID, p *pendingEntity) *EntityRenderState {
	return &EntityRenderState{
		EntityID: id,
		IsValid:  true,
		Position: p.transform.Position,
		Rotation: p.transform.Rotation,
		EulerDeg: p.transform.EulerDeg,
		Scale:    p.transform.Scale,
		Mesh: MeshIdentity{
			MeshID:     p.mesh.MeshID,
			VertShader: p.mesh.VertShader,
			FragShader: p.mesh.FragShader,
			TextureID:  p.mesh.TextureID,
		},
		Material: p.material,
	}
}

// record enforces the one-Added/one-Updated/one-Removed-per-entity
// invariant: a Removed supersedes any prior entry for the same entity in
// this frame's buffer; a later Updated coalesces into the still-pending
// Added rather than appending a second entry.
func (t *EntityTracker) record(id ecs.EntityID, kind DiffType, state *EntityRenderState) {
	seen := t.seenInDiff[id]
	if seen == nil {
		seen = make(map[DiffType]bool)
		t.seenInDiff[id] = seen
	}

	if seen[DiffRemoved] {
		return // Removed already recorded this frame; it supersedes everything else.
	}

	if kind == DiffRemoved {
		// Drop any prior Added/Updated for this entity this frame and
		// replace them with the single Removed record.
		filtered := t.diff[:0]
		for _, e := range t.diff {
			if e.EntityID != id {
				filtered = append(filtered, e)
			}
		}
		t.diff = filtered
		t.diff = append(t.diff, DiffEntry{Type: DiffRemoved, EntityID: id})
		seen[DiffRemoved] = true
		return
	}

	if kind == DiffUpdated && seen[DiffAdded] {
		// Still within the same Added entry this frame: overwrite its
		// state in place rather than also emitting an Updated.
		for i := range t.diff {
			if t.diff[i].EntityID == id && t.diff[i].Type == DiffAdded {
				t.diff[i].NewState = state
				return
			}
		}
	}
	if kind == DiffUpdated && seen[DiffUpdated] {
		for i := range t.diff {
			if t.diff[i].EntityID == id && t.diff[i].Type == DiffUpdated {
				t.diff[i].NewState = state
				return
			}
		}
	}

	t.diff = append(t.diff, DiffEntry{Type: kind, EntityID: id, NewState: state})
	seen[kind] = true
}

// ConsumeDiff moves the accumulated buffer out and clears it: the sole
// transfer point from whatever thread the ECS raises events on to the
// render thread.
func (t *EntityTracker) ConsumeDiff() RenderDiff {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.diff
	t.diff = nil
	t.seenInDiff = make(map[ecs.EntityID]map[DiffType]bool)
	return out
}

// ValidStates returns a snapshot of every currently-valid entity's
// render state, used for a full rebuild (cold start, or when the
// renderer decides the diff history is unreliable).
func (t *EntityTracker) ValidStates() []EntityRenderState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EntityRenderState, 0, len(t.states))
	for id, p := range t.states {
		if p.wasValid {
			out = append(out, *t.snapshot(id, p))
		}
	}
	return out
}
