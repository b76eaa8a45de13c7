package ecs

import "sync"

// FakeWorld is a minimal in-memory ECS store used to exercise the render
// core's observer and query consumers without pulling in a real
// third-party ECS. It is not part of the production path.
type FakeWorld struct {
	mu         sync.Mutex
	transforms map[EntityID]TransformComponent
	meshes     map[EntityID]MeshComponent
	materials  map[EntityID]MaterialComponent
	observers  []Observer
}

// NewFakeWorld returns an empty world.
func NewFakeWorld() *FakeWorld {
	return &FakeWorld{
		transforms: make(map[EntityID]TransformComponent),
		meshes:     make(map[EntityID]MeshComponent),
		materials:  make(map[EntityID]MaterialComponent),
	}
}

// Subscribe registers o to receive every subsequent component event.
func (w *FakeWorld) Subscribe(o Observer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, o)
}

func (w *FakeWorld) notify(ev ComponentEvent) {
	for _, o := range w.observers {
		o.OnComponentEvent(ev)
	}
}

// SetTransform upserts e's transform and fires Add on first write, Update
// thereafter.
func (w *FakeWorld) SetTransform(e EntityID, t TransformComponent) {
	w.mu.Lock()
	_, existed := w.transforms[e]
	w.transforms[e] = t
	w.mu.Unlock()

	kind := EventAdd
	if existed {
		kind = EventUpdate
	}
	w.notify(ComponentEvent{Entity: e, Kind: kind, Component: ComponentTransform, Transform: &t})
}

// SetMesh upserts e's mesh identity triplet.
func (w *FakeWorld) SetMesh(e EntityID, m MeshComponent) {
	w.mu.Lock()
	_, existed := w.meshes[e]
	w.meshes[e] = m
	w.mu.Unlock()

	kind := EventAdd
	if existed {
		kind = EventUpdate
	}
	w.notify(ComponentEvent{Entity: e, Kind: kind, Component: ComponentMesh, Mesh: &m})
}

// SetMaterial upserts e's material.
func (w *FakeWorld) SetMaterial(e EntityID, m MaterialComponent) {
	w.mu.Lock()
	_, existed := w.materials[e]
	w.materials[e] = m
	w.mu.Unlock()

	kind := EventAdd
	if existed {
		kind = EventUpdate
	}
	w.notify(ComponentEvent{Entity: e, Kind: kind, Component: ComponentMaterial, Material: &m})
}

// RemoveMesh deletes e's mesh component, firing EventRemove.
func (w *FakeWorld) RemoveMesh(e EntityID) {
	w.mu.Lock()
	delete(w.meshes, e)
	w.mu.Unlock()
	w.notify(ComponentEvent{Entity: e, Kind: EventRemove, Component: ComponentMesh})
}

// DestroyEntity removes every component for e, firing EventRemove for the
// mesh component (the render tracker's removal trigger).
func (w *FakeWorld) DestroyEntity(e EntityID) {
	w.mu.Lock()
	delete(w.transforms, e)
	delete(w.meshes, e)
	delete(w.materials, e)
	w.mu.Unlock()
	w.notify(ComponentEvent{Entity: e, Kind: EventRemove, Component: ComponentMesh})
}

func (w *FakeWorld) Transform(e EntityID) (TransformComponent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.transforms[e]
	return t, ok
}

func (w *FakeWorld) Mesh(e EntityID) (MeshComponent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.meshes[e]
	return m, ok
}

func (w *FakeWorld) Material(e EntityID) (MaterialComponent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.materials[e]
	return m, ok
}
