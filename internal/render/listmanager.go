package render

import "github.com/lampy-engine/lampy/internal/ecs"

// ListManager holds the flat, contiguous array of RenderObjects the
// graph's passes iterate every frame, plus the entityID -> index map
// that keeps lookups O(1) despite the array being kept compact.
type ListManager struct {
	objects []RenderObject
	index   map[ecs.EntityID]int
	order   []ecs.EntityID // order[i] is the entity owning objects[i]
}

// NewListManager returns an empty list.
func NewListManager() *ListManager {
	return &ListManager{index: make(map[ecs.EntityID]int)}
}

// Objects returns the current flat array. The slice is only valid until
// the next Upsert/Remove call.
func (l *ListManager) Objects() []RenderObject { return l.objects }

// Size returns the number of tracked objects.
func (l *ListManager) Size() int { return len(l.objects) }

// GetObjectIndex is an O(1) lookup of id's slot in Objects().
func (l *ListManager) GetObjectIndex(id ecs.EntityID) (int, bool) {
	i, ok := l.index[id]
	return i, ok
}

// Upsert inserts id's object if new, or overwrites it in place if
// already tracked.
func (l *ListManager) Upsert(id ecs.EntityID, obj RenderObject) {
	if i, ok := l.index[id]; ok {
		l.objects[i] = obj
		return
	}
	l.index[id] = len(l.objects)
	l.objects = append(l.objects, obj)
	l.order = append(l.order, id)
}

// RemoveObject is O(n): swap the removed slot with the last live slot (or
// shift, if already last) and fix up the moved entity's index so the
// array stays contiguous and GetObjectIndex stays correct for everyone
// else.
func (l *ListManager) RemoveObject(id ecs.EntityID) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	last := len(l.objects) - 1
	if i != last {
		l.objects[i] = l.objects[last]
		l.order[i] = l.order[last]
		l.index[l.order[i]] = i
	}
	l.objects = l.objects[:last]
	l.order = l.order[:last]
	delete(l.index, id)
	return true
}

// ApplyRenderDiff folds one frame's RenderDiff into the list, in order.
// Added/Updated entries upsert; Removed entries remove. Callers should
// immediately re-derive scene objects from l.Objects() afterward.
func (l *ListManager) ApplyRenderDiff(diff RenderDiff, build func(EntityRenderState) RenderObject) {
	for _, entry := range diff {
		switch entry.Type {
		case DiffAdded, DiffUpdated:
			if entry.NewState == nil || !entry.NewState.IsValid {
				continue
			}
			l.Upsert(entry.EntityID, build(*entry.NewState))
		case DiffRemoved:
			l.RemoveObject(entry.EntityID)
		}
	}
}
